package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/eringen/toolmeta/registry"
)

func newInventoryCmd(src *sourceFlags) *cobra.Command {
	failOnError := true
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Print the registry inventory as JSON: {count, entries, issues}",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := src.load()
			if err != nil {
				return err
			}
			report := reg.Inventory()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if failOnError && registry.HasErrors(report.Issues) {
				return errIssues
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", true, "exit 1 when any error-severity issue exists")
	return cmd
}
