package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eringen/toolmeta/registry"
)

func newValidateCmd(src *sourceFlags) *cobra.Command {
	var (
		failOnError = true
		noColor     bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the registry and print human-readable issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := src.load()
			if err != nil {
				return err
			}
			issues := reg.Validate()

			errColor := color.New(color.FgRed, color.Bold)
			warnColor := color.New(color.FgYellow)
			okColor := color.New(color.FgGreen, color.Bold)
			if noColor {
				errColor.DisableColor()
				warnColor.DisableColor()
				okColor.DisableColor()
			}

			out := cmd.OutOrStdout()
			for _, i := range issues {
				switch i.Severity {
				case registry.SeverityError:
					errColor.Fprintln(out, "✗ "+i.String())
				default:
					warnColor.Fprintln(out, "! "+i.String())
				}
			}

			errs, warnings := registry.Count(issues)
			summary := fmt.Sprintf("%d tools, %d locales, %d errors, %d warnings",
				reg.Len(), reg.Table().Len(), errs, warnings)
			if errs > 0 {
				errColor.Fprintln(out, summary)
			} else {
				okColor.Fprintln(out, "✓ "+summary)
			}

			if failOnError && errs > 0 {
				return errIssues
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", true, "exit 1 when any error-severity issue exists")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	return cmd
}
