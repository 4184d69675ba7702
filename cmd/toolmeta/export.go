package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/toolmeta/registry"
)

func newExportCmd(src *sourceFlags) *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loaded registry to a SQLite snapshot or a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			if format == "" {
				format = "sqlite"
				if ext := strings.ToLower(filepath.Ext(out)); ext == ".yaml" || ext == ".yml" {
					format = "yaml"
				}
			}
			reg, err := src.load()
			if err != nil {
				return err
			}

			switch format {
			case "sqlite":
				store, err := registry.NewStore(out)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.Save(reg); err != nil {
					return err
				}
			case "yaml":
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %q: %w", out, err)
				}
				if err := registry.Encode(f, reg); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want sqlite or yaml)", format)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d tools to %s (%s)\n", reg.Len(), out, format)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "destination file")
	cmd.Flags().StringVar(&format, "format", "", "sqlite or yaml (default: from the file extension)")
	return cmd
}
