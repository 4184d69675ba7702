package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eringen/toolmeta"
	"github.com/eringen/toolmeta/metadata"
	"github.com/eringen/toolmeta/registry"
)

func newResolveCmd(src *sourceFlags) *cobra.Command {
	var (
		opts       metadata.Options
		configPath string
		baseURL    string
		head       bool
		category   bool
	)
	cmd := &cobra.Command{
		Use:   "resolve ID",
		Short: "Resolve the page metadata for a tool (or category with --category)",
		Long:  "resolve prints the resolved metadata. Unknown ids still print the\nnot-found metadata and then exit 1.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := toolmeta.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if baseURL != "" {
				cfg.URL = baseURL
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			reg, err := src.load()
			if err != nil {
				return err
			}
			g := metadata.New(registry.NewHandle(reg), metadata.Config{
				BaseURL:       cfg.URL,
				SiteName:      cfg.Name,
				DefaultImage:  cfg.DefaultImage,
				TwitterHandle: cfg.TwitterHandle,
			})

			var (
				m       metadata.Metadata
				missing = registry.ErrUnknownTool
			)
			if category {
				m = g.GenerateCategory(args[0], opts)
				missing = registry.ErrUnknownCategory
			} else {
				m = g.Generate(args[0], opts)
			}
			if err := writeMetadata(cmd.OutOrStdout(), m, head); err != nil {
				return err
			}
			if !m.Found {
				return fmt.Errorf("%w %q", missing, args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Locale, "locale", "", "locale code (default: detected from --pathname)")
	cmd.Flags().StringVar(&opts.Pathname, "pathname", "", "request path (default: the tool's own path)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "site origin (default: site.url from config)")
	cmd.Flags().BoolVar(&head, "head", false, "print <head> tags instead of JSON")
	cmd.Flags().BoolVar(&category, "category", false, "resolve a category page")
	return cmd
}

func writeMetadata(w io.Writer, m metadata.Metadata, head bool) error {
	if head {
		return metadata.Head(m).Render(context.Background(), w)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(m)
}
