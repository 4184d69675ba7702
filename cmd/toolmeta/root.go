package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/eringen/toolmeta"
	"github.com/eringen/toolmeta/registry"
)

// errIssues is returned when --fail-on-error is set and the registry has
// error-severity issues. The report has already been printed.
var errIssues = errors.New("registry has error-severity issues")

type sourceFlags struct {
	registryPath string
	dbPath       string
}

func (s *sourceFlags) load() (*registry.Registry, error) {
	return toolmeta.LoadRegistry(toolmeta.SiteConfig{
		RegistryPath:   s.registryPath,
		RegistryDBPath: s.dbPath,
	})
}

// apply overrides the registry source in cfg. A flag replaces whatever the
// config file selected, so --db alone also clears a configured registry.path.
func (s *sourceFlags) apply(cfg *toolmeta.SiteConfig) {
	switch {
	case s.registryPath != "":
		cfg.RegistryPath = s.registryPath
		cfg.RegistryDBPath = ""
	case s.dbPath != "":
		cfg.RegistryPath = ""
		cfg.RegistryDBPath = s.dbPath
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	src := &sourceFlags{}
	root := &cobra.Command{
		Use:           "toolmeta",
		Short:         "Tool metadata and localization resolution",
		Long:          "toolmeta loads the tool registry, checks it for drift and resolves\nlocalized page metadata: canonical URLs, hreflang alternates, Open Graph,\nTwitter cards and JSON-LD.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&src.registryPath, "registry", "", "registry YAML file (default: embedded registry)")
	root.PersistentFlags().StringVar(&src.dbPath, "db", "", "registry SQLite snapshot, used when --registry is empty")

	root.AddCommand(
		newInventoryCmd(src),
		newValidateCmd(src),
		newResolveCmd(src),
		newExportCmd(src),
		newServeCmd(src),
		newVersionCmd(),
	)
	return root
}
