package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eringen/toolmeta"
)

func newServeCmd(src *sourceFlags) *cobra.Command {
	var (
		configPath string
		addr       string
		watch      bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the metadata API, sitemap and robots.txt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := toolmeta.LoadConfig(configPath)
			if err != nil {
				return err
			}
			src.apply(&cfg)
			if addr != "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				cfg.RegistryWatch = watch
			}

			app := toolmeta.New(cfg)
			if err := app.Init(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- app.Start() }()

			select {
			case err := <-errc:
				app.Close()
				return err
			case <-ctx.Done():
			}
			app.Logger.Info("server.shutdown")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.Shutdown(shutdownCtx); err != nil {
				app.Logger.Error("server.shutdown.failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file (YAML)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload --registry when the file changes")
	return cmd
}
