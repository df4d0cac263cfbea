package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doeshing/medilogic/internal/application/intake"
	"github.com/doeshing/medilogic/internal/infrastructure/web"
	"github.com/doeshing/medilogic/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand(rt *Runtime) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web intake form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			container, err := rt.Container(ctx)
			if err != nil {
				return err
			}
			cfg := container.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}

			backend, err := container.OpenSessionBackend(ctx, cfg.Session.BackendFor(false))
			if err != nil {
				return err
			}
			defer backend.Close()

			registry := web.NewRegistry(backend, cfg.Vocabulary, cfg.Server.TTL(),
				func(storage ports.SessionStorage, view *web.View) *intake.Controller {
					return container.NewController(storage, view, view, view)
				})

			server, err := web.NewServer(web.Options{
				Addr:        cfg.Server.Addr,
				SubmitRate:  cfg.Server.SubmitRate,
				SubmitBurst: cfg.Server.SubmitBurst,
			}, registry, container.Renderer, cfg.Vocabulary, container.Logger)
			if err != nil {
				return err
			}

			container.Logger.Info("starting medilogic", map[string]interface{}{
				"config":       container.ConfigLoader.Path(),
				"backend":      container.Client.BaseURL(),
				"sessions":     backend.Name(),
				"rate_limited": cfg.Server.RateLimited(),
			})
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

