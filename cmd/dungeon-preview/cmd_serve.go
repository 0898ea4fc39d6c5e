package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dungeon-viewer/previewer/handlers"
	"dungeon-viewer/previewer/services"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve previews to websocket clients at /ws",
		Long: `Runs a websocket server. Clients send {"type":"preview","payload":{"map":"name"}}
and receive the rendered preview lines with the map statistics. Maps can be
listed with "list_maps" and uploaded with "save_map".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Addr()
			}

			ctx := contextOrBackground(cmd.Context())
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			maps := services.NewMapService(store, a.logger)
			previews := a.servePreviews(maps)

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return handlers.NewServer(addr, previews, maps, a.logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from PORT or config)")
	return cmd
}

// servePreviews builds the preview pipeline for websocket clients, which
// always get plain text whatever the colour setting
func (a *app) servePreviews(maps *services.MapService) *services.PreviewService {
	return a.newPreviewService(maps, false)
}
