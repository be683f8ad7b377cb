package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/soundwave/internal/server"
)

// createServeCommand создает команду serve с привязкой к экземпляру приложения
func (app *Application) createServeCommand(ctx context.Context) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  `Serve the catalog and playback controls over HTTP with live updates on /ws.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			session, err := app.newSession()
			if err != nil {
				return err
			}
			defer session.Close()

			srv := server.New(app.Manager, session, app.Logger.Named("server"))
			defer srv.Close()

			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", app.Config.ListenAddr, "listen address")
	return cmd
}
