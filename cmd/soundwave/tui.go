package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/soundwave/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the text user interface",
		Long:  `Browse tabs, like tracks and control playback in an interactive terminal interface.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			session, err := app.newSession()
			if err != nil {
				return err
			}
			defer session.Close()

			if err := tui.NewApp(app.Manager, session).Run(); err != nil {
				return fmt.Errorf("ошибка запуска TUI: %w", err)
			}
			return nil
		},
	}
}
