package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "soundwave",
		Short:         "Browse and play a music catalog",
		Long:          `A command line music player with discover, trending and liked views.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createListCommand())
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createTUICommand())
	rootCmd.AddCommand(app.createServeCommand(ctx))
	rootCmd.AddCommand(app.createScanCommand())

	return rootCmd
}
