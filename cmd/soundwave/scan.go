package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/soundwave/internal/data"
	"github.com/hazadus/soundwave/internal/metadata"
	"github.com/hazadus/soundwave/internal/utils"
)

// createScanCommand создает команду scan с привязкой к экземпляру приложения
func (app *Application) createScanCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "Build a catalog from a music directory",
		Long:  `Scan a directory for mp3 and wav files and write a catalog file.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if out == "" {
				out = app.Config.CatalogFile
			}
			return app.scanDirectory(args[0], out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "catalog file (default from config)")
	return cmd
}

func (app *Application) scanDirectory(dir, out string) error {
	fmt.Printf("🔍 Сканируем %s...\n", dir)

	result, err := metadata.NewExtractor().Scan(dir)
	if err != nil {
		return err
	}

	for path, err := range result.Skipped {
		fmt.Printf("⚠️  Пропущен %s: %v\n", path, err)
	}

	catalog, err := data.NewCatalog(result.Tracks)
	if err != nil {
		return err
	}
	if err := catalog.SaveCatalog(out); err != nil {
		return err
	}

	fmt.Printf("✅ Найдено треков: %d, каталог сохранен в %s\n", catalog.Len(), out)
	fmt.Printf("⏱️  Общая длительность: %s\n", utils.FormatDuration(result.TotalDuration))
	return nil
}
