package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/soundwave/internal/utils"
	"github.com/hazadus/soundwave/internal/view"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	var (
		tabName   string
		playlists bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracks of a view",
		Long:  `Display the catalog as seen on the discover, trending or liked tab.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if playlists {
				app.listPlaylists()
				return nil
			}
			tab, err := view.ParseTab(tabName)
			if err != nil {
				return err
			}
			app.listTracks(tab)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tabName, "tab", "t", string(view.TabDiscover), "view: discover, trending or liked")
	cmd.Flags().BoolVarP(&playlists, "playlists", "p", false, "show featured playlists instead of tracks")
	return cmd
}

func (app *Application) listTracks(tab view.Tab) {
	entries := app.Manager.ListTracks(tab)

	fmt.Printf("📚 %s\n\n", app.Manager.Title(tab))
	if len(entries) == 0 {
		fmt.Println("Здесь пока пусто.")
		return
	}

	// Выводим заголовок таблицы
	fmt.Printf("%-4s %-24s %-30s %-20s %10s %8s\n",
		"ID", "Исполнитель", "Название", "Жанр", "Прослушано", "Длина")
	fmt.Println(strings.Repeat("-", 102))

	for _, e := range entries {
		fmt.Printf("%-4s %-24s %-30s %-20s %10s %8s\n",
			e.ID,
			utils.TruncateString(e.Artist, 24),
			utils.TruncateString(e.Title, 30),
			utils.TruncateString(e.Genre, 20),
			utils.FormatPlays(e.Plays),
			e.Duration)
	}

	fmt.Println()
	fmt.Println("💡 Используйте 'soundwave play [ID]' для воспроизведения трека")
}

func (app *Application) listPlaylists() {
	playlists := app.Manager.Playlists()

	fmt.Printf("🎧 Featured Playlists\n\n")
	if len(playlists) == 0 {
		fmt.Println("Здесь пока пусто.")
		return
	}

	for _, p := range playlists {
		fmt.Printf("%-30s %4d треков\n", utils.TruncateString(p.Title, 30), p.TrackCount)
	}
}
