// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/soundwave/internal/track"
	"github.com/hazadus/soundwave/internal/tui/app"
	tuiPlayer "github.com/hazadus/soundwave/internal/tui/player"
)

// App представляет основное TUI приложение
type App struct {
	manager *track.Manager
	session tuiPlayer.Session
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(manager *track.Manager, session tuiPlayer.Session) *App {
	return &App{
		manager: manager,
		session: session,
	}
}

// Run запускает TUI приложение
func (tuiApp *App) Run() error {
	model := app.NewMainModel(tuiApp.manager, tuiApp.session)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()

	// Отписываемся от событий после завершения программы
	model.Close()

	return err
}
