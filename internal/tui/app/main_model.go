// Package app содержит основную логику TUI приложения
package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/soundwave/internal/data"
	"github.com/hazadus/soundwave/internal/track"
	tuiPlayer "github.com/hazadus/soundwave/internal/tui/player"
	"github.com/hazadus/soundwave/internal/tui/tracklist"
)

// Высота панели воспроизведения вместе с рамкой
const playerBarHeight = 6

var (
	quitTextStyle      = lipgloss.NewStyle().Margin(1, 0, 2, 4)
	playlistsBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(2)
	playlistTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// MainModel объединяет список треков и панель воспроизведения
type MainModel struct {
	tracklistModel *tracklist.Model
	playerModel    *tuiPlayer.Model
	playlists      []data.Playlist
	width          int
	quitting       bool
}

// NewMainModel создает новую главную модель
func NewMainModel(manager *track.Manager, session tuiPlayer.Session) *MainModel {
	return &MainModel{
		tracklistModel: tracklist.NewModel(manager),
		playerModel:    tuiPlayer.NewModel(session, manager.Catalog()),
		playlists:      manager.Playlists(),
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(m.tracklistModel.Init(), m.playerModel.Init())
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Глобальные горячие клавиши
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case " ", "left", "right", "+", "=", "-":
			m.playerModel, cmd = m.playerModel.Update(msg)
			return m, cmd
		}

	case tracklist.PlayTrackMsg:
		m.playerModel.Play(msg.ID)
		return m, nil

	case tracklist.LikeToggledMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		var listCmd, playerCmd tea.Cmd
		m.tracklistModel, listCmd = m.tracklistModel.Update(tea.WindowSizeMsg{
			Width:  msg.Width,
			Height: max(1, msg.Height-playerBarHeight-5),
		})
		m.playerModel, playerCmd = m.playerModel.Update(msg)
		return m, tea.Batch(listCmd, playerCmd)

	case tuiPlayer.EventMsg:
		m.playerModel, cmd = m.playerModel.Update(msg)
		m.tracklistModel.SetCurrent(m.playerModel.Snapshot().TrackID)
		return m, cmd

	case tuiPlayer.SessionClosedMsg:
		return m, tea.Quit
	}

	// Анимация прогресс-бара и прочие сообщения панели
	var playerCmd tea.Cmd
	m.playerModel, playerCmd = m.playerModel.Update(msg)

	m.tracklistModel, cmd = m.tracklistModel.Update(msg)
	return m, tea.Batch(cmd, playerCmd)
}

// View отображает интерфейс
func (m *MainModel) View() string {
	if m.quitting {
		return quitTextStyle.Render("До свидания!")
	}
	return m.playlistsView() + m.tracklistModel.View() + "\n" + m.playerModel.View()
}

// playlistsView отображает строку "Featured Playlists" над списком треков
func (m *MainModel) playlistsView() string {
	if len(m.playlists) == 0 {
		return ""
	}

	items := make([]string, len(m.playlists))
	for i, p := range m.playlists {
		items[i] = fmt.Sprintf("%s (%d)", playlistTitleStyle.Render(p.Title), p.TrackCount)
	}

	style := playlistsBarStyle
	if m.width > 0 {
		style = style.MaxWidth(m.width)
	}
	return style.Render("🎧 Featured Playlists: "+strings.Join(items, " · ")) + "\n"
}

// Close отписывает панель от событий сессии
func (m *MainModel) Close() {
	m.playerModel.Close()
}
