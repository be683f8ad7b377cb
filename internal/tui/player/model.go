// Package player содержит панель "сейчас играет" для TUI
package player

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/soundwave/internal/data"
	"github.com/hazadus/soundwave/internal/player"
	"github.com/hazadus/soundwave/internal/utils"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.1
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1db954"))

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	barStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#444444")).
			PaddingLeft(2)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// Session - операции сессии, которые использует панель
type Session interface {
	Play(id string) error
	Seek(position time.Duration)
	SetVolume(level float64)
	Snapshot() player.Snapshot
	Subscribe() (<-chan player.Event, func())
}

// EventMsg содержит событие сессии
type EventMsg struct {
	Event player.Event
}

// SessionClosedMsg отправляется, когда канал событий закрыт
type SessionClosedMsg struct{}

// Model представляет панель воспроизведения
type Model struct {
	session     Session
	catalog     player.Catalog
	events      <-chan player.Event
	unsubscribe func()

	snapshot    player.Snapshot
	track       *data.Track
	notice      error
	progressBar progress.Model
	width       int
}

// NewModel создает панель и подписывается на события сессии
func NewModel(session Session, catalog player.Catalog) *Model {
	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	prog.Width = 40

	events, unsubscribe := session.Subscribe()
	return &Model{
		session:     session,
		catalog:     catalog,
		events:      events,
		unsubscribe: unsubscribe,
		snapshot:    session.Snapshot(),
		progressBar: prog,
	}
}

// Init запускает прослушивание событий
func (m *Model) Init() tea.Cmd {
	return m.listenForEvents()
}

// Snapshot возвращает последнее известное состояние сессии
func (m *Model) Snapshot() player.Snapshot {
	return m.snapshot
}

// Notice возвращает последнюю ошибку для пользователя
func (m *Model) Notice() error {
	return m.notice
}

// Play запускает трек. Ошибка показывается в панели до следующего запуска.
func (m *Model) Play(id string) {
	m.notice = m.session.Play(id)
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(10, min(60, msg.Width-30))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			// Пауза/воспроизведение текущего трека
			if m.snapshot.Active() {
				m.Play(m.snapshot.TrackID)
			}
		case "left":
			m.session.Seek(m.snapshot.Position - seekStep)
		case "right":
			m.session.Seek(m.snapshot.Position + seekStep)
		case "+", "=":
			m.session.SetVolume(m.snapshot.Volume + volumeStep)
		case "-":
			m.session.SetVolume(m.snapshot.Volume - volumeStep)
		}
		return m, nil

	case EventMsg:
		m.apply(msg.Event)
		return m, tea.Batch(
			m.progressBar.SetPercent(m.percent()),
			m.listenForEvents(),
		)

	case SessionClosedMsg:
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// apply применяет событие сессии
func (m *Model) apply(event player.Event) {
	m.snapshot = event.Snapshot
	if event.Err != nil {
		m.notice = event.Err
	}

	switch {
	case !m.snapshot.Active():
		m.track = nil
	case m.track == nil || m.track.ID != m.snapshot.TrackID:
		m.track, _ = m.catalog.TrackByID(m.snapshot.TrackID)
	}
}

func (m *Model) percent() float64 {
	if m.snapshot.Duration <= 0 {
		return 0
	}
	return float64(m.snapshot.Position) / float64(m.snapshot.Duration)
}

// View отображает панель
func (m *Model) View() string {
	var info string
	if m.track == nil {
		info = trackInfoStyle.Render("Ничего не играет")
	} else {
		info = fmt.Sprintf("%s %s %s",
			stateIcon(m.snapshot.State),
			titleStyle.Render(m.track.Title),
			trackInfoStyle.Render("• "+m.track.Artist))
	}

	timeText := fmt.Sprintf("%s / %s",
		utils.FormatTime(m.snapshot.Position),
		durationText(m.snapshot))

	volume := fmt.Sprintf("🔊 %d%%", int(m.snapshot.Volume*100+0.5))

	lines := info + "\n" +
		m.progressBar.View() + "  " + timeText + "  " + volume + "\n" +
		controlsStyle.Render("Пробел: пауза • ←/→: перемотка • +/-: громкость • q: выход")

	if m.notice != nil {
		lines += "\n" + errorStyle.Render(noticeText(m.notice))
	}
	return barStyle.Render(lines)
}

// Close отписывается от событий сессии
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// listenForEvents ждет следующее событие сессии
func (m *Model) listenForEvents() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return SessionClosedMsg{}
		}
		return EventMsg{Event: event}
	}
}

// Вспомогательные функции

func stateIcon(state player.State) string {
	switch state {
	case player.Loading:
		return "⏳"
	case player.Playing:
		return "▶"
	case player.Paused:
		return "⏸"
	case player.Ended:
		return "⏹"
	case player.Failed:
		return "✖"
	}
	return " "
}

func durationText(snap player.Snapshot) string {
	if snap.Duration <= 0 {
		return "--:--"
	}
	return utils.FormatTime(snap.Duration)
}

func noticeText(err error) string {
	var perr *player.PlaybackError
	switch {
	case errors.As(err, &perr):
		return "❌ " + perr.Error()
	case errors.Is(err, player.ErrTrackNotFound):
		return "❌ Трек не найден"
	}
	return "❌ " + err.Error()
}
