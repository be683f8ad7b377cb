// Package tracklist содержит модель списка треков с вкладками для TUI
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/soundwave/internal/track"
	"github.com/hazadus/soundwave/internal/utils"
	"github.com/hazadus/soundwave/internal/view"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	currentItemStyle  = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("#1db954"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#1db954")).
			Padding(0, 1)
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)
)

// PlayTrackMsg отправляется при выборе трека для воспроизведения
type PlayTrackMsg struct {
	ID string
}

// LikeToggledMsg отправляется после переключения лайка
type LikeToggledMsg struct {
	ID    string
	Liked bool
	Err   error
}

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	entry track.Entry
}

func (i trackItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.entry.Artist, i.entry.Title)
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct {
	currentID *string
}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	like := " "
	if i.entry.Liked {
		like = "♥"
	}

	// Лайк | Исполнитель | Название | Прослушивания | Длительность
	str := fmt.Sprintf("%s %-20s %-40s %8s  %s",
		like,
		utils.TruncateString(i.entry.Artist, 20),
		utils.TruncateString(i.entry.Title, 40),
		utils.FormatPlays(i.entry.Plays),
		i.entry.Duration)

	fn := itemStyle.Render
	switch {
	case index == m.Index():
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	case d.currentID != nil && *d.currentID == i.entry.ID:
		fn = currentItemStyle.Render
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель списка треков
type Model struct {
	list      list.Model
	manager   *track.Manager
	tab       view.Tab
	currentID string
}

// NewModel создает новую модель списка треков на вкладке discover
func NewModel(manager *track.Manager) *Model {
	m := &Model{
		manager: manager,
		tab:     view.TabDiscover,
	}

	l := list.New(nil, trackItemDelegate{currentID: &m.currentID}, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetShowHelp(false)
	// Клавиши фильтра конфликтуют с управлением воспроизведением
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle

	m.list = l
	m.RefreshData()
	return m
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Tab возвращает текущую вкладку
func (m *Model) Tab() view.Tab {
	return m.tab
}

// SetTab переключает вкладку
func (m *Model) SetTab(tab view.Tab) {
	if m.tab == tab {
		return
	}
	m.tab = tab
	m.RefreshData()
	m.list.Select(0)
}

// SetCurrent отмечает играющий трек
func (m *Model) SetCurrent(id string) {
	m.currentID = id
}

// Selected возвращает выбранный трек
func (m *Model) Selected() (track.Entry, bool) {
	item, ok := m.list.SelectedItem().(trackItem)
	if !ok {
		return track.Entry{}, false
	}
	return item.entry, true
}

// Len возвращает число треков на вкладке
func (m *Model) Len() int {
	return len(m.list.Items())
}

// RefreshData перечитывает треки текущей вкладки
func (m *Model) RefreshData() {
	entries := m.manager.ListTracks(m.tab)

	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = trackItem{entry: e}
	}

	m.list.SetItems(items)
	m.list.Title = m.manager.Title(m.tab)
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if entry, ok := m.Selected(); ok {
				return m, func() tea.Msg {
					return PlayTrackMsg{ID: entry.ID}
				}
			}
			return m, nil

		case "l":
			entry, ok := m.Selected()
			if !ok {
				return m, nil
			}
			liked, err := m.manager.ToggleLike(entry.ID)
			index := m.list.Index()
			m.RefreshData()
			// На вкладке liked трек мог исчезнуть из списка
			if index >= m.Len() && m.Len() > 0 {
				index = m.Len() - 1
			}
			m.list.Select(index)
			return m, func() tea.Msg {
				return LikeToggledMsg{ID: entry.ID, Liked: liked, Err: err}
			}

		case "tab":
			m.SetTab(m.tab.Next())
			return m, nil

		case "1", "2", "3":
			m.SetTab(view.Tabs[msg.String()[0]-'1'])
			return m, nil
		}
	}

	// Обновляем список
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	tabs := make([]string, len(view.Tabs))
	for i, tab := range view.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.Label())
		if tab == m.tab {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	bar := lipgloss.NewStyle().MarginLeft(2).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))

	body := m.list.View()
	if m.Len() == 0 {
		body = titleStyle.Render(m.list.Title) + "\n\n" + itemStyle.Render("Здесь пока пусто")
	}

	help := helpStyle.Render("Enter: воспроизвести • l: лайк • Tab/1-3: вкладки • ↑/↓: выбор")
	return bar + "\n\n" + body + "\n" + help
}
