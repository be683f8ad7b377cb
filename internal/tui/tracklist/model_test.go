package tracklist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/soundwave/internal/data"
	"github.com/hazadus/soundwave/internal/likes"
	"github.com/hazadus/soundwave/internal/track"
	"github.com/hazadus/soundwave/internal/view"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	catalog, err := data.NewCatalog([]data.Track{
		{ID: "1", Artist: "Test Artist 1", Title: "Test Track 1", Plays: 100, Duration: "3:00"},
		{ID: "2", Artist: "Test Artist 2", Title: "Test Track 2", Plays: 5000, Duration: "4:00"},
	})
	if err != nil {
		t.Fatalf("Ошибка создания каталога: %v", err)
	}

	model := NewModel(track.NewManager(catalog, likes.NewRegistry()))
	model, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	return model
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	model := newTestModel(t)

	if model.Len() != 2 {
		t.Fatalf("Ожидалось 2 элемента, получено %d", model.Len())
	}
	if model.Tab() != view.TabDiscover {
		t.Errorf("Ожидалась вкладка discover, получено %s", model.Tab())
	}
	if !strings.Contains(model.View(), "Discover New Music") {
		t.Error("В заголовке должна быть вкладка Discover")
	}
}

func TestEnterSendsPlayTrack(t *testing.T) {
	model := newTestModel(t)

	model, _ = model.Update(keyMsg("down"))
	_, cmd := model.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("Ожидалась команда")
	}

	msg, ok := cmd().(PlayTrackMsg)
	if !ok || msg.ID != "2" {
		t.Errorf("Ожидалось PlayTrackMsg для трека 2, получено %#v", msg)
	}
}

func TestSwitchTabs(t *testing.T) {
	model := newTestModel(t)

	model, _ = model.Update(keyMsg("tab"))
	if model.Tab() != view.TabTrending {
		t.Fatalf("Ожидалась вкладка trending, получено %s", model.Tab())
	}
	if entry, _ := model.Selected(); entry.ID != "2" {
		t.Errorf("Первым на trending должен быть трек 2, получено %s", entry.ID)
	}

	model, _ = model.Update(keyMsg("3"))
	if model.Tab() != view.TabLiked || model.Len() != 0 {
		t.Errorf("Вкладка liked должна быть пустой: %s, %d", model.Tab(), model.Len())
	}
	if !strings.Contains(model.View(), "Liked Songs (0)") {
		t.Error("Ожидался заголовок Liked Songs (0)")
	}

	model, _ = model.Update(keyMsg("1"))
	if model.Tab() != view.TabDiscover {
		t.Errorf("Ожидалась вкладка discover, получено %s", model.Tab())
	}
}

func TestToggleLikeRefreshesList(t *testing.T) {
	model := newTestModel(t)

	model, cmd := model.Update(keyMsg("l"))
	if cmd == nil {
		t.Fatal("Ожидалась команда")
	}
	if msg := cmd().(LikeToggledMsg); msg.ID != "1" || !msg.Liked || msg.Err != nil {
		t.Errorf("Неожиданное сообщение: %#v", msg)
	}

	model, _ = model.Update(keyMsg("3"))
	if model.Len() != 1 {
		t.Fatalf("На вкладке liked ожидался 1 трек, получено %d", model.Len())
	}

	// Снятие лайка на вкладке liked убирает трек из списка
	model, _ = model.Update(keyMsg("l"))
	if model.Len() != 0 {
		t.Errorf("Вкладка liked должна опустеть, получено %d", model.Len())
	}
}
