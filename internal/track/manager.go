// Package track содержит логику управления треками: каталог, лайки и вкладки
package track

import (
	"github.com/hazadus/soundwave/internal/data"
	"github.com/hazadus/soundwave/internal/likes"
	"github.com/hazadus/soundwave/internal/view"
)

// Entry - трек в списке вкладки
type Entry struct {
	data.Track
	Liked bool
}

// Manager объединяет каталог и реестр лайков
type Manager struct {
	catalog *data.Catalog
	likes   *likes.Registry
}

// NewManager создает новый экземпляр Manager
func NewManager(catalog *data.Catalog, registry *likes.Registry) *Manager {
	return &Manager{
		catalog: catalog,
		likes:   registry,
	}
}

// Catalog возвращает каталог
func (m *Manager) Catalog() *data.Catalog {
	return m.catalog
}

// ListTracks возвращает треки вкладки в порядке отображения
func (m *Manager) ListTracks(tab view.Tab) []Entry {
	liked := m.likes.Set()
	tracks := view.FilteredTracks(tab, m.catalog.Tracks(), liked)

	entries := make([]Entry, len(tracks))
	for i, t := range tracks {
		_, ok := liked[t.ID]
		entries[i] = Entry{Track: t, Liked: ok}
	}
	return entries
}

// Title возвращает заголовок вкладки
func (m *Manager) Title(tab view.Tab) string {
	return view.Title(tab, m.likes.Len())
}

// ToggleLike переключает лайк трека из каталога и возвращает новое значение
func (m *Manager) ToggleLike(id string) (bool, error) {
	if _, err := m.catalog.TrackByID(id); err != nil {
		return false, err
	}
	return m.likes.Toggle(id), nil
}

// Playlists возвращает подборки каталога
func (m *Manager) Playlists() []data.Playlist {
	return m.catalog.Playlists()
}

// IsLiked сообщает, отмечен ли трек
func (m *Manager) IsLiked(id string) bool {
	return m.likes.Has(id)
}
