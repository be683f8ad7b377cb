// Package view формирует отображаемый список треков для выбранной вкладки
package view

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hazadus/soundwave/internal/data"
)

// Tab определяет вкладку отображения каталога
type Tab string

const (
	// TabDiscover - каталог в исходном порядке
	TabDiscover Tab = "discover"
	// TabTrending - по убыванию прослушиваний
	TabTrending Tab = "trending"
	// TabLiked - только отмеченные треки
	TabLiked Tab = "liked"
)

// ErrUnknownTab возвращается для неизвестной вкладки
var ErrUnknownTab = errors.New("неизвестная вкладка")

// Tabs перечисляет вкладки в порядке отображения
var Tabs = []Tab{TabDiscover, TabTrending, TabLiked}

// ParseTab разбирает имя вкладки. Пустая строка означает discover.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "", TabDiscover:
		return TabDiscover, nil
	case TabTrending:
		return TabTrending, nil
	case TabLiked:
		return TabLiked, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Next возвращает следующую вкладку по кругу
func (t Tab) Next() Tab {
	for i, tab := range Tabs {
		if tab == t {
			return Tabs[(i+1)%len(Tabs)]
		}
	}
	return TabDiscover
}

// FilteredTracks возвращает новый срез треков для вкладки.
// Входные данные не изменяются.
func FilteredTracks(tab Tab, tracks []data.Track, liked map[string]struct{}) []data.Track {
	switch tab {
	case TabTrending:
		out := make([]data.Track, len(tracks))
		copy(out, tracks)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Plays > out[j].Plays
		})
		return out

	case TabLiked:
		out := make([]data.Track, 0, len(liked))
		for _, t := range tracks {
			if _, ok := liked[t.ID]; ok {
				out = append(out, t)
			}
		}
		return out

	default:
		out := make([]data.Track, len(tracks))
		copy(out, tracks)
		return out
	}
}

// Title возвращает заголовок раздела для вкладки
func Title(tab Tab, likedCount int) string {
	switch tab {
	case TabTrending:
		return "Trending Now"
	case TabLiked:
		return fmt.Sprintf("Liked Songs (%d)", likedCount)
	default:
		return "Discover New Music"
	}
}

// Label возвращает короткое имя вкладки
func (t Tab) Label() string {
	switch t {
	case TabTrending:
		return "Trending"
	case TabLiked:
		return "Liked"
	default:
		return "Discover"
	}
}
