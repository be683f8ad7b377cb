// Package data содержит каталог треков и его загрузку из YAML
package data

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrTrackNotFound возвращается, если трека с таким ID нет в каталоге
	ErrTrackNotFound = errors.New("трек не найден")

	// ErrInvalidCatalog возвращается при нарушении инвариантов каталога
	ErrInvalidCatalog = errors.New("некорректный каталог")
)

// Track описывает неизменяемую запись каталога
type Track struct {
	ID         string `yaml:"id"`
	Title      string `yaml:"title"`
	Artist     string `yaml:"artist"`
	Album      string `yaml:"album"`
	Duration   string `yaml:"duration"` // Отображаемая длительность, например "4:13"
	Genre      string `yaml:"genre"`
	Plays      int64  `yaml:"plays"`
	CoverColor string `yaml:"cover_color"`
	Source     string `yaml:"source"` // Путь к файлу, http(s):// или s3://
}

// Playlist - подборка для витрины "Featured Playlists". Только для чтения.
type Playlist struct {
	Title      string `yaml:"title"`
	TrackCount int    `yaml:"track_count"`
	Gradient   string `yaml:"gradient"`
}

type catalogFile struct {
	Tracks    []Track    `yaml:"tracks"`
	Playlists []Playlist `yaml:"playlists,omitempty"`
}

// Catalog хранит упорядоченный набор треков и подборок. После создания не изменяется.
type Catalog struct {
	tracks    []Track
	playlists []Playlist
	index     map[string]int
}

// NewCatalog создает каталог и проверяет его инварианты
func NewCatalog(tracks []Track, playlists ...Playlist) (*Catalog, error) {
	c := &Catalog{
		tracks:    make([]Track, len(tracks)),
		playlists: make([]Playlist, len(playlists)),
		index:     make(map[string]int, len(tracks)),
	}
	copy(c.tracks, tracks)
	copy(c.playlists, playlists)

	for i, p := range c.playlists {
		if p.Title == "" {
			return nil, fmt.Errorf("%w: пустое название у подборки #%d", ErrInvalidCatalog, i+1)
		}
		if p.TrackCount < 0 {
			return nil, fmt.Errorf("%w: отрицательное число треков в подборке %q", ErrInvalidCatalog, p.Title)
		}
	}

	for i, t := range c.tracks {
		if t.ID == "" {
			return nil, fmt.Errorf("%w: пустой ID у трека #%d", ErrInvalidCatalog, i+1)
		}
		if t.Plays < 0 {
			return nil, fmt.Errorf("%w: отрицательное число прослушиваний у трека %s", ErrInvalidCatalog, t.ID)
		}
		if _, ok := c.index[t.ID]; ok {
			return nil, fmt.Errorf("%w: повторяющийся ID %s", ErrInvalidCatalog, t.ID)
		}
		c.index[t.ID] = i
	}
	return c, nil
}

// LoadCatalog загружает каталог из файла.
// Если файл отсутствует или пуст, возвращается встроенный каталог.
func LoadCatalog(filePath string) (*Catalog, error) {
	path, err := expandHome(filePath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SampleCatalog(), nil
		}
		return nil, fmt.Errorf("ошибка чтения файла каталога: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return SampleCatalog(), nil
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("ошибка разбора каталога: %w", err)
	}
	return NewCatalog(file.Tracks, file.Playlists...)
}

// SaveCatalog сохраняет каталог в файл
func (c *Catalog) SaveCatalog(filePath string) error {
	path, err := expandHome(filePath)
	if err != nil {
		return err
	}

	raw, err := yaml.Marshal(catalogFile{Tracks: c.tracks, Playlists: c.playlists})
	if err != nil {
		return fmt.Errorf("ошибка сериализации каталога: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла каталога: %w", err)
	}
	return nil
}

// Tracks возвращает копию списка треков в исходном порядке
func (c *Catalog) Tracks() []Track {
	out := make([]Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// Playlists возвращает копию списка подборок
func (c *Catalog) Playlists() []Playlist {
	out := make([]Playlist, len(c.playlists))
	copy(out, c.playlists)
	return out
}

// Len возвращает количество треков
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// TrackByID возвращает трек по ID
func (c *Catalog) TrackByID(id string) (*Track, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTrackNotFound, id)
	}
	t := c.tracks[i]
	return &t, nil
}

func expandHome(filePath string) (string, error) {
	if !strings.HasPrefix(filePath, "~") {
		return filePath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return strings.Replace(filePath, "~", home, 1), nil
}
