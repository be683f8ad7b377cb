// Package metadata предоставляет функционал для извлечения метаданных из аудио файлов
package metadata

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"

	"github.com/hazadus/soundwave/internal/data"
	"github.com/hazadus/soundwave/internal/utils"
)

// TrackMetadata хранит метаданные трека
type TrackMetadata struct {
	Artist string
	Title  string
	Album  string
	Genre  string
}

// Extractor извлекает метаданные из аудио файлов
type Extractor struct{}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFromReader извлекает метаданные из io.Reader
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker, source string) TrackMetadata {
	// Сбрасываем reader в начало
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return e.getDefaultMetadata(source)
	}

	metadata, err := tag.ReadFrom(reader)
	if err != nil {
		return e.getDefaultMetadata(source)
	}

	result := TrackMetadata{
		Artist: metadata.Artist(),
		Title:  metadata.Title(),
		Album:  metadata.Album(),
		Genre:  metadata.Genre(),
	}

	// Теги есть, но без названия
	if result.Title == "" {
		fallback := e.getDefaultMetadata(source)
		result.Title = fallback.Title
		if result.Artist == "" {
			result.Artist = fallback.Artist
		}
	}
	return result
}

// ExtractFromFile извлекает метаданные из файла
func (e *Extractor) ExtractFromFile(filePath string) TrackMetadata {
	file, err := os.Open(filePath)
	if err != nil {
		return e.getDefaultMetadata(filePath)
	}
	defer file.Close()

	return e.ExtractFromReader(file, filePath)
}

// GetDuration получает длительность MP3 или WAV файла
func (e *Extractor) GetDuration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".wav":
		streamer, format, err = wav.Decode(file)
	default:
		streamer, format, err = mp3.Decode(file)
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// BuildTrack собирает запись каталога для файла
func (e *Extractor) BuildTrack(filePath, id string) (data.Track, error) {
	track, _, err := e.buildTrack(filePath, id)
	return track, err
}

func (e *Extractor) buildTrack(filePath, id string) (data.Track, time.Duration, error) {
	duration, err := e.GetDuration(filePath)
	if err != nil {
		return data.Track{}, 0, fmt.Errorf("ошибка получения длительности: %w", err)
	}

	meta := e.ExtractFromFile(filePath)
	return data.Track{
		ID:       id,
		Title:    meta.Title,
		Artist:   meta.Artist,
		Album:    meta.Album,
		Genre:    meta.Genre,
		Duration: utils.FormatTime(duration),
		Source:   filePath,
	}, duration, nil
}

// ScanResult - результат сканирования каталога с музыкой
type ScanResult struct {
	Tracks        []data.Track
	Skipped       map[string]error // Файлы, которые не удалось разобрать
	TotalDuration time.Duration
}

// Scan обходит dir и собирает треки из .mp3 и .wav файлов.
// ID назначаются по порядку путей: "1", "2", ...
func (e *Extractor) Scan(dir string) (*ScanResult, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".mp3", ".wav":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка обхода каталога: %w", err)
	}
	sort.Strings(paths)

	result := &ScanResult{Skipped: make(map[string]error)}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		track, duration, err := e.buildTrack(abs, strconv.Itoa(len(result.Tracks)+1))
		if err != nil {
			result.Skipped[path] = err
			continue
		}
		result.Tracks = append(result.Tracks, track)
		result.TotalDuration += duration
	}
	return result, nil
}

// getDefaultMetadata возвращает метаданные по умолчанию на основе имени файла
func (e *Extractor) getDefaultMetadata(source string) TrackMetadata {
	fileName := filepath.Base(source)
	nameWithoutExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	// Пытаемся разобрать имя файла в формате "Artist - Title"
	parts := strings.Split(nameWithoutExt, " - ")
	if len(parts) >= 2 {
		return TrackMetadata{
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(strings.Join(parts[1:], " - ")),
		}
	}

	// Если не удалось разобрать, используем имя файла как название
	return TrackMetadata{
		Artist: "Unknown Artist",
		Title:  nameWithoutExt,
	}
}
