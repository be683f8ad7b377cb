package player

import (
	"errors"
	"fmt"

	"github.com/hazadus/soundwave/internal/data"
)

var (
	// ErrTrackNotFound - трека нет в каталоге, состояние сессии не меняется
	ErrTrackNotFound = data.ErrTrackNotFound

	// ErrMediaLoad - источник не удалось открыть или декодировать
	ErrMediaLoad = errors.New("не удалось загрузить трек")

	// ErrPlaybackInterrupted - ошибка во время воспроизведения
	ErrPlaybackInterrupted = errors.New("воспроизведение прервано")

	// ErrSessionClosed возвращается после Close
	ErrSessionClosed = errors.New("сессия закрыта")
)

// PlaybackError описывает сбой воспроизведения конкретного трека
type PlaybackError struct {
	TrackID string
	Title   string
	Kind    error // ErrMediaLoad или ErrPlaybackInterrupted
	Err     error // Исходная причина
}

func (e *PlaybackError) Error() string {
	name := e.Title
	if name == "" {
		name = e.TrackID
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", name, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", name, e.Kind, e.Err)
}

// Unwrap позволяет проверять как вид ошибки, так и причину
func (e *PlaybackError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
