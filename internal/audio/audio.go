// Package audio описывает контракт аудиоресурса. Реализация на beep - в пакете audio/beep.
package audio

import (
	"errors"
	"time"
)

var (
	// ErrUnsupportedSource возвращается для неизвестной схемы локатора
	ErrUnsupportedSource = errors.New("неподдерживаемый источник")

	// ErrUnsupportedFormat возвращается для неподдерживаемого формата файла
	ErrUnsupportedFormat = errors.New("неподдерживаемый формат")

	// ErrS3NotConfigured возвращается для s3:// без настроек S3
	ErrS3NotConfigured = errors.New("S3 не настроен")
)

// Listener получает уведомления от аудиоресурса.
// Методы вызываются из горутин ресурса, а не из вызывающего кода.
type Listener interface {
	OnProgress(position time.Duration)
	OnMetadataReady(duration time.Duration)
	OnEnded()
	OnError(err error)
}

// Handle - загруженный аудиоресурс, привязанный к одному источнику
type Handle interface {
	// Play запускает загрузку при первом вызове, далее снимает паузу
	Play()
	Pause()
	SetPosition(position time.Duration)
	// SetVolume принимает уровень в диапазоне [0, 1]
	SetVolume(level float64)
	// Release останавливает воспроизведение и отписывает Listener.
	// Не ждет завершения уже начатых уведомлений.
	Release()
}

// Backend создает аудиоресурсы
type Backend interface {
	Open(locator string, listener Listener) (Handle, error)
}
