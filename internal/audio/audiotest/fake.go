// Package audiotest содержит управляемый вручную Backend для тестов
package audiotest

import (
	"sync"
	"time"

	"github.com/hazadus/soundwave/internal/audio"
)

// Backend запоминает все созданные ресурсы
type Backend struct {
	mu      sync.Mutex
	handles []*Handle
	failing map[string]error
}

// NewBackend создает пустой Backend
func NewBackend() *Backend {
	return &Backend{failing: make(map[string]error)}
}

// FailOpen заставляет Open вернуть err для locator
func (b *Backend) FailOpen(locator string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing[locator] = err
}

// Open реализует audio.Backend
func (b *Backend) Open(locator string, listener audio.Listener) (audio.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err, ok := b.failing[locator]; ok {
		return nil, err
	}
	h := &Handle{Locator: locator, Listener: listener}
	b.handles = append(b.handles, h)
	return h, nil
}

// Created возвращает число созданных ресурсов
func (b *Backend) Created() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handles)
}

// Live возвращает число неосвобожденных ресурсов
func (b *Backend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, h := range b.handles {
		if !h.Released() {
			n++
		}
	}
	return n
}

// Last возвращает последний созданный ресурс или nil
func (b *Backend) Last() *Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.handles) == 0 {
		return nil
	}
	return b.handles[len(b.handles)-1]
}

// Handle записывает вызовы. Уведомления отправляются тестом через Listener.
type Handle struct {
	Locator  string
	Listener audio.Listener

	mu        sync.Mutex
	playing   bool
	released  bool
	playCalls int
	position  time.Duration
	volume    float64
}

func (h *Handle) Play() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = true
	h.playCalls++
}

func (h *Handle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
}

func (h *Handle) SetPosition(position time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = position
}

func (h *Handle) SetVolume(level float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volume = level
}

func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = true
	h.playing = false
}

// Playing сообщает, идет ли воспроизведение
func (h *Handle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// Released сообщает, освобожден ли ресурс
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// PlayCalls возвращает число вызовов Play
func (h *Handle) PlayCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playCalls
}

// Position возвращает последнюю заданную позицию
func (h *Handle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

// Volume возвращает последнюю заданную громкость
func (h *Handle) Volume() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.volume
}
