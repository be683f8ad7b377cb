// Package beep воспроизводит аудиоресурсы через gopxl/beep и системный speaker
package beep

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/hazadus/soundwave/internal/audio"
	"github.com/hazadus/soundwave/internal/streaming"
)

// Частота, с которой инициализируется speaker. Остальные потоки ресемплируются.
const speakerRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker инициализирует speaker один раз на процесс
func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerRate, speakerRate.N(time.Second/10))
	})
	return speakerErr
}

// Backend воспроизводит mp3 и wav через gopxl/beep
type Backend struct {
	mediaDir         string
	presigner        Presigner
	logger           *zap.Logger
	progressInterval time.Duration
	bufferSize       int
}

// Option настраивает Backend
type Option func(*Backend)

// WithMediaDir задает каталог для относительных путей
func WithMediaDir(dir string) Option {
	return func(b *Backend) { b.mediaDir = dir }
}

// WithPresigner включает поддержку s3:// локаторов
func WithPresigner(p Presigner) Option {
	return func(b *Backend) { b.presigner = p }
}

// WithLogger задает логгер
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// WithProgressInterval задает период уведомлений о прогрессе
func WithProgressInterval(d time.Duration) Option {
	return func(b *Backend) { b.progressInterval = d }
}

// NewBackend создает бэкенд
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger:           zap.NewNop(),
		progressInterval: 250 * time.Millisecond,
		bufferSize:       256 * 1024, // 256KB буфер
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open проверяет локатор и создает ресурс. Загрузка начинается при первом Play.
func (b *Backend) Open(locator string, listener audio.Listener) (audio.Handle, error) {
	src, err := resolveSource(locator, b.mediaDir, b.presigner)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &beepHandle{
		backend:  b,
		listener: listener,
		src:      src,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan func(), 16),
		volume:   1,
	}
	go h.dispatch()
	return h, nil
}

// beepHandle - один загруженный трек. Порядок блокировок: h.mu, затем speaker.
type beepHandle struct {
	backend  *Backend
	listener audio.Listener
	src      source

	ctx    context.Context
	cancel context.CancelFunc
	events chan func()

	mu          sync.Mutex
	started     bool
	released    bool
	wantPaused  bool
	volume      float64
	pendingSeek *time.Duration

	// streamer владеет источником: Close декодера закрывает и его
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	vol      *effects.Volume
}

func (h *beepHandle) Play() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return
	}
	h.wantPaused = false

	if !h.started {
		h.started = true
		go h.load()
		return
	}
	if h.ctrl != nil {
		speaker.Lock()
		h.ctrl.Paused = false
		speaker.Unlock()
	}
}

func (h *beepHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.wantPaused = true
	if h.ctrl != nil {
		speaker.Lock()
		h.ctrl.Paused = true
		speaker.Unlock()
	}
}

func (h *beepHandle) SetPosition(position time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return
	}
	if h.streamer == nil {
		h.pendingSeek = &position
		return
	}

	speaker.Lock()
	err := h.seekLocked(position)
	speaker.Unlock()

	if err != nil {
		h.backend.logger.Warn("не удалось изменить позицию",
			zap.String("source", h.src.ext), zap.Duration("position", position), zap.Error(err))
	}
}

// seekLocked вызывается под h.mu и speaker.Lock
func (h *beepHandle) seekLocked(position time.Duration) error {
	n := h.format.SampleRate.N(position)
	if n < 0 {
		n = 0
	}
	if l := h.streamer.Len(); l > 0 && n >= l {
		n = l - 1
	}
	return h.streamer.Seek(n)
}

func (h *beepHandle) SetVolume(level float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.volume = level
	if h.vol != nil {
		speaker.Lock()
		applyVolume(h.vol, level)
		speaker.Unlock()
	}
}

func (h *beepHandle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return
	}
	h.released = true
	h.cancel()

	if h.ctrl != nil {
		// Ctrl без Streamer завершается, и mixer его убирает
		speaker.Lock()
		h.ctrl.Streamer = nil
		speaker.Unlock()
	}
	if h.streamer != nil {
		if err := h.streamer.Close(); err != nil {
			h.backend.logger.Debug("ошибка закрытия потока", zap.Error(err))
		}
		h.streamer = nil
	}
}

// load открывает и декодирует источник, затем запускает воспроизведение
func (h *beepHandle) load() {
	rc, err := h.src.open(h.ctx, h.backend.bufferSize)
	if err != nil {
		h.fail(fmt.Errorf("ошибка открытия источника: %w", err))
		return
	}

	streamer, format, err := decode(h.src.ext, rc)
	if err != nil {
		rc.Close()
		h.fail(fmt.Errorf("ошибка декодирования: %w", err))
		return
	}

	if err := initSpeaker(); err != nil {
		streamer.Close()
		h.fail(fmt.Errorf("ошибка инициализации динамиков: %w", err))
		return
	}

	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		streamer.Close()
		return
	}

	h.streamer = streamer
	h.format = format
	if h.pendingSeek != nil {
		if err := h.seekLocked(*h.pendingSeek); err != nil {
			h.backend.logger.Warn("не удалось применить отложенную позицию", zap.Error(err))
		}
		h.pendingSeek = nil
	}

	h.ctrl = &beep.Ctrl{Streamer: streamer, Paused: h.wantPaused}
	h.vol = &effects.Volume{Streamer: h.ctrl, Base: 2}
	applyVolume(h.vol, h.volume)

	var out beep.Streamer = h.vol
	if format.SampleRate != speakerRate {
		out = beep.Resample(4, format.SampleRate, speakerRate, out)
	}
	total := format.SampleRate.D(streamer.Len())

	speaker.Play(beep.Seq(out, beep.Callback(func() {
		// Вызывается под блокировкой speaker, поэтому уведомление отправляется отдельно
		if h.ctx.Err() == nil {
			go h.emitWait(h.listener.OnEnded)
		}
	})))
	h.mu.Unlock()

	if total > 0 {
		h.emitWait(func() { h.listener.OnMetadataReady(total) })
	}
	go h.monitorProgress()
}

// monitorProgress периодически сообщает позицию воспроизведения
func (h *beepHandle) monitorProgress() {
	ticker := time.NewTicker(h.backend.progressInterval)
	defer ticker.Stop()

	lastPosition := time.Duration(-1)
	stuckCount := 0

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.mu.Lock()
			if h.streamer == nil || h.ctrl == nil {
				h.mu.Unlock()
				return
			}
			speaker.Lock()
			position := h.format.SampleRate.D(h.streamer.Position())
			paused := h.ctrl.Paused
			speaker.Unlock()
			h.mu.Unlock()

			if paused {
				stuckCount = 0
				continue
			}

			// Позиция не меняется - поток, вероятно, ждет данных
			if position == lastPosition {
				stuckCount++
				if stuckCount == 4 {
					h.backend.logger.Warn("воспроизведение остановилось",
						zap.String("status", streaming.StreamStatus(stuckCount)))
				}
			} else {
				stuckCount = 0
			}
			lastPosition = position

			h.emit(func() { h.listener.OnProgress(position) })
		}
	}
}

func (h *beepHandle) fail(err error) {
	h.emitWait(func() { h.listener.OnError(err) })
}

// emit отправляет уведомление без ожидания; при переполнении оно отбрасывается
func (h *beepHandle) emit(fn func()) {
	select {
	case <-h.ctx.Done():
	case h.events <- fn:
	default:
	}
}

// emitWait ждет места в очереди уведомлений или освобождения ресурса
func (h *beepHandle) emitWait(fn func()) {
	select {
	case <-h.ctx.Done():
	case h.events <- fn:
	}
}

// dispatch доставляет уведомления Listener по одному
func (h *beepHandle) dispatch() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case fn := <-h.events:
			if h.ctx.Err() != nil {
				return
			}
			fn()
		}
	}
}

// applyVolume переводит линейный уровень [0, 1] в логарифмическую шкалу effects.Volume
func applyVolume(v *effects.Volume, level float64) {
	if level <= 0 || math.IsNaN(level) {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(math.Min(level, 1))
}
