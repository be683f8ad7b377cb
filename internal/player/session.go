// Package player управляет сессией воспроизведения: одним активным треком
// и единственным аудиоресурсом, принадлежащим сессии
package player

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/soundwave/internal/audio"
	"github.com/hazadus/soundwave/internal/data"
	"github.com/hazadus/soundwave/internal/utils"
)

// Catalog - источник треков для сессии
type Catalog interface {
	TrackByID(id string) (*data.Track, error)
}

// Option настраивает Session
type Option func(*Session)

// WithVolume задает начальную громкость
func WithVolume(level float64) Option {
	return func(s *Session) { s.volume = level }
}

// WithLogger задает логгер
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithEventBuffer задает размер буфера канала подписчика
func WithEventBuffer(size int) Option {
	return func(s *Session) { s.eventBuffer = size }
}

// Session владеет не более чем одним аудиоресурсом.
// Каждый ресурс помечен поколением; уведомления от прежних поколений отбрасываются.
type Session struct {
	catalog     Catalog
	backend     audio.Backend
	logger      *zap.Logger
	eventBuffer int

	mu         sync.Mutex
	closed     bool
	handle     audio.Handle
	generation uint64
	track      *data.Track
	state      State
	position   time.Duration
	duration   time.Duration
	volume     float64

	subscribers map[int]chan Event
	nextSubID   int
}

// NewSession создает сессию в состоянии Idle
func NewSession(catalog Catalog, backend audio.Backend, opts ...Option) *Session {
	s := &Session{
		catalog:     catalog,
		backend:     backend,
		logger:      zap.NewNop(),
		eventBuffer: 32,
		volume:      1,
		subscribers: make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.volume = utils.ClampFloat(s.volume, 0, 1)
	if s.eventBuffer < 1 {
		s.eventBuffer = 1
	}
	return s
}

// Play запускает трек. Для текущего трека переключает Playing и Paused,
// во время загрузки того же трека ничего не делает.
func (s *Session) Play(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	track, err := s.catalog.TrackByID(id)
	if err != nil {
		return err
	}

	if s.handle != nil && s.track.ID == id {
		switch s.state {
		case Loading:
			return nil
		case Playing:
			s.handle.Pause()
			s.setState(Paused)
			return nil
		case Paused:
			s.handle.Play()
			s.setState(Playing)
			return nil
		}
	}

	return s.start(track)
}

// start освобождает прежний ресурс и создает новый для track
func (s *Session) start(track *data.Track) error {
	s.release()
	s.generation++

	listener := &handleListener{session: s, generation: s.generation, trackID: track.ID}
	handle, err := s.backend.Open(track.Source, listener)
	if err != nil {
		perr := &PlaybackError{TrackID: track.ID, Title: track.Title, Kind: ErrMediaLoad, Err: err}
		s.logger.Warn("не удалось открыть трек",
			zap.String("track_id", track.ID), zap.String("source", track.Source), zap.Error(err))

		s.track = track
		s.state = Failed
		s.position = 0
		s.duration = 0
		s.publish(perr)

		s.reset()
		s.publish(nil)
		return perr
	}

	s.handle = handle
	s.track = track
	s.state = Loading
	s.position = 0
	s.duration = 0

	handle.SetVolume(s.volume)
	handle.Play()

	s.logger.Info("загрузка трека",
		zap.String("track_id", track.ID), zap.Uint64("generation", s.generation))
	s.publish(nil)
	return nil
}

// Pause ставит на паузу играющий трек
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Playing {
		return
	}
	s.handle.Pause()
	s.setState(Paused)
}

// Seek перемещает позицию. Без активного ресурса ничего не делает.
func (s *Session) Seek(position time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return
	}

	position = s.clamp(position)
	s.position = position
	s.handle.SetPosition(position)
	s.publish(nil)
}

// SetVolume задает громкость в диапазоне [0, 1]. Громкость сохраняется между треками.
func (s *Session) SetVolume(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = utils.ClampFloat(level, 0, 1)
	if s.handle != nil {
		s.handle.SetVolume(s.volume)
	}
	s.publish(nil)
}

// Snapshot возвращает текущее состояние
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// CurrentTrack возвращает выбранный трек
func (s *Session) CurrentTrack() (data.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.track == nil {
		return data.Track{}, false
	}
	return *s.track, true
}

// Subscribe возвращает канал событий и функцию отписки.
// Первым событием приходит текущее состояние. Если подписчик не успевает
// читать, события для него пропускаются.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, s.eventBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	ch <- Event{Snapshot: s.snapshot()}

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}
}

// Close освобождает ресурс и закрывает каналы подписчиков
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.release()
	s.reset()

	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

// Уведомления ресурса. Все методы ниже вызываются под s.mu.

func (s *Session) onProgress(position time.Duration) {
	if s.state == Loading {
		s.state = Playing
	}
	s.position = s.clamp(position)
	s.publish(nil)
}

func (s *Session) onMetadataReady(duration time.Duration) {
	s.duration = duration
	// Позиция, заданная до получения длительности
	s.position = s.clamp(s.position)
	if s.state == Loading {
		s.state = Playing
	}
	s.publish(nil)
}

func (s *Session) onEnded() {
	s.release()
	s.state = Ended
	s.position = 0
	s.logger.Info("трек завершен", zap.String("track_id", s.track.ID))
	s.publish(nil)
}

func (s *Session) onError(err error) {
	kind := ErrPlaybackInterrupted
	if s.state == Loading {
		kind = ErrMediaLoad
	}
	perr := &PlaybackError{TrackID: s.track.ID, Title: s.track.Title, Kind: kind, Err: err}
	s.logger.Warn("ошибка воспроизведения",
		zap.String("track_id", s.track.ID), zap.String("state", s.state.String()), zap.Error(err))

	s.state = Failed
	s.publish(perr)

	s.release()
	s.reset()
	s.publish(nil)
}

func (s *Session) setState(state State) {
	s.state = state
	s.publish(nil)
}

func (s *Session) clamp(position time.Duration) time.Duration {
	if position < 0 {
		return 0
	}
	if s.duration > 0 && position > s.duration {
		return s.duration
	}
	return position
}

func (s *Session) release() {
	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
}

// reset возвращает сессию в Idle. Громкость сохраняется.
func (s *Session) reset() {
	s.track = nil
	s.state = Idle
	s.position = 0
	s.duration = 0
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		State:    s.state,
		Position: s.position,
		Duration: s.duration,
		Volume:   s.volume,
	}
	if s.track != nil {
		snap.TrackID = s.track.ID
	}
	return snap
}

func (s *Session) publish(perr *PlaybackError) {
	event := Event{Snapshot: s.snapshot(), Err: perr}
	for id, ch := range s.subscribers {
		select {
		case ch <- event:
			continue
		default:
		}

		if !event.important() {
			s.logger.Warn("подписчик не успевает читать события, событие пропущено",
				zap.Int("subscriber", id), zap.String("state", event.Snapshot.State.String()))
			continue
		}
		dropped := makeRoom(ch, event)
		s.logger.Warn("подписчик не успевает читать события, устаревшие события вытеснены",
			zap.Int("subscriber", id), zap.Int("dropped", dropped),
			zap.String("state", event.Snapshot.State.String()))
	}
}

// makeRoom вытесняет из буфера рядовые события и ставит event в очередь.
// Вызывается под s.mu: других отправителей в ch нет, поэтому отправка не блокируется.
func makeRoom(ch chan Event, event Event) int {
	var kept []Event
	dropped := 0
drain:
	for {
		select {
		case queued := <-ch:
			if queued.important() {
				kept = append(kept, queued)
			} else {
				dropped++
			}
		default:
			break drain
		}
	}

	kept = append(kept, event)
	if extra := len(kept) - cap(ch); extra > 0 {
		dropped += extra
		kept = kept[extra:]
	}
	for _, e := range kept {
		ch <- e
	}
	return dropped
}

// handleListener связывает уведомления ресурса с поколением, для которого он создан
type handleListener struct {
	session    *Session
	generation uint64
	trackID    string
}

// accept захватывает s.mu, если уведомление относится к текущему ресурсу
func (l *handleListener) accept(kind string) bool {
	s := l.session
	s.mu.Lock()
	if s.handle != nil && s.generation == l.generation {
		return true
	}
	s.mu.Unlock()

	s.logger.Debug("устаревшее уведомление отброшено",
		zap.String("kind", kind),
		zap.String("track_id", l.trackID),
		zap.Uint64("generation", l.generation))
	return false
}

func (l *handleListener) OnProgress(position time.Duration) {
	if !l.accept("progress") {
		return
	}
	defer l.session.mu.Unlock()
	l.session.onProgress(position)
}

func (l *handleListener) OnMetadataReady(duration time.Duration) {
	if !l.accept("metadata") {
		return
	}
	defer l.session.mu.Unlock()
	l.session.onMetadataReady(duration)
}

func (l *handleListener) OnEnded() {
	if !l.accept("ended") {
		return
	}
	defer l.session.mu.Unlock()
	l.session.onEnded()
}

func (l *handleListener) OnError(err error) {
	if !l.accept("error") {
		return
	}
	defer l.session.mu.Unlock()
	l.session.onError(err)
}
