package player

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hazadus/soundwave/internal/audio/audiotest"
	"github.com/hazadus/soundwave/internal/data"
)

func newTestSession(t *testing.T, opts ...Option) (*Session, *audiotest.Backend) {
	t.Helper()

	catalog, err := data.NewCatalog([]data.Track{
		{ID: "a", Title: "Alpha", Plays: 10, Source: "a.mp3"},
		{ID: "b", Title: "Beta", Plays: 1000, Source: "b.mp3"},
		{ID: "c", Title: "Gamma", Plays: 5, Source: "c.wav"},
	})
	if err != nil {
		t.Fatalf("Ошибка создания каталога: %v", err)
	}

	backend := audiotest.NewBackend()
	session := NewSession(catalog, backend, opts...)
	t.Cleanup(session.Close)
	return session, backend
}

// drain забирает накопившиеся события
func drain(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestPlayUnknownTrackKeepsState(t *testing.T) {
	session, backend := newTestSession(t)

	if err := session.Play("missing"); !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("Ожидалась ErrTrackNotFound, получено %v", err)
	}
	if snap := session.Snapshot(); snap.State != Idle || snap.Active() {
		t.Errorf("Сессия должна остаться в Idle: %+v", snap)
	}

	if err := session.Play("a"); err != nil {
		t.Fatalf("Ошибка воспроизведения: %v", err)
	}
	backend.Last().Listener.OnProgress(3 * time.Second)
	before := session.Snapshot()

	if err := session.Play("missing"); !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("Ожидалась ErrTrackNotFound, получено %v", err)
	}
	if after := session.Snapshot(); after != before {
		t.Errorf("Состояние изменилось: было %+v, стало %+v", before, after)
	}
	if backend.Created() != 1 {
		t.Errorf("Ожидался 1 ресурс, создано %d", backend.Created())
	}
}

func TestPlayStartsLoading(t *testing.T) {
	session, backend := newTestSession(t, WithVolume(0.4))

	if err := session.Play("a"); err != nil {
		t.Fatalf("Ошибка воспроизведения: %v", err)
	}

	snap := session.Snapshot()
	if snap.State != Loading || snap.TrackID != "a" || snap.Position != 0 || snap.Duration != 0 {
		t.Errorf("Неожиданное состояние: %+v", snap)
	}

	h := backend.Last()
	if h.Locator != "a.mp3" {
		t.Errorf("Ожидался источник a.mp3, получено %s", h.Locator)
	}
	if !h.Playing() || h.Volume() != 0.4 {
		t.Errorf("Ресурс должен быть запущен с громкостью 0.4: playing=%v volume=%v", h.Playing(), h.Volume())
	}

	h.Listener.OnMetadataReady(200 * time.Second)
	snap = session.Snapshot()
	if snap.State != Playing || snap.Duration != 200*time.Second {
		t.Errorf("Ожидалось Playing с длительностью 200s: %+v", snap)
	}
}

func TestProgressMovesLoadingToPlaying(t *testing.T) {
	session, backend := newTestSession(t)

	_ = session.Play("a")
	backend.Last().Listener.OnProgress(time.Second)

	snap := session.Snapshot()
	if snap.State != Playing || snap.Position != time.Second {
		t.Errorf("Ожидалось Playing на 1s: %+v", snap)
	}
}

func TestPlaySameTrackTogglesPause(t *testing.T) {
	session, backend := newTestSession(t)

	_ = session.Play("a")
	h := backend.Last()
	h.Listener.OnMetadataReady(100 * time.Second)
	h.Listener.OnProgress(42 * time.Second)

	if err := session.Play("a"); err != nil {
		t.Fatalf("Ошибка паузы: %v", err)
	}
	if snap := session.Snapshot(); snap.State != Paused {
		t.Errorf("Ожидалось Paused, получено %s", snap.State)
	}
	if h.Playing() {
		t.Error("Ресурс должен быть на паузе")
	}

	if err := session.Play("a"); err != nil {
		t.Fatalf("Ошибка продолжения: %v", err)
	}
	snap := session.Snapshot()
	if snap.State != Playing || snap.Position != 42*time.Second {
		t.Errorf("Ожидалось Playing с позиции 42s: %+v", snap)
	}
	if backend.Created() != 1 || h.Released() {
		t.Error("Переключение паузы не должно пересоздавать ресурс")
	}
	if h.PlayCalls() != 2 {
		t.Errorf("Ожидалось 2 вызова Play, получено %d", h.PlayCalls())
	}
}

func TestPlaySameTrackWhileLoadingIsNoop(t *testing.T) {
	session, backend := newTestSession(t)

	_ = session.Play("a")
	_ = session.Play("a")

	if backend.Created() != 1 {
		t.Errorf("Ожидался 1 ресурс, создано %d", backend.Created())
	}
	if snap := session.Snapshot(); snap.State != Loading {
		t.Errorf("Ожидалось Loading, получено %s", snap.State)
	}
}

func TestSwitchKeepsSingleLiveHandle(t *testing.T) {
	session, backend := newTestSession(t)

	ids := []string{"a", "b", "c", "a", "b", "b", "c", "a"}
	for _, id := range ids {
		if err := session.Play(id); err != nil {
			t.Fatalf("Ошибка воспроизведения %s: %v", id, err)
		}
		if live := backend.Live(); live != 1 {
			t.Fatalf("После Play(%s) живых ресурсов: %d", id, live)
		}
	}
}

func TestStaleNotificationsAreDiscarded(t *testing.T) {
	session, backend := newTestSession(t)

	_ = session.Play("a")
	old := backend.Last()
	old.Listener.OnMetadataReady(100 * time.Second)

	_ = session.Play("b")
	current := backend.Last()
	if !old.Released() {
		t.Fatal("Прежний ресурс должен быть освобожден")
	}

	old.Listener.OnProgress(50 * time.Second)
	old.Listener.OnMetadataReady(300 * time.Second)
	old.Listener.OnEnded()
	old.Listener.OnError(errors.New("поздняя ошибка"))

	snap := session.Snapshot()
	if snap.TrackID != "b" || snap.State != Loading || snap.Position != 0 || snap.Duration != 0 {
		t.Errorf("Устаревшие уведомления изменили состояние: %+v", snap)
	}

	current.Listener.OnMetadataReady(60 * time.Second)
	if snap := session.Snapshot(); snap.State != Playing || snap.Duration != 60*time.Second {
		t.Errorf("Уведомление текущего ресурса не применено: %+v", snap)
	}
}

func TestSeekClamps(t *testing.T) {
	session, backend := newTestSession(t)

	_ = session.Play("a")
	h := backend.Last()
	h.Listener.OnMetadataReady(100 * time.Second)

	session.Seek(-5 * time.Second)
	if snap := session.Snapshot(); snap.Position != 0 {
		t.Errorf("Ожидалась позиция 0, получено %v", snap.Position)
	}

	session.Seek(200 * time.Second)
	if snap := session.Snapshot(); snap.Position != 100*time.Second {
		t.Errorf("Ожидалась позиция 100s, получено %v", snap.Position)
	}
	if h.Position() != 100*time.Second {
		t.Errorf("Ресурс получил позицию %v", h.Position())
	}
}

func TestSeekBeforeMetadataIsClampedLater(t *testing.T) {
	session, backend := newTestSession(t)

	_ = session.Play("a")
	session.Seek(500 * time.Second)
	if snap := session.Snapshot(); snap.Position != 500*time.Second {
		t.Errorf("До получения длительности позиция не ограничивается: %v", snap.Position)
	}

	backend.Last().Listener.OnMetadataReady(120 * time.Second)
	if snap := session.Snapshot(); snap.Position != 120*time.Second {
		t.Errorf("Ожидалась позиция 120s, получено %v", snap.Position)
	}
}

func TestSeekWithoutTrackIsNoop(t *testing.T) {
	session, _ := newTestSession(t)

	session.Seek(10 * time.Second)
	if snap := session.Snapshot(); snap.Position != 0 || snap.State != Idle {
		t.Errorf("Seek без трека не должен менять состояние: %+v", snap)
	}
}

func TestSetVolumeClampsAndPersists(t *testing.T) {
	session, backend := newTestSession(t)

	session.SetVolume(1.5)
	if v := session.Snapshot().Volume; v != 1 {
		t.Errorf("Ожидалась громкость 1, получено %v", v)
	}
	session.SetVolume(-0.2)
	if v := session.Snapshot().Volume; v != 0 {
		t.Errorf("Ожидалась громкость 0, получено %v", v)
	}

	session.SetVolume(0.3)
	_ = session.Play("a")
	if v := backend.Last().Volume(); v != 0.3 {
		t.Errorf("Новый ресурс получил громкость %v", v)
	}

	session.SetVolume(0.6)
	if v := backend.Last().Volume(); v != 0.6 {
		t.Errorf("Текущий ресурс получил громкость %v", v)
	}

	_ = session.Play("b")
	if v := backend.Last().Volume(); v != 0.6 {
		t.Errorf("Громкость не сохранилась при смене трека: %v", v)
	}
	if v := session.Snapshot().Volume; v != 0.6 {
		t.Errorf("Ожидалась громкость 0.6, получено %v", v)
	}
}

func TestPauseOnlyWhilePlaying(t *testing.T) {
	session, backend := newTestSession(t)

	session.Pause()
	if snap := session.Snapshot(); snap.State != Idle {
		t.Errorf("Pause в Idle не должен менять состояние: %s", snap.State)
	}

	_ = session.Play("a")
	session.Pause()
	if snap := session.Snapshot(); snap.State != Loading {
		t.Errorf("Pause в Loading не должен менять состояние: %s", snap.State)
	}

	backend.Last().Listener.OnProgress(time.Second)
	session.Pause()
	if snap := session.Snapshot(); snap.State != Paused {
		t.Errorf("Ожидалось Paused, получено %s", snap.State)
	}
}

func TestLoadErrorFailsThenResetsToIdle(t *testing.T) {
	session, backend := newTestSession(t)
	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	_ = session.Play("a")
	h := backend.Last()
	drain(events)

	h.Listener.OnError(errors.New("файл поврежден"))

	got := drain(events)
	if len(got) != 2 {
		t.Fatalf("Ожидалось 2 события, получено %d", len(got))
	}
	if got[0].Snapshot.State != Failed || got[0].Err == nil {
		t.Errorf("Первое событие должно быть Failed с ошибкой: %+v", got[0])
	}
	if !errors.Is(got[0].Err, ErrMediaLoad) || got[0].Err.Title != "Alpha" {
		t.Errorf("Неожиданная ошибка: %v", got[0].Err)
	}
	if got[1].Snapshot.State != Idle || got[1].Snapshot.Active() {
		t.Errorf("Второе событие должно быть Idle без трека: %+v", got[1])
	}
	if !h.Released() {
		t.Error("Ресурс должен быть освобожден")
	}

	if err := session.Play("a"); err != nil {
		t.Fatalf("Повторный запуск: %v", err)
	}
	if snap := session.Snapshot(); snap.State != Loading || backend.Created() != 2 {
		t.Errorf("Ожидалась новая загрузка: %+v, ресурсов %d", snap, backend.Created())
	}
}

func TestErrorWhilePlayingIsInterruption(t *testing.T) {
	session, backend := newTestSession(t)
	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	_ = session.Play("b")
	h := backend.Last()
	h.Listener.OnProgress(10 * time.Second)
	drain(events)

	h.Listener.OnError(errors.New("соединение разорвано"))

	got := drain(events)
	if len(got) == 0 || !errors.Is(got[0].Err, ErrPlaybackInterrupted) {
		t.Fatalf("Ожидалась ErrPlaybackInterrupted: %+v", got)
	}
	if got[0].Err.TrackID != "b" {
		t.Errorf("Ошибка должна содержать трек b: %v", got[0].Err)
	}
	if snap := session.Snapshot(); snap.State != Idle {
		t.Errorf("Ожидалось Idle, получено %s", snap.State)
	}
}

func TestOpenErrorLeavesIdle(t *testing.T) {
	session, backend := newTestSession(t)
	backend.FailOpen("c.wav", errors.New("формат не поддерживается"))

	_ = session.Play("a")
	events, unsubscribe := session.Subscribe()
	defer unsubscribe()
	drain(events)

	err := session.Play("c")
	if !errors.Is(err, ErrMediaLoad) {
		t.Fatalf("Ожидалась ErrMediaLoad, получено %v", err)
	}

	var perr *PlaybackError
	if !errors.As(err, &perr) || perr.TrackID != "c" {
		t.Errorf("Ожидалась PlaybackError для трека c: %v", err)
	}
	if snap := session.Snapshot(); snap.State != Idle || snap.Active() {
		t.Errorf("Ожидалось Idle без трека: %+v", snap)
	}
	if backend.Live() != 0 {
		t.Errorf("Не должно остаться живых ресурсов: %d", backend.Live())
	}

	got := drain(events)
	if len(got) != 2 {
		t.Fatalf("Ожидалось 2 события, получено %d: %+v", len(got), got)
	}
	if got[0].Snapshot.State != Failed || got[0].Snapshot.TrackID != "c" || !errors.Is(got[0].Err, ErrMediaLoad) {
		t.Errorf("Первое событие должно быть Failed с ошибкой для трека c: %+v", got[0])
	}
	if got[1].Snapshot.State != Idle || got[1].Err != nil {
		t.Errorf("Второе событие должно быть Idle без ошибки: %+v", got[1])
	}
}

func TestNaturalEndResetsPosition(t *testing.T) {
	session, backend := newTestSession(t)

	_ = session.Play("a")
	h := backend.Last()
	h.Listener.OnMetadataReady(100 * time.Second)
	h.Listener.OnProgress(100 * time.Second)
	h.Listener.OnEnded()

	snap := session.Snapshot()
	if snap.State != Ended || snap.Position != 0 || snap.TrackID != "a" {
		t.Errorf("Ожидалось Ended на позиции 0 с треком a: %+v", snap)
	}
	if !h.Released() {
		t.Error("Ресурс должен быть освобожден после завершения")
	}

	session.Seek(30 * time.Second)
	if snap := session.Snapshot(); snap.Position != 0 {
		t.Errorf("Seek после завершения не должен менять позицию: %v", snap.Position)
	}

	if err := session.Play("a"); err != nil {
		t.Fatalf("Ошибка повторного запуска: %v", err)
	}
	snap = session.Snapshot()
	if snap.State != Loading || snap.Position != 0 {
		t.Errorf("Повторный запуск должен начинаться с 0: %+v", snap)
	}
	if backend.Created() != 2 || backend.Live() != 1 {
		t.Errorf("Ожидался новый ресурс: создано %d, живых %d", backend.Created(), backend.Live())
	}
}

func TestSubscribeDeliversCurrentState(t *testing.T) {
	session, _ := newTestSession(t, WithVolume(0.5))

	events, unsubscribe := session.Subscribe()
	got := drain(events)
	if len(got) != 1 || got[0].Snapshot.State != Idle || got[0].Snapshot.Volume != 0.5 {
		t.Errorf("Ожидалось начальное событие Idle: %+v", got)
	}

	_ = session.Play("a")
	got = drain(events)
	if len(got) != 1 || got[0].Snapshot.State != Loading {
		t.Errorf("Ожидалось событие Loading: %+v", got)
	}

	unsubscribe()
	unsubscribe()
	if _, ok := <-events; ok {
		t.Error("Канал должен быть закрыт после отписки")
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	session, backend := newTestSession(t, WithEventBuffer(2))
	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	_ = session.Play("a")
	h := backend.Last()
	for i := 1; i <= 50; i++ {
		h.Listener.OnProgress(time.Duration(i) * time.Second)
	}

	if got := drain(events); len(got) != 2 {
		t.Errorf("Ожидалось 2 события в буфере, получено %d", len(got))
	}
	if snap := session.Snapshot(); snap.Position != 50*time.Second {
		t.Errorf("Состояние должно обновляться независимо от подписчиков: %v", snap.Position)
	}
}

func TestErrorReachesSlowSubscriber(t *testing.T) {
	session, backend := newTestSession(t, WithEventBuffer(2))
	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	_ = session.Play("a")
	h := backend.Last()
	for i := 1; i <= 10; i++ {
		h.Listener.OnProgress(time.Duration(i) * time.Second)
	}
	h.Listener.OnError(errors.New("boom"))

	var failure *PlaybackError
	for _, ev := range drain(events) {
		if ev.Err != nil {
			failure = ev.Err
		}
	}
	if failure == nil {
		t.Fatal("Событие с ошибкой должно дойти до подписчика с полным буфером")
	}
	if !errors.Is(failure, ErrPlaybackInterrupted) || failure.TrackID != "a" {
		t.Errorf("Неожиданная ошибка: %v", failure)
	}
	if snap := session.Snapshot(); snap.State != Idle {
		t.Errorf("Ожидалось Idle, получено %s", snap.State)
	}
}

func TestEndedReachesSlowSubscriber(t *testing.T) {
	session, backend := newTestSession(t, WithEventBuffer(1))
	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	_ = session.Play("a")
	h := backend.Last()
	h.Listener.OnProgress(time.Second)
	h.Listener.OnEnded()

	got := drain(events)
	if len(got) != 1 || got[0].Snapshot.State != Ended {
		t.Errorf("Ожидалось одно событие Ended: %+v", got)
	}
}

func TestSetVolumeRejectsNaN(t *testing.T) {
	session, backend := newTestSession(t)

	_ = session.Play("a")
	session.SetVolume(math.NaN())

	if v := session.Snapshot().Volume; v != 0 {
		t.Errorf("NaN должен приводиться к 0, получено %v", v)
	}
	if v := backend.Last().Volume(); v != 0 {
		t.Errorf("Ресурс получил громкость %v", v)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	session, backend := newTestSession(t)
	events, _ := session.Subscribe()

	_ = session.Play("a")
	session.Close()

	if backend.Live() != 0 {
		t.Errorf("После Close живых ресурсов: %d", backend.Live())
	}
	drain(events)
	if _, ok := <-events; ok {
		t.Error("Канал должен быть закрыт после Close")
	}
	if err := session.Play("b"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Ожидалась ErrSessionClosed, получено %v", err)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Idle:      "idle",
		Loading:   "loading",
		Playing:   "playing",
		Paused:    "paused",
		Ended:     "ended",
		Failed:    "failed",
		State(42): "unknown",
	}
	for state, expected := range tests {
		if state.String() != expected {
			t.Errorf("State(%d).String() = %q; ожидалось %q", int(state), state.String(), expected)
		}
	}
}
