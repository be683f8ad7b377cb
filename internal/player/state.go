package player

import "time"

// State - фаза жизненного цикла текущего трека
type State int

const (
	Idle State = iota
	Loading
	Playing
	Paused
	Ended
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Snapshot - наблюдаемое состояние сессии
type Snapshot struct {
	TrackID  string
	State    State
	Position time.Duration
	Duration time.Duration // 0, пока длительность неизвестна
	Volume   float64
}

// Active сообщает, выбран ли трек
func (s Snapshot) Active() bool {
	return s.TrackID != ""
}

// Event отправляется подписчикам при каждом изменении сессии
type Event struct {
	Snapshot Snapshot
	// Err заполняется для ошибок, которые нужно показать пользователю
	Err *PlaybackError
}

// important сообщает, что событие нельзя пропустить при переполненном буфере:
// ошибка или завершение трека
func (e Event) important() bool {
	return e.Err != nil || e.Snapshot.State == Ended || e.Snapshot.State == Failed
}
