package server

import (
	"errors"
	"time"

	"github.com/hazadus/soundwave/internal/data"
	"github.com/hazadus/soundwave/internal/player"
	"github.com/hazadus/soundwave/internal/track"
)

// TrackResponse - трек в ответе API
type TrackResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Duration   string `json:"duration"`
	Genre      string `json:"genre"`
	Plays      int64  `json:"plays"`
	CoverColor string `json:"coverColor"`
	Liked      bool   `json:"liked"`
}

// TracksResponse - ответ GET /api/tracks
type TracksResponse struct {
	Tab    string          `json:"tab"`
	Title  string          `json:"title"`
	Tracks []TrackResponse `json:"tracks"`
}

// PlaylistResponse - подборка в ответе API
type PlaylistResponse struct {
	Title      string `json:"title"`
	TrackCount int    `json:"trackCount"`
	Gradient   string `json:"gradient"`
}

// PlaylistsResponse - ответ GET /api/playlists
type PlaylistsResponse struct {
	Playlists []PlaylistResponse `json:"playlists"`
}

// SessionResponse - состояние сессии, время в секундах
type SessionResponse struct {
	TrackID  string  `json:"trackId,omitempty"`
	State    string  `json:"state"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
	Volume   float64 `json:"volume"`
}

// ErrorResponse - ошибка воспроизведения для клиента
type ErrorResponse struct {
	Kind    string `json:"kind"`
	TrackID string `json:"trackId,omitempty"`
	Message string `json:"message"`
}

// EventMessage отправляется клиентам websocket
type EventMessage struct {
	Type      string          `json:"type"`
	Session   SessionResponse `json:"session"`
	Error     *ErrorResponse  `json:"error,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// LikeResponse - ответ POST /api/like/{id}
type LikeResponse struct {
	ID    string `json:"id"`
	Liked bool   `json:"liked"`
}

func newTrackResponse(e track.Entry) TrackResponse {
	return TrackResponse{
		ID:         e.ID,
		Title:      e.Title,
		Artist:     e.Artist,
		Album:      e.Album,
		Duration:   e.Duration,
		Genre:      e.Genre,
		Plays:      e.Plays,
		CoverColor: e.CoverColor,
		Liked:      e.Liked,
	}
}

func newPlaylistsResponse(playlists []data.Playlist) PlaylistsResponse {
	resp := PlaylistsResponse{Playlists: make([]PlaylistResponse, len(playlists))}
	for i, p := range playlists {
		resp.Playlists[i] = PlaylistResponse{Title: p.Title, TrackCount: p.TrackCount, Gradient: p.Gradient}
	}
	return resp
}

func newSessionResponse(s player.Snapshot) SessionResponse {
	return SessionResponse{
		TrackID:  s.TrackID,
		State:    s.State.String(),
		Position: s.Position.Seconds(),
		Duration: s.Duration.Seconds(),
		Volume:   s.Volume,
	}
}

func newEventMessage(event player.Event) EventMessage {
	msg := EventMessage{
		Type:      "session",
		Session:   newSessionResponse(event.Snapshot),
		Timestamp: time.Now().UnixMilli(),
	}
	if event.Err != nil {
		msg.Error = newErrorResponse(event.Err)
	}
	return msg
}

func newErrorResponse(err *player.PlaybackError) *ErrorResponse {
	kind := "media_load"
	if errors.Is(err, player.ErrPlaybackInterrupted) {
		kind = "playback_interrupted"
	}
	return &ErrorResponse{
		Kind:    kind,
		TrackID: err.TrackID,
		Message: err.Error(),
	}
}
