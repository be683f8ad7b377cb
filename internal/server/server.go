// Package server предоставляет HTTP API и websocket для управления воспроизведением
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hazadus/soundwave/internal/player"
	"github.com/hazadus/soundwave/internal/track"
	"github.com/hazadus/soundwave/internal/view"
)

// Session - операции сессии, доступные через API
type Session interface {
	Play(id string) error
	Pause()
	Seek(position time.Duration)
	SetVolume(level float64)
	Snapshot() player.Snapshot
	Subscribe() (<-chan player.Event, func())
}

// Server обслуживает API
type Server struct {
	manager  *track.Manager
	session  Session
	hub      *Hub
	logger   *zap.Logger
	router   *mux.Router
	upgrader websocket.Upgrader

	unsubscribe func()
	done        chan struct{}
}

// New создает сервер и начинает пересылать события сессии клиентам websocket
func New(manager *track.Manager, session Session, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		manager: manager,
		session: session,
		hub:     NewHub(logger),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		done: make(chan struct{}),
	}
	s.router = s.routes()

	events, unsubscribe := session.Subscribe()
	s.unsubscribe = unsubscribe
	go s.forwardEvents(events)

	return s
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.corsMiddleware, s.loggingMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tracks", s.handleTracks).Methods(http.MethodGet)
	api.HandleFunc("/playlists", s.handlePlaylists).Methods(http.MethodGet)
	api.HandleFunc("/session", s.handleSession).Methods(http.MethodGet)
	api.HandleFunc("/play/{id}", s.handlePlay).Methods(http.MethodPost)
	api.HandleFunc("/pause", s.handlePause).Methods(http.MethodPost)
	api.HandleFunc("/seek", s.handleSeek).Methods(http.MethodPost)
	api.HandleFunc("/volume", s.handleVolume).Methods(http.MethodPost)
	api.HandleFunc("/like/{id}", s.handleLike).Methods(http.MethodPost)

	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	return router
}

// Handler возвращает корневой обработчик
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub возвращает Hub websocket-клиентов
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe запускает сервер и останавливает его при отмене ctx
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("сервер запущен", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.hub.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("сервер остановлен")
	return nil
}

// Close прекращает пересылку событий и отключает клиентов
func (s *Server) Close() {
	s.unsubscribe()
	<-s.done
	s.hub.Close()
}

// forwardEvents пересылает события сессии в Hub до отписки
func (s *Server) forwardEvents(events <-chan player.Event) {
	defer close(s.done)
	for event := range events {
		s.hub.Broadcast(newEventMessage(event))
	}
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	tab, err := view.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries := s.manager.ListTracks(tab)
	tracks := make([]TrackResponse, len(entries))
	for i, e := range entries {
		tracks[i] = newTrackResponse(e)
	}

	writeJSON(w, http.StatusOK, TracksResponse{
		Tab:    string(tab),
		Title:  s.manager.Title(tab),
		Tracks: tracks,
	})
}

func (s *Server) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newPlaylistsResponse(s.manager.Playlists()))
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSessionResponse(s.session.Snapshot()))
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := s.session.Play(id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, newSessionResponse(s.session.Snapshot()))
	case errors.Is(err, player.ErrTrackNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, player.ErrMediaLoad):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, player.ErrSessionClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.session.Pause()
	writeJSON(w, http.StatusOK, newSessionResponse(s.session.Snapshot()))
}

type seekRequest struct {
	Seconds *float64 `json:"seconds"`
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Seconds == nil {
		writeError(w, http.StatusBadRequest, "ожидается {\"seconds\": число}")
		return
	}

	s.session.Seek(time.Duration(*req.Seconds * float64(time.Second)))
	writeJSON(w, http.StatusOK, newSessionResponse(s.session.Snapshot()))
}

type volumeRequest struct {
	Level *float64 `json:"level"`
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Level == nil {
		writeError(w, http.StatusBadRequest, "ожидается {\"level\": число}")
		return
	}

	s.session.SetVolume(*req.Level)
	writeJSON(w, http.StatusOK, newSessionResponse(s.session.Snapshot()))
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	liked, err := s.manager.ToggleLike(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, LikeResponse{ID: id, Liked: liked})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ошибка подключения websocket", zap.Error(err))
		return
	}

	client := s.hub.Register(conn)
	// Новый клиент сразу получает текущее состояние
	client.Send(newEventMessage(player.Event{Snapshot: s.session.Snapshot()}))

	go client.writePump()
	go client.readPump()
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("запрос",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
