// Package api serves the portfolio over HTTP: a read-only public API, an admin API for edits and
// a websocket feed of data dir changes.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"folio/internal/model"
	"folio/internal/portfolio"
	"folio/internal/store"
	"folio/internal/watch"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Options struct {
	Logger *zap.Logger
}

type Server struct {
	svc *portfolio.Service
	log *zap.Logger
	hub *hub
}

func NewServer(svc *portfolio.Service, opts Options) (*Server, error) {
	if svc == nil {
		return nil, errors.New("api: service is nil")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, log: log, hub: newHub()}, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/config", s.handleConfig)
	r.Get("/api/changes", s.handleChanges)
	r.Get("/admin/api/events", s.handleEvents)

	mountKind(s, r, s.svc.Projects)
	mountKind(s, r, s.svc.Skills)
	mountKind(s, r, s.svc.Certifications)
	return r
}

// Broadcast forwards c to every connected change feed.
func (s *Server) Broadcast(c watch.Change) {
	s.hub.broadcast(c)
}

// Pump broadcasts changes until ch closes or ctx is done.
func (s *Server) Pump(ctx context.Context, ch <-chan watch.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-ch:
			if !ok {
				return
			}
			s.Broadcast(c)
		}
	}
}

// ListenAndServe serves Handler on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return errors.New("api: addr is empty")
	}
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- hs.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Settings().Raw())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{}
	if k := strings.TrimSpace(r.URL.Query().Get("kind")); k != "" {
		kind, err := model.ParseKind(k)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Kind = kind
	}
	if l := strings.TrimSpace(r.URL.Query().Get("limit")); l != "" {
		n, err := model.ParseID(l)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Limit = n
	}
	evs, err := s.svc.Events(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if evs == nil {
		evs = []store.Event{}
	}
	s.writeJSON(w, http.StatusOK, evs)
}
