// Package server exposes practice sessions, mastery and reports over a
// JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/codetrain/internal/mastery"
	"github.com/abhisek/codetrain/internal/metrics"
	"github.com/abhisek/codetrain/internal/report"
	"github.com/abhisek/codetrain/internal/session"
	"github.com/abhisek/codetrain/internal/store"
)

// Config controls the HTTP listener.
type Config struct {
	Addr        string
	CORSOrigins []string

	// Mode is the gin mode: debug, release or test.
	Mode string

	// IdleTimeout closes sessions untouched for this long. Zero keeps them
	// until they finish or are deleted.
	IdleTimeout time.Duration
}

// Deps are the services behind the API.
type Deps struct {
	Sessions *session.Service
	Mastery  *mastery.Service
	Attempts store.AttemptRepo
	Learners store.LearnerRepo
	Renderer *report.Renderer
}

// Server routes requests and holds the open sessions.
type Server struct {
	cfg    Config
	deps   Deps
	engine *gin.Engine

	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*openSession
}

type openSession struct {
	sess     *session.Session
	lastSeen time.Time
}

// New creates a server and registers its routes.
func New(cfg Config, deps Deps) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.GinMiddleware())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Accept", "Origin", "Cache-Control", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	s := &Server{
		cfg:      cfg,
		deps:     deps,
		engine:   r,
		now:      time.Now,
		sessions: make(map[string]*openSession),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/skills", s.listSkills)

		learners := api.Group("/learners/:learner")
		learners.POST("/sessions", s.startSession)
		learners.GET("/mastery", s.learnerMastery)
		learners.GET("/report", s.learnerReport)

		sessions := api.Group("/sessions/:id")
		sessions.GET("", s.sessionProgress)
		sessions.POST("/next", s.nextTask)
		sessions.POST("/hints", s.requestHint)
		sessions.POST("/submissions", s.submit)
		sessions.DELETE("", s.endSession)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully and closes the
// remaining sessions.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.IdleTimeout > 0 {
		go s.sweep(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.closeAll(shutdownCtx)
	return err
}

func (s *Server) closeAll(ctx context.Context) {
	s.mu.Lock()
	open := s.sessions
	s.sessions = make(map[string]*openSession)
	s.mu.Unlock()

	for _, o := range open {
		o.sess.Close(ctx)
	}
}

func (s *Server) add(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = &openSession{sess: sess, lastSeen: s.now()}
}

// session looks up an open session and marks it as used.
func (s *Server) session(id string) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	o.lastSeen = s.now()
	return o.sess, true
}

// release removes a session and closes it, which records its end event.
// It reports false if the session was already gone.
func (s *Server) release(ctx context.Context, id string) (*session.Summary, bool, error) {
	s.mu.Lock()
	o, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	sum, err := o.sess.Close(ctx)
	return sum, true, err
}

func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(max(s.cfg.IdleTimeout/4, time.Second))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.evictIdle(ctx)
		}
	}
}

// evictIdle closes every session idle for longer than IdleTimeout and
// returns how many it closed.
func (s *Server) evictIdle(ctx context.Context) int {
	cutoff := s.now().Add(-s.cfg.IdleTimeout)
	var idle []string
	s.mu.Lock()
	for id, o := range s.sessions {
		if o.lastSeen.Before(cutoff) {
			idle = append(idle, id)
		}
	}
	s.mu.Unlock()

	n := 0
	for _, id := range idle {
		if _, ok, err := s.release(ctx, id); ok {
			n++
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: close idle session %s: %v\n", id, err)
			}
		}
	}
	return n
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "open_sessions": s.openSessions()})
}

func (s *Server) openSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
