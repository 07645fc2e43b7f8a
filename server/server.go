// Package server exposes the synthesizer over HTTP: a small control panel,
// a JSON effect library, and render endpoints returning WAV bytes or data
// URIs.
package server

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jannev/chipfx/audio"
	"github.com/jannev/chipfx/store"
)

//go:embed panel.gohtml
var panelHTML string

// Config holds server configuration.
type Config struct {
	Port     int
	CacheDir string // empty disables the render cache
}

// Server is the HTTP render service.
type Server struct {
	config Config
	router *chi.Mux
	panel  *template.Template
	logger *slog.Logger
	cache  *store.Cache // nil when caching is disabled
}

// New creates a server and opens the render cache when configured.
func New(cfg Config) (*Server, error) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	tmpl, err := template.New("panel").Parse(panelHTML)
	if err != nil {
		return nil, fmt.Errorf("parse panel template: %w", err)
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		panel:  tmpl,
		logger: logger,
	}

	if cfg.CacheDir != "" {
		cache, err := store.Open(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Get("/api/effects", s.handleEffects)
	r.Get("/api/effects/{id}.wav", s.handleEffectWav)
	r.Get("/api/effects/{id}.uri", s.handleEffectURI)
	r.Post("/api/render", s.handleRender)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the render cache.
func (s *Server) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		s.logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	s.logger.Info("server starting", slog.Int("port", s.config.Port),
		slog.Bool("cache", s.cache != nil))

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	return s.Close()
}

// renderWav renders a settings string, serving from and backfilling the
// cache when one is open. The parsed parameters are re-serialized first so
// equivalent spellings share a cache entry.
func (s *Server) renderWav(settings string) []byte {
	var p audio.Params
	p.ParseSettingsString(settings)
	canonical := p.SettingsString()

	if s.cache != nil {
		if wav, err := s.cache.Get(canonical); err == nil {
			return wav
		} else if err != store.ErrNotFound {
			s.logger.Warn("cache read failed", slog.Any("error", err))
		}
	}

	wav := audio.RenderWav(p)

	if s.cache != nil {
		if err := s.cache.Put(canonical, wav); err != nil {
			s.logger.Warn("cache write failed", slog.Any("error", err))
		}
	}
	return wav
}
