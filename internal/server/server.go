// Package server exposes the knowledge graph over HTTP: the interactive
// page, the graph and diagnostics as JSON, and per-session selection and
// learned state.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scigraph/kg/internal/kb"
	"github.com/scigraph/kg/internal/logger"
	"github.com/scigraph/kg/internal/session"
	"github.com/scigraph/kg/internal/storage"
	"github.com/scigraph/kg/internal/viz"
)

// Options wires the server's collaborators. KB, Sessions and Log are
// required; Cache enables /api/search.
type Options struct {
	KB           *kb.KnowledgeBase
	Sessions     session.Store
	Cache        *storage.DB
	Log          *logger.Logger
	RateLimit    float64 // Requests per second across all clients; 0 disables limiting
	RateBurst    int
	AllowOrigins []string
	Page         viz.HTMLOptions
}

type Server struct {
	Engine *gin.Engine
	log    *logger.Logger
}

// New builds the router and renders the graph page once.
func New(opts Options) (*Server, error) {
	if opts.KB == nil || opts.Sessions == nil || opts.Log == nil {
		return nil, errors.New("server: KB, Sessions and Log are required")
	}
	if opts.Page.Layout == "" {
		opts.Page.Layout = "force"
	}
	if opts.Page.Title == "" {
		opts.Page.Title = viz.DefaultTitle
	}
	opts.Page.SessionMode = true

	page, err := viz.GenerateHTML(opts.KB.Graph, opts.Page)
	if err != nil {
		return nil, fmt.Errorf("rendering graph page: %w", err)
	}

	h := &handlers{
		kb:       opts.KB,
		sessions: opts.Sessions,
		cache:    opts.Cache,
		log:      opts.Log.With("service", "http"),
		page:     []byte(page),
	}
	return &Server{Engine: newRouter(opts, h), log: opts.Log}, nil
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
