// Package server exposes the state of a watched channel over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fantao963/flshm"
	"github.com/fantao963/flshm/internal/cli"
)

// ConnectionsFunc lists the registry, taking the segment lock itself.
type ConnectionsFunc func() ([]flshm.Connection, error)

// Config defines server configuration.
type Config struct {
	Addr        string
	Development bool
}

// Server serves metrics, health, the last message seen and the registry.
type Server struct {
	router *gin.Engine
	srv    *http.Server
	logger *zap.Logger
	conns  ConnectionsFunc
	start  time.Time

	mu   sync.RWMutex
	last *flshm.Message
}

// New builds the router. Nothing listens until ListenAndServe.
func New(cfg Config, gatherer prometheus.Gatherer, conns ConnectionsFunc, logger *zap.Logger) *Server {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router: router,
		logger: logger,
		conns:  conns,
		start:  time.Now(),
	}

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	router.GET("/last", s.lastMessage)
	router.GET("/connections", s.connections)

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Record remembers msg as the last message seen. It can be used directly as
// a Watcher handler.
func (s *Server) Record(msg *flshm.Message) {
	s.mu.Lock()
	s.last = msg
	s.mu.Unlock()
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("status server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	})
}

func (s *Server) lastMessage(c *gin.Context) {
	s.mu.RLock()
	msg := s.last
	s.mu.RUnlock()

	if msg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no message seen"})
		return
	}
	c.JSON(http.StatusOK, cli.NewRecord(msg))
}

func (s *Server) connections(c *gin.Context) {
	list, err := s.conns()
	if err != nil {
		s.logger.Warn("registry read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connections": cli.NewConnectionRecords(list)})
}
