// Package status serves /health and /metrics over HTTP.
package status

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"aichannel/pkg/logger"
	"aichannel/pkg/version"
)

// Probe reports whether a dependency is ready.
type Probe interface {
	Ready() bool
}

// Server is the status HTTP server.
type Server struct {
	logger     *logger.Logger
	engine     *gin.Engine
	httpServer *http.Server
	addr       string
	probe      Probe
	startTime  time.Time
}

// NewServer builds the router. probe may be nil.
func NewServer(log *logger.Logger, host string, port int, gatherer prometheus.Gatherer, probe Probe) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		logger:    log,
		engine:    engine,
		addr:      net.JoinHostPort(host, fmt.Sprint(port)),
		probe:     probe,
		startTime: time.Now(),
	}

	engine.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	ready := s.probe == nil || s.probe.Ready()
	status, code := "ok", http.StatusOK
	if !ready {
		status, code = "starting", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"version": version.GetFullVersion(),
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
	})
}

// Start listens and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("status server listen %s: %w", s.addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Status server starting", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Status server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Status server stopping")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
