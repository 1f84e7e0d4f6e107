// Package server exposes answers and provider configuration over HTTP for
// browser front-ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"answerlens/internal/core"
	"answerlens/internal/pkg/logger"
	"answerlens/internal/remote"
	"answerlens/internal/store"
)

const (
	maxBodyBytes        = "1M"
	shutdownGracePeriod = 10 * time.Second
	readTimeout         = 15 * time.Second
	idleTimeout         = 60 * time.Second
)

// RemoteConfig is the hosted configuration the relay proxies.
type RemoteConfig interface {
	FetchModelNames(ctx context.Context) ([]string, error)
	FetchPromotion(ctx context.Context) (*remote.Promotion, error)
}

// Deps are the collaborators a Server is built from. Remote and HTTPClient
// may be nil.
type Deps struct {
	Repo       store.Repository
	Remote     RemoteConfig
	Pipeline   *core.Pipeline
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Server is the HTTP relay.
type Server struct {
	addr string
	app  *echo.Echo
	deps Deps
	zlog *zap.Logger
	log  *logger.Logger

	// serializes panel load and save
	configMu sync.Mutex
}

// New creates a server listening on addr once Run is called.
func New(addr string, deps Deps) (*Server, error) {
	if deps.Repo == nil {
		return nil, errors.New("config repository must not be nil")
	}
	zlog := logger.OrNop(deps.Logger).Named("server")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = errorHandler(zlog)

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxBodyBytes))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency: true,
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Int64("latency_ms", v.Latency.Milliseconds()),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			zlog.Info("request", fields...)
			return nil
		},
	}))

	s := &Server{
		addr: addr,
		app:  e,
		deps: deps,
		zlog: zlog,
		log:  logger.Wrap(zlog),
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.app.GET("/health", s.handleHealth)
	s.app.POST("/v1/answer", s.handleAnswer)
	s.app.GET("/v1/models", s.handleModels)
	s.app.GET("/v1/config", s.handleGetConfig)
	s.app.PUT("/v1/config/:provider", s.handlePutConfig)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("Starting answerlens relay", zap.String("addr", s.addr))

	// no WriteTimeout: answer streams stay open as long as the upstream does
	httpServer := &http.Server{
		Addr:        s.addr,
		Handler:     s.app,
		ReadTimeout: readTimeout,
		IdleTimeout: idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.app.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := s.app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
