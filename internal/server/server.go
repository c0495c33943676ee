package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spacesedan/sentiscore/config"
	"github.com/spacesedan/sentiscore/internal/sentiment"
)

type Server struct {
	echo          *echo.Echo
	config        *config.Config
	scorer        sentiment.Scorer
	scorerHealthy *atomic.Bool
	startTime     time.Time
}

// New wires routes and middleware. scorerHealthy is read by the readiness
// check and is owned by whoever monitors the scorer.
func New(cfg *config.Config, scorer sentiment.Scorer, scorerHealthy *atomic.Bool) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	srv := &Server{
		echo:          e,
		config:        cfg,
		scorer:        scorer,
		scorerHealthy: scorerHealthy,
		startTime:     time.Now(),
	}

	srv.registerRoutes()

	return srv
}

// Start blocks serving until Shutdown; it then returns http.ErrServerClosed.
func (s *Server) Start() error {
	slog.Info("[Server] Starting server", slog.Int("port", s.config.Port))
	return s.echo.Start(fmt.Sprintf(":%d", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Addr is the bound listener address, nil until Start has bound.
func (s *Server) Addr() net.Addr {
	return s.echo.ListenerAddr()
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				slog.LogAttrs(c.Request().Context(), slog.LevelWarn, "[Server] Request failed", attrs...)
				return nil
			}
			slog.LogAttrs(c.Request().Context(), slog.LevelDebug, "[Server] Request", attrs...)
			return nil
		},
	})
}
