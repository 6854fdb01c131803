// Package server binds the resolution-and-download pipeline to its HTTP
// surface.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/topclip/tikfetch/internal/download"
	"github.com/topclip/tikfetch/internal/ratelimit"
	"github.com/topclip/tikfetch/internal/storage"
	"github.com/topclip/tikfetch/internal/video"
)

// Server is the HTTP server for tikfetch.
type Server struct {
	addr      string
	videos    *video.Service
	downloads *download.Manager
	limiter   *ratelimit.Limiter
	logger    *zap.Logger

	engine *gin.Engine
	server *http.Server
}

// New creates the HTTP server. backend is consulted for the static
// downloads route: a local backend gets its directory served under
// /downloads/, any other backend serves artifacts itself.
func New(addr string, videos *video.Service, downloads *download.Manager, limiter *ratelimit.Limiter, backend storage.Backend, logger *zap.Logger) *Server {
	s := &Server{
		addr:      addr,
		videos:    videos,
		downloads: downloads,
		limiter:   limiter,
		logger:    logger.Named("http"),
	}

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestLogger(s.logger))
	s.engine.Use(corsMiddleware())
	s.engine.Use(securityHeaders())
	s.engine.Use(rateLimitMiddleware(limiter))

	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/video/info", s.handleInfo)
	s.engine.POST("/video/download", s.handleDownload)

	if local, ok := backend.(*storage.Local); ok {
		s.engine.Static(storage.PublicPathPrefix, local.Dir())
	}

	return s
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on the configured address until the listener fails or
// Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("listening", zap.String("addr", s.addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
