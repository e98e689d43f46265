package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/sjzar/fluffy/internal/errors"
	"github.com/sjzar/fluffy/internal/fluffy/ctx"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
)

type Service struct {
	conf Config
	ctx  *ctx.Context

	router *gin.Engine
	server *http.Server
}

type Config interface {
	GetHTTPAddr() string
}

func NewService(conf Config, ctx *ctx.Context) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Err(err).Msg("Failed to set trusted proxies")
	}

	router.Use(
		errors.RecoveryMiddleware(),
		errors.ErrorHandlerMiddleware(),
		gin.LoggerWithWriter(log.Logger, "/health"),
		corsMiddleware(),
	)

	s := &Service{
		conf:   conf,
		ctx:    ctx,
		router: router,
	}

	s.initRouter()
	return s
}

// Handler is the router behind response compression.
func (s *Service) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

// Start binds the address before returning so a busy port is reported
// to the caller, then serves in the background.
func (s *Service) Start() error {
	addr := s.conf.GetHTTPAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.HTTP("listen on "+addr, err)
	}

	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func(server *http.Server) {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Err(err).Msg("HTTP server exited")
		}
	}(s.server)

	log.Info().Msg("Starting HTTP server on " + addr)

	return nil
}

func (s *Service) ListenAndServe() error {
	s.server = &http.Server{
		Addr:    s.conf.GetHTTPAddr(),
		Handler: s.Handler(),
	}

	log.Info().Msg("Starting HTTP server on " + s.conf.GetHTTPAddr())
	return s.server.ListenAndServe()
}

func (s *Service) Stop() error {
	if s.server == nil {
		return nil
	}

	// 使用超时上下文优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	server := s.server
	s.server = nil
	if err := server.Shutdown(ctx); err != nil {
		log.Debug().Err(err).Msg("Failed to shutdown HTTP server")
		return nil
	}

	log.Info().Msg("HTTP server stopped")
	return nil
}
