package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/osa911/contactrelay/internal/access"
	"github.com/osa911/contactrelay/internal/api/handlers"
	"github.com/osa911/contactrelay/internal/api/validation"
	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/mail"
	"github.com/osa911/contactrelay/internal/ratelimit"
	"github.com/osa911/contactrelay/internal/relay"
	"github.com/osa911/contactrelay/internal/server/routes"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	cfg    *config.Config
	logger *logging.Logger
	store  *ratelimit.MemoryStore
}

// Option customises server dependencies
type Option func(*options)

type options struct {
	transport mail.Transport
	now       func() time.Time
}

// WithTransport replaces the mail transport selected by MAIL_PROVIDER
func WithTransport(t mail.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithClock injects the time source of the rate limiter
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewServer wires the relay pipeline behind a gin engine
func NewServer(cfg *config.Config, logger *logging.Logger, opts ...Option) (*Server, error) {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	transport := o.transport
	if transport == nil {
		var err error
		transport, err = mail.NewTransport(&cfg.Mail, logger)
		if err != nil {
			return nil, err
		}
	}
	dispatcher := mail.NewDispatcher(&cfg.Mail, transport, logger)

	policy := cfg.RateLimit()
	store := ratelimit.NewMemoryStore(ratelimit.WithStoreClock(o.now))
	limiter, err := ratelimit.New(store, policy, ratelimit.WithClock(o.now))
	if err != nil {
		store.Close()
		return nil, err
	}

	pipeline := relay.NewPipeline(
		limiter,
		access.NewGate(cfg.APIKey, cfg.Origins()),
		validation.New(),
		dispatcher,
	)

	h := &routes.Handlers{
		Contact: handlers.NewContactHandler(pipeline, policy, o.now, logger),
		Health:  handlers.NewHealthHandler(cfg.Environment, cfg.Mode(), dispatcher.Ready),
	}

	routes.SetupGlobalMiddleware(router, cfg, logger)
	routes.Setup(router, h, logger)

	return &Server{
		router: router,
		cfg:    cfg,
		logger: logger,
		store:  store,
	}, nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.Port until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		s.Close()
		return fmt.Errorf("failed to listen on port %s: %w", s.cfg.Port, err)
	}
	return s.Serve(ctx, l)
}

// Serve serves on l until ctx is cancelled
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	defer s.Close()

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.cfg.Mail.Timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Contact relay listening on %s (%s mode, mail provider %s)", l.Addr(), s.cfg.Mode(), s.cfg.Mail.Provider)
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}

// Close releases background resources
func (s *Server) Close() error {
	return s.store.Close()
}
