// Package server is a small development server for the social links
// directory and the contact form.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loykin/frontc/internal/common"
	"github.com/loykin/frontc/internal/constants"
	"github.com/loykin/frontc/internal/store"
)

// Link is one entry served by the directory endpoint.
type Link struct {
	Key string `mapstructure:"key" yaml:"key" json:"key"`
	URL string `mapstructure:"url" yaml:"url" json:"url"`
}

// DefaultLinks are served when no links are configured.
var DefaultLinks = []Link{
	{Key: "linkedin", URL: "https://www.linkedin.com/in/tirthraj-mahajan/"},
	{Key: "github", URL: "https://github.com/tirthraj07"},
	{Key: "instagram", URL: "https://www.instagram.com/tirthraj07/"},
}

// ContactSaver persists accepted form submissions.
type ContactSaver interface {
	SaveContact(ctx context.Context, c store.Contact) error
}

type Options struct {
	Addr              string
	Links             []Link
	Contacts          ContactSaver
	JWT               *VerifyConfig
	DirectoryEndpoint string
	FormEndpoint      string
	ShutdownTimeout   time.Duration
	Logger            *common.Logger

	// Metrics exposes Prometheus metrics on MetricsPath.
	Metrics     bool
	MetricsPath string

	// FormRate limits form submissions per client IP; zero disables it.
	FormRate  float64
	FormBurst int
}

// Server serves the directory and form endpoints over gin.
type Server struct {
	opts    Options
	engine  *gin.Engine
	logger  *common.Logger
	metrics *Metrics
}

func New(opts Options) (*Server, error) {
	if opts.Contacts == nil {
		return nil, errors.New("server: contact store is required")
	}
	if opts.Addr == "" {
		opts.Addr = constants.DefaultServerAddr
	}
	if len(opts.Links) == 0 {
		opts.Links = DefaultLinks
	}
	if opts.DirectoryEndpoint == "" {
		opts.DirectoryEndpoint = constants.DefaultDirectoryEndpoint
	}
	if opts.FormEndpoint == "" {
		opts.FormEndpoint = constants.DefaultFormEndpoint
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = constants.DefaultShutdownTimeout
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = constants.DefaultMetricsPath
	}
	if opts.JWT != nil && len(opts.JWT.Secret) == 0 {
		opts.JWT = nil
	}
	logger := opts.Logger
	if logger == nil {
		logger = common.GetLogger()
	}
	s := &Server{opts: opts, logger: logger.WithComponent("server")}
	if opts.Metrics {
		s.metrics = NewMetrics()
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLogger(s.logger))
	if s.metrics != nil {
		engine.Use(s.metrics.middleware())
		engine.GET(s.opts.MetricsPath, s.metrics.handler())
	}

	engine.GET(s.opts.DirectoryEndpoint, s.handleDirectory)

	form := []gin.HandlerFunc{}
	if s.opts.FormRate > 0 {
		form = append(form, s.rateLimit(newClientLimiter(s.opts.FormRate, s.opts.FormBurst)))
	}
	if s.opts.JWT != nil {
		form = append(form, JWTMiddleware(*s.opts.JWT))
	}
	form = append(form, s.handleForm)
	engine.POST(s.opts.FormEndpoint, form...)
	return engine
}

// Metrics returns the collectors, or nil when metrics are disabled.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  constants.DefaultReadTimeout,
		WriteTimeout: constants.DefaultWriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("server listening",
		"addr", ln.Addr().String(),
		"jwt", s.opts.JWT != nil,
		"metrics", s.metrics != nil)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
