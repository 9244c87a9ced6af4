// Package httpserver exposes the account flows as a JSON HTTP API.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weynak/weynak/internal/logging"
	"github.com/weynak/weynak/internal/server/auth"
	"github.com/weynak/weynak/internal/server/models"
)

const shutdownTimeout = 5 * time.Second

// AccountService is the subset of services.UserService the API drives.
type AccountService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	RequestReset(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, email, otp, newPassword string) error
}

// TokenVerifier checks session tokens for protected routes.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Server struct {
	address        string
	accounts       AccountService
	tokens         TokenVerifier
	logger         logging.Logger
	metrics        *Metrics
	metricsEnabled bool
	handler        http.Handler
}

func NewServer(a string, l logging.Logger, accounts AccountService, tokens TokenVerifier, metricsEnabled bool) *Server {
	s := &Server{
		address:        a,
		accounts:       accounts,
		tokens:         tokens,
		logger:         l.With("module", "http_server"),
		metrics:        NewMetrics(),
		metricsEnabled: metricsEnabled,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/forgot-password", s.forgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/reset-password", s.resetPassword).Methods(http.MethodPost)
	r.HandleFunc("/me", s.requireAuth(s.me)).Methods(http.MethodGet)
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(s.notFound)

	return cors(r)
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is cancelled,
// then drains in-flight requests. A bind failure is returned immediately.
func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-stopped
	return nil
}
