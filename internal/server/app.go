// Package server wires configuration, storage, mail delivery and the
// account flows together and runs the HTTP API until a shutdown signal.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/weynak/weynak/internal/logging"
	"github.com/weynak/weynak/internal/server/auth"
	"github.com/weynak/weynak/internal/server/config"
	"github.com/weynak/weynak/internal/server/httpserver"
	"github.com/weynak/weynak/internal/server/mail"
	"github.com/weynak/weynak/internal/server/repositories/repomanager"
	"github.com/weynak/weynak/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	userService *services.UserService
	httpServer  *httpserver.Server
}

// NewApp validates c, opens storage, applies migrations and builds the
// service graph. Storage is closed again if a later step fails.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repos, err := repomanager.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	mailer, err := mail.New(ctx, c, logger)
	if err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("mailer init error: %w", err)
	}

	tokens := auth.NewTokenIssuer([]byte(c.SecretKey), c.TokenValidityDuration, nil)

	us := services.NewUserService(
		repos.Users(),
		auth.NewBcryptHasher(auth.DefaultBcryptCost),
		auth.NewRandomOtpGenerator(c.OtpValidityDuration, nil),
		tokens,
		mailer,
		nil,
		logger,
	)

	hs := httpserver.NewServer(c.HTTPAddr, logger, us, tokens, c.MetricsEnabled)

	return &App{config: c, logger: logger, repos: repos, userService: us, httpServer: hs}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes storage. It returns the server error, if any.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageDriver, "mail", app.config.MailProvider)

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(context.Background()); err != nil {
		app.logger.Error(ctx, "storage close failed", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
