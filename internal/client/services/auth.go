// Package services contains application services for the weynak CLI.
// AuthService drives the account flows and remembers the session token in
// the local database between runs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/weynak/weynak/internal/client/client"
	"github.com/weynak/weynak/internal/client/repositories/metadata"
	"github.com/weynak/weynak/internal/dbx"
)

const (
	keyEmail = "email"
	keyToken = "token"
)

// AuthService defines the account operations offered by the CLI.
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) (string, error)
	Login(ctx context.Context, email string, password []byte) error
	RequestReset(ctx context.Context, email string) (string, error)
	ConfirmReset(ctx context.Context, email, otp string, newPassword []byte) (string, error)
	Whoami(ctx context.Context) (*client.Profile, error)
	RestoreSession(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	LoggedInAs() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB

	mu    sync.RWMutex
	email string
	token string
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db}
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) (string, error) {
	return a.client.Register(ctx, name, email, password)
}

// Login authenticates against the server and persists the session so a
// later run can pick it up.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := a.saveSession(ctx, email, token); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}

	a.setSession(email, token)
	return nil
}

func (a *authService) saveSession(ctx context.Context, email, token string) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyEmail, []byte(email)); err != nil {
			return err
		}
		return repo.Set(ctx, keyToken, []byte(token))
	})
}

func (a *authService) RequestReset(ctx context.Context, email string) (string, error) {
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) ConfirmReset(ctx context.Context, email, otp string, newPassword []byte) (string, error) {
	return a.client.ResetPassword(ctx, email, otp, newPassword)
}

// Whoami asks the server who the current token belongs to. A token the
// server rejects ends the local session.
func (a *authService) Whoami(ctx context.Context) (*client.Profile, error) {
	_, token := a.session()
	if token == "" {
		return nil, client.ErrNotLoggedIn
	}

	p, err := a.client.Me(ctx, token)
	if errors.Is(err, client.ErrUnauthorized) {
		if lerr := a.Logout(ctx); lerr != nil {
			return nil, errors.Join(err, lerr)
		}
	}
	return p, err
}

// RestoreSession loads a remembered session and checks it with the server.
// It returns the email of the restored session, or "" when there is none or
// the server rejected it. An unreachable server keeps the session.
func (a *authService) RestoreSession(ctx context.Context) (string, error) {
	repo := metadata.NewSQLiteRepository(a.db)

	email, err := repo.Get(ctx, keyEmail)
	if err != nil {
		return "", err
	}
	token, err := repo.Get(ctx, keyToken)
	if err != nil {
		return "", err
	}
	if len(token) == 0 {
		return "", nil
	}

	a.setSession(string(email), string(token))

	if _, err := a.Whoami(ctx); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			return string(email), nil
		}
		if errors.Is(err, client.ErrUnauthorized) {
			return "", nil
		}
		return "", err
	}
	return string(email), nil
}

// Logout forgets the session locally. Tokens are stateless, so the server
// is not involved.
func (a *authService) Logout(ctx context.Context) error {
	a.setSession("", "")
	return metadata.NewSQLiteRepository(a.db).Clear(ctx)
}

func (a *authService) LoggedInAs() string {
	email, _ := a.session()
	return email
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases the client and the local database.
func (a *authService) Close(ctx context.Context) error {
	return errors.Join(a.client.Close(), a.db.Close())
}

func (a *authService) setSession(email, token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.email, a.token = email, token
}

func (a *authService) session() (string, string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.email, a.token
}
