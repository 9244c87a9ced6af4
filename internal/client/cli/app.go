package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/weynak/weynak/internal/client/client"
	"github.com/weynak/weynak/internal/client/config"
	"github.com/weynak/weynak/internal/client/services"
	"github.com/weynak/weynak/internal/filex"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	reader      *bufio.Reader
	out         io.Writer

	mu   sync.Mutex
	Mode Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	path, err := filex.EnsureParentDir(c.SessionPath)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	as := services.NewAuthService(apiClient, db)

	return &App{config: c, authService: as, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) isLoggedIn() bool {
	return a.authService.LoggedInAs() != ""
}

func (a *App) getStatus() string {
	s := ""
	if email := a.authService.LoggedInAs(); email != "" {
		s = email + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run restores the previous session, starts the reachability watcher and
// blocks in the REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() {
		if err := a.authService.Close(ctx); err != nil {
			log.Printf("close error: %v", err)
		}
	}()

	fmt.Fprintln(a.out, "Welcome to weynak CLI (type 'help' for commands)")

	if email, err := a.authService.RestoreSession(ctx); err != nil {
		log.Printf("session restore failed: %v", err)
	} else if email != "" {
		fmt.Fprintf(a.out, "Logged in as %s\n", email)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

// StartOnlineStatusWatcher pings the server every interval and flips Mode
// accordingly until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
