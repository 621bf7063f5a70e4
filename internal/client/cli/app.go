// Package cli is the interactive terminal front end: a small REPL over the
// session store and the feed controllers.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dpetrovs/proconnect/internal/client/api"
	"github.com/dpetrovs/proconnect/internal/client/config"
	"github.com/dpetrovs/proconnect/internal/client/feed"
	"github.com/dpetrovs/proconnect/internal/client/session"
	"github.com/dpetrovs/proconnect/internal/client/state"
	"github.com/dpetrovs/proconnect/internal/filex"
	"github.com/dpetrovs/proconnect/internal/logging"
)

// Mode is the client's view of server reachability.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// App wires the client together and drives the REPL.
type App struct {
	config  *config.Config
	api     api.Client
	store   *session.Store
	feedCtl *feed.Controller
	mineCtl *feed.Controller
	current *feed.Controller
	log     logging.Logger
	dataDir string
	Mode    Mode
	reader  *bufio.Reader
}

// NewApp opens the local state database, builds the API client and the two
// collaborating stores, and rehydrates the previous session.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	dataDir := cfg.DataDir
	var err error
	if dataDir == "" {
		dataDir, err = filex.DefaultDataDir("proconnect")
	} else {
		dataDir, err = filex.EnsureDir(dataDir)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving data dir: %w", err)
	}

	db, err := state.Open(ctx, filepath.Join(dataDir, "state.db"))
	if err != nil {
		log.Printf("error initializing state database: %s", err.Error())
		return nil, err
	}
	repo := state.NewSQLiteRepository(db)

	a := &App{
		config:  cfg,
		log:     logger,
		dataDir: dataDir,
		reader:  bufio.NewReader(os.Stdin),
	}

	// The API client pulls its bearer token from the store, and the store
	// issues requests through the API client; the function adapter breaks
	// the construction cycle.
	apiClient := api.NewHTTPClient(cfg.ServerEndpointAddr, api.TokenSourceFunc(func() string {
		if a.store == nil {
			return ""
		}
		return a.store.Token()
	}), cfg.RequestTimeout)

	a.api = apiClient
	a.store = session.NewStore(apiClient, repo, logger, a)
	a.feedCtl = feed.New(ctx, apiClient, a.store, logger, feed.ScopeFeed,
		feed.WithPageSize(cfg.FeedPageSize), feed.WithDebounce(cfg.SearchDebounce))
	a.mineCtl = feed.New(ctx, apiClient, a.store, logger, feed.ScopeMine,
		feed.WithPageSize(cfg.FeedPageSize), feed.WithDebounce(cfg.SearchDebounce))
	a.current = a.feedCtl

	a.store.Rehydrate(ctx)

	return a, nil
}

// SessionExpired implements session.Sink: the REPL equivalent of the web
// client's hard redirect to /login.
func (a *App) SessionExpired(reason string) {
	printlnFn("Session expired. Please log in again. (" + reason + ")")
}

func (a *App) isLoggedIn() bool {
	return a.store.State() == session.StateAuthenticated
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

// StartOnlineStatusWatcher probes the server on a ticker and flips the
// online/offline mode. Recovering connectivity refreshes the (possibly
// stale) profile snapshot.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.api.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				wasOffline := a.Mode == ModeOffline
				a.setMode(ModeOnline)
				if wasOffline && a.isLoggedIn() {
					a.store.RefreshProfile(ctx)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	s := ""
	if u := a.store.CurrentUser(); u != nil {
		s = u.Username + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run starts the watcher and the REPL; it returns when the user exits.
func (a *App) Run(ctx context.Context) {
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
