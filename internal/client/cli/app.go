package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/wtg/vaultsync/internal/client/api"
	"github.com/wtg/vaultsync/internal/client/config"
	"github.com/wtg/vaultsync/internal/client/services"
	"github.com/wtg/vaultsync/internal/client/vault"
	"github.com/wtg/vaultsync/internal/logging"
	"github.com/wtg/vaultsync/internal/netx"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App holds the wired client. The data and sync services exist only after
// a successful Login, which derives the vault master key.
type App struct {
	config *config.Config
	db     *sql.DB
	api    *api.HTTPClient
	probe  netx.Probe
	logger logging.Logger

	data *services.DataService
	sync *services.SyncService

	masterKey []byte
	userName  string
	Mode      Mode
	reader    *bufio.Reader
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := vault.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	return &App{
		config: c,
		db:     db,
		api:    api.NewHTTPClient(c.ServerAddr, nil),
		probe:  netx.NewHTTPProbe(c.ServerAddr, c.ProbeTimeout),
		logger: logger,
		Mode:   ModeOffline,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.masterKey != nil
}

// StartOnlineStatusWatcher periodically samples the reachability probe and
// flips the displayed mode accordingly.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(context.Background(), a.config.ProbeTimeout)
			online := a.probe.Online(probeCtx)
			cancel()

			if online {
				a.setMode(ModeOnline)
			} else {
				a.setMode(ModeOffline)
			}

		case <-ctx.Done():
			return
		}
	}
}
