package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/budgetiq/budgetiq/internal/api"
	"github.com/budgetiq/budgetiq/internal/common"
	"github.com/budgetiq/budgetiq/internal/config"
	"github.com/budgetiq/budgetiq/internal/model"
	"github.com/budgetiq/budgetiq/internal/session"
	"github.com/budgetiq/budgetiq/internal/snapshot"
	"github.com/budgetiq/budgetiq/internal/toast"
	"github.com/spf13/viper"
)

// app bundles the client-side services commands share: the session store,
// the HTTP adapter wired to it, and the notification bus with a terminal
// renderer attached.
type app struct {
	session *session.Store
	client  *api.Client
	bus     *toast.Bus
}

// newApp restores the session from durable storage and wires the forced
// logout signal from the adapter into the session store.
func newApp() (*app, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate data directory: %w", err)
	}

	keyring, err := session.NewFileKeyring(filepath.Join(dataDir, "session"))
	if err != nil {
		return nil, err
	}

	store := session.NewStore(keyring)
	store.Restore()

	bus := toast.NewBus()
	toast.NewRenderer(os.Stdout).Attach(bus)

	client := api.NewClient(viper.GetString("api.url"), store)
	client.OnUnauthorized(func() {
		store.HandleUnauthorized()
		bus.Error("Session expired - please log in again")
	})

	return &app{session: store, client: client, bus: bus}, nil
}

// requireAuth fails fast for commands that need a session, before any
// request is attempted.
func (a *app) requireAuth() error {
	if !a.session.IsAuthenticated() {
		return common.NewUserError("not logged in - run 'budgetiq login' first", common.ErrNoSession)
	}
	return nil
}

// fail surfaces err on the notification bus with user-appropriate copy and
// returns it for the exit code.
func (a *app) fail(err error) error {
	common.LogDebug("Command failed", common.Fields{"error": err.Error()})
	a.bus.Error(friendlyError(err))
	return err
}

// friendlyError maps adapter errors onto user-facing copy, distinguishing
// connectivity problems from server rejections.
func friendlyError(err error) string {
	kind, ok := api.ErrKind(err)
	if !ok {
		return err.Error()
	}
	switch kind {
	case api.KindNetworkUnavailable:
		return "can't reach BudgetIQ - check your connection"
	case api.KindTimeout:
		return "request timed out - try again"
	default:
		return err.Error()
	}
}

// openSnapshotStore opens the offline snapshot database with proper path
// expansion, running migrations first.
func openSnapshotStore(ctx context.Context) (*snapshot.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dataDir, err := config.DataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate data directory: %w", err)
		}
		dbPath = filepath.Join(dataDir, "snapshot.db")
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := snapshot.New(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

func parseDate(s string) (model.Time, error) {
	if s == "" {
		return model.NewTime(time.Now()), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return model.Time{}, api.NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return model.NewTime(t), nil
}
