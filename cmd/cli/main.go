package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/cmd/cli/commands"
	"github.com/volunteers-for-city-projects/volunteers-backend/internal/config"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/status"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/notify"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/postgres"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/utils/logging"
)

func main() {
	app := &commands.AppContext{Ctx: context.Background()}
	rootCmd := commands.NewRootCmd(app, initApp)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, commands.FormatError(err))
		os.Exit(1)
	}
}

// initApp sets up logger, config, store and notifier
func initApp(app *commands.AppContext) error {
	var err error

	app.Logger, err = logging.InitLogger(app.Env, logging.Options{Dir: "logs", Verbose: app.Verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Debug("Starting application", zap.String("store", app.StoreKind))

	app.Cfg, err = config.LoadWithEnv(app.Env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Policy = status.NewPolicy(app.Cfg.Location())

	switch app.StoreKind {
	case "memory":
		app.Logger.Warn("Using in-memory store, data is lost when the process exits")
		app.Store = db.NewMemoryDB()
	case "postgres":
		if app.Cfg.DatabaseURL == "" {
			return fmt.Errorf("--store postgres needs databaseURL in the config")
		}
		pg, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
		if err != nil {
			return err
		}
		app.OnClose(pg.Close)
		app.Postgres = pg
		app.Store = pg
		app.Logger.Debug("Connected to database")
	default:
		return fmt.Errorf("unknown store %q (want memory or postgres)", app.StoreKind)
	}

	app.Notifier = notify.NewLogDispatcher(app.Logger)
	if r := app.Cfg.Redis; r != nil {
		client, err := notify.NewRedisClient(app.Ctx, r.Addr, r.Password, r.DB)
		if err != nil {
			app.Logger.Warn("Redis unavailable, notifications will only be logged", zap.String("addr", r.Addr), zap.Error(err))
			return nil
		}
		app.OnClose(func() { client.Close() })
		app.Notifier = notify.NewRedisQueue(client, r.QueueKey, app.Logger)
	}

	return nil
}
