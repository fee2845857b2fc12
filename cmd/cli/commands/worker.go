package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/notify"
)

// WorkerCmd runs the notification worker until interrupted
func WorkerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Deliver queued accept/reject notifications by email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg == nil || app.Cfg.Redis == nil {
				return fmt.Errorf("the worker needs a redis section in the config")
			}
			r := app.Cfg.Redis

			client, err := notify.NewRedisClient(app.Ctx, r.Addr, r.Password, r.DB)
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			defer client.Close()

			gmail, err := app.GmailClient()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			worker := notify.NewWorker(client, app.Store, gmail, app.Logger, notify.WorkerOptions{
				QueueKey:      r.QueueKey,
				DeadLetterKey: r.DeadLetterKey,
				MaxAttempts:   r.MaxAttempts,
				Location:      app.location(),
			})
			app.Logger.Info("Starting notification worker", zap.String("redis", r.Addr))
			return worker.Run(ctx)
		},
	}
}
