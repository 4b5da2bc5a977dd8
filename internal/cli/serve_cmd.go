package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/irrigo/internal/httpapi"
	"github.com/alexanderramin/irrigo/internal/scheduler"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API and the background snapshot refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			logger := a.logger()

			refresher := scheduler.NewRefresher(a.Snapshots, logger)
			if err := refresher.Start(ctx, a.Config.Snapshot.RefreshSchedule); err != nil {
				return err
			}
			defer refresher.Stop()

			srv := httpapi.New(httpapi.Services{
				Projects:  a.Projects,
				WorkItems: a.WorkItems,
				Schedule:  a.Schedule,
				Progress:  a.Progress,
				Status:    a.Status,
			}, logger)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(a.Config.HTTP.Addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&a.Config.HTTP.Addr, "addr", a.Config.HTTP.Addr, "Listen address")
	cmd.Flags().StringVar(&a.Config.Snapshot.RefreshSchedule, "refresh", a.Config.Snapshot.RefreshSchedule,
		"Cron schedule for the snapshot refresh; empty disables it")
	return cmd
}
