package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexanderramin/irrigo/internal/config"
	"github.com/alexanderramin/irrigo/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings shared by every command.
type App struct {
	Projects  service.ProjectService
	WorkItems service.WorkItemService
	Schedule  service.ScheduleService
	Progress  service.ProgressService
	Status    service.StatusService
	Snapshots service.SnapshotService
	Import    service.ImportService

	Config config.Config
	Logger *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// Connect runs once flags are parsed and fills in the services from
	// Config. Nil when the services were wired up front.
	Connect func(ctx context.Context, app *App) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// NewRootCmd creates the top-level "irrigo" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "irrigo",
		Short:         "Irrigation works progress monitor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.Validate(); err != nil {
				return err
			}
			if app.Connect == nil {
				return nil
			}
			if err := app.Connect(cmd.Context(), app); err != nil {
				return fmt.Errorf("connecting: %w", err)
			}
			return nil
		},
	}
	app.Config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newProjectCmd(app),
		newItemCmd(app),
		newScheduleCmd(app),
		newReportCmd(app),
		newSeriesCmd(app),
		newCalendarCmd(app),
		newStatusCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newSnapshotCmd(app),
		newServeCmd(app),
	)
	return root
}

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
