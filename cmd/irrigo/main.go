package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/irrigo/internal/cli"
	"github.com/alexanderramin/irrigo/internal/config"
	"github.com/alexanderramin/irrigo/internal/db"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/alexanderramin/irrigo/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}

	app := &cli.App{Config: cfg}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	var closeDB func() error
	app.Connect = func(ctx context.Context, a *cli.App) error {
		var err error
		closeDB, err = wire(a)
		return err
	}
	defer func() {
		if closeDB != nil {
			closeDB()
		}
	}()

	return cli.NewRootCmd(app).Execute()
}

// wire opens the database named by the (flag-adjusted) config and fills in
// the app's services.
func wire(app *cli.App) (func() error, error) {
	logger, err := app.Config.NewLogger(os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	app.Logger = logger

	database, err := db.OpenDB(app.Config.DB)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	projectRepo := repository.NewSQLiteProjectRepo(database)
	workItemRepo := repository.NewSQLiteWorkItemRepo(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	reportRepo := repository.NewSQLiteDailyReportRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(logger)

	app.Projects = service.NewProjectService(projectRepo, observer)
	app.WorkItems = service.NewWorkItemService(workItemRepo, scheduleRepo, projectRepo)
	app.Schedule = service.NewScheduleService(projectRepo, workItemRepo, scheduleRepo, uow, observer)
	app.Progress = service.NewProgressService(reportRepo, uow, observer)
	app.Status = service.NewStatusService(projectRepo, workItemRepo, scheduleRepo, reportRepo, app.Config.Thresholds())
	app.Snapshots = service.NewSnapshotService(projectRepo, uow, observer)
	app.Import = service.NewImportService(uow, observer)

	logger.Debug("database ready", "path", app.Config.DB)
	return database.Close, nil
}
