package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/db"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/importer"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/samber/lo"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "import.project", start, err, map[string]any{"short_id": schema.Project.ShortID})
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated := importer.Convert(schema)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txItems := repository.NewSQLiteWorkItemRepo(tx)
		txSchedules := repository.NewSQLiteScheduleRepo(tx)
		txSnapshots := repository.NewSQLiteSnapshotRepo(tx)

		if err := txProjects.Create(ctx, generated.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, item := range generated.Items {
			if err := txItems.Create(ctx, item); err != nil {
				return fmt.Errorf("creating work item %q: %w", item.Name, err)
			}
		}
		for i := range generated.Entries {
			if _, err := txSchedules.UpsertCell(ctx, &generated.Entries[i]); err != nil {
				return fmt.Errorf("creating schedule entry: %w", err)
			}
		}
		_, err := rebuildSnapshots(ctx, generated.Project, txItems, txSchedules, txSnapshots, time.Now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	activities := lo.CountBy(generated.Items, func(w *domain.WorkItem) bool { return w.Kind == domain.KindActivity })
	return &ImportResult{
		Project:          generated.Project,
		ActivityCount:    activities,
		SubActivityCount: len(generated.Items) - activities,
		EntryCount:       len(generated.Entries),
	}, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - " + e.Error())
	}
	return app.NewRequestError(app.ErrInvalidImport, b.String())
}
