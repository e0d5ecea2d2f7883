package service

import (
	"context"
	"fmt"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/importer"
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
)

type importService struct {
	workspace *domain.Workspace
	catalog   *domain.DisciplineCatalog
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewImportService(
	ws *domain.Workspace,
	catalog *domain.DisciplineCatalog,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ImportService {
	return &importService{
		workspace: ws,
		catalog:   catalog,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.Import(ctx, schema)
}

// Import validates the schema, then reads the workspace and inserts every
// record in one transaction. Nothing is written when any step fails.
func (s *importService) Import(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	fields := map[string]any{"workspace": s.workspace.Code}
	done := track(ctx, s.observer, "workspace-import", fields)
	defer func() { done(err) }()

	if errs := importer.ValidateImportSchema(schema, s.catalog); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	var plan *importer.Plan
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		nodes := repository.NewSQLiteWBSNodeRepo(tx)
		classes := repository.NewSQLitePricingClassRepo(tx)
		locations := repository.NewSQLiteLocationFactorRepo(tx)

		existing, err := nodes.ListByWorkspace(ctx, s.workspace.ID)
		if err != nil {
			return &domain.PersistenceError{Op: "list wbs nodes", Err: err}
		}
		existingClasses, err := classes.ListByWorkspace(ctx, s.workspace.ID)
		if err != nil {
			return &domain.PersistenceError{Op: "list pricing classes", Err: err}
		}

		plan, err = importer.Convert(schema, s.workspace.ID, existing, existingClasses, s.catalog)
		if err != nil {
			return err
		}

		for _, n := range plan.Nodes {
			if err := nodes.Create(ctx, n); err != nil {
				return &domain.PersistenceError{Op: fmt.Sprintf("create wbs node %s", n.Code), Err: err}
			}
		}
		for _, c := range plan.Classes {
			if err := classes.Create(ctx, c); err != nil {
				return &domain.PersistenceError{Op: fmt.Sprintf("create pricing class %s", c.ClassCode), Err: err}
			}
		}
		for _, l := range plan.Locations {
			if err := locations.Create(ctx, l); err != nil {
				return &domain.PersistenceError{Op: "create location factor", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["nodes"] = len(plan.Nodes)
	fields["classes"] = len(plan.Classes)
	fields["locations"] = len(plan.Locations)
	return &ImportResult{
		NodeCount:     len(plan.Nodes),
		ClassCount:    len(plan.Classes),
		LocationCount: len(plan.Locations),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
