// Package app wires the per-workspace editors against one database.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
	"github.com/adidayastudio/from-adidaya-sub005/internal/service"
)

// Workbench bundles the editors of one workspace. All of them share the
// workspace's record store.
type Workbench struct {
	Workspace *domain.Workspace
	WBS       service.WBSEditor
	Cost      service.CostEditor
	Boq       service.BoqService
	Locations service.LocationService
	Import    service.ImportService
}

// Load refreshes every editor from the store. Unsaved cost edits are lost.
func (w *Workbench) Load(ctx context.Context) error {
	loaders := []struct {
		name string
		load func(context.Context) error
	}{
		{"wbs", w.WBS.Load},
		{"pricing", w.Cost.Load},
		{"boq", w.Boq.Load},
		{"locations", w.Locations.Load},
	}
	for _, l := range loaders {
		if err := l.load(ctx); err != nil {
			return fmt.Errorf("loading %s: %w", l.name, err)
		}
	}
	return nil
}

// Opener builds workbenches for any workspace of a database.
type Opener struct {
	DB       *sql.DB
	UoW      db.UnitOfWork
	Catalog  *domain.DisciplineCatalog
	Observer service.UseCaseObserver
}

// NewOpener returns an opener using a SQLite unit of work over database.
func NewOpener(database *sql.DB, catalog *domain.DisciplineCatalog, observer service.UseCaseObserver) *Opener {
	return &Opener{
		DB:       database,
		UoW:      db.NewSQLiteUnitOfWork(database),
		Catalog:  catalog,
		Observer: observer,
	}
}

// Open wires and loads the editors of ws.
func (o *Opener) Open(ctx context.Context, ws *domain.Workspace) (*Workbench, error) {
	nodes := repository.NewSQLiteWBSNodeRepo(o.DB)
	w := &Workbench{
		Workspace: ws,
		WBS:       service.NewWBSEditor(ws, o.Catalog, nodes, o.UoW, o.Observer),
		Cost:      service.NewCostEditor(ws, repository.NewSQLitePricingClassRepo(o.DB), nodes, o.UoW, o.Observer),
		Boq:       service.NewBoqService(ws, repository.NewSQLiteBoqRepo(o.DB), nodes, o.UoW, o.Observer),
		Locations: service.NewLocationService(ws, repository.NewSQLiteLocationFactorRepo(o.DB), o.UoW, o.Observer),
		Import:    service.NewImportService(ws, o.Catalog, o.UoW, o.Observer),
	}
	if err := w.Load(ctx); err != nil {
		return nil, err
	}
	return w, nil
}
