package cli

import (
	"context"
	"fmt"

	"github.com/adidayastudio/from-adidaya-sub005/internal/app"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/service"
	"github.com/spf13/cobra"
)

// App holds what CLI commands need: the workspace registry and a way to
// open the editors of one workspace.
type App struct {
	Workspaces service.WorkspaceService
	Open       func(ctx context.Context, ws *domain.Workspace) (*app.Workbench, error)
	Catalog    *domain.DisciplineCatalog

	// DefaultWorkspace is used when --workspace is not given.
	DefaultWorkspace string

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// Confirm asks a yes/no question. Nil uses a huh prompt.
	Confirm func(title string) (bool, error)

	workspaceFlag string
}

// NewRootCmd creates the top-level "adidaya" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "adidaya",
		Short:         "WBS, cost matrix and BOQ editor for interior and construction projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&app.workspaceFlag, "workspace", "w", "", "Workspace code or id (default from ADIDAYA_WORKSPACE)")

	root.AddCommand(
		newWorkspaceCmd(app),
		newWBSCmd(app),
		newPricingCmd(app),
		newBoqCmd(app),
		newLocationCmd(app),
		newImportCmd(app),
		newExploreCmd(app),
	)
	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	return huhConfirm(title)
}

// workspace resolves the selected workspace.
func (a *App) workspace(ctx context.Context) (*domain.Workspace, error) {
	ref := a.workspaceFlag
	if ref == "" {
		ref = a.DefaultWorkspace
	}
	return a.Workspaces.Resolve(ctx, ref)
}

// workbench resolves the selected workspace and loads its editors.
func (a *App) workbench(ctx context.Context) (*app.Workbench, error) {
	ws, err := a.workspace(ctx)
	if err != nil {
		return nil, err
	}
	if a.Open == nil {
		return nil, fmt.Errorf("no workbench opener configured")
	}
	return a.Open(ctx, ws)
}
