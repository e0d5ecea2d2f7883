package main

import (
	"fmt"
	"os"

	"github.com/adidayastudio/from-adidaya-sub005/internal/app"
	"github.com/adidayastudio/from-adidaya-sub005/internal/cli"
	"github.com/adidayastudio/from-adidaya-sub005/internal/config"
	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
	"github.com/adidayastudio/from-adidaya-sub005/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	var observer service.UseCaseObserver
	if cfg.LogCalls {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	catalog := cfg.Catalog()
	opener := app.NewOpener(database, catalog, observer)

	a := &cli.App{
		Workspaces:       service.NewWorkspaceService(repository.NewSQLiteWorkspaceRepo(database), observer),
		Open:             opener.Open,
		Catalog:          catalog,
		DefaultWorkspace: cfg.Workspace,
	}

	// Prompts and the explorer need a terminal on stdin.
	a.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(a).Execute()
}
