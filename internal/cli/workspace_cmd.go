package cli

import (
	"errors"
	"fmt"

	"github.com/adidayastudio/from-adidaya-sub005/internal/cli/formatter"
	"github.com/spf13/cobra"
)

var errNeedsYes = errors.New("refusing to delete without confirmation (pass --yes)")

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage workspaces",
	}
	cmd.AddCommand(
		newWorkspaceCreateCmd(app),
		newWorkspaceListCmd(app),
		newWorkspaceRemoveCmd(app),
	)
	return cmd
}

func newWorkspaceCreateCmd(app *App) *cobra.Command {
	var code, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.Workspaces.Create(cmd.Context(), code, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created workspace %s [%s]\n", ws.Name, ws.Code)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Workspace code (uppercase letter + 1-7 letters or digits, e.g. VILLA01)")
	cmd.Flags().StringVar(&name, "name", "", "Workspace name")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func newWorkspaceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Workspaces.List(cmd.Context())
			if err != nil {
				return err
			}
			active := app.workspaceFlag
			if active == "" {
				active = app.DefaultWorkspace
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkspaceList(list, active))
			return nil
		},
	}
}

func newWorkspaceRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove CODE",
		Short: "Delete a workspace and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.Workspaces.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ok, err := confirmDestructive(app, yes, fmt.Sprintf("Delete workspace %s and all its data?", ws.Code))
			if err != nil || !ok {
				return err
			}
			if err := app.Workspaces.Delete(cmd.Context(), ws.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted workspace %s\n", ws.Code)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
