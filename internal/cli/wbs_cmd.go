package cli

import (
	"fmt"
	"strings"

	"github.com/adidayastudio/from-adidaya-sub005/internal/cli/formatter"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/service"
	"github.com/adidayastudio/from-adidaya-sub005/internal/wbs"
	"github.com/spf13/cobra"
)

func newWBSCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wbs",
		Short: "Edit the work breakdown structure",
	}
	cmd.AddCommand(
		newWBSAddRootCmd(app),
		newWBSAddChildCmd(app),
		newWBSRenameCmd(app),
		newWBSRemoveCmd(app),
		newWBSTreeCmd(app),
		newWBSDisciplinesCmd(app),
	)
	return cmd
}

func newWBSAddRootCmd(app *App) *cobra.Command {
	var discipline, code, name string

	cmd := &cobra.Command{
		Use:   "add-root",
		Short: "Add a root node from a discipline or with a custom code",
		Example: `  adidaya wbs add-root --discipline S
  adidaya wbs add-root --code X --name Preliminaries`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (discipline == "") == (code == "") {
				return fmt.Errorf("pass exactly one of --discipline or --code")
			}
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			var n *domain.WBSNode
			if discipline != "" {
				n, err = wb.WBS.AddRoot(cmd.Context(), discipline)
			} else {
				n, err = wb.WBS.AddCustomRoot(cmd.Context(), code, name)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", n.Code, n.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVar(&discipline, "discipline", "", "Discipline code from the catalog")
	cmd.Flags().StringVar(&code, "code", "", "Custom root code")
	cmd.Flags().StringVar(&name, "name", "", "Name of a custom root")
	return cmd
}

func newWBSAddChildCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add-child PARENT",
		Short: "Add a child node; its code is allocated from the parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			parent, err := wb.WBS.Resolve(args[0])
			if err != nil {
				return err
			}
			n, err := wb.WBS.AddChild(cmd.Context(), parent.ID, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", n.Code, n.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Node name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newWBSRenameCmd(app *App) *cobra.Command {
	var name, nameID string

	cmd := &cobra.Command{
		Use:   "rename NODE",
		Short: "Rename a node; its code never changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var en, id *string
			if cmd.Flags().Changed("name") {
				en = &name
			}
			if cmd.Flags().Changed("name-id") {
				id = &nameID
			}
			if en == nil && id == nil {
				return fmt.Errorf("pass --name and/or --name-id")
			}
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			n, err := wb.WBS.Resolve(args[0])
			if err != nil {
				return err
			}
			updated, err := wb.WBS.Rename(cmd.Context(), n.ID, en, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", updated.Code, updated.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "English name")
	cmd.Flags().StringVar(&nameID, "name-id", "", "Indonesian name")
	return cmd
}

func newWBSRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove NODE",
		Short: "Delete a node and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			n, err := wb.WBS.Resolve(args[0])
			if err != nil {
				return err
			}
			subtree := len(wbs.Descendants(wb.WBS.Flat(), n.ID))
			title := fmt.Sprintf("Delete %s %s?", n.Code, n.DisplayName())
			if subtree > 0 {
				title = fmt.Sprintf("Delete %s %s and %d descendant(s)?", n.Code, n.DisplayName(), subtree)
			}
			ok, err := confirmDestructive(app, yes, title)
			if err != nil || !ok {
				return err
			}
			removed, err := wb.WBS.Delete(cmd.Context(), n.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d node(s))\n", n.Code, len(removed))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

// viewFlags are the tree filters shared by wbs tree and pricing show.
type viewFlags struct {
	family string
	mode   string
	expand []string
	search string
}

func (v *viewFlags) register(cmd *cobra.Command, defaultFamily string) {
	cmd.Flags().StringVar(&v.family, "family", defaultFamily, "Screen family: ballpark, detail or explorer")
	cmd.Flags().StringVar(&v.mode, "mode", string(domain.ModeBreakdown), "View mode: summary or breakdown")
	cmd.Flags().StringSliceVar(&v.expand, "expand", nil, "Expanded codes for the explorer family (comma separated)")
	cmd.Flags().StringVar(&v.search, "search", "", "Show only nodes whose code or name contains this text")
}

func (v *viewFlags) visible(editor service.WBSEditor) ([]*domain.WBSNode, error) {
	family, err := domain.ParseScreenFamily(v.family)
	if err != nil {
		return nil, err
	}
	mode, err := domain.ParseViewMode(v.mode)
	if err != nil {
		return nil, err
	}
	expanded := wbs.NewExpandedSet()
	for _, c := range v.expand {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			expanded.Expand(c)
		}
	}
	return editor.View(family, mode, expanded, v.search), nil
}

func newWBSTreeCmd(app *App) *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the WBS tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			visible, err := flags.visible(wb.WBS)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWBSTree(visible, wb.WBS.Catalog()))
			return nil
		},
	}
	flags.register(cmd, string(domain.FamilyDetail))
	return cmd
}

func newWBSDisciplinesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "disciplines",
		Short: "List the discipline catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDisciplines(app.Catalog))
			return nil
		},
	}
}
