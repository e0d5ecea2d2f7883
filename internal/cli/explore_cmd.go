package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newExploreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Browse the WBS tree interactively",
		Long: `Opens the explorer screen. Only roots are shown at first; expand a node
to reveal its children. Expansion state is not saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("explore needs an interactive terminal; use 'adidaya wbs tree' instead")
			}
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			p := tea.NewProgram(newExploreModel(wb.WBS),
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}
}
