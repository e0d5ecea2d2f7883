package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Seed the workspace from a JSON or YAML file",
		Long: `Adds WBS nodes, pricing classes and location factors from FILE in one
transaction. Roots name a discipline or a custom code; children name their
parent by ref and get the next free child code. Pricing costs are keyed by
node ref or existing code.`,
		Example: `  adidaya import seed.yaml
  adidaya -w VILLA01 import boq-template.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			res, err := wb.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := wb.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d node(s), %d pricing class(es), %d location row(s) into %s\n",
				res.NodeCount, res.ClassCount, res.LocationCount, wb.Workspace.Code)
			return nil
		},
	}
}
