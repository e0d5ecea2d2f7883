package cli

import (
	"fmt"

	"github.com/adidayastudio/from-adidaya-sub005/internal/app"
	"github.com/adidayastudio/from-adidaya-sub005/internal/cli/formatter"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/spf13/cobra"
)

func newBoqCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boq",
		Short: "Bind WBS nodes to bill-of-quantities formulas",
	}
	cmd.AddCommand(
		newBoqCreateLinkCmd(app),
		newBoqLinkCmd(app),
		newBoqUnlinkCmd(app),
		newBoqFormulaCmd(app),
		newBoqElementCmd(app),
		newBoqShowCmd(app),
		newBoqListCmd(app),
	)
	return cmd
}

// boqNode resolves a node reference through the WBS editor and returns the
// binder's copy, which carries the current link.
func boqNode(wb *app.Workbench, ref string) (*domain.WBSNode, error) {
	n, err := wb.WBS.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return wb.Boq.Node(n.ID)
}

func newBoqCreateLinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create-link NODE",
		Short: "Create an empty definition named after the node and link it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			n, err := boqNode(wb, args[0])
			if err != nil {
				return err
			}
			def, err := wb.Boq.CreateAndLink(cmd.Context(), n.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q and linked %s\n", def.Code, def.Name, n.Code)
			return nil
		},
	}
}

func newBoqLinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "link NODE DEFINITION",
		Short: "Link a node to an existing definition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			n, err := boqNode(wb, args[0])
			if err != nil {
				return err
			}
			def, err := wb.Boq.ResolveDefinition(args[1])
			if err != nil {
				return err
			}
			if err := wb.Boq.LinkExisting(cmd.Context(), n.ID, def.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to %s\n", n.Code, def.Code)
			return nil
		},
	}
}

func newBoqUnlinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink NODE",
		Short: "Clear a node's definition link (the definition is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			n, err := boqNode(wb, args[0])
			if err != nil {
				return err
			}
			if err := wb.Boq.Unlink(cmd.Context(), n.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s\n", n.Code)
			return nil
		},
	}
}

func newBoqFormulaCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "formula DEFINITION EXPRESSION",
		Short: "Set a definition's formula text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			def, err := wb.Boq.ResolveDefinition(args[0])
			if err != nil {
				return err
			}
			def, err = wb.Boq.SetFormula(cmd.Context(), def.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", def.Code, def.Formula)
			if missing := def.MissingSymbols(); len(missing) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Warn(fmt.Sprintf("undeclared symbols: %v", missing)))
			}
			return nil
		},
	}
}

func newBoqElementCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "element",
		Short: "Edit the elements (named inputs) of a definition",
	}
	cmd.AddCommand(
		newBoqElementAddCmd(app),
		newBoqElementUpdateCmd(app),
		newBoqElementRemoveCmd(app),
	)
	return cmd
}

func newBoqElementAddCmd(app *App) *cobra.Command {
	var name, symbol, unit string

	cmd := &cobra.Command{
		Use:   "add DEFINITION",
		Short: "Add an element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			def, err := wb.Boq.ResolveDefinition(args[0])
			if err != nil {
				return err
			}
			el, err := wb.Boq.AddElement(cmd.Context(), def.ID, domain.BoqElement{Name: name, Symbol: symbol, Unit: unit})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added element %s (%s) to %s [%s]\n", el.Name, el.Symbol, def.Code, el.ID[:8])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Element name")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Symbol used in the formula")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit, e.g. m")
	return cmd
}

// resolveElement finds an element by id, id prefix or symbol.
func resolveElement(def *domain.BoqDefinition, ref string) (*domain.BoqElement, error) {
	var matches []*domain.BoqElement
	for i := range def.Elements {
		e := &def.Elements[i]
		if e.ID == ref {
			return e, nil
		}
		if e.Symbol == ref || (len(ref) >= 4 && len(e.ID) >= len(ref) && e.ID[:len(ref)] == ref) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &domain.NotFoundError{Kind: "boq element", ID: ref}
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("element %q is ambiguous (%d matches); use its id", ref, len(matches))
	}
}

func newBoqElementUpdateCmd(app *App) *cobra.Command {
	var name, symbol, unit string

	cmd := &cobra.Command{
		Use:   "update DEFINITION ELEMENT",
		Short: "Update an element's name, symbol or unit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.ElementPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("symbol") {
				patch.Symbol = &symbol
			}
			if cmd.Flags().Changed("unit") {
				patch.Unit = &unit
			}
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			def, err := wb.Boq.ResolveDefinition(args[0])
			if err != nil {
				return err
			}
			el, err := resolveElement(def, args[1])
			if err != nil {
				return err
			}
			updated, err := wb.Boq.UpdateElement(cmd.Context(), def.ID, el.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated element %s (%s)\n", updated.Name, updated.Symbol)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Element name")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Symbol used in the formula")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit")
	return cmd
}

func newBoqElementRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove DEFINITION ELEMENT",
		Short: "Remove an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			def, err := wb.Boq.ResolveDefinition(args[0])
			if err != nil {
				return err
			}
			el, err := resolveElement(def, args[1])
			if err != nil {
				return err
			}
			if err := wb.Boq.RemoveElement(cmd.Context(), def.ID, el.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed element %s from %s\n", formatter.OrDash(el.Symbol), def.Code)
			return nil
		},
	}
}

func newBoqShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show DEFINITION|NODE",
		Short: "Show a definition, or the definition linked to a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			def, err := wb.Boq.ResolveDefinition(args[0])
			if err != nil {
				n, nodeErr := boqNode(wb, args[0])
				if nodeErr != nil {
					return err
				}
				if n.DefinitionID == nil {
					return fmt.Errorf("node %s has no BOQ definition (create one with: adidaya boq create-link %s)", n.Code, n.Code)
				}
				if def, err = wb.Boq.Definition(*n.DefinitionID); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBoqDefinition(def, wb.Boq.LinkedNodes(def.ID)))
			return nil
		},
	}
}

func newBoqListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			count := func(id string) int { return len(wb.Boq.LinkedNodes(id)) }
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoqList(wb.Boq.Definitions(), count))
			return nil
		},
	}
}
