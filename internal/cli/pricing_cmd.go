package cli

import (
	"fmt"
	"strconv"

	"github.com/adidayastudio/from-adidaya-sub005/internal/cli/formatter"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/pricing"
	"github.com/spf13/cobra"
)

func newPricingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Edit the cost matrix",
	}
	classCmd := &cobra.Command{
		Use:   "class",
		Short: "Manage pricing classes",
	}
	classCmd.AddCommand(newPricingClassAddCmd(app), newPricingClassListCmd(app))

	cmd.AddCommand(
		classCmd,
		newPricingSetCmd(app),
		newPricingShowCmd(app),
		newPricingRollupCmd(app),
	)
	return cmd
}

func newPricingClassAddCmd(app *App) *cobra.Command {
	var code, finish string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a pricing class (a column of the matrix)",
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			c, err := wb.Cost.AddClass(cmd.Context(), code, finish)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added pricing class %s\n", c.ClassCode)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Class code, e.g. A or PREMIUM")
	cmd.Flags().StringVar(&finish, "finish", "", "Finish level label")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func newPricingClassListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pricing classes with their grand totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPricingClasses(wb.Cost))
			return nil
		},
	}
}

// newPricingSetCmd edits one or more cells and saves them together, so the
// stored percentages are recomputed once against the final totals.
func newPricingSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set CLASS CODE COST [CODE COST]...",
		Short: "Set cell costs and save",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 || (len(args)-1)%2 != 0 {
				return fmt.Errorf("expected CLASS followed by CODE COST pairs")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			class, err := wb.Cost.ResolveClass(args[0])
			if err != nil {
				return err
			}
			for i := 1; i < len(args); i += 2 {
				node, err := wb.WBS.Resolve(args[i])
				if err != nil {
					return err
				}
				cost, err := strconv.ParseFloat(args[i+1], 64)
				if err != nil {
					return fmt.Errorf("invalid cost %q: %w", args[i+1], err)
				}
				if err := wb.Cost.SetCost(class.ID, node.Code, cost); err != nil {
					return err
				}
			}
			if err := wb.Cost.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: grand total %s\n", class.ClassCode, pricing.Format2(wb.Cost.GrandTotal(class.ID)))
			return nil
		},
	}
}

func newPricingShowCmd(app *App) *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the cost matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			visible, err := flags.visible(wb.WBS)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCostMatrix(wb.Cost, visible))
			return nil
		},
	}
	flags.register(cmd, string(domain.FamilyBallpark))
	return cmd
}

func newPricingRollupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rollup CLASS",
		Short: "Replace parent costs with the sum of their children and save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			class, err := wb.Cost.ResolveClass(args[0])
			if err != nil {
				return err
			}
			if err := wb.Cost.Rollup(class.ID); err != nil {
				return err
			}
			if err := wb.Cost.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled up %s: grand total %s\n", class.ClassCode, pricing.Format2(wb.Cost.GrandTotal(class.ID)))
			return nil
		},
	}
}
