package cli

import (
	"fmt"

	"github.com/adidayastudio/from-adidaya-sub005/internal/cli/formatter"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/location"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newLocationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "location",
		Aliases: []string{"loc"},
		Short:   "Manage regional cost factors",
	}
	cmd.AddCommand(
		newLocationAddCmd(app),
		newLocationUpdateCmd(app),
		newLocationRemoveCmd(app),
		newLocationListCmd(app),
	)
	return cmd
}

func newLocationAddCmd(app *App) *cobra.Command {
	var code, province, city string
	var regional, difficulty float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a province default (no --city) or a city row",
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			row := domain.LocationFactor{
				Code:             code,
				Province:         province,
				RegionalFactor:   regional,
				DifficultyFactor: difficulty,
			}
			if city != "" {
				row.City = &city
			}
			added, err := wb.Locations.Add(cmd.Context(), row)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (effective factor %s)\n", label(added), location.DisplayFactor(added))
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Optional short code")
	cmd.Flags().StringVar(&province, "province", "", "Province")
	cmd.Flags().StringVar(&city, "city", "", "City (omit for the province default row)")
	cmd.Flags().Float64Var(&regional, "regional", 1, "Regional factor")
	cmd.Flags().Float64Var(&difficulty, "difficulty", 1, "Difficulty factor")
	_ = cmd.MarkFlagRequired("province")
	return cmd
}

func newLocationUpdateCmd(app *App) *cobra.Command {
	var code, province, city string
	var regional, difficulty float64
	var clearCity bool

	cmd := &cobra.Command{
		Use:   "update ROW",
		Short: "Update a location row by id or code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.LocationPatch
			flags := cmd.Flags()
			if flags.Changed("code") {
				patch.Code = &code
			}
			if flags.Changed("province") {
				patch.Province = &province
			}
			if flags.Changed("city") {
				patch.City = &city
			}
			if flags.Changed("regional") {
				patch.RegionalFactor = &regional
			}
			if flags.Changed("difficulty") {
				patch.DifficultyFactor = &difficulty
			}
			patch.ClearCity = clearCity

			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			row, err := wb.Locations.Resolve(args[0])
			if err != nil {
				return err
			}
			updated, err := wb.Locations.Update(cmd.Context(), row.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (effective factor %s)\n", label(updated), location.DisplayFactor(updated))
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Short code")
	cmd.Flags().StringVar(&province, "province", "", "Province")
	cmd.Flags().StringVar(&city, "city", "", "City")
	cmd.Flags().BoolVar(&clearCity, "clear-city", false, "Turn the row into a province default")
	cmd.Flags().Float64Var(&regional, "regional", 0, "Regional factor")
	cmd.Flags().Float64Var(&difficulty, "difficulty", 0, "Difficulty factor")
	return cmd
}

func newLocationRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ROW",
		Short: "Delete a location row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			row, err := wb.Locations.Resolve(args[0])
			if err != nil {
				return err
			}
			ok, err := confirmDestructive(app, yes, fmt.Sprintf("Delete %s?", label(row)))
			if err != nil || !ok {
				return err
			}
			if err := wb.Locations.Remove(cmd.Context(), row.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", label(row))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newLocationListCmd(app *App) *cobra.Command {
	sortKey := sortKeyFlag(domain.SortProvince)
	var desc bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List location factors grouped by province",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := domain.SortAsc
			if desc {
				dir = domain.SortDesc
			}
			wb, err := app.workbench(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLocationGroups(wb.Locations.Groups(domain.LocationSortKey(sortKey), dir)))
			return nil
		},
	}
	cmd.Flags().Var(&sortKey, "sort", "Sort key: province, city, regional_factor, difficulty_factor, effective_factor")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	return cmd
}

// sortKeyFlag rejects unknown sort keys while flags are parsed.
type sortKeyFlag domain.LocationSortKey

var _ pflag.Value = (*sortKeyFlag)(nil)

func (f *sortKeyFlag) String() string { return string(*f) }

func (f *sortKeyFlag) Type() string { return "key" }

func (f *sortKeyFlag) Set(s string) error {
	key, err := domain.ParseLocationSortKey(s)
	if err != nil {
		return err
	}
	*f = sortKeyFlag(key)
	return nil
}

func label(r *domain.LocationFactor) string {
	if r.IsProvinceDefault() {
		return r.Province
	}
	return r.Province + " / " + r.CityName()
}
