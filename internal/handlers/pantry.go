package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/share"
)

func (c *cli) pantryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Manage pantry staples left off generated grocery lists",
	}
	cmd.AddCommand(
		c.pantryListCommand(),
		c.pantrySeedCommand(),
		c.pantryAddCommand(),
		c.pantryEnableCommand(true),
		c.pantryEnableCommand(false),
		c.pantryDeleteCommand(),
	)
	return cmd
}

func (c *cli) pantryListCommand() *cobra.Command {
	var enabled bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show pantry staples",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			staples, err := app.Service.ListPantryStaples(ctx, enabled)
			if err != nil {
				return err
			}
			if len(staples) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pantry staples. Run `recipebox pantry seed` to add the defaults.")
				return nil
			}
			for _, s := range staples {
				fmt.Fprintln(cmd.OutOrStdout(), stapleLine(s))
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&enabled, "enabled", false, "Only enabled staples")
	return cmd
}

func stapleLine(s *models.PantryStapleConfig) string {
	state := "on "
	if !s.Enabled {
		state = "off"
	}
	rule := "always"
	if !s.AlwaysFilter {
		rule = "below " + share.FormatQuantity(s.ThresholdQuantity)
		if s.ThresholdUnit != "" {
			rule += " " + s.ThresholdUnit
		}
	}
	line := fmt.Sprintf("%d\t%s\t%s", s.ID, state, s.Pattern)
	if s.AlternativeNames != "" {
		line += " (" + s.AlternativeNames + ")"
	}
	line += "\t" + rule
	if s.Category != "" {
		line += "\t" + s.Category
	}
	if s.Custom {
		line += "\tcustom"
	}
	return line
}

func (c *cli) pantrySeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the default pantry staples when none exist",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			n, err := app.Service.SeedPantryStaples(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d pantry staple(s)\n", n)
			return nil
		}),
	}
}

func (c *cli) pantryAddCommand() *cobra.Command {
	var (
		alternatives []string
		threshold    float64
		unit         string
		category     string
		always       bool
	)
	cmd := &cobra.Command{
		Use:   "add <pattern>",
		Short: "Add a custom pantry staple",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			staple := &models.PantryStapleConfig{
				Pattern:           strings.Join(args, " "),
				AlternativeNames:  strings.Join(alternatives, ", "),
				ThresholdQuantity: threshold,
				ThresholdUnit:     unit,
				Category:          category,
				AlwaysFilter:      always,
				Enabled:           true,
			}
			saved, err := app.Service.SavePantryStaple(ctx, staple)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added pantry staple %d\n", saved.ID)
			return nil
		}),
	}
	fl := cmd.Flags()
	fl.StringSliceVar(&alternatives, "alt", nil, "Alternative name (repeatable or comma-separated)")
	fl.Float64Var(&threshold, "threshold", 0, "Leave off lists when less than this amount is needed")
	fl.StringVar(&unit, "unit", "", "Unit of the threshold")
	fl.StringVar(&category, "category", "", "Category, e.g. spices")
	fl.BoolVar(&always, "always", false, "Always leave off lists regardless of amount")
	return cmd
}

func (c *cli) pantryEnableCommand(enabled bool) *cobra.Command {
	use, verb := "enable", "Enabled"
	if !enabled {
		use, verb = "disable", "Disabled"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: verb + " a pantry staple",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("staple id", args[0])
			if err != nil {
				return err
			}
			if err := app.Service.SetPantryStapleEnabled(ctx, id, enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s pantry staple %d\n", verb, id)
			return nil
		}),
	}
}

func (c *cli) pantryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pantry staple",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("staple id", args[0])
			if err != nil {
				return err
			}
			if err := app.Service.DeletePantryStaple(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted pantry staple %d\n", id)
			return nil
		}),
	}
}
