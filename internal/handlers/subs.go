package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/share"
)

func (c *cli) subsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subs",
		Aliases: []string{"substitute"},
		Short:   "Look up and manage ingredient substitutions",
	}
	cmd.AddCommand(
		c.subsLookupCommand(),
		c.subsListCommand(),
		c.subsSeedCommand(),
		c.subsAddCommand(),
	)
	return cmd
}

func (c *cli) subsLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <ingredient>",
		Short: "Show substitutes for an ingredient, best first",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			name := strings.Join(args, " ")
			subs, err := app.Service.LookupSubstitutes(ctx, name)
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No substitutes known for %q\n", name)
				return nil
			}
			for _, s := range subs {
				fmt.Fprintln(cmd.OutOrStdout(), substituteLine(s))
			}
			return nil
		}),
	}
}

func substituteLine(s models.Substitute) string {
	line := fmt.Sprintf("%d. %s (x%s)", s.Rank, s.Name, share.FormatQuantity(s.Ratio))
	if s.ConversionNote != "" {
		line += " " + s.ConversionNote
	}
	if s.Note != "" {
		line += " - " + s.Note
	}
	if len(s.DietaryTags) > 0 {
		line += " [" + strings.Join(s.DietaryTags, ", ") + "]"
	}
	return line
}

func (c *cli) subsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ingredients with known substitutes",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			all, err := app.Service.ListSubstitutions(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No substitutions. Run `recipebox subs seed` to add the defaults.")
				return nil
			}
			for _, s := range all {
				line := fmt.Sprintf("%s\t%d substitute(s)", s.Ingredient, len(s.Substitutes))
				if s.Category != "" {
					line += "\t" + s.Category
				}
				if s.UserAdded {
					line += "\tcustom"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		}),
	}
}

func (c *cli) subsSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add or refresh the built-in substitutions",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			n, err := app.Service.SeedSubstitutions(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d substitution(s)\n", n)
			return nil
		}),
	}
}

func (c *cli) subsAddCommand() *cobra.Command {
	var (
		sub      models.Substitute
		category string
	)
	cmd := &cobra.Command{
		Use:   "add <ingredient>",
		Short: "Add your own substitute for an ingredient",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			ingredient := strings.Join(args, " ")
			// keep the stored substitutes and add the new one
			var subs []models.Substitute
			existing, err := app.Service.LookupSubstitutes(ctx, ingredient)
			if err != nil {
				return err
			}
			for _, s := range existing {
				if !strings.EqualFold(s.Name, sub.Name) {
					subs = append(subs, s)
				}
			}
			subs = append(subs, sub)

			saved, err := app.Service.AddUserSubstitution(ctx, &models.IngredientSubstitution{
				Ingredient:  ingredient,
				Category:    category,
				Substitutes: subs,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d substitute(s)\n", saved.Ingredient, len(saved.Substitutes))
			return nil
		}),
	}
	fl := cmd.Flags()
	fl.StringVar(&sub.Name, "name", "", "Substitute ingredient")
	fl.Float64Var(&sub.Ratio, "ratio", 1, "Amount of substitute per unit of the ingredient")
	fl.IntVar(&sub.Rank, "rank", 5, "Rank from 1 (best) to 10")
	fl.StringVar(&sub.ConversionNote, "conversion", "", "How to convert, e.g. \"1 cup for 1 cup\"")
	fl.StringVar(&sub.Note, "note", "", "Notes on flavour or texture")
	fl.StringSliceVar(&sub.DietaryTags, "diet", nil, "Dietary tag, e.g. vegan (repeatable)")
	fl.StringVar(&category, "category", "", "Category of the ingredient")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
