package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kerhoff/recipebox/internal/listview"
	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
)

func (c *cli) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise the library",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			recipes, err := app.Service.ListRecipes(ctx, repository.RecipeFilters{})
			if err != nil {
				return err
			}
			plans, err := app.Service.ListMealPlans(ctx)
			if err != nil {
				return err
			}
			lists, err := app.Service.ListGroceryLists(ctx)
			if err != nil {
				return err
			}
			logs, err := app.Service.History(ctx, 0, 0)
			if err != nil {
				return err
			}

			count := func(f listview.Filter[*models.Recipe]) int {
				st := listview.State[*models.Recipe]{Filters: map[string]listview.Filter[*models.Recipe]{f.ID: f}}
				return listview.Derive(recipes, st, nil).Len()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recipes:       %d\n", len(recipes))
			fmt.Fprintf(out, "  favorites:   %d\n", count(listview.FavoritesFilter()))
			fmt.Fprintf(out, "  templates:   %d\n", count(listview.TemplatesFilter()))
			fmt.Fprintf(out, "Meal plans:    %d\n", len(plans))
			fmt.Fprintf(out, "Grocery lists: %d\n", len(lists))
			fmt.Fprintf(out, "Times cooked:  %d\n", len(logs))

			byCuisine := listview.GroupRecipesByCuisine()
			res := listview.Derive(recipes, listview.State[*models.Recipe]{Grouping: &byCuisine}, nil)
			if res.Len() > 0 {
				fmt.Fprintln(out, "By cuisine:")
				for _, g := range res.Groups {
					fmt.Fprintf(out, "  %s: %d\n", g.Label, len(g.Items))
				}
			}
			return nil
		}),
	}
}
