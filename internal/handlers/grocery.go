package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kerhoff/recipebox/internal/listview"
	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
	"github.com/Kerhoff/recipebox/internal/service"
	"github.com/Kerhoff/recipebox/internal/share"
)

func (c *cli) groceryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "grocery",
		Aliases: []string{"list"},
		Short:   "Manage grocery lists",
	}
	cmd.AddCommand(
		c.groceryCreateCommand(),
		c.groceryListsCommand(),
		c.groceryAddRecipesCommand(),
		c.groceryFromPlanCommand(),
		c.groceryAddItemCommand(),
		c.groceryShowCommand(),
		c.groceryCheckCommand(true),
		c.groceryCheckCommand(false),
		c.groceryRemoveCommand(),
		c.groceryClearCommand(),
		c.groceryDeleteCommand(),
	)
	return cmd
}

func (c *cli) groceryCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty grocery list",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			list, err := app.Service.CreateGroceryList(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created grocery list %d\n", list.ID)
			return nil
		}),
	}
}

func (c *cli) groceryListsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show all grocery lists",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			lists, err := app.Service.ListGroceryLists(ctx)
			if err != nil {
				return err
			}
			if len(lists) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No grocery lists yet.")
				return nil
			}
			for _, l := range lists {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", l.ID, l.Name, l.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		}),
	}
}

func (c *cli) groceryAddRecipesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-recipes <list-id> <recipe-id>...",
		Short: "Add the ingredients of recipes to a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			listID, err := parseID("list id", args[0])
			if err != nil {
				return err
			}
			recipeIDs, err := parseIDs("recipe id", args[1:])
			if err != nil {
				return err
			}
			res, err := app.Service.AddRecipesToList(ctx, listID, recipeIDs)
			if err != nil {
				return err
			}
			printGenerated(cmd, listID, res)
			return nil
		}),
	}
}

func (c *cli) groceryFromPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "from-plan <plan-id>",
		Short: "Create a grocery list from a meal plan",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			planID, err := parseID("plan id", args[0])
			if err != nil {
				return err
			}
			list, res, err := app.Service.CreateListFromMealPlan(ctx, planID)
			if err != nil {
				return err
			}
			printGenerated(cmd, list.ID, res)
			return nil
		}),
	}
}

func printGenerated(cmd *cobra.Command, listID int64, res *service.GenerateResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added %d item(s) to list %d", len(res.Items), listID)
	if len(res.Suppressed) > 0 {
		names := make([]string, 0, len(res.Suppressed))
		for _, it := range res.Suppressed {
			names = append(names, it.Name)
		}
		fmt.Fprintf(out, "; skipped pantry staples: %s", strings.Join(names, ", "))
	}
	fmt.Fprintln(out)
	if len(res.MissingRecipes) > 0 {
		fmt.Fprintf(out, "Recipes not found: %v\n", res.MissingRecipes)
	}
}

func (c *cli) groceryAddItemCommand() *cobra.Command {
	var (
		qty   float64
		unit  string
		notes string
	)
	cmd := &cobra.Command{
		Use:   "add-item <list-id> <name>",
		Short: "Add an item by hand",
		Args:  cobra.MinimumNArgs(2),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			listID, err := parseID("list id", args[0])
			if err != nil {
				return err
			}
			item := &models.GroceryItem{
				GroceryListID:   listID,
				Name:            strings.Join(args[1:], " "),
				Unit:            unit,
				Notes:           notes,
				SourceRecipeIDs: []int64{},
			}
			if cmd.Flags().Changed("qty") {
				item.Quantity = models.FloatPtr(qty)
			}
			created, err := app.Service.AddGroceryItem(ctx, item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %d: %s\n", created.ID, share.FormatItem(created))
			return nil
		}),
	}
	cmd.Flags().Float64Var(&qty, "qty", 0, "Quantity")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit (requires --qty)")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	return cmd
}

func (c *cli) groceryShowCommand() *cobra.Command {
	var (
		search    string
		unchecked bool
		checked   bool
		groupBy   string
	)
	cmd := &cobra.Command{
		Use:   "show <list-id>",
		Short: "Show the items of a list",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			listID, err := parseID("list id", args[0])
			if err != nil {
				return err
			}
			list, err := app.Service.GetGroceryList(ctx, listID)
			if err != nil {
				return err
			}
			items := make([]*models.GroceryItem, 0, len(list.Items))
			for i := range list.Items {
				items = append(items, &list.Items[i])
			}

			e := listview.NewGroceryEngine()
			defer e.Close()
			e.SetItems(items)
			e.SetSearch(search)
			e.SetSort(listview.GroceryByName())
			if unchecked {
				e.AddFilter(listview.UncheckedFilter())
			}
			if checked {
				e.AddFilter(listview.CheckedFilter())
			}
			switch groupBy {
			case "":
			case "status":
				e.SetGrouping(listview.GroupGroceryByChecked())
			case "recipe":
				titles, err := sourceTitles(ctx, app, items)
				if err != nil {
					return err
				}
				e.SetGrouping(listview.GroupGroceryBySource(titles))
			default:
				return fmt.Errorf("unknown grouping %q (valid: recipe, status)", groupBy)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", list.Name)
			printResult(cmd.OutOrStdout(), e.Result(), groceryLine)
			return nil
		}),
	}
	fl := cmd.Flags()
	fl.StringVarP(&search, "search", "q", "", "Search item names and notes")
	fl.BoolVar(&unchecked, "unchecked", false, "Only items still to buy")
	fl.BoolVar(&checked, "checked", false, "Only items already in the cart")
	fl.StringVar(&groupBy, "group", "", "Group by status or recipe")
	return cmd
}

func sourceTitles(ctx context.Context, app *App, items []*models.GroceryItem) (map[int64]string, error) {
	wanted := make(map[int64]bool)
	for _, it := range items {
		for _, id := range it.SourceRecipeIDs {
			wanted[id] = true
		}
	}
	recipes, err := app.Service.ListRecipes(ctx, repository.RecipeFilters{})
	if err != nil {
		return nil, err
	}
	titles := make(map[int64]string, len(wanted))
	for _, r := range recipes {
		if wanted[r.ID] {
			titles[r.ID] = r.Title
		}
	}
	return titles, nil
}

func groceryLine(it *models.GroceryItem) string {
	box := "[ ]"
	if it.Checked {
		box = "[x]"
	}
	return fmt.Sprintf("%d\t%s %s", it.ID, box, share.FormatItem(it))
}

func (c *cli) groceryCheckCommand(checked bool) *cobra.Command {
	use, verb := "check", "Checked"
	if !checked {
		use, verb = "uncheck", "Unchecked"
	}
	return &cobra.Command{
		Use:   use + " <item-id>...",
		Short: verb + " grocery items",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			ids, err := parseIDs("item id", args)
			if err != nil {
				return err
			}
			for _, id := range ids {
				if err := app.Service.SetItemChecked(ctx, id, checked); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d item(s)\n", verb, len(ids))
			return nil
		}),
	}
}

func (c *cli) groceryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove an item from its list",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("item id", args[0])
			if err != nil {
				return err
			}
			if err := app.Service.DeleteGroceryItem(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d\n", id)
			return nil
		}),
	}
}

func (c *cli) groceryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <list-id>",
		Short: "Remove checked items from a list",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("list id", args[0])
			if err != nil {
				return err
			}
			n, err := app.Service.ClearChecked(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d checked item(s)\n", n)
			return nil
		}),
	}
}

func (c *cli) groceryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a list and its items",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("list id", args[0])
			if err != nil {
				return err
			}
			if err := app.Service.DeleteGroceryList(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted grocery list %d\n", id)
			return nil
		}),
	}
}
