package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kerhoff/recipebox/internal/listview"
	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/share"
)

func (c *cli) planCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage meal plans",
	}
	cmd.AddCommand(
		c.planCreateCommand(),
		c.planUpdateCommand(),
		c.planListCommand(),
		c.planShowCommand(),
		c.planDeleteCommand(),
	)
	return cmd
}

type planFlags struct {
	name    string
	recipes []string
	start   string
	end     string
	notes   string
}

func (f *planFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "Plan name")
	fl.StringSliceVarP(&f.recipes, "recipe", "r", nil, "Recipe id (repeatable or comma-separated)")
	fl.StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	fl.StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
	fl.StringVar(&f.notes, "notes", "", "Notes")
}

// apply copies the flags that were given onto plan.
func (f *planFlags) apply(cmd *cobra.Command, plan *models.MealPlan) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		plan.Name = strings.TrimSpace(f.name)
	}
	if changed("recipe") {
		ids, err := parseIDs("recipe id", f.recipes)
		if err != nil {
			return err
		}
		plan.RecipeIDs = ids
	}
	if changed("start") {
		start, err := parseDate("start", f.start)
		if err != nil {
			return err
		}
		plan.StartDate = start
	}
	if changed("end") {
		end, err := parseDate("end", f.end)
		if err != nil {
			return err
		}
		plan.EndDate = end
	}
	if changed("notes") {
		plan.Notes = f.notes
	}
	return nil
}

func (c *cli) planCreateCommand() *cobra.Command {
	var f planFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a meal plan",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			plan := &models.MealPlan{RecipeIDs: []int64{}}
			if err := f.apply(cmd, plan); err != nil {
				return err
			}
			created, err := app.Service.CreateMealPlan(ctx, plan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created meal plan %d", created.ID)
			if len(created.Tags) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " [%s]", strings.Join(created.Tags, ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		}),
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *cli) planUpdateCommand() *cobra.Command {
	var f planFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a meal plan; tags are recomputed",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("plan id", args[0])
			if err != nil {
				return err
			}
			plan, err := app.Service.GetMealPlan(ctx, id)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, plan); err != nil {
				return err
			}
			if _, err := app.Service.UpdateMealPlan(ctx, plan); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated meal plan %d\n", id)
			return nil
		}),
	}
	f.register(cmd)
	return cmd
}

var planSorts = map[string]listview.Sort[*models.MealPlan]{
	"name":  listview.MealPlansByName(),
	"start": listview.MealPlansByStart(),
}

var planGroupings = map[string]listview.Grouping[*models.MealPlan]{
	"month": listview.GroupMealPlansByStartMonth(),
	"size":  listview.GroupMealPlansByRecipeCount(),
}

func (c *cli) planListCommand() *cobra.Command {
	var (
		search   string
		tags     []string
		upcoming bool
		from, to string
		sortBy   string
		reverse  bool
		groupBy  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List meal plans",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			var (
				plans []*models.MealPlan
				err   error
			)
			if from != "" || to != "" {
				start, err := parseDate("from", from)
				if err != nil {
					return err
				}
				end, err := parseDate("to", to)
				if err != nil {
					return err
				}
				if start == nil {
					start = end
				}
				if end == nil {
					end = start
				}
				plans, err = app.Service.ListMealPlansInRange(ctx, *start, *end)
				if err != nil {
					return err
				}
			} else if plans, err = app.Service.ListMealPlans(ctx); err != nil {
				return err
			}

			e := listview.NewMealPlanEngine()
			defer e.Close()
			e.SetItems(plans)
			e.SetSearch(search)
			for _, t := range tags {
				e.AddFilter(listview.MealPlanTagFilter(t))
			}
			if upcoming {
				e.AddFilter(listview.UpcomingFilter(time.Now()))
			}
			if err := applySort(e, sortBy, reverse, planSorts); err != nil {
				return err
			}
			if err := applyGrouping(e, groupBy, planGroupings); err != nil {
				return err
			}

			printResult(cmd.OutOrStdout(), e.Result(), planLine)
			return nil
		}),
	}
	fl := cmd.Flags()
	fl.StringVarP(&search, "search", "q", "", "Search name and tags")
	fl.StringSliceVarP(&tags, "tag", "t", nil, "Require tag (repeatable)")
	fl.BoolVar(&upcoming, "upcoming", false, "Only plans that have not ended")
	fl.StringVar(&from, "from", "", "Only plans overlapping the range that starts on this date (YYYY-MM-DD)")
	fl.StringVar(&to, "to", "", "Range end (YYYY-MM-DD)")
	fl.StringVar(&sortBy, "sort", "start", "Sort by name or start")
	fl.BoolVar(&reverse, "reverse", false, "Reverse the sort")
	fl.StringVar(&groupBy, "group", "", "Group by month or size")
	return cmd
}

func planLine(p *models.MealPlan) string {
	line := fmt.Sprintf("%d\t%s\t%d recipe(s)", p.ID, p.Name, len(p.RecipeIDs))
	if p.StartDate != nil {
		line += "\t" + p.StartDate.Format(time.DateOnly)
		if p.EndDate != nil && !p.EndDate.Equal(*p.StartDate) {
			line += " to " + p.EndDate.Format(time.DateOnly)
		}
	}
	if len(p.Tags) > 0 {
		line += "\t[" + strings.Join(p.Tags, ", ") + "]"
	}
	return line
}

func (c *cli) planShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a meal plan and its recipes",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("plan id", args[0])
			if err != nil {
				return err
			}
			plan, err := app.Service.GetMealPlan(ctx, id)
			if err != nil {
				return err
			}
			recipes, _, err := app.Service.ResolveRecipes(ctx, plan)
			if err != nil {
				return err
			}
			titles := make(map[int64]string, len(recipes))
			for _, r := range recipes {
				titles[r.ID] = r.Title
			}
			fmt.Fprintln(cmd.OutOrStdout(), share.MealPlanText(plan, titles))
			return nil
		}),
	}
}

func (c *cli) planDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a meal plan",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("plan id", args[0])
			if err != nil {
				return err
			}
			if err := app.Service.DeleteMealPlan(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal plan %d\n", id)
			return nil
		}),
	}
}
