package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kerhoff/recipebox/internal/models"
)

func (c *cli) logCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record and review cooking history",
	}
	cmd.AddCommand(c.logCookedCommand(), c.logHistoryCommand())
	return cmd
}

func (c *cli) logCookedCommand() *cobra.Command {
	var (
		rating int
		notes  string
		at     string
	)
	cmd := &cobra.Command{
		Use:   "cooked <recipe-id>",
		Short: "Record that a recipe was cooked",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("recipe id", args[0])
			if err != nil {
				return err
			}
			var cookedAt time.Time
			if day, err := parseDate("at", at); err != nil {
				return err
			} else if day != nil {
				cookedAt = *day
			}
			entry, err := app.Service.LogCooked(ctx, id, cookedAt, notes, optionalInt(cmd, "rating", rating))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged cook %d for recipe %d\n", entry.ID, id)
			return nil
		}),
	}
	fl := cmd.Flags()
	fl.IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	fl.StringVar(&notes, "notes", "", "How it went")
	fl.StringVar(&at, "at", "", "Day it was cooked (YYYY-MM-DD, default now)")
	return cmd
}

func (c *cli) logHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [recipe-id]",
		Short: "Show cooking history, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			var recipeID int64
			if len(args) == 1 {
				id, err := parseID("recipe id", args[0])
				if err != nil {
					return err
				}
				recipeID = id
			}
			logs, err := app.Service.History(ctx, recipeID, limit)
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing cooked yet.")
				return nil
			}
			titles := make(map[int64]string)
			for _, l := range logs {
				if _, ok := titles[l.RecipeID]; ok {
					continue
				}
				titles[l.RecipeID] = fmt.Sprintf("recipe %d", l.RecipeID)
				if r, err := app.Service.GetRecipe(ctx, l.RecipeID); err == nil {
					titles[l.RecipeID] = r.Title
				}
			}
			for _, l := range logs {
				fmt.Fprintln(cmd.OutOrStdout(), logLine(l, titles[l.RecipeID]))
			}
			return nil
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	return cmd
}

func logLine(l *models.RecipeLog, title string) string {
	parts := []string{l.CookedAt.UTC().Format(time.DateOnly), title}
	if l.Rating != nil {
		parts = append(parts, strings.Repeat("★", *l.Rating))
	}
	if l.Notes != "" {
		parts = append(parts, l.Notes)
	}
	return strings.Join(parts, "\t")
}
