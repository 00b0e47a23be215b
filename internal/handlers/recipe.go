package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kerhoff/recipebox/internal/listview"
	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
	"github.com/Kerhoff/recipebox/internal/share"
)

func (c *cli) recipeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Manage recipes",
	}
	cmd.AddCommand(
		c.recipeAddCommand(),
		c.recipeListCommand(),
		c.recipeShowCommand(),
		c.recipeDeleteCommand(),
		c.recipeFavoriteCommand(true),
		c.recipeFavoriteCommand(false),
		c.recipeFromTemplateCommand(),
		c.recipeImportCommand(),
	)
	return cmd
}

type recipeFlags struct {
	title        string
	description  string
	ingredients  []string
	instructions []string
	servings     int
	prep         int
	cook         int
	tags         []string
	cuisine      string
	sourceURL    string
	media        []string
	notes        string
	template     bool
}

func (c *cli) recipeAddCommand() *cobra.Command {
	var f recipeFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a recipe",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			r := &models.Recipe{
				Title:        f.title,
				Description:  f.description,
				Ingredients:  f.ingredients,
				Instructions: f.instructions,
				Servings:     f.servings,
				PrepMinutes:  optionalInt(cmd, "prep", f.prep),
				CookMinutes:  optionalInt(cmd, "cook", f.cook),
				Tags:         f.tags,
				Cuisine:      f.cuisine,
				SourceKind:   models.SourceManual,
				SourceURL:    f.sourceURL,
				MediaRefs:    f.media,
				Notes:        f.notes,
				Template:     f.template,
			}
			created, err := app.Service.CreateRecipe(ctx, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created recipe %d\n", created.ID)
			return nil
		}),
	}
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "Recipe title")
	fl.StringVar(&f.description, "description", "", "Short description")
	fl.StringArrayVarP(&f.ingredients, "ingredient", "i", nil, "Ingredient line, e.g. \"2 cups flour\" (repeatable)")
	fl.StringArrayVarP(&f.instructions, "step", "s", nil, "Instruction step (repeatable)")
	fl.IntVar(&f.servings, "servings", 4, "Number of servings")
	fl.IntVar(&f.prep, "prep", 0, "Prep time in minutes")
	fl.IntVar(&f.cook, "cook", 0, "Cook time in minutes")
	fl.StringSliceVarP(&f.tags, "tag", "t", nil, "Tag (repeatable or comma-separated)")
	fl.StringVar(&f.cuisine, "cuisine", "", "Cuisine")
	fl.StringVar(&f.sourceURL, "source-url", "", "Where the recipe came from")
	fl.StringArrayVar(&f.media, "photo", nil, "Photo file name inside the media directory (repeatable)")
	fl.StringVar(&f.notes, "notes", "", "Notes")
	fl.BoolVar(&f.template, "template", false, "Save as a template")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

var recipeSorts = map[string]listview.Sort[*models.Recipe]{
	"title":   listview.RecipesByTitle(),
	"created": listview.RecipesByCreated(),
	"updated": listview.RecipesByUpdated(),
	"time":    listview.RecipesByTotalTime(),
}

var recipeGroupings = map[string]listview.Grouping[*models.Recipe]{
	"favorite": listview.GroupRecipesByFavorite(),
	"month":    listview.GroupRecipesByCreatedMonth(),
	"cuisine":  listview.GroupRecipesByCuisine(),
}

func (c *cli) recipeListCommand() *cobra.Command {
	var (
		search    string
		favorites bool
		templates bool
		tags      []string
		cuisine   string
		maxTime   int
		source    string
		sortBy    string
		reverse   bool
		groupBy   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes with optional search, filters, sort and grouping",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			recipes, err := app.Service.ListRecipes(ctx, repository.RecipeFilters{})
			if err != nil {
				return err
			}

			e := listview.NewRecipeEngine()
			defer e.Close()
			e.SetItems(recipes)
			e.SetSearch(search)
			if favorites {
				e.AddFilter(listview.FavoritesFilter())
			}
			if templates {
				e.AddFilter(listview.TemplatesFilter())
			}
			for _, t := range tags {
				e.AddFilter(listview.TagFilter(t))
			}
			if cuisine != "" {
				e.AddFilter(listview.CuisineFilter(cuisine))
			}
			if maxTime > 0 {
				e.AddFilter(listview.MaxTotalTimeFilter(maxTime))
			}
			if source != "" {
				kind := models.SourceKind(strings.ToLower(source))
				if !kind.Valid() {
					return fmt.Errorf("unknown source %q (valid: manual, url, pdf, photo)", source)
				}
				e.AddFilter(listview.SourceKindFilter(kind))
			}
			if err := applySort(e, sortBy, reverse, recipeSorts); err != nil {
				return err
			}
			if err := applyGrouping(e, groupBy, recipeGroupings); err != nil {
				return err
			}

			printResult(cmd.OutOrStdout(), e.Result(), recipeLine)
			return nil
		}),
	}
	fl := cmd.Flags()
	fl.StringVarP(&search, "search", "q", "", "Search title, cuisine, tags and ingredients")
	fl.BoolVar(&favorites, "favorites", false, "Only favorites")
	fl.BoolVar(&templates, "templates", false, "Only templates")
	fl.StringSliceVarP(&tags, "tag", "t", nil, "Require tag (repeatable)")
	fl.StringVar(&cuisine, "cuisine", "", "Only this cuisine")
	fl.IntVar(&maxTime, "max-time", 0, "Only recipes ready within this many minutes")
	fl.StringVar(&source, "source", "", "Only recipes from this source kind")
	fl.StringVar(&sortBy, "sort", "title", "Sort by title, created, updated or time")
	fl.BoolVar(&reverse, "reverse", false, "Reverse the sort")
	fl.StringVar(&groupBy, "group", "", "Group by favorite, month or cuisine")
	return cmd
}

func recipeLine(r *models.Recipe) string {
	var marks []string
	if r.Favorite {
		marks = append(marks, "★")
	}
	if r.Template {
		marks = append(marks, "template")
	}
	line := fmt.Sprintf("%d\t%s", r.ID, r.Title)
	if total := r.TotalMinutes(); total > 0 {
		line += fmt.Sprintf("\t%d min", total)
	}
	if len(r.Tags) > 0 {
		line += "\t[" + strings.Join(r.Tags, ", ") + "]"
	}
	if len(marks) > 0 {
		line += "\t" + strings.Join(marks, " ")
	}
	return line
}

func (c *cli) recipeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("recipe id", args[0])
			if err != nil {
				return err
			}
			r, err := app.Service.GetRecipe(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), share.RecipeText(r))
			return nil
		}),
	}
}

func (c *cli) recipeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe and its cooking history",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("recipe id", args[0])
			if err != nil {
				return err
			}
			if err := app.Service.DeleteRecipe(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipe %d\n", id)
			return nil
		}),
	}
}

func (c *cli) recipeFavoriteCommand(favorite bool) *cobra.Command {
	use, verb := "favorite", "Marked"
	if !favorite {
		use, verb = "unfavorite", "Unmarked"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("recipe id", args[0])
			if err != nil {
				return err
			}
			if err := app.Service.SetFavorite(ctx, id, favorite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s recipe %d as favorite\n", verb, id)
			return nil
		}),
	}
}

func (c *cli) recipeFromTemplateCommand() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "from-template <template-id>",
		Short: "Create a recipe from a template",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			id, err := parseID("template id", args[0])
			if err != nil {
				return err
			}
			r, err := app.Service.CreateFromTemplate(ctx, id, title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created recipe %d from template %d\n", r.ID, id)
			return nil
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "Title for the new recipe")
	return cmd
}

func (c *cli) recipeImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <url>...",
		Short: "Import recipes from web pages",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, res := range app.Service.ImportBatch(ctx, args) {
				switch {
				case res.Saved:
					fmt.Fprintf(out, "Imported %q as recipe %d\n", res.Recipe.Title, res.Recipe.ID)
				case res.Recipe != nil:
					failed++
					fmt.Fprintf(out, "Found %q at %s but it is incomplete: %v\n", res.Recipe.Title, res.URL, res.Err)
				default:
					failed++
					fmt.Fprintf(out, "Could not import %s: %v\n", res.URL, res.Err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d imports failed", failed, len(args))
			}
			return nil
		}),
	}
}
