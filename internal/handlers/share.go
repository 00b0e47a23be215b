package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kerhoff/recipebox/internal/listview"
	"github.com/Kerhoff/recipebox/internal/share"
)

func (c *cli) shareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share recipes, meal plans and grocery lists with other devices",
	}
	cmd.AddCommand(
		c.shareExportCommand(),
		c.shareImportCommand(),
		c.shareListenCommand(),
	)
	return cmd
}

type exportFlags struct {
	dir      string
	pdf      bool
	telegram bool
}

func (c *cli) shareExportCommand() *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a share package to a folder or a Telegram chat",
	}
	cmd.PersistentFlags().StringVar(&f.dir, "dir", "", "Folder to write to (default SHARE_DIR)")
	cmd.PersistentFlags().BoolVar(&f.pdf, "pdf", false, "Also render a PDF")
	cmd.PersistentFlags().BoolVar(&f.telegram, "telegram", false, "Send to the configured Telegram chat instead of a folder")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "recipes <id>...",
			Short: "Export one or more recipes",
			Args:  cobra.MinimumNArgs(1),
			RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
				ids, err := parseIDs("recipe id", args)
				if err != nil {
					return err
				}
				p, err := app.Service.ExportRecipes(ctx, ids)
				if err != nil {
					return err
				}
				return sendPackage(ctx, cmd, app, p, f)
			}),
		},
		&cobra.Command{
			Use:   "plan <id>",
			Short: "Export a meal plan with its recipes",
			Args:  cobra.ExactArgs(1),
			RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
				id, err := parseID("plan id", args[0])
				if err != nil {
					return err
				}
				p, err := app.Service.ExportMealPlan(ctx, id)
				if err != nil {
					return err
				}
				return sendPackage(ctx, cmd, app, p, f)
			}),
		},
		&cobra.Command{
			Use:   "list <id>",
			Short: "Export a grocery list",
			Args:  cobra.ExactArgs(1),
			RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
				id, err := parseID("list id", args[0])
				if err != nil {
					return err
				}
				p, err := app.Service.ExportGroceryList(ctx, id)
				if err != nil {
					return err
				}
				return sendPackage(ctx, cmd, app, p, f)
			}),
		},
	)
	return cmd
}

func sendPackage(ctx context.Context, cmd *cobra.Command, app *App, p *share.Package, f exportFlags) error {
	if f.telegram {
		bot, err := app.Telegram()
		if err != nil {
			return err
		}
		if _, err := app.Service.Share(ctx, p, bot, f.pdf); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sent %q to Telegram\n", p.Title)
		return nil
	}

	dir := f.dir
	if dir == "" {
		dir = app.Config.ShareDir
	}
	target := share.NewDirTarget(dir)
	bundle, err := app.Service.Share(ctx, p, target, f.pdf)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target.Path(bundle))
	return nil
}

func (c *cli) shareImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import share packages received from another device",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			for _, path := range args {
				p, err := share.ReadFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				report, err := app.Service.ImportPackage(ctx, p)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, report)
			}
			return nil
		}),
	}
}

func (c *cli) shareListenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Import packages shared into the Telegram chat until interrupted",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			bot, err := app.Telegram()
			if err != nil {
				return err
			}

			// Log the library size as imports land.
			library, err := app.Service.WatchRecipes(ctx)
			if err != nil {
				return err
			}
			e := listview.NewRecipeEngine()
			defer e.Close()
			e.SetGrouping(listview.GroupRecipesByFavorite())
			results, unsubscribe := e.Subscribe()
			defer unsubscribe()
			go func() {
				_ = e.Follow(ctx, library)
			}()
			go func() {
				for res := range results {
					app.Logger.WithField("recipes", res.Len()).Info("Library updated")
				}
			}()

			return bot.Listen(ctx, func(ctx context.Context, p *share.Package) (string, error) {
				report, err := app.Service.ImportPackage(ctx, p)
				if err != nil {
					return "", err
				}
				return report.String(), nil
			})
		}),
	}
}
