// Package handlers implements the recipebox command line.
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Kerhoff/recipebox/internal/config"
)

type cli struct {
	cfg         *config.Config
	logger      *logrus.Logger
	dbPath      string
	showMetrics bool
	app         *App
}

// NewRootCommand builds the command tree. The database is opened lazily by
// the subcommands that need it.
func NewRootCommand(cfg *config.Config, logger *logrus.Logger) *cobra.Command {
	c := &cli{cfg: cfg, logger: logger}

	root := &cobra.Command{
		Use:           "recipebox",
		Short:         "recipebox keeps recipes, meal plans and grocery lists on this device",
		Long:          "recipebox is an offline-first recipe manager: recipes, meal plans, grocery lists generated from recipes, pantry staples, substitutions and cooking history.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()
			if c.showMetrics && c.app != nil {
				return c.app.Metrics.Print(cmd.ErrOrStderr())
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "Database file or postgres:// URL (overrides DATABASE_URL)")
	root.PersistentFlags().BoolVar(&c.showMetrics, "metrics", false, "Print counters for this run to stderr")

	root.AddCommand(
		c.initCommand(),
		c.recipeCommand(),
		c.planCommand(),
		c.groceryCommand(),
		c.pantryCommand(),
		c.subsCommand(),
		c.logCommand(),
		c.shareCommand(),
		c.statsCommand(),
	)
	return root
}

// run opens the application on first use and hands it to fn.
func (c *cli) run(fn func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if c.app == nil {
			cfg := *c.cfg
			if c.dbPath != "" {
				cfg.DatabaseURL = c.dbPath
			}
			app, err := Open(&cfg, c.logger)
			if err != nil {
				return err
			}
			c.app = app
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		err := fn(ctx, cmd, args, c.app)
		if err != nil {
			// post-run hooks are skipped on failure
			c.close()
		}
		return err
	}
}

func (c *cli) close() {
	if c.app != nil {
		if err := c.app.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close database")
		}
		c.app = nil
	}
}

func (c *cli) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed pantry staples and substitutions",
		Args:  cobra.NoArgs,
		RunE: c.run(func(ctx context.Context, cmd *cobra.Command, args []string, app *App) error {
			if err := app.DB.Migrate(); err != nil {
				return err
			}
			staples, err := app.Service.SeedPantryStaples(ctx)
			if err != nil {
				return err
			}
			subs, err := app.Service.SeedSubstitutions(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database ready (%d pantry staples, %d substitutions seeded)\n", staples, subs)
			return nil
		}),
	}
}

func parseID(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func parseIDs(name string, values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseID(name, part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func parseDate(flag, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q (expected YYYY-MM-DD)", flag, value)
	}
	return &t, nil
}

func optionalInt(cmd *cobra.Command, flag string, value int) *int {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &value
}
