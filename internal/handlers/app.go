package handlers

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/config"
	"github.com/Kerhoff/recipebox/internal/importer"
	"github.com/Kerhoff/recipebox/internal/metrics"
	"github.com/Kerhoff/recipebox/internal/repository"
	"github.com/Kerhoff/recipebox/internal/repository/sqlrepo"
	"github.com/Kerhoff/recipebox/internal/service"
	"github.com/Kerhoff/recipebox/internal/share"
	"github.com/Kerhoff/recipebox/internal/telegram"
)

// App is the wired application a command runs against.
type App struct {
	Config  *config.Config
	Logger  *logrus.Logger
	DB      *config.Database
	Changes *repository.Broadcaster
	Metrics *metrics.Metrics
	Service *service.Service
}

// Open connects to the database, applies migrations when enabled and wires
// repositories, importer and service.
func Open(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	db, err := config.NewDatabase(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Migrations {
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
	}

	feed := repository.NewBroadcaster()
	repos := service.Repositories{
		Recipes:       sqlrepo.NewRecipeRepository(db.DB, feed),
		MealPlans:     sqlrepo.NewMealPlanRepository(db.DB, feed),
		Groceries:     sqlrepo.NewGroceryListRepository(db.DB, feed),
		Substitutions: sqlrepo.NewSubstitutionRepository(db.DB, feed),
		Pantry:        sqlrepo.NewPantryStapleRepository(db.DB, feed),
		Logs:          sqlrepo.NewRecipeLogRepository(db.DB, feed),
	}

	m := metrics.New()
	imp := importer.New(
		importer.NewRestyFetcher(cfg.ImportTimeout, cfg.ImportUserAgent),
		cfg.ImportRate,
		logger,
	)
	svc := service.New(repos, feed, logger,
		service.WithImporter(imp),
		service.WithMetrics(m),
		service.WithPhotos(cfg.MediaDir, share.NewImagingCompressor(cfg.PhotoMaxEdge)),
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Changes: feed,
		Metrics: m,
		Service: svc,
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// Telegram connects the configured Telegram bot.
func (a *App) Telegram() (*telegram.Bot, error) {
	if !a.Config.TelegramEnabled() {
		return nil, fmt.Errorf("telegram is not configured: set TELEGRAM_TOKEN and TELEGRAM_CHAT_ID")
	}
	return telegram.NewBot(a.Config.TelegramToken, a.Config.TelegramChatID, a.Logger)
}
