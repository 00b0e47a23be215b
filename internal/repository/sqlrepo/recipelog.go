package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
)

type recipeLogRepository struct {
	db  *sql.DB
	pub repository.Publisher
}

// NewRecipeLogRepository creates a new recipe log repository
func NewRecipeLogRepository(db *sql.DB, pub repository.Publisher) repository.RecipeLogRepository {
	return &recipeLogRepository{db: db, pub: publisherOrNop(pub)}
}

func (r *recipeLogRepository) Create(ctx context.Context, log *models.RecipeLog) (*models.RecipeLog, error) {
	query := `
		INSERT INTO recipe_logs (recipe_id, cooked_at, notes, rating, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	log.CreatedAt = now()
	if log.CookedAt.IsZero() {
		log.CookedAt = log.CreatedAt
	}
	log.CookedAt = log.CookedAt.UTC()

	err := r.db.QueryRowContext(ctx, query,
		log.RecipeID,
		log.CookedAt,
		log.Notes,
		nullInt(log.Rating),
		log.CreatedAt,
	).Scan(&log.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create recipe log: %w", err)
	}

	r.pub.Publish(repository.Change{Table: repository.TableRecipeLogs, Op: repository.OpInsert, ID: log.ID})
	return log, nil
}

func (r *recipeLogRepository) GetByRecipe(ctx context.Context, recipeID int64, limit int) ([]*models.RecipeLog, error) {
	query := `
		SELECT id, recipe_id, cooked_at, notes, rating, created_at
		FROM recipe_logs
		WHERE recipe_id = $1
		ORDER BY cooked_at DESC, id DESC`
	args := []any{recipeID}

	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	return r.query(ctx, query, args...)
}

func (r *recipeLogRepository) GetRecent(ctx context.Context, limit int) ([]*models.RecipeLog, error) {
	query := `
		SELECT id, recipe_id, cooked_at, notes, rating, created_at
		FROM recipe_logs
		ORDER BY cooked_at DESC, id DESC`
	var args []any

	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	return r.query(ctx, query, args...)
}

func (r *recipeLogRepository) query(ctx context.Context, query string, args ...any) ([]*models.RecipeLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe logs: %w", err)
	}
	defer rows.Close()

	logs := []*models.RecipeLog{}
	for rows.Next() {
		var (
			log    models.RecipeLog
			rating sql.NullInt64
		)
		if err := rows.Scan(&log.ID, &log.RecipeID, &log.CookedAt, &log.Notes, &rating, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe log: %w", err)
		}
		log.Rating = intPtr(rating)
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipe logs: %w", err)
	}
	return logs, nil
}
