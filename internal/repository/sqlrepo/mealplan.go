package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
)

const mealPlanColumns = `id, name, recipe_ids, start_date, end_date, tags, notes, created_at, updated_at`

type mealPlanRepository struct {
	db  *sql.DB
	pub repository.Publisher
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *sql.DB, pub repository.Publisher) repository.MealPlanRepository {
	return &mealPlanRepository{db: db, pub: publisherOrNop(pub)}
}

func (r *mealPlanRepository) Create(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	query := `
		INSERT INTO meal_plans (name, recipe_ids, start_date, end_date, tags, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	recipeIDs, tags, err := encodeMealPlanLists(plan)
	if err != nil {
		return nil, err
	}

	ts := now()
	plan.CreatedAt = ts
	plan.UpdatedAt = ts

	err = r.db.QueryRowContext(ctx, query,
		plan.Name,
		recipeIDs,
		nullTime(plan.StartDate),
		nullTime(plan.EndDate),
		tags,
		plan.Notes,
		plan.CreatedAt,
		plan.UpdatedAt,
	).Scan(&plan.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create meal plan: %w", err)
	}

	r.pub.Publish(repository.Change{Table: repository.TableMealPlans, Op: repository.OpInsert, ID: plan.ID})
	return plan, nil
}

func (r *mealPlanRepository) GetByID(ctx context.Context, id int64) (*models.MealPlan, error) {
	query := `SELECT ` + mealPlanColumns + ` FROM meal_plans WHERE id = $1`

	plan, err := scanMealPlan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan by ID: %w", err)
	}

	return plan, nil
}

func (r *mealPlanRepository) List(ctx context.Context) ([]*models.MealPlan, error) {
	query := `SELECT ` + mealPlanColumns + ` FROM meal_plans ORDER BY created_at DESC, id DESC`

	plans, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	return plans, nil
}

// ListInRange loads dated plans and filters them with MealPlan.Overlaps so
// that open-ended ranges behave the same on every database.
func (r *mealPlanRepository) ListInRange(ctx context.Context, from, to time.Time) ([]*models.MealPlan, error) {
	query := `SELECT ` + mealPlanColumns + ` FROM meal_plans
		WHERE start_date IS NOT NULL OR end_date IS NOT NULL
		ORDER BY start_date ASC, id ASC`

	plans, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans in range: %w", err)
	}

	out := make([]*models.MealPlan, 0, len(plans))
	for _, p := range plans {
		if p.Overlaps(from, to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *mealPlanRepository) Search(ctx context.Context, q string) ([]*models.MealPlan, error) {
	query := `SELECT ` + mealPlanColumns + ` FROM meal_plans
		WHERE LOWER(name) LIKE $1 ESCAPE '\' OR LOWER(tags) LIKE $2 ESCAPE '\'
		ORDER BY name ASC, id ASC`

	p := likePattern(q)
	plans, err := r.query(ctx, query, p, p)
	if err != nil {
		return nil, fmt.Errorf("failed to search meal plans: %w", err)
	}
	return plans, nil
}

func (r *mealPlanRepository) Update(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	query := `
		UPDATE meal_plans
		SET name = $1, recipe_ids = $2, start_date = $3, end_date = $4, tags = $5, notes = $6, updated_at = $7
		WHERE id = $8`

	recipeIDs, tags, err := encodeMealPlanLists(plan)
	if err != nil {
		return nil, err
	}
	plan.UpdatedAt = now()

	res, err := r.db.ExecContext(ctx, query,
		plan.Name,
		recipeIDs,
		nullTime(plan.StartDate),
		nullTime(plan.EndDate),
		tags,
		plan.Notes,
		plan.UpdatedAt,
		plan.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update meal plan: %w", err)
	}
	if err := expectAffected(res, "meal plan", plan.ID); err != nil {
		return nil, err
	}

	r.pub.Publish(repository.Change{Table: repository.TableMealPlans, Op: repository.OpUpdate, ID: plan.ID})
	return plan, nil
}

func (r *mealPlanRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM meal_plans WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	if err := expectAffected(res, "meal plan", id); err != nil {
		return err
	}

	r.pub.Publish(repository.Change{Table: repository.TableMealPlans, Op: repository.OpDelete, ID: id})
	return nil
}

func (r *mealPlanRepository) query(ctx context.Context, query string, args ...any) ([]*models.MealPlan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []*models.MealPlan{}
	for rows.Next() {
		plan, err := scanMealPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func encodeMealPlanLists(plan *models.MealPlan) (recipeIDs, tags string, err error) {
	if recipeIDs, err = encodeList(plan.RecipeIDs); err != nil {
		return "", "", fmt.Errorf("failed to encode recipe IDs: %w", err)
	}
	if tags, err = encodeList(plan.Tags); err != nil {
		return "", "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return recipeIDs, tags, nil
}

func scanMealPlan(s scanner) (*models.MealPlan, error) {
	var (
		plan            models.MealPlan
		recipeIDs, tags string
		start, end      sql.NullTime
	)
	err := s.Scan(
		&plan.ID,
		&plan.Name,
		&recipeIDs,
		&start,
		&end,
		&tags,
		&plan.Notes,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	plan.StartDate = timePtr(start)
	plan.EndDate = timePtr(end)
	if plan.RecipeIDs, err = decodeList[int64](recipeIDs); err != nil {
		return nil, fmt.Errorf("failed to decode recipe IDs: %w", err)
	}
	if plan.Tags, err = decodeList[string](tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return &plan, nil
}
