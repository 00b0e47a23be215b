package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Kerhoff/recipebox/internal/models"
)

// LogCooked records that a recipe was cooked. A zero cookedAt means now and
// rating may be nil.
func (s *Service) LogCooked(ctx context.Context, recipeID int64, cookedAt time.Time, notes string, rating *int) (*models.RecipeLog, error) {
	entry := &models.RecipeLog{
		RecipeID: recipeID,
		CookedAt: cookedAt,
		Notes:    notes,
		Rating:   rating,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	if entry.CookedAt.IsZero() {
		entry.CookedAt = s.now()
	}

	created, err := s.repos.Logs.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to log cooking of recipe %d: %w", recipeID, err)
	}
	return created, nil
}

// History returns cook logs newest first: for one recipe when recipeID is
// non-zero, across all recipes otherwise.
func (s *Service) History(ctx context.Context, recipeID int64, limit int) ([]*models.RecipeLog, error) {
	var (
		logs []*models.RecipeLog
		err  error
	)
	if recipeID != 0 {
		logs, err = s.repos.Logs.GetByRecipe(ctx, recipeID, limit)
	} else {
		logs, err = s.repos.Logs.GetRecent(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cooking history: %w", err)
	}
	return logs, nil
}
