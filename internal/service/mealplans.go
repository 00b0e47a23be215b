package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/tags"
)

// CreateMealPlan validates the plan, derives its tags from its name and
// recipes, and stores it.
func (s *Service) CreateMealPlan(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if err := s.aggregateTags(ctx, plan); err != nil {
		return nil, err
	}

	created, err := s.repos.MealPlans.Create(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to create meal plan %q: %w", plan.Name, err)
	}
	s.logger.WithFields(logrus.Fields{
		"plan_id": created.ID,
		"recipes": len(created.RecipeIDs),
		"tags":    created.Tags,
	}).Infof("Created meal plan %q", created.Name)
	return created, nil
}

// UpdateMealPlan re-validates and re-aggregates tags, overwriting the
// previous tag set.
func (s *Service) UpdateMealPlan(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if err := s.aggregateTags(ctx, plan); err != nil {
		return nil, err
	}

	updated, err := s.repos.MealPlans.Update(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to update meal plan %d: %w", plan.ID, err)
	}
	return updated, nil
}

func (s *Service) aggregateTags(ctx context.Context, plan *models.MealPlan) error {
	recipes, err := s.repos.Recipes.GetByIDs(ctx, plan.RecipeIDs)
	if err != nil {
		return fmt.Errorf("failed to load recipes for meal plan %q: %w", plan.Name, err)
	}
	recipeTags := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		recipeTags = append(recipeTags, r.Tags)
	}
	plan.Tags = tags.AggregateMealPlanTags(s.vocab, plan.Name, recipeTags)
	return nil
}

// DeleteMealPlan removes a plan. Its recipes are untouched.
func (s *Service) DeleteMealPlan(ctx context.Context, id int64) error {
	if err := s.repos.MealPlans.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete meal plan %d: %w", id, err)
	}
	return nil
}

// GetMealPlan returns the plan or ErrNotFound.
func (s *Service) GetMealPlan(ctx context.Context, id int64) (*models.MealPlan, error) {
	plan, err := s.repos.MealPlans.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal plan %d: %w", id, err)
	}
	if plan == nil {
		return nil, fmt.Errorf("meal plan %d: %w", id, ErrNotFound)
	}
	return plan, nil
}

// ListMealPlans returns every plan.
func (s *Service) ListMealPlans(ctx context.Context) ([]*models.MealPlan, error) {
	plans, err := s.repos.MealPlans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	return plans, nil
}

// ListMealPlansInRange returns plans whose dates intersect [from, to].
func (s *Service) ListMealPlansInRange(ctx context.Context, from, to time.Time) ([]*models.MealPlan, error) {
	if to.Before(from) {
		from, to = to, from
	}
	plans, err := s.repos.MealPlans.ListInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans between %s and %s: %w",
			from.Format(time.DateOnly), to.Format(time.DateOnly), err)
	}
	return plans, nil
}

// ResolveRecipes loads the recipes a plan references, in plan order.
// References to deleted recipes are skipped and returned as missing.
func (s *Service) ResolveRecipes(ctx context.Context, plan *models.MealPlan) (recipes []*models.Recipe, missing []int64, err error) {
	recipes, err = s.repos.Recipes.GetByIDs(ctx, plan.RecipeIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve recipes of meal plan %d: %w", plan.ID, err)
	}
	found := make(map[int64]bool, len(recipes))
	for _, r := range recipes {
		found[r.ID] = true
	}
	for _, id := range plan.RecipeIDs {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return recipes, missing, nil
}
