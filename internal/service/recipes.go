package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
)

// CreateRecipe normalizes and validates r, then stores it.
func (s *Service) CreateRecipe(ctx context.Context, r *models.Recipe) (*models.Recipe, error) {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repos.Recipes.Create(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe %q: %w", r.Title, err)
	}
	s.metrics.RecipesCreated.Inc()
	s.logger.WithFields(logrus.Fields{
		"recipe_id": created.ID,
		"source":    created.SourceKind,
	}).Infof("Created recipe %q", created.Title)
	return created, nil
}

// UpdateRecipe replaces a stored recipe. Updating a missing recipe fails
// with ErrNotFound.
func (s *Service) UpdateRecipe(ctx context.Context, r *models.Recipe) (*models.Recipe, error) {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repos.Recipes.Update(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe %d: %w", r.ID, err)
	}
	return updated, nil
}

// DeleteRecipe removes a recipe together with its cook logs. Meal plans keep
// the dangling reference.
func (s *Service) DeleteRecipe(ctx context.Context, id int64) error {
	if err := s.repos.Recipes.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	s.logger.WithField("recipe_id", id).Info("Deleted recipe")
	return nil
}

// GetRecipe returns the recipe or ErrNotFound.
func (s *Service) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	r, err := s.repos.Recipes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	if r == nil {
		return nil, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
	}
	return r, nil
}

// ListRecipes returns recipes matching the storage-level filters.
func (s *Service) ListRecipes(ctx context.Context, filters repository.RecipeFilters) ([]*models.Recipe, error) {
	recipes, err := s.repos.Recipes.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// SearchRecipes matches query against title, tags, cuisine and ingredients.
// A blank query lists everything.
func (s *Service) SearchRecipes(ctx context.Context, query string, limit int) ([]*models.Recipe, error) {
	if strings.TrimSpace(query) == "" {
		return s.ListRecipes(ctx, repository.RecipeFilters{Limit: limit})
	}
	recipes, err := s.repos.Recipes.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes for %q: %w", query, err)
	}
	return recipes, nil
}

// SetFavorite flags or unflags a recipe.
func (s *Service) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	if err := s.repos.Recipes.SetFavorite(ctx, id, favorite); err != nil {
		return fmt.Errorf("failed to set favorite on recipe %d: %w", id, err)
	}
	return nil
}

// CreateFromTemplate copies a template recipe into a new, regular recipe.
// An empty title keeps the template's title.
func (s *Service) CreateFromTemplate(ctx context.Context, templateID int64, title string) (*models.Recipe, error) {
	tpl, err := s.GetRecipe(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !tpl.Template {
		return nil, fmt.Errorf("recipe %d: %w", templateID, ErrNotTemplate)
	}

	r := *tpl
	r.ID = 0
	r.Template = false
	r.Favorite = false
	r.Ingredients = append([]string(nil), tpl.Ingredients...)
	r.Instructions = append([]string(nil), tpl.Instructions...)
	r.Tags = append([]string(nil), tpl.Tags...)
	r.MediaRefs = append([]string(nil), tpl.MediaRefs...)
	if strings.TrimSpace(title) != "" {
		r.Title = title
	}
	return s.CreateRecipe(ctx, &r)
}
