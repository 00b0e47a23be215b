package service

import (
	"context"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
)

// WatchRecipes streams the full recipe list: once immediately, then again
// after every committed change to recipes. The stream ends when ctx is done.
// Only the latest list is kept for a slow reader.
func (s *Service) WatchRecipes(ctx context.Context) (<-chan []*models.Recipe, error) {
	return watch(ctx, s, []repository.Table{repository.TableRecipes},
		func(ctx context.Context) ([]*models.Recipe, error) {
			return s.ListRecipes(ctx, repository.RecipeFilters{})
		})
}

// WatchMealPlans streams the meal plan list like WatchRecipes.
func (s *Service) WatchMealPlans(ctx context.Context) (<-chan []*models.MealPlan, error) {
	return watch(ctx, s, []repository.Table{repository.TableMealPlans}, s.ListMealPlans)
}

// WatchGroceryItems streams the items of one list, or of every list when
// listID is zero.
func (s *Service) WatchGroceryItems(ctx context.Context, listID int64) (<-chan []*models.GroceryItem, error) {
	tables := []repository.Table{repository.TableGroceryItems, repository.TableGroceryLists}
	return watch(ctx, s, tables, func(ctx context.Context) ([]*models.GroceryItem, error) {
		if listID == 0 {
			return s.repos.Groceries.GetAllItems(ctx)
		}
		return s.GroceryItems(ctx, listID, false)
	})
}

func watch[T any](ctx context.Context, s *Service, tables []repository.Table, load func(context.Context) ([]T, error)) (<-chan []T, error) {
	changes, unsubscribe := s.changes.Subscribe(tables...)

	items, err := load(ctx)
	if err != nil {
		unsubscribe()
		return nil, err
	}

	out := make(chan []T, 1)
	out <- items

	go func() {
		defer close(out)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				items, err := load(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					s.logger.WithError(err).Warn("Failed to reload watched list")
					continue
				}
				select {
				case <-out:
				default:
				}
				out <- items
			}
		}
	}()
	return out, nil
}
