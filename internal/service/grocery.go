package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/grocery"
	"github.com/Kerhoff/recipebox/internal/models"
)

// GenerateResult reports what a grocery generation run did.
type GenerateResult struct {
	Items      []*models.GroceryItem
	Suppressed []models.GroceryItem
	// MissingRecipes lists requested recipe IDs that no longer exist.
	MissingRecipes []int64
}

// CreateGroceryList creates an empty list.
func (s *Service) CreateGroceryList(ctx context.Context, name string) (*models.GroceryList, error) {
	list := &models.GroceryList{Name: strings.TrimSpace(name)}
	if err := list.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repos.Groceries.CreateList(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("failed to create grocery list %q: %w", list.Name, err)
	}
	return created, nil
}

// GetGroceryList returns the list with its items, or ErrNotFound.
func (s *Service) GetGroceryList(ctx context.Context, id int64) (*models.GroceryList, error) {
	list, err := s.repos.Groceries.GetListByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get grocery list %d: %w", id, err)
	}
	if list == nil {
		return nil, fmt.Errorf("grocery list %d: %w", id, ErrNotFound)
	}
	items, err := s.GroceryItems(ctx, id, false)
	if err != nil {
		return nil, err
	}
	list.Items = make([]models.GroceryItem, 0, len(items))
	for _, it := range items {
		list.Items = append(list.Items, *it)
	}
	return list, nil
}

// ListGroceryLists returns all lists without their items.
func (s *Service) ListGroceryLists(ctx context.Context) ([]*models.GroceryList, error) {
	lists, err := s.repos.Groceries.GetLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery lists: %w", err)
	}
	return lists, nil
}

// AddRecipesToList runs the generation pipeline: parse every ingredient
// line, consolidate across recipes, drop pantry staples and insert the rest
// into the list in one transaction. Recipe IDs that do not exist are
// skipped. The list itself must exist.
func (s *Service) AddRecipesToList(ctx context.Context, listID int64, recipeIDs []int64) (*GenerateResult, error) {
	list, err := s.repos.Groceries.GetListByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get grocery list %d: %w", listID, err)
	}
	if list == nil {
		return nil, fmt.Errorf("grocery list %d: %w", listID, ErrNotFound)
	}

	recipes, err := s.repos.Recipes.GetByIDs(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes %v: %w", recipeIDs, err)
	}
	res := &GenerateResult{MissingRecipes: missingIDs(recipeIDs, recipes)}

	log := s.logger.WithFields(logrus.Fields{
		"list_id":    listID,
		"recipe_ids": recipeIDs,
	})
	if len(res.MissingRecipes) > 0 {
		log.WithField("missing", res.MissingRecipes).Warn("Skipping recipes that no longer exist")
	}

	items := grocery.Consolidate(listID, recipes)

	staples, err := s.repos.Pantry.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load pantry staples: %w", err)
	}
	filtered := grocery.NewPantryFilter(derefStaples(staples)).Apply(items)
	res.Suppressed = filtered.Suppressed

	inserted, err := s.repos.Groceries.InsertItems(ctx, listID, filtered.Kept)
	if err != nil {
		return nil, fmt.Errorf("failed to insert grocery items into list %d: %w", listID, err)
	}
	res.Items = inserted

	s.metrics.GroceryItems.Add(float64(len(inserted)))
	s.metrics.PantrySuppressed.Add(float64(len(filtered.Suppressed)))
	log.WithFields(logrus.Fields{
		"items":      len(inserted),
		"suppressed": len(filtered.Suppressed),
	}).Info("Generated grocery items")
	return res, nil
}

// CreateListFromMealPlan creates a list named after the plan and fills it
// from the plan's recipes.
func (s *Service) CreateListFromMealPlan(ctx context.Context, planID int64) (*models.GroceryList, *GenerateResult, error) {
	plan, err := s.GetMealPlan(ctx, planID)
	if err != nil {
		return nil, nil, err
	}
	list, err := s.CreateGroceryList(ctx, plan.Name)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.AddRecipesToList(ctx, list.ID, plan.RecipeIDs)
	if err != nil {
		return nil, nil, err
	}
	return list, res, nil
}

// AddGroceryItem adds a manual item to a list.
func (s *Service) AddGroceryItem(ctx context.Context, item *models.GroceryItem) (*models.GroceryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repos.Groceries.AddItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to add item to grocery list %d: %w", item.GroceryListID, err)
	}
	return created, nil
}

// GroceryItems returns the items of a list, optionally only unchecked ones.
func (s *Service) GroceryItems(ctx context.Context, listID int64, onlyUnchecked bool) ([]*models.GroceryItem, error) {
	items, err := s.repos.Groceries.GetItems(ctx, listID, onlyUnchecked)
	if err != nil {
		return nil, fmt.Errorf("failed to get items of grocery list %d: %w", listID, err)
	}
	return items, nil
}

// SetItemChecked ticks or unticks an item.
func (s *Service) SetItemChecked(ctx context.Context, itemID int64, checked bool) error {
	if err := s.repos.Groceries.SetChecked(ctx, itemID, checked); err != nil {
		return fmt.Errorf("failed to set checked on grocery item %d: %w", itemID, err)
	}
	return nil
}

// DeleteGroceryItem removes one item.
func (s *Service) DeleteGroceryItem(ctx context.Context, itemID int64) error {
	if err := s.repos.Groceries.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete grocery item %d: %w", itemID, err)
	}
	return nil
}

// ClearChecked removes all checked items of a list and returns how many
// were removed.
func (s *Service) ClearChecked(ctx context.Context, listID int64) (int64, error) {
	n, err := s.repos.Groceries.ClearChecked(ctx, listID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear checked items of grocery list %d: %w", listID, err)
	}
	return n, nil
}

// DeleteGroceryList removes a list and all its items.
func (s *Service) DeleteGroceryList(ctx context.Context, listID int64) error {
	if err := s.repos.Groceries.DeleteList(ctx, listID); err != nil {
		return fmt.Errorf("failed to delete grocery list %d: %w", listID, err)
	}
	return nil
}

func missingIDs(requested []int64, found []*models.Recipe) []int64 {
	have := make(map[int64]bool, len(found))
	for _, r := range found {
		have[r.ID] = true
	}
	var missing []int64
	seen := make(map[int64]bool)
	for _, id := range requested {
		if !have[id] && !seen[id] {
			seen[id] = true
			missing = append(missing, id)
		}
	}
	return missing
}

func derefStaples(staples []*models.PantryStapleConfig) []models.PantryStapleConfig {
	out := make([]models.PantryStapleConfig, 0, len(staples))
	for _, c := range staples {
		out = append(out, *c)
	}
	return out
}
