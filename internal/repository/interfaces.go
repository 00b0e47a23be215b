package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Kerhoff/recipebox/internal/models"
)

// ErrNotFound is returned by updates and deletes that match no row.
// Single-row getters return nil, nil instead.
var ErrNotFound = errors.New("not found")

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	// GetByIDs returns the recipes that exist, in the order of ids.
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Recipe, error)
	List(ctx context.Context, filters RecipeFilters) ([]*models.Recipe, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	SetFavorite(ctx context.Context, id int64, favorite bool) error
	Delete(ctx context.Context, id int64) error
}

// MealPlanRepository defines the interface for meal plan operations
type MealPlanRepository interface {
	Create(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error)
	GetByID(ctx context.Context, id int64) (*models.MealPlan, error)
	List(ctx context.Context) ([]*models.MealPlan, error)
	// ListInRange returns plans whose date range intersects [from, to].
	ListInRange(ctx context.Context, from, to time.Time) ([]*models.MealPlan, error)
	Search(ctx context.Context, query string) ([]*models.MealPlan, error)
	Update(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error)
	Delete(ctx context.Context, id int64) error
}

// GroceryListRepository defines the interface for grocery list operations
type GroceryListRepository interface {
	CreateList(ctx context.Context, list *models.GroceryList) (*models.GroceryList, error)
	GetListByID(ctx context.Context, id int64) (*models.GroceryList, error)
	GetLists(ctx context.Context) ([]*models.GroceryList, error)
	DeleteList(ctx context.Context, id int64) error
	AddItem(ctx context.Context, item *models.GroceryItem) (*models.GroceryItem, error)
	// InsertItems stores all items in one transaction.
	InsertItems(ctx context.Context, listID int64, items []models.GroceryItem) ([]*models.GroceryItem, error)
	GetItems(ctx context.Context, listID int64, onlyUnchecked bool) ([]*models.GroceryItem, error)
	GetAllItems(ctx context.Context) ([]*models.GroceryItem, error)
	SetChecked(ctx context.Context, itemID int64, checked bool) error
	DeleteItem(ctx context.Context, itemID int64) error
	ClearChecked(ctx context.Context, listID int64) (int64, error)
}

// SubstitutionRepository defines the interface for ingredient substitution operations
type SubstitutionRepository interface {
	// Upsert inserts or replaces the entry for substitution.Ingredient.
	Upsert(ctx context.Context, substitution *models.IngredientSubstitution) (*models.IngredientSubstitution, error)
	GetByIngredient(ctx context.Context, ingredient string) (*models.IngredientSubstitution, error)
	List(ctx context.Context) ([]*models.IngredientSubstitution, error)
	Delete(ctx context.Context, id int64) error
}

// PantryStapleRepository defines the interface for pantry staple configuration
type PantryStapleRepository interface {
	Create(ctx context.Context, staple *models.PantryStapleConfig) (*models.PantryStapleConfig, error)
	GetByID(ctx context.Context, id int64) (*models.PantryStapleConfig, error)
	List(ctx context.Context, onlyEnabled bool) ([]*models.PantryStapleConfig, error)
	Update(ctx context.Context, staple *models.PantryStapleConfig) (*models.PantryStapleConfig, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) error
	Delete(ctx context.Context, id int64) error
}

// RecipeLogRepository defines the interface for the cooking history
type RecipeLogRepository interface {
	Create(ctx context.Context, log *models.RecipeLog) (*models.RecipeLog, error)
	GetByRecipe(ctx context.Context, recipeID int64, limit int) ([]*models.RecipeLog, error)
	GetRecent(ctx context.Context, limit int) ([]*models.RecipeLog, error)
}

// RecipeFilters represents filters for listing recipes
type RecipeFilters struct {
	FavoritesOnly bool
	TemplatesOnly bool
	SourceKind    models.SourceKind
	Limit         int
	Offset        int
}
