package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
)

const recipeColumns = `id, title, description, ingredients, instructions, servings, prep_minutes, cook_minutes,
		tags, cuisine, source_kind, source_url, media_refs, notes, favorite, template, created_at, updated_at`

type recipeRepository struct {
	db  *sql.DB
	pub repository.Publisher
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *sql.DB, pub repository.Publisher) repository.RecipeRepository {
	return &recipeRepository{db: db, pub: publisherOrNop(pub)}
}

type recipeLists struct {
	ingredients, instructions, tags, media string
}

func encodeRecipeLists(r *models.Recipe) (recipeLists, error) {
	var l recipeLists
	var err error
	if l.ingredients, err = encodeList(r.Ingredients); err != nil {
		return l, err
	}
	if l.instructions, err = encodeList(r.Instructions); err != nil {
		return l, err
	}
	if l.tags, err = encodeList(r.Tags); err != nil {
		return l, err
	}
	l.media, err = encodeList(r.MediaRefs)
	return l, err
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query := `
		INSERT INTO recipes (title, description, ingredients, instructions, servings, prep_minutes, cook_minutes,
			tags, cuisine, source_kind, source_url, media_refs, notes, favorite, template, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`

	lists, err := encodeRecipeLists(recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recipe: %w", err)
	}

	ts := now()
	recipe.CreatedAt = ts
	recipe.UpdatedAt = ts

	err = r.db.QueryRowContext(ctx, query,
		recipe.Title,
		recipe.Description,
		lists.ingredients,
		lists.instructions,
		recipe.Servings,
		nullInt(recipe.PrepMinutes),
		nullInt(recipe.CookMinutes),
		lists.tags,
		recipe.Cuisine,
		string(recipe.SourceKind),
		recipe.SourceURL,
		lists.media,
		recipe.Notes,
		recipe.Favorite,
		recipe.Template,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	).Scan(&recipe.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	r.pub.Publish(repository.Change{Table: repository.TableRecipes, Op: repository.OpInsert, ID: recipe.ID})
	return recipe, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`

	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	return recipe, nil
}

func (r *recipeRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Recipe, error) {
	if len(ids) == 0 {
		return []*models.Recipe{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id IN (` + strings.Join(placeholders, ", ") + `)`

	found, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes by IDs: %w", err)
	}

	byID := make(map[int64]*models.Recipe, len(found))
	for _, rec := range found {
		byID[rec.ID] = rec
	}
	out := make([]*models.Recipe, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *recipeRepository) List(ctx context.Context, filters repository.RecipeFilters) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE 1 = 1`
	var args []any

	if filters.FavoritesOnly {
		query += " AND favorite = $" + fmt.Sprint(len(args)+1)
		args = append(args, true)
	}
	if filters.TemplatesOnly {
		query += " AND template = $" + fmt.Sprint(len(args)+1)
		args = append(args, true)
	}
	if filters.SourceKind != "" {
		query += " AND source_kind = $" + fmt.Sprint(len(args)+1)
		args = append(args, string(filters.SourceKind))
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT $" + fmt.Sprint(len(args)+1)
		args = append(args, filters.Limit)
		if filters.Offset > 0 {
			query += " OFFSET $" + fmt.Sprint(len(args)+1)
			args = append(args, filters.Offset)
		}
	}

	recipes, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (r *recipeRepository) Search(ctx context.Context, q string, limit int) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes
		WHERE LOWER(title) LIKE $1 ESCAPE '\'
			OR LOWER(tags) LIKE $2 ESCAPE '\'
			OR LOWER(cuisine) LIKE $3 ESCAPE '\'
			OR LOWER(ingredients) LIKE $4 ESCAPE '\'
		ORDER BY title ASC, id ASC`

	p := likePattern(q)
	args := []any{p, p, p, p}
	if limit > 0 {
		query += " LIMIT $5"
		args = append(args, limit)
	}

	recipes, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return recipes, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query := `
		UPDATE recipes
		SET title = $1, description = $2, ingredients = $3, instructions = $4, servings = $5,
			prep_minutes = $6, cook_minutes = $7, tags = $8, cuisine = $9, source_kind = $10,
			source_url = $11, media_refs = $12, notes = $13, favorite = $14, template = $15, updated_at = $16
		WHERE id = $17`

	lists, err := encodeRecipeLists(recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recipe: %w", err)
	}
	recipe.UpdatedAt = now()

	res, err := r.db.ExecContext(ctx, query,
		recipe.Title,
		recipe.Description,
		lists.ingredients,
		lists.instructions,
		recipe.Servings,
		nullInt(recipe.PrepMinutes),
		nullInt(recipe.CookMinutes),
		lists.tags,
		recipe.Cuisine,
		string(recipe.SourceKind),
		recipe.SourceURL,
		lists.media,
		recipe.Notes,
		recipe.Favorite,
		recipe.Template,
		recipe.UpdatedAt,
		recipe.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	if err := expectAffected(res, "recipe", recipe.ID); err != nil {
		return nil, err
	}

	r.pub.Publish(repository.Change{Table: repository.TableRecipes, Op: repository.OpUpdate, ID: recipe.ID})
	return recipe, nil
}

func (r *recipeRepository) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	query := `UPDATE recipes SET favorite = $1, updated_at = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, favorite, now(), id)
	if err != nil {
		return fmt.Errorf("failed to set favorite: %w", err)
	}
	if err := expectAffected(res, "recipe", id); err != nil {
		return err
	}

	r.pub.Publish(repository.Change{Table: repository.TableRecipes, Op: repository.OpUpdate, ID: id})
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM recipes WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if err := expectAffected(res, "recipe", id); err != nil {
		return err
	}

	r.pub.Publish(repository.Change{Table: repository.TableRecipes, Op: repository.OpDelete, ID: id})
	return nil
}

func (r *recipeRepository) query(ctx context.Context, query string, args ...any) ([]*models.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*models.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recipes, nil
}

func scanRecipe(s scanner) (*models.Recipe, error) {
	var (
		recipe                                 models.Recipe
		prep, cook                             sql.NullInt64
		ingredients, instructions, tags, media string
		sourceKind                             string
	)
	err := s.Scan(
		&recipe.ID,
		&recipe.Title,
		&recipe.Description,
		&ingredients,
		&instructions,
		&recipe.Servings,
		&prep,
		&cook,
		&tags,
		&recipe.Cuisine,
		&sourceKind,
		&recipe.SourceURL,
		&media,
		&recipe.Notes,
		&recipe.Favorite,
		&recipe.Template,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	recipe.PrepMinutes = intPtr(prep)
	recipe.CookMinutes = intPtr(cook)
	recipe.SourceKind = models.SourceKind(sourceKind)
	if recipe.Ingredients, err = decodeList[string](ingredients); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}
	if recipe.Instructions, err = decodeList[string](instructions); err != nil {
		return nil, fmt.Errorf("failed to decode instructions: %w", err)
	}
	if recipe.Tags, err = decodeList[string](tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if recipe.MediaRefs, err = decodeList[string](media); err != nil {
		return nil, fmt.Errorf("failed to decode media refs: %w", err)
	}
	return &recipe, nil
}
