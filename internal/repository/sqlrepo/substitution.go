package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
)

const substitutionColumns = `id, ingredient, category, substitutes, user_added, created_at, updated_at`

type substitutionRepository struct {
	db  *sql.DB
	pub repository.Publisher
}

// NewSubstitutionRepository creates a new ingredient substitution repository
func NewSubstitutionRepository(db *sql.DB, pub repository.Publisher) repository.SubstitutionRepository {
	return &substitutionRepository{db: db, pub: publisherOrNop(pub)}
}

// Upsert stores the entry under its lower-cased ingredient name, replacing
// any existing entry for that ingredient.
func (r *substitutionRepository) Upsert(ctx context.Context, s *models.IngredientSubstitution) (*models.IngredientSubstitution, error) {
	query := `
		INSERT INTO ingredient_substitutions (ingredient, category, substitutes, user_added, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ingredient) DO UPDATE
		SET category = excluded.category,
			substitutes = excluded.substitutes,
			user_added = excluded.user_added,
			updated_at = excluded.updated_at
		RETURNING id`

	substitutes, err := encodeList(s.Substitutes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode substitutes: %w", err)
	}

	s.Ingredient = strings.ToLower(strings.TrimSpace(s.Ingredient))
	ts := now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = ts
	}
	s.UpdatedAt = ts

	err = r.db.QueryRowContext(ctx, query,
		s.Ingredient,
		s.Category,
		substitutes,
		s.UserAdded,
		s.CreatedAt,
		s.UpdatedAt,
	).Scan(&s.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert substitution: %w", err)
	}

	r.pub.Publish(repository.Change{Table: repository.TableSubstitutions, Op: repository.OpUpdate, ID: s.ID})
	return s, nil
}

func (r *substitutionRepository) GetByIngredient(ctx context.Context, ingredient string) (*models.IngredientSubstitution, error) {
	query := `SELECT ` + substitutionColumns + ` FROM ingredient_substitutions WHERE ingredient = $1`

	s, err := scanSubstitution(r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(ingredient))))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get substitution: %w", err)
	}

	return s, nil
}

func (r *substitutionRepository) List(ctx context.Context) ([]*models.IngredientSubstitution, error) {
	query := `SELECT ` + substitutionColumns + ` FROM ingredient_substitutions ORDER BY ingredient ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query substitutions: %w", err)
	}
	defer rows.Close()

	out := []*models.IngredientSubstitution{}
	for rows.Next() {
		s, err := scanSubstitution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan substitution: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate substitutions: %w", err)
	}
	return out, nil
}

func (r *substitutionRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM ingredient_substitutions WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete substitution: %w", err)
	}
	if err := expectAffected(res, "substitution", id); err != nil {
		return err
	}

	r.pub.Publish(repository.Change{Table: repository.TableSubstitutions, Op: repository.OpDelete, ID: id})
	return nil
}

func scanSubstitution(s scanner) (*models.IngredientSubstitution, error) {
	var (
		sub         models.IngredientSubstitution
		substitutes string
	)
	if err := s.Scan(
		&sub.ID,
		&sub.Ingredient,
		&sub.Category,
		&substitutes,
		&sub.UserAdded,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if sub.Substitutes, err = decodeList[models.Substitute](substitutes); err != nil {
		return nil, fmt.Errorf("failed to decode substitutes: %w", err)
	}
	return &sub, nil
}
