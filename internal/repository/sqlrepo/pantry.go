package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
)

const pantryColumns = `id, pattern, alternative_names, threshold_quantity, threshold_unit, category,
		always_filter, enabled, custom, created_at, updated_at`

type pantryStapleRepository struct {
	db  *sql.DB
	pub repository.Publisher
}

// NewPantryStapleRepository creates a new pantry staple repository
func NewPantryStapleRepository(db *sql.DB, pub repository.Publisher) repository.PantryStapleRepository {
	return &pantryStapleRepository{db: db, pub: publisherOrNop(pub)}
}

func (r *pantryStapleRepository) Create(ctx context.Context, staple *models.PantryStapleConfig) (*models.PantryStapleConfig, error) {
	query := `
		INSERT INTO pantry_staples (pattern, alternative_names, threshold_quantity, threshold_unit, category,
			always_filter, enabled, custom, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	ts := now()
	staple.CreatedAt = ts
	staple.UpdatedAt = ts

	err := r.db.QueryRowContext(ctx, query,
		staple.Pattern,
		staple.AlternativeNames,
		staple.ThresholdQuantity,
		staple.ThresholdUnit,
		staple.Category,
		staple.AlwaysFilter,
		staple.Enabled,
		staple.Custom,
		staple.CreatedAt,
		staple.UpdatedAt,
	).Scan(&staple.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create pantry staple: %w", err)
	}

	r.pub.Publish(repository.Change{Table: repository.TablePantryStaples, Op: repository.OpInsert, ID: staple.ID})
	return staple, nil
}

func (r *pantryStapleRepository) GetByID(ctx context.Context, id int64) (*models.PantryStapleConfig, error) {
	query := `SELECT ` + pantryColumns + ` FROM pantry_staples WHERE id = $1`

	staple, err := scanStaple(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pantry staple by ID: %w", err)
	}

	return staple, nil
}

// List returns staples in insertion order, which is also the order in which
// the pantry filter tries them.
func (r *pantryStapleRepository) List(ctx context.Context, onlyEnabled bool) ([]*models.PantryStapleConfig, error) {
	query := `SELECT ` + pantryColumns + ` FROM pantry_staples`
	var args []any

	if onlyEnabled {
		query += " WHERE enabled = $1"
		args = append(args, true)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pantry staples: %w", err)
	}
	defer rows.Close()

	staples := []*models.PantryStapleConfig{}
	for rows.Next() {
		staple, err := scanStaple(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pantry staple: %w", err)
		}
		staples = append(staples, staple)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pantry staples: %w", err)
	}
	return staples, nil
}

func (r *pantryStapleRepository) Update(ctx context.Context, staple *models.PantryStapleConfig) (*models.PantryStapleConfig, error) {
	query := `
		UPDATE pantry_staples
		SET pattern = $1, alternative_names = $2, threshold_quantity = $3, threshold_unit = $4, category = $5,
			always_filter = $6, enabled = $7, custom = $8, updated_at = $9
		WHERE id = $10`

	staple.UpdatedAt = now()

	res, err := r.db.ExecContext(ctx, query,
		staple.Pattern,
		staple.AlternativeNames,
		staple.ThresholdQuantity,
		staple.ThresholdUnit,
		staple.Category,
		staple.AlwaysFilter,
		staple.Enabled,
		staple.Custom,
		staple.UpdatedAt,
		staple.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update pantry staple: %w", err)
	}
	if err := expectAffected(res, "pantry staple", staple.ID); err != nil {
		return nil, err
	}

	r.pub.Publish(repository.Change{Table: repository.TablePantryStaples, Op: repository.OpUpdate, ID: staple.ID})
	return staple, nil
}

func (r *pantryStapleRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	query := `UPDATE pantry_staples SET enabled = $1, updated_at = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, enabled, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update pantry staple: %w", err)
	}
	if err := expectAffected(res, "pantry staple", id); err != nil {
		return err
	}

	r.pub.Publish(repository.Change{Table: repository.TablePantryStaples, Op: repository.OpUpdate, ID: id})
	return nil
}

func (r *pantryStapleRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM pantry_staples WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete pantry staple: %w", err)
	}
	if err := expectAffected(res, "pantry staple", id); err != nil {
		return err
	}

	r.pub.Publish(repository.Change{Table: repository.TablePantryStaples, Op: repository.OpDelete, ID: id})
	return nil
}

func scanStaple(s scanner) (*models.PantryStapleConfig, error) {
	staple := &models.PantryStapleConfig{}
	err := s.Scan(
		&staple.ID,
		&staple.Pattern,
		&staple.AlternativeNames,
		&staple.ThresholdQuantity,
		&staple.ThresholdUnit,
		&staple.Category,
		&staple.AlwaysFilter,
		&staple.Enabled,
		&staple.Custom,
		&staple.CreatedAt,
		&staple.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return staple, nil
}
