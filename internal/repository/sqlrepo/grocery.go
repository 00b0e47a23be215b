package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
)

const groceryItemColumns = `id, grocery_list_id, name, quantity, unit, checked, source_recipe_ids, notes, created_at, updated_at`

type groceryListRepository struct {
	db  *sql.DB
	pub repository.Publisher
}

// NewGroceryListRepository creates a new grocery list repository
func NewGroceryListRepository(db *sql.DB, pub repository.Publisher) repository.GroceryListRepository {
	return &groceryListRepository{db: db, pub: publisherOrNop(pub)}
}

func (r *groceryListRepository) CreateList(ctx context.Context, list *models.GroceryList) (*models.GroceryList, error) {
	query := `
		INSERT INTO grocery_lists (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	ts := now()
	list.CreatedAt = ts
	list.UpdatedAt = ts

	err := r.db.QueryRowContext(ctx, query,
		list.Name,
		list.CreatedAt,
		list.UpdatedAt,
	).Scan(&list.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create grocery list: %w", err)
	}

	r.pub.Publish(repository.Change{Table: repository.TableGroceryLists, Op: repository.OpInsert, ID: list.ID})
	return list, nil
}

func (r *groceryListRepository) GetListByID(ctx context.Context, id int64) (*models.GroceryList, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM grocery_lists
		WHERE id = $1`

	list := &models.GroceryList{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&list.ID,
		&list.Name,
		&list.CreatedAt,
		&list.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get grocery list by ID: %w", err)
	}

	return list, nil
}

func (r *groceryListRepository) GetLists(ctx context.Context) ([]*models.GroceryList, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM grocery_lists
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query grocery lists: %w", err)
	}
	defer rows.Close()

	lists := []*models.GroceryList{}
	for rows.Next() {
		list := &models.GroceryList{}
		if err := rows.Scan(&list.ID, &list.Name, &list.CreatedAt, &list.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grocery list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grocery lists: %w", err)
	}

	return lists, nil
}

func (r *groceryListRepository) DeleteList(ctx context.Context, id int64) error {
	query := `DELETE FROM grocery_lists WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete grocery list: %w", err)
	}
	if err := expectAffected(res, "grocery list", id); err != nil {
		return err
	}

	r.pub.Publish(repository.Change{Table: repository.TableGroceryLists, Op: repository.OpDelete, ID: id})
	r.pub.Publish(repository.Change{Table: repository.TableGroceryItems, Op: repository.OpDelete})
	return nil
}

func (r *groceryListRepository) AddItem(ctx context.Context, item *models.GroceryItem) (*models.GroceryItem, error) {
	if err := insertItem(ctx, r.db, item); err != nil {
		return nil, err
	}
	r.pub.Publish(repository.Change{Table: repository.TableGroceryItems, Op: repository.OpInsert, ID: item.ID})
	return item, nil
}

func (r *groceryListRepository) InsertItems(ctx context.Context, listID int64, items []models.GroceryItem) ([]*models.GroceryItem, error) {
	if len(items) == 0 {
		return []*models.GroceryItem{}, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	out := make([]*models.GroceryItem, 0, len(items))
	for i := range items {
		item := items[i]
		item.GroceryListID = listID
		if err := insertItem(ctx, tx, &item); err != nil {
			return nil, err
		}
		out = append(out, &item)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE grocery_lists SET updated_at = $1 WHERE id = $2`, now(), listID); err != nil {
		return nil, fmt.Errorf("failed to touch grocery list: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit grocery items: %w", err)
	}

	r.pub.Publish(repository.Change{Table: repository.TableGroceryItems, Op: repository.OpInsert})
	return out, nil
}

func insertItem(ctx context.Context, q queryer, item *models.GroceryItem) error {
	query := `
		INSERT INTO grocery_items (grocery_list_id, name, quantity, unit, checked, source_recipe_ids, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	sources, err := encodeList(item.SourceRecipeIDs)
	if err != nil {
		return fmt.Errorf("failed to encode source recipe IDs: %w", err)
	}

	ts := now()
	item.CreatedAt = ts
	item.UpdatedAt = ts

	err = q.QueryRowContext(ctx, query,
		item.GroceryListID,
		item.Name,
		nullFloat(item.Quantity),
		item.Unit,
		item.Checked,
		sources,
		item.Notes,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID)

	if err != nil {
		return fmt.Errorf("failed to add grocery item: %w", err)
	}
	return nil
}

func (r *groceryListRepository) GetItems(ctx context.Context, listID int64, onlyUnchecked bool) ([]*models.GroceryItem, error) {
	query := `SELECT ` + groceryItemColumns + ` FROM grocery_items WHERE grocery_list_id = $1`

	if onlyUnchecked {
		query += " AND checked = $2"
	}

	query += " ORDER BY id ASC"

	args := []any{listID}
	if onlyUnchecked {
		args = append(args, false)
	}
	return r.queryItems(ctx, query, args...)
}

func (r *groceryListRepository) GetAllItems(ctx context.Context) ([]*models.GroceryItem, error) {
	query := `SELECT ` + groceryItemColumns + ` FROM grocery_items ORDER BY grocery_list_id ASC, id ASC`
	return r.queryItems(ctx, query)
}

func (r *groceryListRepository) queryItems(ctx context.Context, query string, args ...any) ([]*models.GroceryItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grocery items: %w", err)
	}
	defer rows.Close()

	items := []*models.GroceryItem{}
	for rows.Next() {
		var (
			item     models.GroceryItem
			quantity sql.NullFloat64
			sources  string
		)
		if err := rows.Scan(
			&item.ID,
			&item.GroceryListID,
			&item.Name,
			&quantity,
			&item.Unit,
			&item.Checked,
			&sources,
			&item.Notes,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan grocery item: %w", err)
		}
		item.Quantity = floatPtr(quantity)
		if item.SourceRecipeIDs, err = decodeList[int64](sources); err != nil {
			return nil, fmt.Errorf("failed to decode source recipe IDs: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grocery items: %w", err)
	}

	return items, nil
}

func (r *groceryListRepository) SetChecked(ctx context.Context, itemID int64, checked bool) error {
	query := `UPDATE grocery_items SET checked = $1, updated_at = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, checked, now(), itemID)
	if err != nil {
		return fmt.Errorf("failed to update grocery item: %w", err)
	}
	if err := expectAffected(res, "grocery item", itemID); err != nil {
		return err
	}

	r.pub.Publish(repository.Change{Table: repository.TableGroceryItems, Op: repository.OpUpdate, ID: itemID})
	return nil
}

func (r *groceryListRepository) DeleteItem(ctx context.Context, itemID int64) error {
	query := `DELETE FROM grocery_items WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete grocery item: %w", err)
	}
	if err := expectAffected(res, "grocery item", itemID); err != nil {
		return err
	}

	r.pub.Publish(repository.Change{Table: repository.TableGroceryItems, Op: repository.OpDelete, ID: itemID})
	return nil
}

func (r *groceryListRepository) ClearChecked(ctx context.Context, listID int64) (int64, error) {
	query := `DELETE FROM grocery_items WHERE grocery_list_id = $1 AND checked = $2`

	res, err := r.db.ExecContext(ctx, query, listID, true)
	if err != nil {
		return 0, fmt.Errorf("failed to clear checked items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if n > 0 {
		r.pub.Publish(repository.Change{Table: repository.TableGroceryItems, Op: repository.OpDelete})
	}
	return n, nil
}
