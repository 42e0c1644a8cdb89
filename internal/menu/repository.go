package menu

import (
	"context"
	"database/sql"

	"takeaway-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	ListAvailable(ctx context.Context) ([]*MenuItem, error)
	ListAll(ctx context.Context) ([]*MenuItem, error)
	GetByID(ctx context.Context, id uint) (*MenuItem, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*MenuItem, error)
	Create(ctx context.Context, item *MenuItem) error
	Update(ctx context.Context, item *MenuItem) error
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const itemColumns = `id, name, category, price, is_available, image, created_at, updated_at`

func scanItem(row interface{ Scan(...interface{}) error }) (*MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.IsAvailable, &m.Image, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) list(ctx context.Context, query string, args ...interface{}) ([]*MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("menu query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) ListAvailable(ctx context.Context) ([]*MenuItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM menu_items
		WHERE is_available = TRUE
		ORDER BY created_at DESC
	`
	return r.list(ctx, query)
}

func (r *repository) ListAll(ctx context.Context) ([]*MenuItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM menu_items
		ORDER BY created_at DESC
	`
	return r.list(ctx, query)
}

func (r *repository) GetByID(ctx context.Context, id uint) (*MenuItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM menu_items
		WHERE id = $1
	`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uint) ([]*MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	int64s := make([]int64, 0, len(ids))
	for _, id := range ids {
		int64s = append(int64s, int64(id))
	}

	query := `
		SELECT ` + itemColumns + `
		FROM menu_items
		WHERE id = ANY($1)
	`
	return r.list(ctx, query, pq.Array(int64s))
}

func (r *repository) Create(ctx context.Context, item *MenuItem) error {
	query := `
		INSERT INTO menu_items (name, category, price, is_available, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		item.Name, item.Category, item.Price, item.IsAvailable, item.Image,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("insert menu item failed", zap.Error(err))
		return err
	}
	return nil
}

func (r *repository) Update(ctx context.Context, item *MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, category = $2, price = $3, is_available = $4, image = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		item.Name, item.Category, item.Price, item.IsAvailable, item.Image, item.ID,
	).Scan(&item.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrItemNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("update menu item failed", zap.Error(err))
		return err
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		logger.FromCtx(ctx).Error("delete menu item failed", zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}
