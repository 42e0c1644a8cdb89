package order

import (
	"context"
	"database/sql"

	"takeaway-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	ListByUser(ctx context.Context, userID uint) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	GetByID(ctx context.Context, id uint) (*Order, error)
	GetOwned(ctx context.Context, id, userID uint) (*Order, error)
	UpdateStatusGuard(ctx context.Context, id, userID uint, from, to Status) (int64, error)
	UpdatePaymentGuard(ctx context.Context, id, userID uint, pm PaymentMethod, required Status) (int64, error)
	SetStatus(ctx context.Context, id uint, st Status) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, user_id, subtotal, service_charge, payment_method, pickup_time, status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, subtotal, service_charge, payment_method, pickup_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		o.UserID, o.Subtotal, o.ServiceCharge, o.PaymentMethod, o.PickupTime, o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("insert order failed", zap.Error(err))
		return err
	}

	for _, line := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, name, unit_price, qty, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			o.ID, line.MenuItemID, line.Name, line.UnitPrice, line.Qty, line.LineTotal,
		)
		if err != nil {
			logger.FromCtx(ctx).Error("insert order line failed", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func scanOrder(row interface{ Scan(...interface{}) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Subtotal, &o.ServiceCharge,
		&o.PaymentMethod, &o.PickupTime, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) listOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("order query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fetches lines for all given orders in one query.
func (r *repository) loadItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uint]*Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		o.Items = []Line{}
		byID[o.ID] = o
		ids = append(ids, int64(o.ID))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, menu_item_id, name, unit_price, qty, line_total
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id ASC
	`, pq.Array(ids))
	if err != nil {
		logger.FromCtx(ctx).Error("order items query failed", zap.Error(err))
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uint
		var line Line
		if err := rows.Scan(&orderID, &line.MenuItemID, &line.Name, &line.UnitPrice, &line.Qty, &line.LineTotal); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, line)
		}
	}
	return rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.listOrders(ctx, query, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
	`
	return r.listOrders(ctx, query)
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// GetOwned looks up an order scoped to its owner. A miss and a
// not-owned order are indistinguishable by design.
func (r *repository) GetOwned(ctx context.Context, id, userID uint) (*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1 AND user_id = $2
	`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatusGuard flips status only if the order still belongs to the
// user and still has the expected status. Zero rows affected means the
// order changed under us.
func (r *repository) UpdateStatusGuard(ctx context.Context, id, userID uint, from, to Status) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND status = $4
	`, to, id, userID, from)
	if err != nil {
		logger.FromCtx(ctx).Error("guarded status update failed", zap.Error(err))
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) UpdatePaymentGuard(ctx context.Context, id, userID uint, pm PaymentMethod, required Status) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_method = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND status = $4
	`, pm, id, userID, required)
	if err != nil {
		logger.FromCtx(ctx).Error("guarded payment update failed", zap.Error(err))
		return 0, err
	}
	return res.RowsAffected()
}

// SetStatus is the staff override path: no transition graph, any state
// reachable from any state.
func (r *repository) SetStatus(ctx context.Context, id uint, st Status) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, st, id)
	if err != nil {
		logger.FromCtx(ctx).Error("status override failed", zap.Error(err))
		return 0, err
	}
	return res.RowsAffected()
}
