package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
)

// OrderFilter scopes the recent-orders projection to one buyer or one owner.
type OrderFilter struct {
	BuyerID *string
	OwnerID *string
	Limit   int
}

// OrderRepository encapsulates order persistence. Line items and the status
// history are written in the same transaction as the order row they belong to.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, initial *domain.OrderStatusChange) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// ListRecent returns orders newest first; line items are not loaded.
	ListRecent(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	// Transition persists order's new status only if the stored status still equals from.
	Transition(ctx context.Context, order *domain.Order, from domain.OrderStatus, change *domain.OrderStatusChange) error
	ListHistory(ctx context.Context, orderID string) ([]domain.OrderStatusChange, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order, initial *domain.OrderStatusChange) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const query = `
        INSERT INTO orders (id, number, buyer_id, owner_id, line_item_count, total_amount, status,
            tracking_code, cancel_reason, created_at, last_status_change_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	if _, err := tx.Exec(ctx, query,
		order.ID,
		order.Number,
		order.BuyerID,
		order.OwnerID,
		order.LineItemCount,
		order.TotalAmount,
		order.Status,
		order.TrackingCode,
		order.CancelReason,
		order.CreatedAt,
		order.LastStatusChangeAt,
	); err != nil {
		return mapPgError(err)
	}

	items := order.LineItems
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"order_line_items"},
		[]string{"order_id", "position", "product_id", "title", "quantity", "unit_price"},
		pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
			return []any{order.ID, i, items[i].ProductID, items[i].Title, items[i].Quantity, items[i].UnitPrice}, nil
		}),
	); err != nil {
		return fmt.Errorf("insert line items: %w", err)
	}

	if err := insertStatusChange(ctx, tx, initial); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const orderColumns = `id, number, buyer_id, owner_id, line_item_count, total_amount, status,
               tracking_code, cancel_reason, created_at, last_status_change_at`

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPgError(err)
	}

	const itemsQuery = `
        SELECT product_id, title, quantity, unit_price
        FROM order_line_items WHERE order_id=$1 ORDER BY position ASC`
	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ProductID, &item.Title, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		order.LineItems = append(order.LineItems, item)
	}
	return order, rows.Err()
}

func (r *orderRepository) ListRecent(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	clauses := []string{"1=1"}
	var args []any

	if filter.BuyerID != nil {
		args = append(args, *filter.BuyerID)
		clauses = append(clauses, fmt.Sprintf("buyer_id=$%d", len(args)))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 5
	}

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC, id ASC LIMIT %d`,
		orderColumns, strings.Join(clauses, " AND "), limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	return result, rows.Err()
}

func (r *orderRepository) Transition(ctx context.Context, order *domain.Order, from domain.OrderStatus, change *domain.OrderStatusChange) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const query = `
        UPDATE orders SET status=$1, tracking_code=$2, cancel_reason=$3, last_status_change_at=$4
        WHERE id=$5 AND status=$6`
	cmd, err := tx.Exec(ctx, query,
		order.Status,
		order.TrackingCode,
		order.CancelReason,
		order.LastStatusChangeAt,
		order.ID,
		from,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStaleStatus
	}

	if err := insertStatusChange(ctx, tx, change); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *orderRepository) ListHistory(ctx context.Context, orderID string) ([]domain.OrderStatusChange, error) {
	const query = `
        SELECT id, order_id, from_status, to_status, changed_by_kind, changed_by_id, note, changed_at
        FROM order_status_history WHERE order_id=$1 ORDER BY changed_at ASC, seq ASC`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.OrderStatusChange
	for rows.Next() {
		var change domain.OrderStatusChange
		if err := rows.Scan(
			&change.ID,
			&change.OrderID,
			&change.FromStatus,
			&change.ToStatus,
			&change.ChangedByKind,
			&change.ChangedByID,
			&change.Note,
			&change.ChangedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, change)
	}
	return result, rows.Err()
}

func insertStatusChange(ctx context.Context, tx pgx.Tx, change *domain.OrderStatusChange) error {
	const query = `
        INSERT INTO order_status_history (id, order_id, from_status, to_status, changed_by_kind, changed_by_id, note, changed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := tx.Exec(ctx, query,
		change.ID,
		change.OrderID,
		change.FromStatus,
		change.ToStatus,
		change.ChangedByKind,
		change.ChangedByID,
		change.Note,
		change.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert status change: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	if err := row.Scan(
		&order.ID,
		&order.Number,
		&order.BuyerID,
		&order.OwnerID,
		&order.LineItemCount,
		&order.TotalAmount,
		&order.Status,
		&order.TrackingCode,
		&order.CancelReason,
		&order.CreatedAt,
		&order.LastStatusChangeAt,
	); err != nil {
		return nil, err
	}
	return &order, nil
}
