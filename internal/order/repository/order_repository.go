package repository

import (
	"context"
	"database/sql"
	"fmt"

	"organicshop/internal/domain"
	"organicshop/internal/errors"
)

type MySQLOrderRepository struct {
	db    *sql.DB
	items *MySQLOrderItemRepository
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{
		db:    db,
		items: NewMySQLOrderItemRepository(db),
	}
}

// Create inserts the order row and every item row inside one
// transaction. Readers never observe the order without its full item
// set: nothing is visible until the commit, and any failure rolls the
// whole attempt back.
func (r *MySQLOrderRepository) Create(ctx context.Context, order domain.Order, items []domain.OrderItem) (uint, error) {
	if len(items) == 0 {
		return 0, errors.NewValidationError("order must contain at least one item")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	// Ensure rollback on any exit path. MySQL ignores rollback if already committed.
	defer tx.Rollback()

	query := `
		INSERT INTO orders (order_number, customer_name, customer_email, customer_phone,
		                    customer_address, total_amount, razorpay_order_id, payment_method)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.OrderNumber, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.CustomerAddress, order.TotalAmount, order.RazorpayOrderID, order.PaymentMethod,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	orderID := uint(lastInsertID)

	for _, item := range items {
		item.OrderID = orderID
		if _, err := r.items.Insert(ctx, tx, item); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return orderID, nil
}

const orderColumns = `id, order_number, customer_name, customer_email, customer_phone,
	customer_address, total_amount, payment_method, payment_status, order_status,
	razorpay_order_id, razorpay_payment_id, created_at`

func (r *MySQLOrderRepository) scanOrder(row *sql.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.CustomerName, &order.CustomerEmail,
		&order.CustomerPhone, &order.CustomerAddress, &order.TotalAmount,
		&order.PaymentMethod, &order.PaymentStatus, &order.OrderStatus,
		&order.RazorpayOrderID, &order.RazorpayPaymentID, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = ?`

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, orderNumber))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", orderNumber))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by order number: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) FindByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE razorpay_order_id = ?`

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, razorpayOrderID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order for gateway order %s not found", razorpayOrderID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by gateway order id: %w", err)
	}

	return order, nil
}

// List returns every order newest-first with its item count, the shape
// the admin dashboard renders.
func (r *MySQLOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT o.id, o.order_number, o.customer_name, o.customer_email, o.customer_phone,
		       o.customer_address, o.total_amount, o.payment_method, o.payment_status,
		       o.order_status, o.razorpay_order_id, o.razorpay_payment_id, o.created_at,
		       COUNT(oi.id) AS item_count
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		GROUP BY o.id
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.ID, &order.OrderNumber, &order.CustomerName, &order.CustomerEmail,
			&order.CustomerPhone, &order.CustomerAddress, &order.TotalAmount,
			&order.PaymentMethod, &order.PaymentStatus, &order.OrderStatus,
			&order.RazorpayOrderID, &order.RazorpayPaymentID, &order.CreatedAt,
			&order.ItemCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) FindItemsByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	return r.items.FindByOrderID(ctx, orderID)
}

// UpdateStatusFields applies a partial status update. Each legal field
// combination maps to its own fixed parameterized statement; no query
// text is ever assembled from request data.
func (r *MySQLOrderRepository) UpdateStatusFields(ctx context.Context, id uint, update domain.StatusUpdate) error {
	var (
		query string
		args  []any
	)

	switch {
	case update.OrderStatus != nil && update.PaymentStatus != nil:
		query = `UPDATE orders SET order_status = ?, payment_status = ? WHERE id = ?`
		args = []any{*update.OrderStatus, *update.PaymentStatus, id}
	case update.OrderStatus != nil:
		query = `UPDATE orders SET order_status = ? WHERE id = ?`
		args = []any{*update.OrderStatus, id}
	case update.PaymentStatus != nil:
		query = `UPDATE orders SET payment_status = ? WHERE id = ?`
		args = []any{*update.PaymentStatus, id}
	default:
		return errors.NewValidationError("no fields to update")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

// UpdatePaymentByRazorpayOrderID is the gateway-reconciliation path:
// it locates the order by its gateway correlation id. Re-applying the
// same values is harmless, which keeps verification idempotent.
func (r *MySQLOrderRepository) UpdatePaymentByRazorpayOrderID(ctx context.Context, razorpayOrderID, paymentStatus string, razorpayPaymentID *string) error {
	query := `UPDATE orders SET payment_status = ?, razorpay_payment_id = ? WHERE razorpay_order_id = ?`

	result, err := r.db.ExecContext(ctx, query, paymentStatus, razorpayPaymentID, razorpayOrderID)
	if err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order for gateway order %s not found", razorpayOrderID))
	}

	return nil
}
