package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"thrift-market/models"
	"thrift-market/store"
)

type OrderRepository struct {
	db store.DB
}

func NewOrderRepository(db store.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Insert writes the order header. Runs on the checkout transaction's Querier;
// never call it on the bare pool.
func (r *OrderRepository) Insert(ctx context.Context, q store.Querier, userID int, total decimal.Decimal) (*models.Order, error) {
	order := &models.Order{
		UserID:      userID,
		TotalAmount: total,
		Status:      models.OrderStatusPending,
	}
	err := q.QueryRow(ctx,
		`INSERT INTO orders (user_id, total_amount, status) VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		userID, total, models.OrderStatusPending,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) InsertItem(ctx context.Context, q store.Querier, orderID, productID, quantity int, priceAtPurchase decimal.Decimal) error {
	_, err := q.Exec(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
		 VALUES ($1, $2, $3, $4)`,
		orderID, productID, quantity, priceAtPurchase)
	return err
}

// ReserveProduct flips availability off only if it is still on, all inside the
// checkout transaction. A zero row count means another buyer or the seller got
// there first and the transaction must abort.
func (r *OrderRepository) ReserveProduct(ctx context.Context, q store.Querier, productID int) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE products SET is_available = FALSE, updated_at = $1
		 WHERE id = $2 AND is_available = TRUE`,
		time.Now(), productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID, page, limit int) ([]models.Order, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.created_at, o.updated_at,
		       COUNT(oi.id) AS item_count
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.user_id = $1
		GROUP BY o.id
		ORDER BY o.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status,
			&o.CreatedAt, &o.UpdatedAt, &o.ItemCount)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// FindByIDForUser is buyer-scoped: an order that exists but belongs to someone
// else scans as no rows, indistinguishable from absent.
func (r *OrderRepository) FindByIDForUser(ctx context.Context, orderID, userID int) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, total_amount, status, created_at, updated_at
		 FROM orders WHERE id = $1 AND user_id = $2`,
		orderID, userID,
	).Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindItems(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase,
		       p.title, p.image_url, u.username
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		JOIN users u ON p.seller_id = u.id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.PriceAtPurchase, &item.Title, &item.ImageURL, &item.SellerName)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SellerHasLine reports whether sellerID owns at least one product line in the
// order. Any co-seller in a multi-seller order passes; the broad grant is
// documented behavior.
func (r *OrderRepository) SellerHasLine(ctx context.Context, orderID, sellerID int) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM order_items oi
		 JOIN products p ON oi.product_id = p.id
		 WHERE oi.order_id = $1 AND p.seller_id = $2`,
		orderID, sellerID,
	).Scan(&count)
	return count > 0, err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int, status string) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRow(ctx,
		`UPDATE orders SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
		 RETURNING id, user_id, total_amount, status, created_at, updated_at`,
		status, orderID,
	).Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
