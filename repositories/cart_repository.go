package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"thrift-market/models"
	"thrift-market/store"
)

type CartRepository struct {
	db store.DB
}

func NewCartRepository(db store.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) FindCartIDByUser(ctx context.Context, userID int) (int, error) {
	var cartID int
	err := r.db.QueryRow(ctx,
		`SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
	return cartID, err
}

// GetOrCreate resolves the user's single cart, creating it on first access.
// Two requests can race past the initial read; the losing INSERT hits the
// unique constraint on user_id and we re-read instead of failing. The insert
// must come first — checking then inserting without the constraint as a
// backstop is the race this method exists to avoid.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID int) (int, error) {
	cartID, err := r.FindCartIDByUser(ctx, userID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO carts (user_id) VALUES ($1) RETURNING id`, userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if store.IsUniqueViolation(err) {
		return r.FindCartIDByUser(ctx, userID)
	}
	return 0, err
}

// ItemsWithProducts joins cart lines against the live product rows. Callers
// that care about availability must use this read, not anything cached from
// an earlier request.
func (r *CartRepository) ItemsWithProducts(ctx context.Context, q store.Querier, cartID int) ([]models.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.added_at,
		       p.title, p.price, p.image_url, p.condition, p.is_available,
		       u.username
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		JOIN users u ON p.seller_id = u.id
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at DESC
	`
	rows, err := q.Query(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.AddedAt,
			&item.Title, &item.Price, &item.ImageURL, &item.Condition, &item.IsAvailable,
			&item.SellerName,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpsertItem merges quantity into an existing (cart, product) line or inserts
// a new one. Repeated adds never duplicate rows.
func (r *CartRepository) UpsertItem(ctx context.Context, cartID, productID, quantity int) error {
	var itemID, existing int
	err := r.db.QueryRow(ctx,
		`SELECT id, quantity FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID).Scan(&itemID, &existing)

	if err == nil {
		_, err = r.db.Exec(ctx,
			`UPDATE cart_items SET quantity = $1 WHERE id = $2`,
			existing+quantity, itemID)
		return err
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)`,
		cartID, productID, quantity)
	if store.IsUniqueViolation(err) {
		// Lost a concurrent insert for the same line; fold into it instead.
		_, err = r.db.Exec(ctx,
			`UPDATE cart_items SET quantity = quantity + $1 WHERE cart_id = $2 AND product_id = $3`,
			quantity, cartID, productID)
	}
	return err
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID, quantity int) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE id = $2 AND cart_id = $3`,
		quantity, itemID, cartID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CartRepository) DeleteItem(ctx context.Context, cartID, itemID int) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, itemID, cartID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ClearItems empties the cart. Accepts a Querier so checkout can run it
// inside the order transaction.
func (r *CartRepository) ClearItems(ctx context.Context, q store.Querier, cartID int) error {
	_, err := q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}
