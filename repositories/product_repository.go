package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"thrift-market/models"
	"thrift-market/store"
)

type ProductRepository struct {
	db store.DB
}

func NewProductRepository(db store.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter narrows List results. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID int
	Search     string
}

func (r *ProductRepository) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (title, description, price, category_id, seller_id, image_url, condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_available, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		product.Title,
		product.Description,
		product.Price,
		product.CategoryID,
		product.SellerID,
		product.ImageURL,
		product.Condition,
	).Scan(&product.ID, &product.IsAvailable, &product.CreatedAt, &product.UpdatedAt)
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter, page, limit int) ([]models.Product, int, error) {
	offset := (page - 1) * limit

	where := []string{"p.is_available = TRUE"}
	args := []interface{}{}
	argIndex := 1

	if filter.CategoryID > 0 {
		where = append(where, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, filter.CategoryID)
		argIndex++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(p.title ILIKE $%d OR p.description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM products p WHERE %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.description, p.price, p.category_id, c.name,
		       p.seller_id, u.username, p.image_url, p.condition, p.is_available,
		       p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON p.category_id = c.id
		JOIN users u ON p.seller_id = u.id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Price, &p.CategoryID, &p.CategoryName,
			&p.SellerID, &p.SellerName, &p.ImageURL, &p.Condition, &p.IsAvailable,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepository) FindByID(ctx context.Context, id int) (*models.Product, error) {
	query := `
		SELECT p.id, p.title, p.description, p.price, p.category_id, c.name,
		       p.seller_id, u.username, p.image_url, p.condition, p.is_available,
		       p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON p.category_id = c.id
		JOIN users u ON p.seller_id = u.id
		WHERE p.id = $1
	`
	var p models.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.CategoryID, &p.CategoryName,
		&p.SellerID, &p.SellerName, &p.ImageURL, &p.Condition, &p.IsAvailable,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update writes the full row; sellers only reach this through their own
// products, enforced by the seller_id predicate.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) (bool, error) {
	query := `
		UPDATE products
		SET title = $1, description = $2, price = $3, category_id = $4,
		    condition = $5, is_available = $6, image_url = $7, updated_at = $8
		WHERE id = $9 AND seller_id = $10
	`
	tag, err := r.db.Exec(ctx, query,
		product.Title,
		product.Description,
		product.Price,
		product.CategoryID,
		product.Condition,
		product.IsAvailable,
		product.ImageURL,
		time.Now(),
		product.ID,
		product.SellerID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id, sellerID int) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM products WHERE id = $1 AND seller_id = $2`, id, sellerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListBySeller returns the seller's own listings, available or not.
func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID, page, limit int) ([]models.Product, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE seller_id = $1`, sellerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT p.id, p.title, p.description, p.price, p.category_id, c.name,
		       p.seller_id, u.username, p.image_url, p.condition, p.is_available,
		       p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON p.category_id = c.id
		JOIN users u ON p.seller_id = u.id
		WHERE p.seller_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, sellerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Price, &p.CategoryID, &p.CategoryName,
			&p.SellerID, &p.SellerName, &p.ImageURL, &p.Condition, &p.IsAvailable,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}
