package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"thrift-market/models"
	"thrift-market/repositories"
	"thrift-market/store"
)

// testPool connects to the database named by TEST_DATABASE_URL, skipping the
// test when it is unset. The schema is expected to be migrated already.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedUser(t *testing.T, db store.DB) *models.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	user := &models.User{
		Email:        "user-" + suffix + "@example.com",
		Username:     "user_" + suffix,
		PasswordHash: "x",
		FullName:     "Test User",
	}
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedProduct(t *testing.T, db store.DB, sellerID int, price string) *models.Product {
	t.Helper()
	var categoryID int
	require.NoError(t, db.QueryRow(context.Background(),
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`,
		"cat-"+uuid.NewString()[:8]).Scan(&categoryID))

	product := &models.Product{
		Title:      "Secondhand thing " + uuid.NewString()[:8],
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
		SellerID:   sellerID,
		ImageURL:   "placeholder.jpg",
		Condition:  "used",
	}
	require.NoError(t, repositories.NewProductRepository(db).Create(context.Background(), product))
	return product
}

func newCartService(db store.DB) *CartService {
	return NewCartService(db,
		repositories.NewCartRepository(db),
		repositories.NewProductRepository(db))
}

func newOrderService(db store.DB, strict bool) *OrderService {
	return NewOrderService(db,
		repositories.NewCartRepository(db),
		repositories.NewOrderRepository(db),
		repositories.NewUserRepository(db),
		strict, nil)
}

// failDB injects a failure into the first transaction statement containing
// failOn, leaving everything outside the transaction untouched.
type failDB struct {
	*pgxpool.Pool
	failOn string
}

func (f *failDB) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := f.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &failTx{Tx: tx, failOn: f.failOn}, nil
}

type failTx struct {
	pgx.Tx
	failOn string
}

func (f *failTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if strings.Contains(sql, f.failOn) {
		return pgconn.CommandTag{}, errors.New("injected failure")
	}
	return f.Tx.Exec(ctx, sql, args...)
}
