package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thrift-market/models"
	"thrift-market/repositories"
)

func TestOrderTotal(t *testing.T) {
	items := []models.CartItem{
		{Price: decimal.RequireFromString("19.99"), Quantity: 2},
		{Price: decimal.RequireFromString("5.01"), Quantity: 1},
	}
	assert.True(t, orderTotal(items).Equal(decimal.RequireFromString("44.99")))

	assert.True(t, orderTotal(nil).Equal(decimal.Zero))
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	// Validation happens before any repository call, so nil deps are fine.
	svc := NewOrderService(nil, nil, nil, nil, false, nil)

	_, err := svc.UpdateOrderStatus(context.Background(), 1, 1, "returned")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCreateOrderWithoutCart(t *testing.T) {
	pool := testPool(t)
	svc := newOrderService(pool, false)
	buyer := seedUser(t, pool)

	_, err := svc.CreateOrder(context.Background(), buyer.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	buyer := seedUser(t, pool)

	_, err := newCartService(pool).GetCart(ctx, buyer.ID)
	require.NoError(t, err)

	_, err = newOrderService(pool, false).CreateOrder(ctx, buyer.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateOrderFreezesPricesAndClearsCart(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	seller := seedUser(t, pool)
	buyer := seedUser(t, pool)
	product := seedProduct(t, pool, seller.ID, "120.50")

	carts := newCartService(pool)
	require.NoError(t, carts.AddItem(ctx, buyer.ID, product.ID, 2))

	orders := newOrderService(pool, false)
	order, err := orders.CreateOrder(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("241.00")))

	// A price change after checkout must not touch the order.
	_, err = pool.Exec(ctx, `UPDATE products SET price = 999 WHERE id = $1`, product.ID)
	require.NoError(t, err)

	got, err := orders.GetOrder(ctx, buyer.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].PriceAtPurchase.Equal(decimal.RequireFromString("120.50")))

	cart, err := carts.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCreateOrderUnavailableItemLeavesCartIntact(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	seller := seedUser(t, pool)
	buyer := seedUser(t, pool)
	product := seedProduct(t, pool, seller.ID, "30.00")

	carts := newCartService(pool)
	require.NoError(t, carts.AddItem(ctx, buyer.ID, product.ID, 1))

	_, err := pool.Exec(ctx, `UPDATE products SET is_available = FALSE WHERE id = $1`, product.ID)
	require.NoError(t, err)

	_, err = newOrderService(pool, false).CreateOrder(ctx, buyer.ID)
	assert.ErrorIs(t, err, ErrItemsUnavailable)

	cart, err := carts.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCreateOrderRollsBackOnItemInsertFailure(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	seller := seedUser(t, pool)
	buyer := seedUser(t, pool)
	product := seedProduct(t, pool, seller.ID, "15.00")

	require.NoError(t, newCartService(pool).AddItem(ctx, buyer.ID, product.ID, 1))

	broken := &failDB{Pool: pool, failOn: "order_items"}
	_, err := newOrderService(broken, false).CreateOrder(ctx, buyer.ID)
	assert.ErrorIs(t, err, ErrTransientFailure)

	// Nothing persisted: no order row, cart untouched.
	var orderCount int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, buyer.ID).Scan(&orderCount))
	assert.Zero(t, orderCount)

	cart, err := newCartService(pool).GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCreateOrderStrictModeReservesProduct(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	seller := seedUser(t, pool)
	buyer := seedUser(t, pool)
	product := seedProduct(t, pool, seller.ID, "75.00")

	require.NoError(t, newCartService(pool).AddItem(ctx, buyer.ID, product.ID, 1))

	_, err := newOrderService(pool, true).CreateOrder(ctx, buyer.ID)
	require.NoError(t, err)

	got, err := repositories.NewProductRepository(pool).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)
}

func TestGetOrderScopedToBuyer(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	seller := seedUser(t, pool)
	buyer := seedUser(t, pool)
	other := seedUser(t, pool)
	product := seedProduct(t, pool, seller.ID, "10.00")

	require.NoError(t, newCartService(pool).AddItem(ctx, buyer.ID, product.ID, 1))

	orders := newOrderService(pool, false)
	order, err := orders.CreateOrder(ctx, buyer.ID)
	require.NoError(t, err)

	_, err = orders.GetOrder(ctx, other.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrderStatusSellerOnly(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	seller := seedUser(t, pool)
	buyer := seedUser(t, pool)
	stranger := seedUser(t, pool)
	product := seedProduct(t, pool, seller.ID, "10.00")

	require.NoError(t, newCartService(pool).AddItem(ctx, buyer.ID, product.ID, 1))

	orders := newOrderService(pool, false)
	order, err := orders.CreateOrder(ctx, buyer.ID)
	require.NoError(t, err)

	_, err = orders.UpdateOrderStatus(ctx, stranger.ID, order.ID, models.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	updated, err := orders.UpdateOrderStatus(ctx, seller.ID, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	// Transitions are permissive: back to pending is allowed.
	updated, err = orders.UpdateOrderStatus(ctx, seller.ID, order.ID, models.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updated.Status)
}
