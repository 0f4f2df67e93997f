package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thrift-market/repositories"
)

func TestAddItemUnknownProduct(t *testing.T) {
	pool := testPool(t)
	buyer := seedUser(t, pool)

	err := newCartService(pool).AddItem(context.Background(), buyer.ID, -1, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddItemUnavailableProduct(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	seller := seedUser(t, pool)
	buyer := seedUser(t, pool)
	product := seedProduct(t, pool, seller.ID, "20.00")

	_, err := pool.Exec(ctx, `UPDATE products SET is_available = FALSE WHERE id = $1`, product.ID)
	require.NoError(t, err)

	err = newCartService(pool).AddItem(ctx, buyer.ID, product.ID, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestAddItemMergesQuantities(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	seller := seedUser(t, pool)
	buyer := seedUser(t, pool)
	product := seedProduct(t, pool, seller.ID, "20.00")

	carts := newCartService(pool)
	require.NoError(t, carts.AddItem(ctx, buyer.ID, product.ID, 2))
	require.NoError(t, carts.AddItem(ctx, buyer.ID, product.ID, 3))

	cart, err := carts.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestGetOrCreateCartConcurrent(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	buyer := seedUser(t, pool)
	repo := repositories.NewCartRepository(pool)

	const workers = 8
	ids := make([]int, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = repo.GetOrCreate(ctx, buyer.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM carts WHERE user_id = $1`, buyer.ID).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUpdateItemScopedToOwnCart(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	seller := seedUser(t, pool)
	buyer := seedUser(t, pool)
	other := seedUser(t, pool)
	product := seedProduct(t, pool, seller.ID, "20.00")

	carts := newCartService(pool)
	require.NoError(t, carts.AddItem(ctx, buyer.ID, product.ID, 1))

	cart, err := carts.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	itemID := cart.Items[0].ID

	// Someone else's item id reads as not found for the other user's cart.
	_, err = carts.GetCart(ctx, other.ID)
	require.NoError(t, err)
	err = carts.UpdateItem(ctx, other.ID, itemID, 5)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	require.NoError(t, carts.UpdateItem(ctx, buyer.ID, itemID, 5))

	cart, err = carts.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestRemoveItemAndClear(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	seller := seedUser(t, pool)
	buyer := seedUser(t, pool)
	first := seedProduct(t, pool, seller.ID, "20.00")
	second := seedProduct(t, pool, seller.ID, "30.00")

	carts := newCartService(pool)
	require.NoError(t, carts.AddItem(ctx, buyer.ID, first.ID, 1))
	require.NoError(t, carts.AddItem(ctx, buyer.ID, second.ID, 1))

	cart, err := carts.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	require.NoError(t, carts.RemoveItem(ctx, buyer.ID, cart.Items[0].ID))
	err = carts.RemoveItem(ctx, buyer.ID, cart.Items[0].ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	require.NoError(t, carts.Clear(ctx, buyer.ID))

	cart, err = carts.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
