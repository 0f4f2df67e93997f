package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"thrift-market/models"
	"thrift-market/repositories"
	"thrift-market/store"
)

// CartService owns the single active cart per user.
type CartService struct {
	db          store.DB
	cartRepo    *repositories.CartRepository
	productRepo *repositories.ProductRepository
}

func NewCartService(db store.DB, cartRepo *repositories.CartRepository, productRepo *repositories.ProductRepository) *CartService {
	return &CartService{db: db, cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart returns the caller's cart, creating it lazily on first access. The
// running total always reflects live catalog prices; nothing is frozen here.
func (s *CartService) GetCart(ctx context.Context, userID int) (*models.Cart, error) {
	cartID, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.ItemsWithProducts(ctx, s.db, cartID)
	if err != nil {
		return nil, err
	}

	return &models.Cart{
		ID:     cartID,
		UserID: userID,
		Items:  items,
		Total:  orderTotal(items),
	}, nil
}

// AddItem puts quantity units of a product in the caller's cart, merging into
// an existing line when present. The price is not copied: the cart tracks the
// live catalog until checkout freezes it.
func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity int) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	if !product.IsAvailable {
		return ErrProductUnavailable
	}

	cartID, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	return s.cartRepo.UpsertItem(ctx, cartID, productID, quantity)
}

// UpdateItem changes a line's quantity. Item ids belonging to other carts are
// reported as not found, same as ids that do not exist.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID, quantity int) error {
	cartID, err := s.cartRepo.FindCartIDByUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCartNotFound
	}
	if err != nil {
		return err
	}

	updated, err := s.cartRepo.UpdateItemQuantity(ctx, cartID, itemID, quantity)
	if err != nil {
		return err
	}
	if !updated {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int) error {
	cartID, err := s.cartRepo.FindCartIDByUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCartNotFound
	}
	if err != nil {
		return err
	}

	removed, err := s.cartRepo.DeleteItem(ctx, cartID, itemID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID int) error {
	cartID, err := s.cartRepo.FindCartIDByUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCartNotFound
	}
	if err != nil {
		return err
	}
	return s.cartRepo.ClearItems(ctx, s.db, cartID)
}
