package services

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"thrift-market/models"
	"thrift-market/repositories"
	"thrift-market/store"
)

// OrderService converts carts into immutable orders and serves order history.
//
// A checkout attempt moves through validating -> committing -> committed, or
// drops to aborted (validation failed, nothing written) / rolled back (the
// transaction failed, nothing persisted). No state outlives the request.
type OrderService struct {
	db        store.DB
	cartRepo  *repositories.CartRepository
	orderRepo *repositories.OrderRepository
	userRepo  *repositories.UserRepository

	// strictAvailability adds a conditional reservation inside the commit
	// transaction. When false the availability check is optimistic only:
	// between the fresh read and the commit another buyer can still slip
	// through, a window this design accepts instead of taking row locks.
	strictAvailability bool

	email *EmailService
}

func NewOrderService(db store.DB, cartRepo *repositories.CartRepository, orderRepo *repositories.OrderRepository, userRepo *repositories.UserRepository, strictAvailability bool, email *EmailService) *OrderService {
	return &OrderService{
		db:                 db,
		cartRepo:           cartRepo,
		orderRepo:          orderRepo,
		userRepo:           userRepo,
		strictAvailability: strictAvailability,
		email:              email,
	}
}

// orderTotal sums price x quantity over the cart lines. The prices summed here
// are the ones frozen into price_at_purchase.
func orderTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// CreateOrder places an order from the caller's cart.
//
//  1. Resolve the cart; no cart at all is ErrCartNotFound.
//  2. Fresh join read of cart lines with live product price/availability.
//  3. Empty cart and unavailable items abort before anything is written.
//  4. Insert order + items with frozen prices and clear the cart in one
//     transaction; any failure rolls the whole thing back and leaves the cart
//     intact for retry.
func (s *OrderService) CreateOrder(ctx context.Context, userID int) (*models.Order, error) {
	cartID, err := s.cartRepo.FindCartIDByUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	// Availability may have changed since the items were added, so this read
	// must not be reused from any earlier request.
	items, err := s.cartRepo.ItemsWithProducts(ctx, s.db, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range items {
		if !item.IsAvailable {
			return nil, ErrItemsUnavailable
		}
	}

	total := orderTotal(items)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		slog.Error("checkout: begin transaction", "error", err)
		return nil, ErrTransientFailure
	}
	defer tx.Rollback(ctx)

	order, err := s.orderRepo.Insert(ctx, tx, userID, total)
	if err != nil {
		slog.Error("checkout: insert order", "error", err, "user_id", userID)
		return nil, ErrTransientFailure
	}

	for _, item := range items {
		if err := s.orderRepo.InsertItem(ctx, tx, order.ID, item.ProductID, item.Quantity, item.Price); err != nil {
			slog.Error("checkout: insert order item", "error", err, "order_id", order.ID)
			return nil, ErrTransientFailure
		}

		if s.strictAvailability {
			reserved, err := s.orderRepo.ReserveProduct(ctx, tx, item.ProductID)
			if err != nil {
				slog.Error("checkout: reserve product", "error", err, "product_id", item.ProductID)
				return nil, ErrTransientFailure
			}
			if !reserved {
				// Sold or withdrawn between the fresh read and now. The
				// rollback leaves the cart untouched.
				return nil, ErrItemsUnavailable
			}
		}

		order.Items = append(order.Items, models.OrderItem{
			OrderID:         order.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.Price,
			Title:           item.Title,
		})
	}

	if err := s.cartRepo.ClearItems(ctx, tx, cartID); err != nil {
		slog.Error("checkout: clear cart", "error", err, "cart_id", cartID)
		return nil, ErrTransientFailure
	}

	if err := tx.Commit(ctx); err != nil {
		slog.Error("checkout: commit", "error", err, "user_id", userID)
		return nil, ErrTransientFailure
	}

	order.ItemCount = len(order.Items)
	s.sendConfirmation(userID, order)
	return order, nil
}

// sendConfirmation emails the buyer off the request path. Delivery failures
// are logged, never surfaced: the order is already committed.
func (s *OrderService) sendConfirmation(userID int, order *models.Order) {
	if s.email == nil {
		return
	}
	go func() {
		user, err := s.userRepo.FindByID(context.Background(), userID)
		if err != nil {
			slog.Warn("order confirmation: resolve buyer", "error", err, "order_id", order.ID)
			return
		}
		if err := s.email.SendOrderConfirmation(user.Email, order); err != nil {
			slog.Warn("order confirmation email failed", "error", err, "order_id", order.ID)
		}
	}()
}

func (s *OrderService) GetOrders(ctx context.Context, userID, page, limit int) (*models.PaginationResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	orders, total, err := s.orderRepo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	return &models.PaginationResponse{
		Success: true,
		Message: "Orders retrieved successfully",
		Data:    orders,
		Meta: models.PaginationMeta{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int) (*models.Order, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := s.orderRepo.FindItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	order.ItemCount = len(items)
	return order, nil
}

// UpdateOrderStatus lets a seller with at least one line in the order set its
// status. The status must be a known value, but transitions are not
// restricted — shipped back to pending is allowed, matching the permissive
// authorization this layer inherits.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actingUserID, orderID int, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	isSeller, err := s.orderRepo.SellerHasLine(ctx, orderID, actingUserID)
	if err != nil {
		return nil, err
	}
	if !isSeller {
		return nil, ErrOrderNotFound
	}

	order, err := s.orderRepo.UpdateStatus(ctx, orderID, status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}
