package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Transitions are deliberately unrestricted; any seller with a
// line in the order may set any known status.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

var orderStatuses = map[string]bool{
	OrderStatusPending:    true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
}

func IsValidOrderStatus(status string) bool {
	return orderStatuses[status]
}

type Order struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	ItemCount   int             `json:"item_count,omitempty"`
	Items       []OrderItem     `json:"items,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        int `json:"id"`
	OrderID   int `json:"order_id"`
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
	// PriceAtPurchase is frozen at checkout and never follows the live
	// catalog price.
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Title           string          `json:"title,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	SellerName      string          `json:"seller_name,omitempty"`
}
