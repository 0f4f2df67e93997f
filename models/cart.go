package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Items     []CartItem      `json:"items"`
	// Total reflects live catalog prices; nothing is frozen until checkout.
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

type CartItem struct {
	ID          int             `json:"id"`
	CartID      int             `json:"cart_id"`
	ProductID   int             `json:"product_id"`
	Title       string          `json:"title,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Condition   string          `json:"condition,omitempty"`
	IsAvailable bool            `json:"is_available"`
	SellerName  string          `json:"seller_name,omitempty"`
	Quantity    int             `json:"quantity"`
	AddedAt     time.Time       `json:"added_at"`
}
