package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID           int             `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   int             `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	SellerID     int             `json:"seller_id"`
	SellerName   string          `json:"seller_name,omitempty"`
	ImageURL     string          `json:"image_url"`
	Condition    string          `json:"condition"`
	IsAvailable  bool            `json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
