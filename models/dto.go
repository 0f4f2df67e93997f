package models

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Username string `json:"username" form:"username" binding:"required,min=3"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	FullName string `json:"full_name" form:"full_name" binding:"required,min=3"`
	Phone    string `json:"phone" form:"phone" binding:"omitempty"`
	Address  string `json:"address" form:"address" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type OTPLoginRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
	OTP   string `json:"otp" form:"otp" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" form:"email" binding:"required,email"`
	OTP         string `json:"otp" form:"otp" binding:"required,len=6"`
	NewPassword string `json:"new_password" form:"new_password" binding:"required,min=6"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password" binding:"required"`
	NewPassword string `json:"new_password" form:"new_password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" form:"username"`
	FullName string `json:"full_name" form:"full_name"`
	Phone    string `json:"phone" form:"phone"`
	Address  string `json:"address" form:"address"`
}

type CreateProductRequest struct {
	Title       string          `json:"title" form:"title" binding:"required"`
	Description string          `json:"description" form:"description"`
	Price       decimal.Decimal `json:"price" form:"price" binding:"required"`
	CategoryID  int             `json:"category_id" form:"category_id" binding:"required"`
	Condition   string          `json:"condition" form:"condition"`
}

type UpdateProductRequest struct {
	Title       *string          `json:"title" form:"title"`
	Description *string          `json:"description" form:"description"`
	Price       *decimal.Decimal `json:"price" form:"price"`
	CategoryID  *int             `json:"category_id" form:"category_id"`
	Condition   *string          `json:"condition" form:"condition"`
	IsAvailable *bool            `json:"is_available" form:"is_available"`
}

type AddCartItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
