package models

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=user company"`
}

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse always carries an empty password.
type UserResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// CreateProductRequest takes Price as a pointer so an absent price is
// rejected instead of reading as zero.
type CreateProductRequest struct {
	Name  string           `json:"name" binding:"required,max=200"`
	Price *decimal.Decimal `json:"price" binding:"required"`
	Stock int              `json:"stock" binding:"min=0"`
}

type ProductFilter struct {
	CompanyID *int `form:"company_id" binding:"omitempty,min=1"`
}

type ProductResponse struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CompanyID int             `json:"company_id"`
}

type AddCartItemRequest struct {
	ProductID int `json:"product_id" binding:"required,min=1"`
	Quantity  int `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartLineResponse struct {
	ID          int             `json:"id"`
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CheckoutResponse struct {
	Message string          `json:"message"`
	Total   decimal.Decimal `json:"total"`
}
