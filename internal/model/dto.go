package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request payloads. Update payloads use pointer fields for merge-patch
// semantics: a nil field leaves the stored value untouched.

type ProductCreate struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

type ProductUpdate struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
}

type OrderItemCreate struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type OrderCreate struct {
	CustomerName    string            `json:"customerName"`
	ShippingAddress string            `json:"shippingAddress"`
	Status          string            `json:"status"`
	Products        []OrderItemCreate `json:"products"`
}

// OrderUpdate replaces the whole line-item set when Products is non-nil;
// items are never merged.
type OrderUpdate struct {
	CustomerName    *string            `json:"customerName"`
	ShippingAddress *string            `json:"shippingAddress"`
	Status          *string            `json:"status"`
	Products        *[]OrderItemCreate `json:"products"`
}

// Response shapes. Orders always nest the full product per line item.

type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

type OrderItemResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
}

type OrderResponse struct {
	ID              int64               `json:"id"`
	CustomerName    string              `json:"customerName"`
	ShippingAddress string              `json:"shippingAddress"`
	OrderDate       time.Time           `json:"orderDate"`
	Status          string              `json:"status"`
	Products        []OrderItemResponse `json:"products"`
}
