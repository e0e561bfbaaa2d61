package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values. Stored as plain text; the API validates presence only,
// transitions are up to the caller.
const (
	StatusPending   = "Pending"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
)

const DefaultCategory = "General"

// Product is a catalog entry. Price is numeric(18,2) in storage.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Order owns its line items: they are written and deleted in the same
// transaction as the order row.
type Order struct {
	ID              int64
	CustomerName    string
	ShippingAddress string
	OrderDate       time.Time
	Status          string
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem links one order to one product; (OrderID, ProductID) is the
// primary key, so an order holds at most one line per product.
type OrderItem struct {
	OrderID   int64
	ProductID int64
	Quantity  int
	Product   Product // resolved on every order read
}

// ItemForProduct returns the line item for the given product, if any.
func (o Order) ItemForProduct(productID int64) (OrderItem, bool) {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return OrderItem{}, false
}
