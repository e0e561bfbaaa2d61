package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"demo/ordersapi/internal/model"
)

//go:generate mockgen -source=store.go -destination=storemock/store_mock.go -package=storemock

// PgxIface is the subset of pgxpool.Pool the repositories use.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ProductStore is the persistence gateway for the products table.
type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (model.Product, bool, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	// Update overwrites the row for p.ID; the second return is false when the
	// row no longer exists.
	Update(ctx context.Context, p model.Product) (model.Product, bool, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// InUse reports whether any line item across any order references id.
	InUse(ctx context.Context, id int64) (bool, error)
}

// OrderStore is the persistence gateway for orders and their line items.
// Every returned order carries its line items with products resolved.
// Multi-row writes run in a single transaction: a failure partway leaves no
// partial order.
type OrderStore interface {
	List(ctx context.Context) ([]model.Order, error)
	GetByID(ctx context.Context, id int64) (model.Order, bool, error)
	Create(ctx context.Context, o model.Order) (model.Order, error)
	// Update overwrites the order row; when replaceItems is set the line-item
	// set is replaced wholesale in the same transaction. Returns false when
	// the order no longer exists.
	Update(ctx context.Context, o model.Order, replaceItems bool) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	AddItems(ctx context.Context, orderID int64, items []model.OrderItem) error
	RemoveItems(ctx context.Context, orderID int64, productIDs []int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}
