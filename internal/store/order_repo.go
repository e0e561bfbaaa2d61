package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"demo/ordersapi/internal/model"
)

type OrderRepo struct {
	pool PgxIface
}

func NewOrderRepo(pool PgxIface) *OrderRepo { return &OrderRepo{pool: pool} }

var _ OrderStore = (*OrderRepo)(nil)

const orderCols = `id, customer_name, shipping_address, order_date, status, created_at, updated_at`

const itemJoin = `
	SELECT oi.order_id, oi.quantity,
	       p.id, p.name, p.description, p.price, p.category, p.created_at, p.updated_at
	FROM order_items oi
	JOIN products p ON p.id = oi.product_id`

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.CustomerName, &o.ShippingAddress, &o.OrderDate, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func scanItem(rows pgx.Rows) (model.OrderItem, error) {
	var it model.OrderItem
	err := rows.Scan(&it.OrderID, &it.Quantity,
		&it.Product.ID, &it.Product.Name, &it.Product.Description,
		&it.Product.Price, &it.Product.Category, &it.Product.CreatedAt, &it.Product.UpdatedAt)
	it.ProductID = it.Product.ID
	return it, err
}

func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderCols+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	index := make(map[int64]int)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		o.Items = []model.OrderItem{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := r.pool.Query(ctx, itemJoin+` ORDER BY oi.order_id, oi.product_id`)
	if err != nil {
		return nil, classify(err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		it, err := scanItem(itemRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, itemRows.Err()
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (model.Order, bool, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Order{}, false, nil
		}
		return model.Order{}, false, classify(err)
	}

	rows, err := r.pool.Query(ctx, itemJoin+` WHERE oi.order_id=$1 ORDER BY oi.product_id`, id)
	if err != nil {
		return model.Order{}, false, classify(err)
	}
	defer rows.Close()
	o.Items = []model.OrderItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return model.Order{}, false, err
		}
		o.Items = append(o.Items, it)
	}
	return o, true, rows.Err()
}

func (r *OrderRepo) Create(ctx context.Context, o model.Order) (model.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Order{}, classify(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders (customer_name, shipping_address, order_date, status)
		VALUES ($1,$2,$3,$4)
		RETURNING `+orderCols,
		o.CustomerName, o.ShippingAddress, o.OrderDate, o.Status))
	if err != nil {
		return model.Order{}, classify(err)
	}

	if err := insertItems(ctx, tx, created.ID, o.Items); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Order{}, classify(err)
	}
	created.Items = o.Items
	return created, nil
}

func (r *OrderRepo) Update(ctx context.Context, o model.Order, replaceItems bool) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, classify(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET customer_name=$2, shipping_address=$3, status=$4, updated_at=now()
		WHERE id=$1`,
		o.ID, o.CustomerName, o.ShippingAddress, o.Status)
	if err != nil {
		return false, classify(err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, o.ID); err != nil {
			return false, classify(err)
		}
		if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return false, classify(err)
	}
	return true, nil
}

// Delete removes the order and its line items in one transaction. The FK
// cascade would cover the items anyway; deleting them explicitly keeps the
// behavior portable across storage choices.
func (r *OrderRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, classify(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, id); err != nil {
		return false, classify(err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, classify(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepo) AddItems(ctx context.Context, orderID int64, items []model.OrderItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classify(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertItems(ctx, tx, orderID, items); err != nil {
		return err
	}
	return classify(tx.Commit(ctx))
}

func (r *OrderRepo) RemoveItems(ctx context.Context, orderID int64, productIDs []int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM order_items WHERE order_id=$1 AND product_id = ANY($2)`,
		orderID, productIDs)
	return classify(err)
}

func (r *OrderRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists)
	return exists, classify(err)
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID int64, items []model.OrderItem) error {
	for _, it := range items {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1,$2,$3)`,
			orderID, it.ProductID, it.Quantity)
		if err != nil {
			return classify(err)
		}
	}
	return nil
}
