package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"demo/ordersapi/internal/model"
)

type ProductRepo struct {
	pool PgxIface
}

func NewProductRepo(pool PgxIface) *ProductRepo { return &ProductRepo{pool: pool} }

var _ ProductStore = (*ProductRepo)(nil)

const productCols = `id, name, description, price, category, created_at, updated_at`

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY id`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (model.Product, bool, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, false, nil
		}
		return model.Product{}, false, classify(err)
	}
	return p, true, nil
}

func (r *ProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, price, category)
		VALUES ($1,$2,$3,$4)
		RETURNING `+productCols,
		p.Name, p.Description, p.Price, p.Category)
	created, err := scanProduct(row)
	if err != nil {
		return model.Product{}, classify(err)
	}
	return created, nil
}

func (r *ProductRepo) Update(ctx context.Context, p model.Product) (model.Product, bool, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE products
		SET name=$2, description=$3, price=$4, category=$5, updated_at=now()
		WHERE id=$1
		RETURNING `+productCols,
		p.ID, p.Name, p.Description, p.Price, p.Category)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, false, nil
		}
		return model.Product{}, false, classify(err)
	}
	return updated, true, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, classify(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ProductRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, id).Scan(&exists)
	return exists, classify(err)
}

func (r *ProductRepo) InUse(ctx context.Context, id int64) (bool, error) {
	var inUse bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM order_items WHERE product_id=$1)`, id).Scan(&inUse)
	return inUse, classify(err)
}
