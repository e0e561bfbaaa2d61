package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"demo/ordersapi/internal/apperr"
	"demo/ordersapi/internal/model"
	"demo/ordersapi/internal/store"
	"demo/ordersapi/internal/validate"
)

// ProductService owns the product lifecycle, including the invariant that a
// product referenced by any line item cannot be deleted.
type ProductService struct {
	products store.ProductStore
}

func NewProductService(products store.ProductStore) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) List(ctx context.Context) ([]model.ProductResponse, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return ProductsToResponse(products), nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (model.ProductResponse, error) {
	p, ok, err := s.products.GetByID(ctx, id)
	if err != nil {
		return model.ProductResponse{}, err
	}
	if !ok {
		return model.ProductResponse{}, apperr.NotFound("product with id %d not found", id)
	}
	return ProductToResponse(p), nil
}

func (s *ProductService) Create(ctx context.Context, in model.ProductCreate) (model.ProductResponse, error) {
	if err := validate.ProductCreate(in); err != nil {
		return model.ProductResponse{}, apperr.Validation("%s", err)
	}

	p := model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
	}
	if p.Category == "" {
		p.Category = model.DefaultCategory
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return model.ProductResponse{}, err
	}
	zap.L().Info("created product", zap.Int64("product_id", created.ID), zap.String("name", created.Name))
	return ProductToResponse(created), nil
}

// Update applies a merge-patch: only fields present in the payload overwrite
// the stored values.
func (s *ProductService) Update(ctx context.Context, id int64, in model.ProductUpdate) (model.ProductResponse, error) {
	if err := validate.ProductUpdate(in); err != nil {
		return model.ProductResponse{}, apperr.Validation("%s", err)
	}

	p, ok, err := s.products.GetByID(ctx, id)
	if err != nil {
		return model.ProductResponse{}, err
	}
	if !ok {
		return model.ProductResponse{}, apperr.NotFound("product with id %d not found", id)
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.Category = *in.Category
	}

	updated, ok, err := s.products.Update(ctx, p)
	if err != nil {
		return model.ProductResponse{}, s.onConcurrency(ctx, id, err)
	}
	if !ok {
		return model.ProductResponse{}, apperr.NotFound("product with id %d not found", id)
	}
	zap.L().Info("updated product", zap.Int64("product_id", id))
	return ProductToResponse(updated), nil
}

// Delete removes a product unless any order still references it.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	_, ok, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("product with id %d not found", id)
	}

	inUse, err := s.products.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		zap.L().Warn("refused to delete product in use", zap.Int64("product_id", id))
		return apperr.Conflict("cannot delete product %d: it is used in existing orders", id)
	}

	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("product with id %d not found", id)
	}
	zap.L().Info("deleted product", zap.Int64("product_id", id))
	return nil
}

// onConcurrency re-checks existence after a storage-level concurrency
// conflict: a row that vanished is reported as not found, otherwise the
// conflict is re-raised.
func (s *ProductService) onConcurrency(ctx context.Context, id int64, err error) error {
	if !errors.Is(err, apperr.ErrConcurrency) {
		return err
	}
	exists, checkErr := s.products.Exists(ctx, id)
	if checkErr == nil && !exists {
		return apperr.NotFound("product with id %d not found", id)
	}
	return err
}
