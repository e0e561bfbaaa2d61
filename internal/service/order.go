package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"demo/ordersapi/internal/apperr"
	"demo/ordersapi/internal/events"
	"demo/ordersapi/internal/model"
	"demo/ordersapi/internal/store"
	"demo/ordersapi/internal/validate"
)

// OrderService owns the order lifecycle and the line-item invariants: every
// line references an existing product, quantities are >= 1, and an order
// never holds two lines for the same product.
type OrderService struct {
	orders   store.OrderStore
	products store.ProductStore
	sink     events.Sink
}

func NewOrderService(orders store.OrderStore, products store.ProductStore, sink events.Sink) *OrderService {
	if sink == nil {
		sink = events.Nop{}
	}
	return &OrderService{orders: orders, products: products, sink: sink}
}

func (s *OrderService) List(ctx context.Context) ([]model.OrderResponse, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return OrdersToResponse(orders), nil
}

func (s *OrderService) GetByID(ctx context.Context, id int64) (model.OrderResponse, error) {
	o, ok, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return model.OrderResponse{}, err
	}
	if !ok {
		return model.OrderResponse{}, apperr.NotFound("order with id %d not found", id)
	}
	return OrderToResponse(o), nil
}

func (s *OrderService) Create(ctx context.Context, in model.OrderCreate) (model.OrderResponse, error) {
	if err := validate.OrderCreate(in); err != nil {
		return model.OrderResponse{}, apperr.Validation("%s", err)
	}

	items, err := s.resolveItems(ctx, in.Products)
	if err != nil {
		return model.OrderResponse{}, err
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = model.StatusPending
	}

	o := model.Order{
		CustomerName:    strings.TrimSpace(in.CustomerName),
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		OrderDate:       time.Now().UTC(),
		Status:          status,
		Items:           items,
	}

	created, err := s.orders.Create(ctx, o)
	if err != nil {
		return model.OrderResponse{}, err
	}
	zap.L().Info("created order",
		zap.Int64("order_id", created.ID),
		zap.String("customer", created.CustomerName),
		zap.Int("items", len(created.Items)))
	s.sink.Publish(ctx, events.Event{Type: events.OrderCreated, OrderID: created.ID})
	return OrderToResponse(created), nil
}

// Update applies a merge-patch to the scalar fields; a non-nil Products list
// replaces the existing line-item set wholesale after the same validation as
// Create.
func (s *OrderService) Update(ctx context.Context, id int64, in model.OrderUpdate) (model.OrderResponse, error) {
	if err := validate.OrderUpdate(in); err != nil {
		return model.OrderResponse{}, apperr.Validation("%s", err)
	}

	o, ok, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return model.OrderResponse{}, err
	}
	if !ok {
		return model.OrderResponse{}, apperr.NotFound("order with id %d not found", id)
	}

	if in.CustomerName != nil {
		o.CustomerName = strings.TrimSpace(*in.CustomerName)
	}
	if in.ShippingAddress != nil {
		o.ShippingAddress = strings.TrimSpace(*in.ShippingAddress)
	}
	if in.Status != nil {
		o.Status = strings.TrimSpace(*in.Status)
	}

	replaceItems := in.Products != nil
	if replaceItems {
		items, err := s.resolveItems(ctx, *in.Products)
		if err != nil {
			return model.OrderResponse{}, err
		}
		o.Items = items
	}

	ok, err = s.orders.Update(ctx, o, replaceItems)
	if err != nil {
		return model.OrderResponse{}, s.onConcurrency(ctx, id, err)
	}
	if !ok {
		return model.OrderResponse{}, apperr.NotFound("order with id %d not found", id)
	}
	zap.L().Info("updated order", zap.Int64("order_id", id), zap.Bool("items_replaced", replaceItems))
	s.sink.Publish(ctx, events.Event{Type: events.OrderUpdated, OrderID: id})
	return s.GetByID(ctx, id)
}

// Delete removes the order and all of its line items.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.orders.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("order with id %d not found", id)
	}
	zap.L().Info("deleted order", zap.Int64("order_id", id))
	s.sink.Publish(ctx, events.Event{Type: events.OrderDeleted, OrderID: id})
	return nil
}

// AddItems appends new line items to an order. The whole call is rejected if
// any requested product is already on the order; quantities are never merged.
func (s *OrderService) AddItems(ctx context.Context, id int64, in []model.OrderItemCreate) (model.OrderResponse, error) {
	if err := validate.Items(in); err != nil {
		return model.OrderResponse{}, apperr.Validation("%s", err)
	}

	o, ok, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return model.OrderResponse{}, err
	}
	if !ok {
		return model.OrderResponse{}, apperr.NotFound("order with id %d not found", id)
	}

	items, err := s.resolveItems(ctx, in)
	if err != nil {
		return model.OrderResponse{}, err
	}
	for _, it := range items {
		if _, exists := o.ItemForProduct(it.ProductID); exists {
			return model.OrderResponse{}, apperr.Conflict("product %d is already on order %d", it.ProductID, id)
		}
	}

	if err := s.orders.AddItems(ctx, id, items); err != nil {
		return model.OrderResponse{}, err
	}
	zap.L().Info("added order items", zap.Int64("order_id", id), zap.Int("items", len(items)))
	s.sink.Publish(ctx, events.Event{Type: events.OrderUpdated, OrderID: id})
	return s.GetByID(ctx, id)
}

// RemoveItems removes exactly the requested line items. If any requested
// product is not on the order the whole call fails and nothing is removed.
func (s *OrderService) RemoveItems(ctx context.Context, id int64, productIDs []int64) (model.OrderResponse, error) {
	if len(productIDs) == 0 {
		return model.OrderResponse{}, apperr.Validation("productIds: at least one product id is required")
	}

	o, ok, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return model.OrderResponse{}, err
	}
	if !ok {
		return model.OrderResponse{}, apperr.NotFound("order with id %d not found", id)
	}
	for _, pid := range productIDs {
		if _, exists := o.ItemForProduct(pid); !exists {
			return model.OrderResponse{}, apperr.NotFound("product %d is not on order %d", pid, id)
		}
	}

	if err := s.orders.RemoveItems(ctx, id, productIDs); err != nil {
		return model.OrderResponse{}, err
	}
	zap.L().Info("removed order items", zap.Int64("order_id", id), zap.Int("items", len(productIDs)))
	s.sink.Publish(ctx, events.Event{Type: events.OrderUpdated, OrderID: id})
	return s.GetByID(ctx, id)
}

// resolveItems checks every referenced product exists and attaches the full
// product record to each line item.
func (s *OrderService) resolveItems(ctx context.Context, in []model.OrderItemCreate) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(in))
	for _, it := range in {
		p, ok, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.NotFound("product with id %d not found", it.ProductID)
		}
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			Product:   p,
		})
	}
	return items, nil
}

func (s *OrderService) onConcurrency(ctx context.Context, id int64, err error) error {
	if !errors.Is(err, apperr.ErrConcurrency) {
		return err
	}
	exists, checkErr := s.orders.Exists(ctx, id)
	if checkErr == nil && !exists {
		return apperr.NotFound("order with id %d not found", id)
	}
	return err
}
