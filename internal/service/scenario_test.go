package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"demo/ordersapi/internal/apperr"
	"demo/ordersapi/internal/model"
)

// memStore is a stateful in-memory stand-in for both gateways, used to walk
// a whole product/order lifecycle through the real services.
type memStore struct {
	mu          sync.Mutex
	nextProduct int64
	nextOrder   int64
	products    map[int64]model.Product
	orders      map[int64]model.Order
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[int64]model.Product),
		orders:   make(map[int64]model.Order),
	}
}

type memProducts struct{ *memStore }
type memOrders struct{ *memStore }

func (m memProducts) List(context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m memProducts) GetByID(_ context.Context, id int64) (model.Product, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	return p, ok, nil
}

func (m memProducts) Create(_ context.Context, p model.Product) (model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextProduct++
	p.ID = m.nextProduct
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.products[p.ID] = p
	return p, nil
}

func (m memProducts) Update(_ context.Context, p model.Product) (model.Product, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return model.Product{}, false, nil
	}
	p.UpdatedAt = time.Now().UTC()
	m.products[p.ID] = p
	return p, true, nil
}

func (m memProducts) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return false, nil
	}
	delete(m.products, id)
	return true, nil
}

func (m memProducts) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.products[id]
	return ok, nil
}

func (m memProducts) InUse(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		for _, it := range o.Items {
			if it.ProductID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m memOrders) resolve(o model.Order) model.Order {
	items := make([]model.OrderItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		items[i].Product = m.products[items[i].ProductID]
	}
	o.Items = items
	return o
}

func (m memOrders) List(context.Context) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, m.resolve(o))
	}
	return out, nil
}

func (m memOrders) GetByID(_ context.Context, id int64) (model.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return model.Order{}, false, nil
	}
	return m.resolve(o), true, nil
}

func (m memOrders) Create(_ context.Context, o model.Order) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextOrder++
	o.ID = m.nextOrder
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	m.orders[o.ID] = o
	return m.resolve(o), nil
}

func (m memOrders) Update(_ context.Context, o model.Order, replaceItems bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.orders[o.ID]
	if !ok {
		return false, nil
	}
	existing.CustomerName = o.CustomerName
	existing.ShippingAddress = o.ShippingAddress
	existing.Status = o.Status
	if replaceItems {
		existing.Items = o.Items
		for i := range existing.Items {
			existing.Items[i].OrderID = o.ID
		}
	}
	m.orders[o.ID] = existing
	return true, nil
}

func (m memOrders) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return false, nil
	}
	delete(m.orders, id)
	return true, nil
}

func (m memOrders) AddItems(_ context.Context, orderID int64, items []model.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.orders[orderID]
	for _, it := range items {
		it.OrderID = orderID
		o.Items = append(o.Items, it)
	}
	m.orders[orderID] = o
	return nil
}

func (m memOrders) RemoveItems(_ context.Context, orderID int64, productIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.orders[orderID]
	drop := make(map[int64]bool, len(productIDs))
	for _, pid := range productIDs {
		drop[pid] = true
	}
	kept := o.Items[:0:0]
	for _, it := range o.Items {
		if !drop[it.ProductID] {
			kept = append(kept, it)
		}
	}
	o.Items = kept
	m.orders[orderID] = o
	return nil
}

func (m memOrders) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.orders[id]
	return ok, nil
}

func TestOrderLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	mem := newMemStore()
	products := NewProductService(memProducts{mem})
	orders := NewOrderService(memOrders{mem}, memProducts{mem}, nil)

	a, err := products.Create(ctx, model.ProductCreate{Name: "A", Price: d("9.99")})
	require.NoError(t, err)
	b, err := products.Create(ctx, model.ProductCreate{Name: "B", Price: d("5.00")})
	require.NoError(t, err)

	created, err := orders.Create(ctx, model.OrderCreate{
		CustomerName:    "Alice",
		ShippingAddress: "1 Main St",
		Products: []model.OrderItemCreate{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	got, err := orders.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Products, 2)
	byID := map[int64]model.OrderItemResponse{}
	for _, ir := range got.Products {
		byID[ir.Product.ID] = ir
	}
	require.Equal(t, 2, byID[a.ID].Quantity)
	require.Equal(t, 1, byID[b.ID].Quantity)
	require.True(t, byID[a.ID].Product.Price.Equal(d("9.99")))

	// reads are idempotent
	again, err := orders.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, got, again)

	// remove B: only A remains
	afterRemove, err := orders.RemoveItems(ctx, created.ID, []int64{b.ID})
	require.NoError(t, err)
	require.Len(t, afterRemove.Products, 1)
	require.Equal(t, a.ID, afterRemove.Products[0].Product.ID)

	// A is still referenced: delete must be refused
	err = products.Delete(ctx, a.ID)
	require.True(t, errors.Is(err, apperr.ErrConflict))
	_, err = products.GetByID(ctx, a.ID)
	require.NoError(t, err)

	// delete the order, then A becomes deletable
	require.NoError(t, orders.Delete(ctx, created.ID))
	_, err = orders.GetByID(ctx, created.ID)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
	require.NoError(t, products.Delete(ctx, a.ID))
}
