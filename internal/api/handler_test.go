package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"demo/ordersapi/internal/model"
	"demo/ordersapi/internal/service"
	"demo/ordersapi/internal/store/storemock"
)

type fixture struct {
	products *storemock.MockProductStore
	orders   *storemock.MockOrderStore
	server   http.Handler
}

func newFixture(t *testing.T) (*fixture, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	products := storemock.NewMockProductStore(ctrl)
	orders := storemock.NewMockOrderStore(ctrl)
	a := New(
		service.NewProductService(products),
		service.NewOrderService(orders, products, nil),
	)
	return &fixture{products: products, orders: orders, server: a.NewServer()}, ctrl
}

func do(f *fixture, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestGetProduct_OK(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	p := model.Product{ID: 1, Name: "Keyboard", Price: decimal.RequireFromString("49.99"), Category: "General"}
	f.products.EXPECT().GetByID(gomock.Any(), int64(1)).Return(p, true, nil)

	rec := do(f, http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Keyboard", got.Name)
	require.True(t, got.Price.Equal(decimal.RequireFromString("49.99")))
}

func TestGetProduct_NotFound(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	f.products.EXPECT().GetByID(gomock.Any(), int64(9)).Return(model.Product{}, false, nil)

	rec := do(f, http.MethodGet, "/products/9", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, message(t, rec), "not found")
}

func TestGetProduct_BadID(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	rec := do(f, http.MethodGet, "/products/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct_Created(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	stored := model.Product{ID: 1, Name: "Keyboard", Price: decimal.RequireFromString("49.99"), Category: "General"}
	f.products.EXPECT().Create(gomock.Any(), gomock.Any()).Return(stored, nil)

	rec := do(f, http.MethodPost, "/products", `{"name":"Keyboard","price":"49.99"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got model.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(1), got.ID)
}

func TestCreateProduct_ValidationFailure(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	rec := do(f, http.MethodPost, "/products", `{"name":"","price":"0"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, message(t, rec), "price")
}

func TestDeleteProduct_InUseConflict(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	f.products.EXPECT().GetByID(gomock.Any(), int64(3)).Return(model.Product{ID: 3}, true, nil)
	f.products.EXPECT().InUse(gomock.Any(), int64(3)).Return(true, nil)

	rec := do(f, http.MethodDelete, "/products/3", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, message(t, rec), "used in existing orders")
}

func TestDeleteProduct_NoContent(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	f.products.EXPECT().GetByID(gomock.Any(), int64(3)).Return(model.Product{ID: 3}, true, nil)
	f.products.EXPECT().InUse(gomock.Any(), int64(3)).Return(false, nil)
	f.products.EXPECT().Delete(gomock.Any(), int64(3)).Return(true, nil)

	rec := do(f, http.MethodDelete, "/products/3", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestCreateOrder_Created(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	pa := model.Product{ID: 1, Name: "A", Price: decimal.RequireFromString("9.99"), Category: "General"}
	f.products.EXPECT().GetByID(gomock.Any(), int64(1)).Return(pa, true, nil)
	f.orders.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o model.Order) (model.Order, error) {
			o.ID = 5
			return o, nil
		})

	rec := do(f, http.MethodPost, "/orders",
		`{"customerName":"Alice","shippingAddress":"1 Main St","products":[{"productId":1,"quantity":2}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got model.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(5), got.ID)
	require.Len(t, got.Products, 1)
	// nested product fully resolved, never a bare product id
	require.Equal(t, "A", got.Products[0].Product.Name)
	require.Equal(t, 2, got.Products[0].Quantity)
}

func TestCreateOrder_MissingProduct(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	f.products.EXPECT().GetByID(gomock.Any(), int64(77)).Return(model.Product{}, false, nil)

	rec := do(f, http.MethodPost, "/orders",
		`{"customerName":"Alice","shippingAddress":"1 Main St","products":[{"productId":77,"quantity":1}]}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteOrder_NoContent(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	f.orders.EXPECT().Delete(gomock.Any(), int64(4)).Return(true, nil)

	rec := do(f, http.MethodDelete, "/orders/4", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAddItems_Conflict(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	existing := model.Order{ID: 4, Items: []model.OrderItem{{OrderID: 4, ProductID: 1, Quantity: 2}}}
	f.orders.EXPECT().GetByID(gomock.Any(), int64(4)).Return(existing, true, nil)
	f.products.EXPECT().GetByID(gomock.Any(), int64(1)).Return(model.Product{ID: 1}, true, nil)

	rec := do(f, http.MethodPost, "/orders/4/add-items", `[{"productId":1,"quantity":3}]`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, message(t, rec), "already on order")
}

func TestRemoveItems_NotOnOrder(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	existing := model.Order{ID: 4, Items: []model.OrderItem{{OrderID: 4, ProductID: 1, Quantity: 2}}}
	f.orders.EXPECT().GetByID(gomock.Any(), int64(4)).Return(existing, true, nil)

	rec := do(f, http.MethodDelete, "/orders/4/remove-items", `[2]`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownFailureIsOpaque(t *testing.T) {
	f, ctrl := newFixture(t)
	defer ctrl.Finish()

	f.products.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

	rec := do(f, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, message(t, rec), "db down")
}
