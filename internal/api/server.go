package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"demo/ordersapi/internal/apperr"
	"demo/ordersapi/internal/service"
)

// API registers the HTTP surface over the product and order services.
type API struct {
	products *service.ProductService
	orders   *service.OrderService
}

func New(products *service.ProductService, orders *service.OrderService) *API {
	return &API{products: products, orders: orders}
}

// NewServer returns an echo instance with routes, error mapping and request
// logging wired up.
func (a *API) NewServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	e.Use(requestLogger)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/products", a.listProducts)
	e.GET("/products/:id", a.getProduct)
	e.POST("/products", a.createProduct)
	e.PUT("/products/:id", a.updateProduct)
	e.DELETE("/products/:id", a.deleteProduct)

	e.GET("/orders", a.listOrders)
	e.GET("/orders/:id", a.getOrder)
	e.POST("/orders", a.createOrder)
	e.PUT("/orders/:id", a.updateOrder)
	e.DELETE("/orders/:id", a.deleteOrder)
	e.POST("/orders/:id/add-items", a.addOrderItems)
	e.DELETE("/orders/:id/remove-items", a.removeOrderItems)

	return e
}

// errorHandler maps application errors to the status contract: 400 for
// validation failures and conflicts, 404 for missing entities, opaque 500
// for everything else.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "an unexpected internal server error occurred"

	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConflict):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	default:
		zap.L().Error("unhandled error", zap.String("path", c.Request().URL.Path), zap.Error(err))
	}

	if jsonErr := c.JSON(code, echo.Map{"message": message}); jsonErr != nil {
		zap.L().Error("write error response", zap.Error(jsonErr))
	}
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		zap.L().Info("request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("took", time.Since(start)))
		return nil
	}
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := parseID(c.Param(name))
	if err != nil {
		return 0, apperr.Validation("invalid %s", name)
	}
	return id, nil
}
