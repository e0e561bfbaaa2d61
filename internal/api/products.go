package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"demo/ordersapi/internal/apperr"
	"demo/ordersapi/internal/model"
)

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func (a *API) listProducts(c echo.Context) error {
	products, err := a.products.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (a *API) getProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := a.products.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (a *API) createProduct(c echo.Context) error {
	var in model.ProductCreate
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("unable to parse product payload")
	}
	p, err := a.products.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (a *API) updateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in model.ProductUpdate
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("unable to parse product payload")
	}
	p, err := a.products.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (a *API) deleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := a.products.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
