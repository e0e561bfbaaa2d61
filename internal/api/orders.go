package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"demo/ordersapi/internal/apperr"
	"demo/ordersapi/internal/model"
)

func (a *API) listOrders(c echo.Context) error {
	orders, err := a.orders.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (a *API) getOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	o, err := a.orders.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

func (a *API) createOrder(c echo.Context) error {
	var in model.OrderCreate
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("unable to parse order payload")
	}
	o, err := a.orders.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, o)
}

func (a *API) updateOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in model.OrderUpdate
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("unable to parse order payload")
	}
	o, err := a.orders.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

func (a *API) deleteOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := a.orders.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *API) addOrderItems(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in []model.OrderItemCreate
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("unable to parse items payload")
	}
	o, err := a.orders.AddItems(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

func (a *API) removeOrderItems(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var productIDs []int64
	if err := c.Bind(&productIDs); err != nil {
		return apperr.Validation("unable to parse product ids payload")
	}
	o, err := a.orders.RemoveItems(c.Request().Context(), id, productIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}
