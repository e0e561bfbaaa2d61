package service

import "demo/ordersapi/internal/model"

// Pure projections from storage records to wire shapes. No validation, no
// side effects.

func ProductToResponse(p model.Product) model.ProductResponse {
	return model.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
	}
}

func ProductsToResponse(products []model.Product) []model.ProductResponse {
	out := make([]model.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ProductToResponse(p))
	}
	return out
}

// OrderToResponse denormalizes the full product record into each line item.
func OrderToResponse(o model.Order) model.OrderResponse {
	resp := model.OrderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		ShippingAddress: o.ShippingAddress,
		OrderDate:       o.OrderDate,
		Status:          o.Status,
		Products:        make([]model.OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Products = append(resp.Products, model.OrderItemResponse{
			Product:  ProductToResponse(it.Product),
			Quantity: it.Quantity,
		})
	}
	return resp
}

func OrdersToResponse(orders []model.Order) []model.OrderResponse {
	out := make([]model.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderToResponse(o))
	}
	return out
}
