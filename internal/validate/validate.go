package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"demo/ordersapi/internal/model"
)

const maxNameLen = 200

type multiErr []error

func (m multiErr) Error() string {
	var b strings.Builder
	for i, e := range m {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

func (m multiErr) OrNil() error {
	if len(m) == 0 {
		return nil
	}
	return m
}

func ProductCreate(p model.ProductCreate) error {
	var errs multiErr
	errs = append(errs, checkName(p.Name)...)
	errs = append(errs, checkPrice(p.Price)...)
	return errs.OrNil()
}

// ProductUpdate checks only the fields present in the patch.
func ProductUpdate(p model.ProductUpdate) error {
	var errs multiErr
	if p.Name != nil {
		errs = append(errs, checkName(*p.Name)...)
	}
	if p.Price != nil {
		errs = append(errs, checkPrice(*p.Price)...)
	}
	return errs.OrNil()
}

func OrderCreate(o model.OrderCreate) error {
	var errs multiErr
	if strings.TrimSpace(o.CustomerName) == "" {
		errs = append(errs, fmt.Errorf("customerName: required"))
	}
	if strings.TrimSpace(o.ShippingAddress) == "" {
		errs = append(errs, fmt.Errorf("shippingAddress: required"))
	}
	errs = append(errs, checkItems(o.Products)...)
	return errs.OrNil()
}

// OrderUpdate checks only the fields present in the patch. A non-nil Products
// slice replaces the whole line-item set, so it is validated like a create.
func OrderUpdate(o model.OrderUpdate) error {
	var errs multiErr
	if o.CustomerName != nil && strings.TrimSpace(*o.CustomerName) == "" {
		errs = append(errs, fmt.Errorf("customerName: must not be empty"))
	}
	if o.ShippingAddress != nil && strings.TrimSpace(*o.ShippingAddress) == "" {
		errs = append(errs, fmt.Errorf("shippingAddress: must not be empty"))
	}
	if o.Status != nil && strings.TrimSpace(*o.Status) == "" {
		errs = append(errs, fmt.Errorf("status: must not be empty"))
	}
	if o.Products != nil {
		errs = append(errs, checkItems(*o.Products)...)
	}
	return errs.OrNil()
}

// Items validates a standalone add-items request: at least one entry,
// positive quantities, no duplicate product ids within the request.
func Items(items []model.OrderItemCreate) error {
	var errs multiErr
	errs = append(errs, checkItems(items)...)
	return errs.OrNil()
}

func checkName(name string) multiErr {
	var errs multiErr
	name = strings.TrimSpace(name)
	if name == "" {
		errs = append(errs, fmt.Errorf("name: required"))
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		errs = append(errs, fmt.Errorf("name: at most %d characters", maxNameLen))
	}
	return errs
}

func checkPrice(price decimal.Decimal) multiErr {
	var errs multiErr
	if price.Sign() <= 0 {
		errs = append(errs, fmt.Errorf("price: must be > 0"))
	}
	if price.Exponent() < -2 {
		errs = append(errs, fmt.Errorf("price: at most 2 decimal places"))
	}
	return errs
}

func checkItems(items []model.OrderItemCreate) multiErr {
	var errs multiErr
	if len(items) == 0 {
		errs = append(errs, fmt.Errorf("products: order must contain at least one item"))
		return errs
	}
	seen := make(map[int64]bool, len(items))
	for i, it := range items {
		if it.ProductID <= 0 {
			errs = append(errs, fmt.Errorf("products[%d].productId: must be > 0", i))
		}
		if it.Quantity < 1 {
			errs = append(errs, fmt.Errorf("products[%d].quantity: must be >= 1", i))
		}
		if seen[it.ProductID] {
			errs = append(errs, fmt.Errorf("products[%d].productId: duplicate product %d", i, it.ProductID))
		}
		seen[it.ProductID] = true
	}
	return errs
}
