package gen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"demo/ordersapi/internal/model"
)

func SeedOnce() { gofakeit.Seed(time.Now().UnixNano()) }

var categories = []string{"General", "Electronics", "Books", "Clothing", "Home"}

func FakeProduct() model.ProductCreate {
	price := decimal.NewFromInt(int64(gofakeit.Number(100, 100000))).Div(decimal.NewFromInt(100))
	return model.ProductCreate{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.Sentence(8),
		Price:       price,
		Category:    categories[gofakeit.Number(0, len(categories)-1)],
	}
}

// FakeOrder builds an order over a random subset of the given product ids,
// one line per product.
func FakeOrder(productIDs []int64) model.OrderCreate {
	n := gofakeit.Number(1, min(3, len(productIDs)))
	picked := make(map[int64]bool, n)
	items := make([]model.OrderItemCreate, 0, n)
	for len(items) < n {
		pid := productIDs[gofakeit.Number(0, len(productIDs)-1)]
		if picked[pid] {
			continue
		}
		picked[pid] = true
		items = append(items, model.OrderItemCreate{
			ProductID: pid,
			Quantity:  gofakeit.Number(1, 5),
		})
	}
	return model.OrderCreate{
		CustomerName:    gofakeit.Name(),
		ShippingAddress: gofakeit.Street() + ", " + gofakeit.City(),
		Status:          model.StatusPending,
		Products:        items,
	}
}
