// Command seed populates a running instance with fake catalog and order data
// through the public HTTP API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"demo/ordersapi/internal/gen"
	"demo/ordersapi/internal/model"
)

func main() {
	gen.SeedOnce()

	base := env("API_ADDR", "http://localhost:8080")
	nProducts := mustInt(env("SEED_PRODUCTS", "10"))
	nOrders := mustInt(env("SEED_ORDERS", "5"))
	log.Printf("seeding %d products and %d orders via %s", nProducts, nOrders, base)

	client := &http.Client{Timeout: 10 * time.Second}

	productIDs := make([]int64, 0, nProducts)
	for i := 0; i < nProducts; i++ {
		var created model.ProductResponse
		if err := post(client, base+"/products", gen.FakeProduct(), &created); err != nil {
			log.Fatalf("create product: %v", err)
		}
		productIDs = append(productIDs, created.ID)
	}
	log.Printf("created %d products", len(productIDs))

	for i := 0; i < nOrders; i++ {
		var created model.OrderResponse
		if err := post(client, base+"/orders", gen.FakeOrder(productIDs), &created); err != nil {
			log.Fatalf("create order: %v", err)
		}
		log.Printf("created order id=%d items=%d", created.ID, len(created.Products))
	}
	log.Printf("done")
}

func post(client *http.Client, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid number %q: %v", s, err)
	}
	return n
}
