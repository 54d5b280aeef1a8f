package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
)

func e2eAddress() map[string]string {
	return map[string]string{
		"fullName": "Taro Test",
		"phone":    "090-0000-0000",
		"address":  "1-2-3 Test",
		"city":     "Shibuya",
		"state":    "Tokyo",
		"zipCode":  "150-0001",
		"country":  "Japan",
	}
}

func createProduct(t *testing.T, admin *TestClient, stock int64) int64 {
	t.Helper()

	slug := fmt.Sprintf("e2e-checkout-%d", time.Now().UnixNano())
	resp, raw := admin.do(t, http.MethodPost, "/admin/products", map[string]interface{}{
		"name":     "Checkout Test Lamp",
		"slug":     slug,
		"price":    120.0,
		"category": "Home & Kitchen",
		"stock":    stock,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: status=%d body=%s", resp.StatusCode, raw)
	}

	var out struct {
		Product struct {
			ID int64 `json:"id"`
		} `json:"product"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.Product.ID == 0 {
		t.Fatalf("decode product: %v body=%s", err, raw)
	}
	return out.Product.ID
}

func addToCart(t *testing.T, c *TestClient, productID int64, qty int64) {
	t.Helper()

	resp, raw := c.do(t, http.MethodPost, "/cart", map[string]int64{
		"productId": productID,
		"quantity":  qty,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add to cart: status=%d body=%s", resp.StatusCode, raw)
	}
}

// 在庫1の商品を2人が同時にチェックアウトしても売り越さない
func TestConcurrentCheckoutDoesNotOversell(t *testing.T) {
	requireE2E(t)
	admin := adminClient(t)

	productID := createProduct(t, admin, 1)

	buyers := make([]*TestClient, 2)
	for i := range buyers {
		buyers[i] = NewTestClient(t)
		buyers[i].registerAndLogin(t)
		addToCart(t, buyers[i], productID, 1)
	}

	statuses := make([]int, len(buyers))
	var wg sync.WaitGroup
	for i, b := range buyers {
		wg.Add(1)
		go func(i int, b *TestClient) {
			defer wg.Done()
			resp, _ := b.do(t, http.MethodPost, "/orders", map[string]interface{}{
				"shippingAddress": e2eAddress(),
			})
			statuses[i] = resp.StatusCode
		}(i, b)
	}
	wg.Wait()

	created := 0
	for _, s := range statuses {
		if s == http.StatusCreated {
			created++
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one order to be created, statuses=%v", statuses)
	}
}

// 同じX-Idempotency-Keyで再送しても注文は1件のまま
func TestCheckoutRetrySameKeyReturnsSameOrder(t *testing.T) {
	requireE2E(t)
	admin := adminClient(t)

	productID := createProduct(t, admin, 5)

	c := NewTestClient(t)
	c.registerAndLogin(t)
	addToCart(t, c, productID, 1)

	key := fmt.Sprintf("e2e-key-%d", time.Now().UnixNano())
	body := map[string]interface{}{"shippingAddress": e2eAddress()}
	headers := map[string]string{"X-Idempotency-Key": key}

	resp, raw := c.doWith(t, http.MethodPost, "/orders", body, headers)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first checkout: status=%d body=%s", resp.StatusCode, raw)
	}

	var first struct {
		Order struct {
			OrderID string `json:"orderId"`
		} `json:"order"`
	}
	if err := json.Unmarshal(raw, &first); err != nil {
		t.Fatalf("decode first order: %v", err)
	}

	// カートは空だが同じキーなら同じ注文が返る
	resp, raw = c.doWith(t, http.MethodPost, "/orders", body, headers)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("retry checkout: status=%d body=%s", resp.StatusCode, raw)
	}

	var second struct {
		Order struct {
			OrderID string `json:"orderId"`
		} `json:"order"`
	}
	if err := json.Unmarshal(raw, &second); err != nil {
		t.Fatalf("decode retried order: %v", err)
	}
	if first.Order.OrderID == "" || first.Order.OrderID != second.Order.OrderID {
		t.Fatalf("retry created a different order: %q vs %q", first.Order.OrderID, second.Order.OrderID)
	}
}
