package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/choripam/choripam-api/bridge"
	"github.com/choripam/choripam-api/config"
	"github.com/choripam/choripam-api/controllers"
	"github.com/choripam/choripam-api/graphqlclient"
	"github.com/choripam/choripam-api/middleware"
	"github.com/choripam/choripam-api/services"
	"github.com/choripam/choripam-api/tests/testutil"
)

func TestMain(m *testing.M) {
	os.Setenv("GO_ENV", "test")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeBackend is a stateful in-memory stand-in for the GraphQL backend.
// Orders created through it persist for the duration of the test, so status
// transitions and the notification poller see a consistent world.
type fakeBackend struct {
	mu       sync.Mutex
	products []map[string]interface{}
	orders   []map[string]interface{}
	nextID   int
	server   *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{
		nextID: 1,
		products: []map[string]interface{}{
			{
				"id": "choripapa-clasica", "name": "Choripapa Clásica", "description": "",
				"price": 16000, "available": true, "restaurantId": "choripam",
				"category": map[string]interface{}{"id": "choripam-choripapas", "name": "Choripapas"},
			},
			{
				"id": "choripapa-especial", "name": "Choripapa Especial", "description": "",
				"price": 22000, "available": true, "restaurantId": "choripam",
				"category": map[string]interface{}{"id": "choripam-choripapas", "name": "Choripapas"},
			},
		},
	}
	fb.server = httptest.NewServer(http.HandlerFunc(fb.handle))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	var payload interface{}
	switch {
	case strings.Contains(req.Query, "query GetProducts"):
		payload = map[string]interface{}{"products": fb.products}

	case strings.Contains(req.Query, "mutation CreateOrder"):
		input := req.Variables["input"].(map[string]interface{})
		id := fmt.Sprintf("order-%d", fb.nextID)
		fb.nextID++
		order := map[string]interface{}{
			"id":             id,
			"restaurantId":   input["restaurantId"],
			"total":          input["total"],
			"status":         "pending",
			"paymentMethod":  input["paymentMethod"],
			"deliveryMethod": input["deliveryMethod"],
			"mesa":           input["mesa"],
			"customer": map[string]interface{}{
				"name":  input["customerName"],
				"phone": input["customerPhone"],
			},
			"products": input["products"],
		}
		fb.orders = append(fb.orders, order)
		payload = map[string]interface{}{"createOrder": map[string]interface{}{
			"success": true, "message": "Orden creada", "id": id,
		}}

	case strings.Contains(req.Query, "mutation UpdateOrderStatus"):
		orderID := req.Variables["orderId"].(string)
		status := req.Variables["status"].(string)
		for _, o := range fb.orders {
			if o["id"] == orderID {
				o["status"] = status
			}
		}
		payload = map[string]interface{}{"updateOrderStatus": map[string]interface{}{
			"success": true, "message": "Estado actualizado", "id": orderID,
		}}

	case strings.Contains(req.Query, "query GetOrders"):
		status, _ := req.Variables["status"].(string)
		orders := make([]interface{}, 0, len(fb.orders))
		for _, o := range fb.orders {
			if status == "" || o["status"] == status {
				orders = append(orders, o)
			}
		}
		payload = map[string]interface{}{"orders": orders}

	case strings.Contains(req.Query, "query GetOrder"):
		var found interface{}
		for _, o := range fb.orders {
			if o["id"] == req.Variables["orderId"] {
				found = o
			}
		}
		payload = map[string]interface{}{"order": found}

	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]string{{"message": "unhandled operation"}},
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": payload})
}

type app struct {
	cfg    *config.Config
	router *gin.Engine
}

// newApp assembles the full service graph against the fake backend, with a
// fast notification poll so the suite observes alerts without long sleeps
func newApp(t *testing.T, backend *fakeBackend) *app {
	t.Helper()
	testutil.RequireTestEnvironment(t)

	cfg := testutil.TestConfig()
	client := graphqlclient.New(backend.server.URL, false)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	store := bridge.NewMappingStore(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	catalogService := services.NewCatalogService(client, nil, store, cfg.DefaultRestaurantID)
	orderService := services.NewOrderService(client, cfg.DefaultRestaurantID)
	cartService := services.NewCartService(orderService)
	authService, err := services.NewAuthService(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize auth service: %v", err)
	}

	hub := services.NewHub()
	t.Cleanup(hub.Close)
	alarm := services.NewAlarm(hub)
	notifier := services.NewNotifier(orderService, alarm, hub, cfg.DefaultRestaurantID, 50*time.Millisecond)
	t.Cleanup(notifier.Stop)

	products := controllers.NewProductController(catalogService)
	orders := controllers.NewOrderController(orderService)
	carts := controllers.NewCartController(cartService)
	auth := controllers.NewAuthController(authService)
	notifications := controllers.NewNotificationController(notifier, hub)

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", products.GetProducts)
		v1.GET("/categories", products.GetCategories)
		v1.GET("/orders/:id/status", orders.GetOrderStatus)
		v1.GET("/cart", carts.GetCart)
		v1.POST("/cart/items", carts.AddItem)
		v1.POST("/cart/checkout", carts.Checkout)
		v1.POST("/auth/login", auth.Login)

		admin := v1.Group("/admin")
		admin.Use(middleware.EnsureValidToken(cfg))
		{
			admin.GET("/orders", orders.GetOrders)
			admin.PUT("/orders/:id/status", orders.UpdateOrderStatus)
			admin.GET("/notifications", notifications.GetState)
			admin.PUT("/notifications", notifications.SetEnabled)
			admin.POST("/notifications/reset", notifications.ResetCount)
			admin.POST("/notifications/stop-alarm", notifications.StopAlarm)
		}
	}

	return &app{cfg: cfg, router: router}
}

func (a *app) do(t *testing.T, method, path, token string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(payload)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, decoded
}

func payload(rr map[string]interface{}) map[string]interface{} {
	inner, _ := rr["data"].(map[string]interface{})
	return inner
}

// TestFullOrderLifecycle walks the complete restaurant flow: a customer
// browses the menu and checks out a cart, the kitchen's notification bell
// picks up the new order, and the admin moves it through to delivered.
func TestFullOrderLifecycle(t *testing.T) {
	backend := newFakeBackend(t)
	a := newApp(t, backend)

	// Admin signs in and turns on order notifications
	w, rr := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    a.cfg.AdminEmail,
		"password": a.cfg.AdminPassword,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	token := payload(rr)["token"].(string)

	w, _ = a.do(t, http.MethodPut, "/api/v1/admin/notifications", token, map[string]bool{"enabled": true})
	assert.Equal(t, http.StatusOK, w.Code)

	// Wait for the baseline check so the upcoming order counts as new
	assert.Eventually(t, func() bool {
		_, rr := a.do(t, http.MethodGet, "/api/v1/admin/notifications", token, nil)
		return payload(rr)["last_check_time"] != nil
	}, 2*time.Second, 20*time.Millisecond, "notifier never completed its baseline check")

	// Customer browses the menu
	w, rr = a.do(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	menu := payload(rr)["products"].([]interface{})
	assert.Len(t, menu, 2)

	// Customer builds a cart and checks out
	w, _ = a.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	cookies := w.Result().Cookies()

	w, rr = a.do(t, http.MethodPost, "/api/v1/cart/items", "", map[string]interface{}{
		"product_id":  bridge.NumericID("choripapa-clasica"),
		"original_id": "choripapa-clasica",
		"name":        "Choripapa Clásica",
		"unit_price":  16000,
		"quantity":    2,
	}, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(32000), payload(rr)["total"])

	w, rr = a.do(t, http.MethodPost, "/api/v1/cart/checkout", "", map[string]interface{}{
		"nombre":            "Juan Pérez",
		"telefono":          "3001234567",
		"metodo_pago":       "efectivo",
		"modalidad_entrega": "mesa",
		"mesa":              "5",
	}, cookies...)
	assert.Equal(t, http.StatusCreated, w.Code)
	orderID := payload(rr)["order_id"].(string)
	assert.Equal(t, float64(32000), payload(rr)["total"])

	// The notification bell picks up the new order and rings
	assert.Eventually(t, func() bool {
		_, rr := a.do(t, http.MethodGet, "/api/v1/admin/notifications", token, nil)
		return payload(rr)["new_orders_count"] == float64(1)
	}, 2*time.Second, 20*time.Millisecond, "notifier never saw the new order")

	w, _ = a.do(t, http.MethodPost, "/api/v1/admin/notifications/stop-alarm", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The kitchen works the order through its lifecycle
	for _, status := range []string{"confirmed", "preparing", "ready", "delivered"} {
		w, rr = a.do(t, http.MethodPut, "/api/v1/admin/orders/"+orderID+"/status", token,
			map[string]string{"status": status})
		assert.Equal(t, http.StatusOK, w.Code, "transition to %s", status)
	}

	// Delivered is terminal; nothing moves out of it
	w, rr = a.do(t, http.MethodPut, "/api/v1/admin/orders/"+orderID+"/status", token,
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, rr["success"])

	// The customer sees the final status
	w, rr = a.do(t, http.MethodGet, "/api/v1/orders/"+orderID+"/status", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	order := payload(rr)["order"].(map[string]interface{})
	assert.Equal(t, "delivered", order["status"])
	assert.Equal(t, "Juan Pérez", order["customer_name"])

	// Admin clears the badge after handling the queue
	w, rr = a.do(t, http.MethodPost, "/api/v1/admin/notifications/reset", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), payload(rr)["new_orders_count"])
}
