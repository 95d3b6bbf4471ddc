package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/choripam/choripam-api/bridge"
	"github.com/choripam/choripam-api/graphqlclient"
	"github.com/choripam/choripam-api/middleware"
	"github.com/choripam/choripam-api/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// backendStub is a fake GraphQL backend dispatching on operation name
type backendStub struct {
	mu       sync.Mutex
	handlers map[string]func(vars map[string]interface{}) interface{}
	server   *httptest.Server
}

func newBackendStub(t *testing.T) *backendStub {
	t.Helper()
	stub := &backendStub{handlers: make(map[string]func(vars map[string]interface{}) interface{})}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		stub.mu.Lock()
		var handler func(map[string]interface{}) interface{}
		for operation, h := range stub.handlers {
			if strings.Contains(req.Query, operation) {
				handler = h
				break
			}
		}
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if handler == nil {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"errors": []map[string]string{{"message": "unhandled operation"}},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": handler(req.Variables)})
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *backendStub) on(operation string, handler func(vars map[string]interface{}) interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[operation] = handler
}

func (s *backendStub) client() *graphqlclient.Client {
	return graphqlclient.New(s.server.URL, false)
}

func newControllerMappingStore(t *testing.T) *bridge.MappingStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	store := bridge.NewMappingStore(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return store
}

// asAdmin injects validated claims the way EnsureValidToken would, so
// handler tests skip real token validation
func asAdmin(restaurantID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Issuer:  middleware.TokenIssuer,
				Subject: restaurantID + "-admin",
			},
			CustomClaims: &middleware.AdminClaims{
				Name:           "Administrador",
				Email:          "admin@choripam.com",
				RestaurantID:   restaurantID,
				RestaurantName: "Choripam",
			},
		}
		c.Set("admin_subject", restaurantID+"-admin")
		c.Set("validated_claims", claims)
		c.Next()
	}
}

func newCatalogController(t *testing.T, stub *backendStub) *ProductController {
	t.Helper()
	catalog := services.NewCatalogService(stub.client(), nil, newControllerMappingStore(t), "choripam")
	return NewProductController(catalog)
}

// doJSON runs one request through the router and decodes the envelope
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, map[string]interface{}) {
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
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, decoded
}

// newRecorder serves one prepared request and returns the recorder
func newRecorder(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func backendProduct(id, name string, price float64, categoryID, categoryName string) map[string]interface{} {
	return map[string]interface{}{
		"id":           id,
		"name":         name,
		"description":  "",
		"price":        price,
		"available":    true,
		"restaurantId": "choripam",
		"category": map[string]interface{}{
			"id":   categoryID,
			"name": categoryName,
		},
	}
}

func mutationOK(id, message string) map[string]interface{} {
	return map[string]interface{}{
		"success": true,
		"message": message,
		"id":      id,
	}
}
