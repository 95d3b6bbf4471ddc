package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/choripam/choripam-api/bridge"
	"github.com/choripam/choripam-api/graphqlclient"
)

// graphqlRequest is the wire shape the client posts
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// graphqlStub is a fake restaurant backend. Handlers are registered per
// operation name and return the value placed under "data".
type graphqlStub struct {
	t *testing.T

	mu       sync.Mutex
	handlers map[string]func(vars map[string]interface{}) interface{}
	calls    map[string]int

	server *httptest.Server
}

func newGraphQLStub(t *testing.T) *graphqlStub {
	t.Helper()
	stub := &graphqlStub{
		t:        t,
		handlers: make(map[string]func(vars map[string]interface{}) interface{}),
		calls:    make(map[string]int),
	}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.handle))
	t.Cleanup(stub.server.Close)
	return stub
}

// on registers the response for one operation, e.g. "query GetProducts"
func (s *graphqlStub) on(operation string, handler func(vars map[string]interface{}) interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[operation] = handler
}

// callCount reports how many requests hit the given operation
func (s *graphqlStub) callCount(operation string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[operation]
}

func (s *graphqlStub) client() *graphqlclient.Client {
	return graphqlclient.New(s.server.URL, false)
}

func (s *graphqlStub) handle(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	var handler func(map[string]interface{}) interface{}
	for operation, h := range s.handlers {
		if strings.Contains(req.Query, operation) {
			handler = h
			s.calls[operation]++
			break
		}
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if handler == nil {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]string{{"message": "unhandled operation"}},
		})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": handler(req.Variables),
	})
}

// stubProduct is the backend wire shape used across the stub responses
func stubProduct(id, name string, price float64, categoryID, categoryName string) map[string]interface{} {
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

func stubOrder(id, status string, total float64) map[string]interface{} {
	return map[string]interface{}{
		"id":             id,
		"restaurantId":   "choripam",
		"total":          total,
		"status":         status,
		"paymentMethod":  "efectivo",
		"deliveryMethod": "mesa",
		"mesa":           "5",
		"createdAt":      "2025-01-15T18:30:00Z",
		"customer": map[string]interface{}{
			"name":  "Ana García",
			"phone": "3001234567",
		},
		"products": []map[string]interface{}{
			{"id": "choripapa-clasica", "name": "Choripapa Clásica", "quantity": 2, "price": total / 2},
		},
	}
}

func operationOK(id, message string) map[string]interface{} {
	return map[string]interface{}{
		"success": true,
		"message": message,
		"id":      id,
	}
}

func newTestMappingStore(t *testing.T) *bridge.MappingStore {
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
