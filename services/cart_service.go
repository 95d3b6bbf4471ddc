package services

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/choripam/choripam-api/models"
)

var (
	// ErrCartItemNotFound is returned when a line key matches nothing
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrEmptyCart is returned when checkout is attempted on an empty cart
	ErrEmptyCart = errors.New("cart is empty")
)

// CartService tracks session carts across navigation. Carts are deliberately
// process-local: they are never persisted server-side, and a restart loses
// them the same way a browser reload lost the original client-held cart.
type CartService struct {
	orders *OrderService

	mu    sync.RWMutex
	carts map[string]*models.Cart
}

// CheckoutInfo is the customer-facing half of a checkout submission
type CheckoutInfo struct {
	Name           string `json:"nombre" binding:"required"`
	Phone          string `json:"telefono" binding:"required"`
	Email          string `json:"correo"`
	PaymentMethod  string `json:"metodo_pago" binding:"required"`
	DeliveryMethod string `json:"modalidad_entrega" binding:"required"`
	Mesa           string `json:"mesa,omitempty"`
	Address        string `json:"direccion,omitempty"`
}

// NewCartService creates an empty cart store submitting through orders
func NewCartService(orders *OrderService) *CartService {
	return &CartService{
		orders: orders,
		carts:  make(map[string]*models.Cart),
	}
}

// NewSessionID mints a cart session identifier for a new visitor
func (s *CartService) NewSessionID() string {
	return uuid.New().String()
}

// Get returns a copy of the session's cart
func (s *CartService) Get(sessionID string) models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(sessionID)
}

// Add puts an item in the cart, merging with an existing line of the same
// product and variant. A non-positive quantity adds a single unit.
func (s *CartService) Add(sessionID string, item models.CartItem) models.Cart {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		cart = &models.Cart{}
		s.carts[sessionID] = cart
	}

	for i := range cart.Items {
		if cart.Items[i].Key() == item.Key() {
			cart.Items[i].Quantity += item.Quantity
			return s.snapshot(sessionID)
		}
	}
	cart.Items = append(cart.Items, item)
	return s.snapshot(sessionID)
}

// SetQuantity sets the quantity of a line; zero or less removes the line
func (s *CartService) SetQuantity(sessionID, key string, quantity int) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return models.Cart{}, ErrCartItemNotFound
	}

	for i := range cart.Items {
		if cart.Items[i].Key() == key {
			if quantity <= 0 {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			} else {
				cart.Items[i].Quantity = quantity
			}
			return s.snapshot(sessionID), nil
		}
	}
	return models.Cart{}, ErrCartItemNotFound
}

// Remove deletes a line from the cart
func (s *CartService) Remove(sessionID, key string) (models.Cart, error) {
	return s.SetQuantity(sessionID, key, 0)
}

// Clear empties the session's cart
func (s *CartService) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Checkout submits the session's cart as an order and clears the cart on
// success. The cart-computed total is sent as-is; the backend does not
// recompute it. Line items carry the real backend key when known, falling
// back to the numeric ID rendered as text.
func (s *CartService) Checkout(ctx context.Context, sessionID, restaurantID string, info CheckoutInfo) (string, float64, error) {
	s.mu.RLock()
	cart := s.snapshot(sessionID)
	s.mu.RUnlock()

	if len(cart.Items) == 0 {
		return "", 0, ErrEmptyCart
	}

	products := make([]models.OrderProductInput, 0, len(cart.Items))
	for _, item := range cart.Items {
		id := item.OriginalID
		if id == "" {
			id = strconv.FormatInt(item.ProductID, 10)
		}
		products = append(products, models.OrderProductInput{
			ID:       id,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		})
	}

	input := models.CreateOrderInput{
		CustomerName:    info.Name,
		CustomerPhone:   info.Phone,
		CustomerEmail:   info.Email,
		RestaurantID:    s.orders.restaurantID(restaurantID),
		Products:        products,
		Total:           cart.Total(),
		PaymentMethod:   info.PaymentMethod,
		DeliveryMethod:  info.DeliveryMethod,
		Mesa:            info.Mesa,
		DeliveryAddress: info.Address,
	}

	orderID, _, err := s.orders.SubmitOrder(ctx, input)
	if err != nil {
		return "", 0, err
	}

	s.Clear(sessionID)
	return orderID, input.Total, nil
}

// snapshot copies a cart so callers never alias internal state.
// Callers must hold at least the read lock.
func (s *CartService) snapshot(sessionID string) models.Cart {
	cart, ok := s.carts[sessionID]
	if !ok {
		return models.Cart{Items: []models.CartItem{}}
	}
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	return models.Cart{Items: items}
}
