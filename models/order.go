package models

// Order lifecycle statuses. Transitions are monotonic in this list except for
// cancellation, which is reachable from any pre-terminal state.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Delivery methods as they travel on the wire (legacy Spanish contract)
const (
	DeliveryDineIn   = "mesa"
	DeliveryPickup   = "recoger"
	DeliveryDelivery = "domicilio"
)

// Payment methods accepted at checkout
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

var statusRank = map[string]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusDelivered: 4,
}

// IsValidStatus reports whether s is a known order status
func IsValidStatus(s string) bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
// Forward moves along the lifecycle are allowed; cancellation is allowed from
// any state except delivered or cancelled; nothing leaves a terminal state.
func CanTransition(from, to string) bool {
	if from == StatusDelivered || from == StatusCancelled {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// Customer identifies who placed an order
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// OrderProduct is a line item inside a backend order
type OrderProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// Order is the backend wire shape for an order
type Order struct {
	ID              string         `json:"id"`
	RestaurantID    string         `json:"restaurantId"`
	Customer        Customer       `json:"customer"`
	Products        []OrderProduct `json:"products"`
	Total           float64        `json:"total"`
	PaymentMethod   string         `json:"paymentMethod"`
	DeliveryMethod  string         `json:"deliveryMethod"`
	Mesa            string         `json:"mesa,omitempty"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	Status          string         `json:"status"`
	CreatedAt       string         `json:"createdAt"`
	UpdatedAt       string         `json:"updatedAt"`
}

// LegacyOrderProduct is a line item in the legacy order shape
type LegacyOrderProduct struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"cantidad"`
	Price    float64 `json:"precio"`
}

// LegacyOrder is the snake_case order shape the admin queue pages consume
type LegacyOrder struct {
	OrderID        string               `json:"order_id"`
	RestaurantID   string               `json:"restaurant_id"`
	CustomerName   string               `json:"customer_name"`
	CustomerPhone  string               `json:"customer_phone"`
	CustomerEmail  string               `json:"customer_email"`
	Products       []LegacyOrderProduct `json:"products"`
	Total          float64              `json:"total"`
	PaymentMethod  string               `json:"payment_method"`
	DeliveryMethod string               `json:"delivery_method"`
	Mesa           string               `json:"mesa,omitempty"`
	Address        string               `json:"direccion,omitempty"`
	Status         string               `json:"status"`
	CreatedAt      string               `json:"created_at"`
}

// LegacyOrderItem is a line item of an incoming checkout submission
type LegacyOrderItem struct {
	ID       int64   `json:"id"`
	Quantity int     `json:"cantidad" binding:"required,gt=0"`
	Price    float64 `json:"precio"`
}

// LegacyCreateOrderData is the flat legacy payload the checkout flow submits
type LegacyCreateOrderData struct {
	Name           string            `json:"nombre" binding:"required"`
	Phone          string            `json:"telefono" binding:"required"`
	Email          string            `json:"correo"`
	Products       []LegacyOrderItem `json:"productos" binding:"required,min=1"`
	Total          float64           `json:"total"`
	PaymentMethod  string            `json:"metodo_pago" binding:"required"`
	DeliveryMethod string            `json:"modalidad_entrega" binding:"required"`
	Mesa           string            `json:"mesa,omitempty"`
	Address        string            `json:"direccion,omitempty"`
}

// OrderProductInput is a line item of the createOrder mutation input
type OrderProductInput struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CreateOrderInput is the structured createOrder mutation input
type CreateOrderInput struct {
	CustomerName    string              `json:"customerName"`
	CustomerPhone   string              `json:"customerPhone"`
	CustomerEmail   string              `json:"customerEmail,omitempty"`
	RestaurantID    string              `json:"restaurantId"`
	Products        []OrderProductInput `json:"products"`
	Total           float64             `json:"total"`
	PaymentMethod   string              `json:"paymentMethod"`
	DeliveryMethod  string              `json:"deliveryMethod"`
	Mesa            string              `json:"mesa,omitempty"`
	DeliveryAddress string              `json:"deliveryAddress,omitempty"`
}

// RestaurantStats is the analytics snapshot exposed to the admin dashboard
type RestaurantStats struct {
	RestaurantID    string         `json:"restaurantId"`
	TotalOrders     int            `json:"totalOrders"`
	TotalRevenue    float64        `json:"totalRevenue"`
	PendingOrders   int            `json:"pendingOrders"`
	PreparingOrders int            `json:"preparingOrders"`
	StatusBreakdown map[string]int `json:"statusBreakdown"`
}

// LegacyRestaurantStats is the snake_case stats shape for the analytics page
type LegacyRestaurantStats struct {
	RestaurantID    string         `json:"restaurant_id"`
	TotalOrders     int            `json:"total_orders"`
	TotalRevenue    float64        `json:"total_revenue"`
	PendingOrders   int            `json:"pending_orders"`
	PreparingOrders int            `json:"preparing_orders"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
}
