package bridge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/choripam/choripam-api/models"
)

// ErrProductNotFound is returned when a legacy numeric ID cannot be resolved
// to a backend product key by any strategy.
var ErrProductNotFound = errors.New("product not found")

// NumericID derives the legacy numeric product ID from a backend string key.
// It is a polynomial rolling hash (h = h*31 + c) over UTF-16 code units,
// folded to 32-bit signed magnitude. Deterministic but NOT collision-free:
// callers must keep the original string key alongside the numeric one and
// never rely on re-hashing for round trips.
func NumericID(id string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(id)) {
		h = (h << 5) - h + int32(c)
	}
	if h < 0 {
		// int32 min has no positive counterpart; 64-bit negation is safe
		return -int64(h)
	}
	return int64(h)
}

// CleanRestaurantID strips the "rest_" prefix some stored admin profiles
// carry in front of the restaurant key.
func CleanRestaurantID(id string) string {
	return strings.TrimPrefix(id, "rest_")
}

// ToLegacyProduct converts a backend product to the numeric-ID snake_case
// shape, retaining the original string key for round-trip mutations.
func ToLegacyProduct(p models.Product) models.LegacyProduct {
	return models.LegacyProduct{
		ID:              NumericID(p.ID),
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		ImageURL:        p.ImageURL,
		Available:       p.Available,
		PreparationTime: p.PreparationTime,
		Category:        p.Category,
		Variants:        p.Variants,
		OriginalID:      p.ID,
	}
}

// ToLegacyOrder converts a backend order to the legacy admin-queue shape.
// Order IDs stay as strings; only line-item product IDs go numeric.
func ToLegacyOrder(o models.Order) models.LegacyOrder {
	products := make([]models.LegacyOrderProduct, 0, len(o.Products))
	for _, p := range o.Products {
		products = append(products, models.LegacyOrderProduct{
			ID:       NumericID(p.ID),
			Name:     p.Name,
			Quantity: p.Quantity,
			Price:    p.Price,
		})
	}
	return models.LegacyOrder{
		OrderID:        o.ID,
		RestaurantID:   o.RestaurantID,
		CustomerName:   o.Customer.Name,
		CustomerPhone:  o.Customer.Phone,
		CustomerEmail:  o.Customer.Email,
		Products:       products,
		Total:          o.Total,
		PaymentMethod:  o.PaymentMethod,
		DeliveryMethod: o.DeliveryMethod,
		Mesa:           o.Mesa,
		Address:        o.DeliveryAddress,
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
	}
}

// ToCreateOrderInput translates the flat legacy checkout payload into the
// structured createOrder mutation input. Line-item IDs are rendered as
// strings; callers that know the real backend key (the cart flow does)
// should substitute it before submitting.
func ToCreateOrderInput(data models.LegacyCreateOrderData, restaurantID string) models.CreateOrderInput {
	products := make([]models.OrderProductInput, 0, len(data.Products))
	for _, p := range data.Products {
		products = append(products, models.OrderProductInput{
			ID:       strconv.FormatInt(p.ID, 10),
			Quantity: p.Quantity,
			Price:    p.Price,
		})
	}
	return models.CreateOrderInput{
		CustomerName:    data.Name,
		CustomerPhone:   data.Phone,
		CustomerEmail:   data.Email,
		RestaurantID:    restaurantID,
		Products:        products,
		Total:           data.Total,
		PaymentMethod:   data.PaymentMethod,
		DeliveryMethod:  data.DeliveryMethod,
		Mesa:            data.Mesa,
		DeliveryAddress: data.Address,
	}
}

// ResolveOriginalID recovers the backend string key for a legacy numeric ID
// by scanning an already-fetched product list. Exact numeric match is tried
// first, then a string-equality fallback (the numeric ID rendered as text
// against the backend key) for rows whose hash never matched.
func ResolveOriginalID(numericID int64, products []models.LegacyProduct) (string, error) {
	for _, p := range products {
		if p.ID == numericID && p.OriginalID != "" {
			return p.OriginalID, nil
		}
	}

	rendered := strconv.FormatInt(numericID, 10)
	for _, p := range products {
		if p.OriginalID == rendered {
			return p.OriginalID, nil
		}
	}

	return "", fmt.Errorf("%w: %d", ErrProductNotFound, numericID)
}
