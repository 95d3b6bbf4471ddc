package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/choripam/choripam-api/bridge"
	"github.com/choripam/choripam-api/graphqlclient"
	"github.com/choripam/choripam-api/models"
)

// ErrInvalidTransition is returned when a status change violates the order
// lifecycle; the backend is never consulted for such a request.
var ErrInvalidTransition = errors.New("invalid status transition")

// OrderService is the single integration point for order reads and writes.
// Order fetches always hit the network: staleness is unacceptable for an
// operational order queue, so nothing here touches the catalog cache.
type OrderService struct {
	client              *graphqlclient.Client
	defaultRestaurantID string
}

// NewOrderService wires the order service
func NewOrderService(client *graphqlclient.Client, defaultRestaurantID string) *OrderService {
	return &OrderService{client: client, defaultRestaurantID: defaultRestaurantID}
}

func (s *OrderService) restaurantID(id string) string {
	if id == "" {
		id = s.defaultRestaurantID
	}
	return bridge.CleanRestaurantID(id)
}

// GetOrders fetches the restaurant's orders, optionally filtered by status
// and capped at limit (0 means no limit). Always a fresh network read.
func (s *OrderService) GetOrders(ctx context.Context, restaurantID, status string, limit int) ([]models.LegacyOrder, error) {
	rid := s.restaurantID(restaurantID)

	vars := map[string]interface{}{
		"restaurantId": rid,
	}
	if status != "" {
		vars["status"] = status
	}
	if limit > 0 {
		vars["limit"] = limit
	}

	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := s.client.Run(ctx, graphqlclient.QueryGetOrders, vars, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	orders := make([]models.LegacyOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		orders = append(orders, bridge.ToLegacyOrder(o))
	}
	return orders, nil
}

// FetchOrders satisfies the notifier's OrdersFetcher
func (s *OrderService) FetchOrders(ctx context.Context, restaurantID string) ([]models.LegacyOrder, error) {
	return s.GetOrders(ctx, restaurantID, "", 0)
}

// GetOrder fetches a single order by its backend ID
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (models.LegacyOrder, error) {
	var resp struct {
		Order *models.Order `json:"order"`
	}
	err := s.client.Run(ctx, graphqlclient.QueryGetOrder, map[string]interface{}{
		"orderId": orderID,
	}, &resp)
	if err != nil {
		return models.LegacyOrder{}, fmt.Errorf("failed to fetch order: %w", err)
	}
	if resp.Order == nil {
		return models.LegacyOrder{}, fmt.Errorf("order not found: %s", orderID)
	}
	return bridge.ToLegacyOrder(*resp.Order), nil
}

// CreateOrder translates the flat legacy checkout payload and submits it.
// The client-computed total is trusted and sent as-is.
func (s *OrderService) CreateOrder(ctx context.Context, restaurantID string, data models.LegacyCreateOrderData) (string, string, error) {
	rid := s.restaurantID(restaurantID)
	return s.SubmitOrder(ctx, bridge.ToCreateOrderInput(data, rid))
}

// SubmitOrder runs the createOrder mutation with an already-structured input
// and returns the new order ID and the backend's message
func (s *OrderService) SubmitOrder(ctx context.Context, input models.CreateOrderInput) (string, string, error) {
	var resp struct {
		CreateOrder models.OperationResult `json:"createOrder"`
	}
	err := s.client.Run(ctx, graphqlclient.MutationCreateOrder, map[string]interface{}{
		"input": input,
	}, &resp)
	if err != nil {
		return "", "", fmt.Errorf("failed to create order: %w", err)
	}
	if !resp.CreateOrder.Success {
		return "", "", fmt.Errorf("failed to create order: %s", resp.CreateOrder.Message)
	}
	return resp.CreateOrder.ID, resp.CreateOrder.Message, nil
}

// UpdateOrderStatus moves an order to a new status after checking the
// transition: forward-only along the lifecycle, cancellation allowed from
// any pre-terminal state.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, status string) (string, error) {
	if !models.IsValidStatus(status) {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	current, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if !models.CanTransition(current.Status, status) {
		return "", fmt.Errorf("%w: cannot move order %s from %q to %q", ErrInvalidTransition, orderID, current.Status, status)
	}

	var resp struct {
		UpdateOrderStatus models.OperationResult `json:"updateOrderStatus"`
	}
	err = s.client.Run(ctx, graphqlclient.MutationUpdateOrderStatus, map[string]interface{}{
		"orderId": orderID,
		"status":  status,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to update order status: %w", err)
	}
	if !resp.UpdateOrderStatus.Success {
		return "", fmt.Errorf("failed to update order status: %s", resp.UpdateOrderStatus.Message)
	}
	return resp.UpdateOrderStatus.Message, nil
}

// DeleteOrder removes an order from the backend
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) (string, error) {
	var resp struct {
		DeleteOrder models.OperationResult `json:"deleteOrder"`
	}
	err := s.client.Run(ctx, graphqlclient.MutationDeleteOrder, map[string]interface{}{
		"orderId": orderID,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to delete order: %w", err)
	}
	if !resp.DeleteOrder.Success {
		return "", fmt.Errorf("failed to delete order: %s", resp.DeleteOrder.Message)
	}
	return resp.DeleteOrder.Message, nil
}

// GetRestaurantStats returns the analytics snapshot in the legacy shape
func (s *OrderService) GetRestaurantStats(ctx context.Context, restaurantID string) (models.LegacyRestaurantStats, error) {
	rid := s.restaurantID(restaurantID)

	var resp struct {
		RestaurantStats models.RestaurantStats `json:"restaurantStats"`
	}
	err := s.client.Run(ctx, graphqlclient.QueryGetRestaurantStats, map[string]interface{}{
		"restaurantId": rid,
	}, &resp)
	if err != nil {
		return models.LegacyRestaurantStats{}, fmt.Errorf("failed to fetch restaurant stats: %w", err)
	}

	stats := resp.RestaurantStats
	return models.LegacyRestaurantStats{
		RestaurantID:    stats.RestaurantID,
		TotalOrders:     stats.TotalOrders,
		TotalRevenue:    stats.TotalRevenue,
		PendingOrders:   stats.PendingOrders,
		PreparingOrders: stats.PreparingOrders,
		StatusBreakdown: stats.StatusBreakdown,
	}, nil
}
