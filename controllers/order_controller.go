package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/choripam/choripam-api/middleware"
	"github.com/choripam/choripam-api/models"
	"github.com/choripam/choripam-api/services"
)

// OrderController serves checkout submissions and the admin order queue
type OrderController struct {
	orders *services.OrderService
}

// NewOrderController wires the controller
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder handles POST /api/v1/orders - the legacy checkout submission
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req models.LegacyCreateOrderData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	orderID, message, err := oc.orders.CreateOrder(c.Request.Context(), c.Query("restaurant_id"), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BACKEND_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order_id": orderID,
			"message":  message,
		},
	})
}

// GetOrderStatus handles GET /api/v1/orders/:id/status - customer order tracking
func (oc *OrderController) GetOrderStatus(c *gin.Context) {
	order, err := oc.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"order": order},
	})
}

// GetOrders handles GET /api/v1/admin/orders - the operational order queue.
// Optional filters: status, limit, delivery_method (for the per-channel
// queue pages). Always a fresh read; never cached.
func (oc *OrderController) GetOrders(c *gin.Context) {
	restaurantID, err := middleware.GetRestaurantID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract admin information",
			},
		})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "limit must be a non-negative integer",
				},
			})
			return
		}
	}

	orders, err := oc.orders.GetOrders(c.Request.Context(), restaurantID, c.Query("status"), limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BACKEND_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	if method := c.Query("delivery_method"); method != "" {
		filtered := make([]models.LegacyOrder, 0, len(orders))
		for _, o := range orders {
			if o.DeliveryMethod == method {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orders":        orders,
			"restaurant_id": restaurantID,
			"total_count":   len(orders),
		},
	})
}

// UpdateOrderStatusRequest carries the single status field
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus handles PUT /api/v1/admin/orders/:id/status
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Unknown order status: " + req.Status,
			},
		})
		return
	}

	message, err := oc.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		// Lifecycle-rule rejections are the caller's mistake, not an
		// upstream failure
		if errors.Is(err, services.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BACKEND_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": message},
	})
}

// DeleteOrder handles DELETE /api/v1/admin/orders/:id
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	message, err := oc.orders.DeleteOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BACKEND_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": message},
	})
}

// GetStats handles GET /api/v1/admin/stats - the analytics dashboard
func (oc *OrderController) GetStats(c *gin.Context) {
	restaurantID, err := middleware.GetRestaurantID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract admin information",
			},
		})
		return
	}

	stats, err := oc.orders.GetRestaurantStats(c.Request.Context(), restaurantID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BACKEND_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
