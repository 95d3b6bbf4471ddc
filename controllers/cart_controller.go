package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/choripam/choripam-api/models"
	"github.com/choripam/choripam-api/services"
)

const cartSessionCookie = "cart_session"

// CartController serves the session cart and checkout flow
type CartController struct {
	carts *services.CartService
}

// NewCartController wires the controller
func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// sessionID returns the visitor's cart session, minting a cookie on first use
func (cc *CartController) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(cartSessionCookie); err == nil && id != "" {
		return id
	}
	id := cc.carts.NewSessionID()
	c.SetCookie(cartSessionCookie, id, 86400, "/", "", false, true)
	return id
}

func cartPayload(cart models.Cart) gin.H {
	return gin.H{
		"items": cart.Items,
		"total": cart.Total(),
		"count": cart.Count(),
	}
}

// GetCart handles GET /api/v1/cart
func (cc *CartController) GetCart(c *gin.Context) {
	cart := cc.carts.Get(cc.sessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cartPayload(cart),
	})
}

// AddCartItemRequest adds one product (optionally a specific variant)
type AddCartItemRequest struct {
	ProductID  int64   `json:"product_id" binding:"required"`
	OriginalID string  `json:"original_id"`
	Name       string  `json:"name" binding:"required"`
	Size       string  `json:"size"`
	UnitPrice  float64 `json:"unit_price" binding:"required,gt=0"`
	Quantity   int     `json:"quantity"`
}

// AddItem handles POST /api/v1/cart/items - merges by product+variant
func (cc *CartController) AddItem(c *gin.Context) {
	var req AddCartItemRequest
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

	cart := cc.carts.Add(cc.sessionID(c), models.CartItem{
		ProductID:  req.ProductID,
		OriginalID: req.OriginalID,
		Name:       req.Name,
		Size:       req.Size,
		UnitPrice:  req.UnitPrice,
		Quantity:   req.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cartPayload(cart),
	})
}

// SetQuantityRequest sets a line's quantity; zero or less removes the line
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// SetItemQuantity handles PUT /api/v1/cart/items/:key
func (cc *CartController) SetItemQuantity(c *gin.Context) {
	var req SetQuantityRequest
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

	cart, err := cc.carts.SetQuantity(cc.sessionID(c), c.Param("key"), *req.Quantity)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CART_ITEM_NOT_FOUND",
				"message": "No such item in the cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cartPayload(cart),
	})
}

// RemoveItem handles DELETE /api/v1/cart/items/:key
func (cc *CartController) RemoveItem(c *gin.Context) {
	cart, err := cc.carts.Remove(cc.sessionID(c), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CART_ITEM_NOT_FOUND",
				"message": "No such item in the cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cartPayload(cart),
	})
}

// ClearCart handles DELETE /api/v1/cart
func (cc *CartController) ClearCart(c *gin.Context) {
	cc.carts.Clear(cc.sessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cartPayload(models.Cart{}),
	})
}

// Checkout handles POST /api/v1/cart/checkout - submits the session cart as
// an order and clears it on success
func (cc *CartController) Checkout(c *gin.Context) {
	var req services.CheckoutInfo
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

	// Delivery-specific fields mirror what the checkout form enforces
	if req.DeliveryMethod == models.DeliveryDineIn && req.Mesa == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Table number is required for dine-in orders",
			},
		})
		return
	}
	if req.DeliveryMethod == models.DeliveryDelivery && req.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Address is required for delivery orders",
			},
		})
		return
	}

	orderID, total, err := cc.carts.Checkout(c.Request.Context(), cc.sessionID(c), c.Query("restaurant_id"), req)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMPTY_CART",
					"message": "Cannot check out an empty cart",
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

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order_id": orderID,
			"total":    total,
		},
	})
}
