package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/choripam/choripam-api/bridge"
	"github.com/choripam/choripam-api/middleware"
	"github.com/choripam/choripam-api/models"
	"github.com/choripam/choripam-api/services"
)

// ProductController serves storefront catalog reads and admin product CRUD
type ProductController struct {
	catalog *services.CatalogService
}

// NewProductController wires the controller
func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// VariantRequest is the legacy snake_case variant shape in admin requests
type VariantRequest struct {
	Size     string  `json:"size" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	ImageURL string  `json:"image_url"`
}

func (v VariantRequest) toModel() models.Variant {
	return models.Variant{Size: v.Size, Price: v.Price, ImageURL: v.ImageURL}
}

// CreateProductRequest is the admin request body for creating a product
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       float64          `json:"price" binding:"required,gt=0"`
	ImageURL    string           `json:"image_url"`
	Available   bool             `json:"available"`
	Category    string           `json:"category" binding:"required"`
	Variants    []VariantRequest `json:"variants"`
}

// UpdateProductRequest is the admin request body for partial product updates.
// Pointer fields distinguish omitted from explicit values; an empty variants
// array means "remove all variants" and is forwarded as such.
type UpdateProductRequest struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Price       *float64          `json:"price"`
	ImageURL    *string           `json:"image_url"`
	Available   *bool             `json:"available"`
	Category    *string           `json:"category"`
	Variants    *[]VariantRequest `json:"variants"`
	OriginalID  string            `json:"original_id"`
}

// GetProducts handles GET /api/v1/products - storefront menu listing
func (pc *ProductController) GetProducts(c *gin.Context) {
	restaurantID := c.Query("restaurant_id")
	category := c.Query("category")

	products, err := pc.catalog.GetProducts(c.Request.Context(), restaurantID, category)
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
		"data": gin.H{
			"products":      products,
			"restaurant_id": restaurantID,
			"total":         len(products),
		},
	})
}

// GetProduct handles GET /api/v1/products/:id - accepts the backend string
// key or a legacy numeric ID
func (pc *ProductController) GetProduct(c *gin.Context) {
	productID := c.Param("id")

	product, err := pc.catalog.GetProduct(c.Request.Context(), c.Query("restaurant_id"), productID)
	if err != nil {
		status, code := http.StatusBadGateway, "BACKEND_ERROR"
		if bridge.IsNotFound(err) {
			status, code = http.StatusNotFound, "PRODUCT_NOT_FOUND"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"product": product},
	})
}

// SearchProducts handles GET /api/v1/products/search?q=term
func (pc *ProductController) SearchProducts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Search term is required",
			},
		})
		return
	}

	products, err := pc.catalog.SearchProducts(c.Request.Context(), c.Query("restaurant_id"), term)
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
		"data": gin.H{
			"products": products,
			"total":    len(products),
		},
	})
}

// GetCategories handles GET /api/v1/categories
func (pc *ProductController) GetCategories(c *gin.Context) {
	categories, err := pc.catalog.GetCategories(c.Request.Context(), c.Query("restaurant_id"))
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
		"data": gin.H{
			"categories": categories,
			"total":      len(categories),
		},
	})
}

// CreateProduct handles POST /api/v1/admin/products
func (pc *ProductController) CreateProduct(c *gin.Context) {
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

	var req CreateProductRequest
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

	input := models.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Available:   req.Available,
		CategoryID:  req.Category,
	}
	for _, v := range req.Variants {
		input.Variants = append(input.Variants, v.toModel())
	}

	productID, message, err := pc.catalog.CreateProduct(c.Request.Context(), restaurantID, input)
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
			"product_id": productID,
			"message":    message,
		},
	})
}

// UpdateProduct handles PUT /api/v1/admin/products/:id
func (pc *ProductController) UpdateProduct(c *gin.Context) {
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

	numericID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Product ID must be numeric",
			},
		})
		return
	}

	var req UpdateProductRequest
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

	input := models.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Available:   req.Available,
		CategoryID:  req.Category,
	}
	if req.Variants != nil {
		// An explicitly empty list must survive as "no variants"
		variants := make([]models.Variant, 0, len(*req.Variants))
		for _, v := range *req.Variants {
			variants = append(variants, v.toModel())
		}
		input.Variants = &variants
	}

	if input.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Update carries no changes",
			},
		})
		return
	}

	message, err := pc.catalog.UpdateProduct(c.Request.Context(), restaurantID, numericID, req.OriginalID, input)
	if err != nil {
		status, code := http.StatusBadGateway, "BACKEND_ERROR"
		if bridge.IsNotFound(err) {
			status, code = http.StatusNotFound, "PRODUCT_NOT_FOUND"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
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

// DeleteProduct handles DELETE /api/v1/admin/products/:id
func (pc *ProductController) DeleteProduct(c *gin.Context) {
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

	numericID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Product ID must be numeric",
			},
		})
		return
	}

	message, err := pc.catalog.DeleteProduct(c.Request.Context(), restaurantID, numericID, c.Query("original_id"))
	if err != nil {
		status, code := http.StatusBadGateway, "BACKEND_ERROR"
		if bridge.IsNotFound(err) {
			status, code = http.StatusNotFound, "PRODUCT_NOT_FOUND"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
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

// BulkAvailabilityRequest toggles availability for several products at once
type BulkAvailabilityRequest struct {
	ProductIDs []int64 `json:"product_ids" binding:"required,min=1"`
	Available  *bool   `json:"available" binding:"required"`
}

// BulkUpdateAvailability handles PUT /api/v1/admin/products/availability
func (pc *ProductController) BulkUpdateAvailability(c *gin.Context) {
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

	var req BulkAvailabilityRequest
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

	message, err := pc.catalog.BulkUpdateAvailability(c.Request.Context(), restaurantID, req.ProductIDs, *req.Available)
	if err != nil {
		status, code := http.StatusBadGateway, "BACKEND_ERROR"
		if bridge.IsNotFound(err) {
			status, code = http.StatusNotFound, "PRODUCT_NOT_FOUND"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
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
