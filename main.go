package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/choripam/choripam-api/bridge"
	"github.com/choripam/choripam-api/config"
	"github.com/choripam/choripam-api/controllers"
	"github.com/choripam/choripam-api/graphqlclient"
	"github.com/choripam/choripam-api/middleware"
	"github.com/choripam/choripam-api/services"
)

func main() {
	log.Println("Starting Choripam API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := config.ConnectDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store := bridge.NewMappingStore(db)
	if err := store.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	gqlClient := graphqlclient.New(cfg.GraphQLEndpoint, cfg.Debug)

	// The catalog cache is optional; without Redis every read goes to the
	// GraphQL backend
	var cache *services.CatalogCache
	if cfg.RedisURL != "" {
		cache, err = services.NewCatalogCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Redis unavailable, catalog caching disabled: %v", err)
			cache = nil
		} else {
			defer cache.Close()
			log.Println("Catalog cache connected")
		}
	}

	catalogService := services.NewCatalogService(gqlClient, cache, store, cfg.DefaultRestaurantID)
	orderService := services.NewOrderService(gqlClient, cfg.DefaultRestaurantID)
	cartService := services.NewCartService(orderService)

	authService, err := services.NewAuthService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}

	hub := services.NewHub()
	defer hub.Close()
	alarm := services.NewAlarm(hub)
	notifier := services.NewNotifier(orderService, alarm, hub, cfg.DefaultRestaurantID, cfg.NotifyInterval)
	notifier.Start()
	defer notifier.Stop()

	var imageService services.ImageService
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.NewS3Service(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		imageService = services.NewS3ImageService(s3Service)
		log.Printf("Product images stored in S3 bucket %s", cfg.AWSS3Bucket)
	} else {
		imageService = services.NewLocalImageService("")
		log.Println("No S3 bucket configured, storing product images locally")
	}

	router := setupRouter(cfg,
		controllers.NewProductController(catalogService),
		controllers.NewOrderController(orderService),
		controllers.NewCartController(cartService),
		controllers.NewAuthController(authService),
		controllers.NewNotificationController(notifier, hub),
		controllers.NewUploadController(imageService),
	)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the gin engine with all routes registered. Kept apart
// from main so tests can exercise the full routing table.
func setupRouter(
	cfg *config.Config,
	products *controllers.ProductController,
	orders *controllers.OrderController,
	carts *controllers.CartController,
	auth *controllers.AuthController,
	notifications *controllers.NotificationController,
	uploads *controllers.UploadController,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AppURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		// Storefront catalog
		v1.GET("/products", products.GetProducts)
		v1.GET("/products/search", products.SearchProducts)
		v1.GET("/products/:id", products.GetProduct)
		v1.GET("/categories", products.GetCategories)

		// Public ordering
		v1.POST("/orders", orders.CreateOrder)
		v1.GET("/orders/:id/status", orders.GetOrderStatus)

		// Session cart
		v1.GET("/cart", carts.GetCart)
		v1.DELETE("/cart", carts.ClearCart)
		v1.POST("/cart/items", carts.AddItem)
		v1.PUT("/cart/items/:key", carts.SetItemQuantity)
		v1.DELETE("/cart/items/:key", carts.RemoveItem)
		v1.POST("/cart/checkout", carts.Checkout)

		// Admin login
		v1.POST("/auth/login", auth.Login)

		// Locally stored product images
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		// Back-office, JWT protected
		admin := v1.Group("/admin")
		admin.Use(middleware.EnsureValidToken(cfg))
		{
			admin.POST("/products", products.CreateProduct)
			admin.PUT("/products/availability", products.BulkUpdateAvailability)
			admin.PUT("/products/:id", products.UpdateProduct)
			admin.DELETE("/products/:id", products.DeleteProduct)

			admin.GET("/orders", orders.GetOrders)
			admin.PUT("/orders/:id/status", orders.UpdateOrderStatus)
			admin.DELETE("/orders/:id", orders.DeleteOrder)
			admin.GET("/stats", orders.GetStats)

			admin.GET("/notifications", notifications.GetState)
			admin.PUT("/notifications", notifications.SetEnabled)
			admin.POST("/notifications/reset", notifications.ResetCount)
			admin.POST("/notifications/stop-alarm", notifications.StopAlarm)
			admin.GET("/notifications/stream", notifications.Stream)

			admin.POST("/uploads", uploads.UploadImage)
			admin.DELETE("/uploads/:key", uploads.DeleteImage)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Choripam API is running",
	})
}
