package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/choripam/choripam-api/bridge"
	"github.com/choripam/choripam-api/graphqlclient"
	"github.com/choripam/choripam-api/models"
)

// CatalogService is the single integration point for product and category
// reads and writes. Product reads are cache-first (catalog data changes
// rarely); every mutation invalidates the cache for that restaurant so
// subsequent reads are consistent.
type CatalogService struct {
	client              *graphqlclient.Client
	cache               *CatalogCache
	store               *bridge.MappingStore
	defaultRestaurantID string
}

// NewCatalogService wires the catalog service with its collaborators.
// cache may be nil (no redis configured); store must not be.
func NewCatalogService(client *graphqlclient.Client, cache *CatalogCache, store *bridge.MappingStore, defaultRestaurantID string) *CatalogService {
	return &CatalogService{
		client:              client,
		cache:               cache,
		store:               store,
		defaultRestaurantID: defaultRestaurantID,
	}
}

func (s *CatalogService) restaurantID(id string) string {
	if id == "" {
		id = s.defaultRestaurantID
	}
	return bridge.CleanRestaurantID(id)
}

// GetProducts returns the restaurant's products in the legacy shape,
// optionally filtered client-side by category ID or category name.
func (s *CatalogService) GetProducts(ctx context.Context, restaurantID, category string) ([]models.LegacyProduct, error) {
	rid := s.restaurantID(restaurantID)

	products, err := s.fetchProducts(ctx, rid)
	if err != nil {
		return nil, err
	}

	if category != "" {
		filtered := make([]models.LegacyProduct, 0, len(products))
		for _, p := range products {
			if p.Category.ID == category || strings.EqualFold(p.Category.Name, category) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	return products, nil
}

// fetchProducts returns the full converted product list, cache-first
func (s *CatalogService) fetchProducts(ctx context.Context, rid string) ([]models.LegacyProduct, error) {
	if cached, ok := s.cache.GetProducts(ctx, rid); ok {
		return cached, nil
	}

	var resp struct {
		Products []models.Product `json:"products"`
	}
	err := s.client.Run(ctx, graphqlclient.QueryGetProducts, map[string]interface{}{
		"restaurantId": rid,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	products := make([]models.LegacyProduct, 0, len(resp.Products))
	for _, p := range resp.Products {
		products = append(products, bridge.ToLegacyProduct(p))
	}

	// The mapping table is how numeric IDs round-trip; a write failure is
	// logged but does not fail the read
	if err := s.store.RecordProducts(products, rid); err != nil {
		log.Printf("Failed to record product ID mappings: %v", err)
	}

	s.cache.SetProducts(ctx, rid, products)
	return products, nil
}

// GetProduct fetches one product. productID may be the backend string key or
// a legacy numeric ID, which is resolved through the mapping table first and
// a product-list scan second.
func (s *CatalogService) GetProduct(ctx context.Context, restaurantID, productID string) (models.LegacyProduct, error) {
	rid := s.restaurantID(restaurantID)

	actualID := productID
	if numericID, err := strconv.ParseInt(productID, 10, 64); err == nil {
		resolved, err := s.resolveNumericID(ctx, rid, numericID)
		if err != nil {
			return models.LegacyProduct{}, err
		}
		actualID = resolved
	}

	var resp struct {
		Product *models.Product `json:"product"`
	}
	err := s.client.Run(ctx, graphqlclient.QueryGetProduct, map[string]interface{}{
		"productId": actualID,
	}, &resp)
	if err != nil {
		return models.LegacyProduct{}, fmt.Errorf("failed to fetch product: %w", err)
	}
	if resp.Product == nil {
		return models.LegacyProduct{}, fmt.Errorf("%w: %s", bridge.ErrProductNotFound, productID)
	}

	legacy := bridge.ToLegacyProduct(*resp.Product)
	if err := s.store.Record(legacy.ID, legacy.OriginalID, rid); err != nil {
		log.Printf("Failed to record product ID mapping: %v", err)
	}
	return legacy, nil
}

// SearchProducts searches the catalog by term; results are never cached
func (s *CatalogService) SearchProducts(ctx context.Context, restaurantID, term string) ([]models.LegacyProduct, error) {
	rid := s.restaurantID(restaurantID)

	var resp struct {
		SearchProducts []models.Product `json:"searchProducts"`
	}
	err := s.client.Run(ctx, graphqlclient.QuerySearchProducts, map[string]interface{}{
		"restaurantId": rid,
		"searchTerm":   term,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	products := make([]models.LegacyProduct, 0, len(resp.SearchProducts))
	for _, p := range resp.SearchProducts {
		products = append(products, bridge.ToLegacyProduct(p))
	}
	return products, nil
}

// GetCategories returns the restaurant's menu categories, cache-first
func (s *CatalogService) GetCategories(ctx context.Context, restaurantID string) ([]models.Category, error) {
	rid := s.restaurantID(restaurantID)

	if cached, ok := s.cache.GetCategories(ctx, rid); ok {
		return cached, nil
	}

	var resp struct {
		Categories []models.Category `json:"categories"`
	}
	err := s.client.Run(ctx, graphqlclient.QueryGetCategories, map[string]interface{}{
		"restaurantId": rid,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	s.cache.SetCategories(ctx, rid, resp.Categories)
	return resp.Categories, nil
}

// CreateProduct creates a product and returns its legacy numeric ID along
// with the backend's message
func (s *CatalogService) CreateProduct(ctx context.Context, restaurantID string, input models.CreateProductInput) (int64, string, error) {
	rid := s.restaurantID(restaurantID)
	input.RestaurantID = rid

	var resp struct {
		CreateProduct models.OperationResult `json:"createProduct"`
	}
	err := s.client.Run(ctx, graphqlclient.MutationCreateProduct, map[string]interface{}{
		"input": input,
	}, &resp)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create product: %w", err)
	}
	if !resp.CreateProduct.Success {
		return 0, "", fmt.Errorf("failed to create product: %s", resp.CreateProduct.Message)
	}

	numericID := bridge.NumericID(resp.CreateProduct.ID)
	if err := s.store.Record(numericID, resp.CreateProduct.ID, rid); err != nil {
		log.Printf("Failed to record product ID mapping: %v", err)
	}
	s.cache.Invalidate(ctx, rid)

	return numericID, resp.CreateProduct.Message, nil
}

// UpdateProduct applies a partial update. originalID may be empty, in which
// case the numeric ID is resolved first. An explicitly empty variants slice
// in the input is sent to the backend and persists as "no variants".
func (s *CatalogService) UpdateProduct(ctx context.Context, restaurantID string, numericID int64, originalID string, input models.UpdateProductInput) (string, error) {
	rid := s.restaurantID(restaurantID)

	actualID := originalID
	if actualID == "" {
		resolved, err := s.resolveNumericID(ctx, rid, numericID)
		if err != nil {
			return "", err
		}
		actualID = resolved
	}

	var resp struct {
		UpdateProduct models.OperationResult `json:"updateProduct"`
	}
	err := s.client.Run(ctx, graphqlclient.MutationUpdateProduct, map[string]interface{}{
		"productId": actualID,
		"input":     input,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to update product: %w", err)
	}
	if !resp.UpdateProduct.Success {
		return "", fmt.Errorf("failed to update product: %s", resp.UpdateProduct.Message)
	}

	s.cache.Invalidate(ctx, rid)
	return resp.UpdateProduct.Message, nil
}

// DeleteProduct removes a product; originalID may be empty (see UpdateProduct)
func (s *CatalogService) DeleteProduct(ctx context.Context, restaurantID string, numericID int64, originalID string) (string, error) {
	rid := s.restaurantID(restaurantID)

	actualID := originalID
	if actualID == "" {
		resolved, err := s.resolveNumericID(ctx, rid, numericID)
		if err != nil {
			return "", err
		}
		actualID = resolved
	}

	var resp struct {
		DeleteProduct models.OperationResult `json:"deleteProduct"`
	}
	err := s.client.Run(ctx, graphqlclient.MutationDeleteProduct, map[string]interface{}{
		"productId": actualID,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to delete product: %w", err)
	}
	if !resp.DeleteProduct.Success {
		return "", fmt.Errorf("failed to delete product: %s", resp.DeleteProduct.Message)
	}

	s.cache.Invalidate(ctx, rid)
	return resp.DeleteProduct.Message, nil
}

// BulkUpdateAvailability flips availability for several products in one
// mutation; numeric IDs are resolved against a single product-list fetch
func (s *CatalogService) BulkUpdateAvailability(ctx context.Context, restaurantID string, numericIDs []int64, available bool) (string, error) {
	rid := s.restaurantID(restaurantID)

	productIDs := make([]string, 0, len(numericIDs))
	var listed []models.LegacyProduct
	for _, numericID := range numericIDs {
		originalID, err := s.store.Lookup(numericID, rid)
		if err != nil {
			if !bridge.IsNotFound(err) {
				return "", err
			}
			if listed == nil {
				listed, err = s.fetchProducts(ctx, rid)
				if err != nil {
					return "", err
				}
			}
			originalID, err = bridge.ResolveOriginalID(numericID, listed)
			if err != nil {
				return "", err
			}
		}
		productIDs = append(productIDs, originalID)
	}

	var resp struct {
		BulkUpdateProductAvailability models.OperationResult `json:"bulkUpdateProductAvailability"`
	}
	err := s.client.Run(ctx, graphqlclient.MutationBulkUpdateProductAvailability, map[string]interface{}{
		"productIds": productIDs,
		"available":  available,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to update product availability: %w", err)
	}
	if !resp.BulkUpdateProductAvailability.Success {
		return "", fmt.Errorf("failed to update product availability: %s", resp.BulkUpdateProductAvailability.Message)
	}

	s.cache.Invalidate(ctx, rid)
	return resp.BulkUpdateProductAvailability.Message, nil
}

// resolveNumericID recovers the backend key for a legacy numeric ID: the
// persistent mapping table first, then a full product-list scan (exact hash
// match, then string-equality fallback). Mirrors the resolution the legacy
// callers depend on.
func (s *CatalogService) resolveNumericID(ctx context.Context, rid string, numericID int64) (string, error) {
	originalID, err := s.store.Lookup(numericID, rid)
	if err == nil {
		return originalID, nil
	}
	if !bridge.IsNotFound(err) {
		return "", err
	}

	products, err := s.fetchProducts(ctx, rid)
	if err != nil {
		return "", err
	}
	return bridge.ResolveOriginalID(numericID, products)
}
