package models

// Category groups products on the storefront menu
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Variant is a purchasable size/price/image option nested under a product
type Variant struct {
	Size     string  `json:"size"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// Product is the backend wire shape: opaque string ID, camelCase fields
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	Available       bool      `json:"available"`
	PreparationTime int       `json:"preparationTime,omitempty"`
	RestaurantID    string    `json:"restaurantId"`
	Category        Category  `json:"category"`
	Variants        []Variant `json:"variants,omitempty"`
}

// LegacyProduct is the numeric-ID, snake_case contract the older admin and
// storefront clients expect. OriginalID keeps the true backend key so that
// mutations can round-trip; the numeric ID alone is a lossy hash.
type LegacyProduct struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	ImageURL        string    `json:"image_url,omitempty"`
	Available       bool      `json:"available"`
	PreparationTime int       `json:"preparation_time,omitempty"`
	Category        Category  `json:"category"`
	Variants        []Variant `json:"variants,omitempty"`
	OriginalID      string    `json:"originalId"`
}

// CreateProductInput is the mutation input for createProduct
type CreateProductInput struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Available    bool      `json:"available"`
	CategoryID   string    `json:"categoryId"`
	RestaurantID string    `json:"restaurantId"`
	Variants     []Variant `json:"variants,omitempty"`
}

// UpdateProductInput is the partial mutation input for updateProduct.
// Pointer fields distinguish "leave unchanged" (nil) from an explicit value;
// in particular a pointer to an empty Variants slice means "remove all
// variants" and must be sent to the backend, not dropped.
type UpdateProductInput struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	Available   *bool      `json:"available,omitempty"`
	CategoryID  *string    `json:"categoryId,omitempty"`
	Variants    *[]Variant `json:"variants,omitempty"`
}

// IsEmpty reports whether the update carries no changes at all
func (in UpdateProductInput) IsEmpty() bool {
	return in.Name == nil && in.Description == nil && in.Price == nil &&
		in.ImageURL == nil && in.Available == nil && in.CategoryID == nil &&
		in.Variants == nil
}

// OperationResult is the {success, message, id} envelope every backend
// mutation returns, even on HTTP 200
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
