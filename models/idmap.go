package models

import (
	"time"
)

// ProductIDMapping is the persistent bidirectional map between the legacy
// numeric product ID and the real backend string key. The numeric ID is a
// lossy hash of the string key, so the hash alone cannot be trusted to
// resolve a product; rows are upserted whenever a product crosses the bridge
// and consulted before any hash-based scan.
type ProductIDMapping struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	NumericID    int64     `gorm:"not null;index:idx_numeric_restaurant" json:"numeric_id"`
	OriginalID   string    `gorm:"not null;uniqueIndex" json:"original_id"`
	RestaurantID string    `gorm:"not null;index:idx_numeric_restaurant" json:"restaurant_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ProductIDMapping model
func (ProductIDMapping) TableName() string {
	return "product_id_mappings"
}
