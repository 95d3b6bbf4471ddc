package bridge

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/choripam/choripam-api/models"
)

// MappingStore persists the numeric↔string product ID map. It exists because
// the numeric ID is a lossy hash: once a product has crossed the bridge its
// true key is on record and no hash scan is needed to mutate it.
type MappingStore struct {
	db *gorm.DB
}

// NewMappingStore creates a store on the given database connection
func NewMappingStore(db *gorm.DB) *MappingStore {
	return &MappingStore{db: db}
}

// Migrate creates the mapping table
func (s *MappingStore) Migrate() error {
	if err := s.db.AutoMigrate(&models.ProductIDMapping{}); err != nil {
		return fmt.Errorf("failed to migrate product ID mappings: %w", err)
	}
	return nil
}

// Record upserts one numeric↔string pair, keyed by the backend string ID
func (s *MappingStore) Record(numericID int64, originalID, restaurantID string) error {
	mapping := models.ProductIDMapping{
		NumericID:    numericID,
		OriginalID:   originalID,
		RestaurantID: restaurantID,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "original_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"numeric_id", "restaurant_id", "updated_at"}),
	}).Create(&mapping).Error
	if err != nil {
		return fmt.Errorf("failed to record product ID mapping: %w", err)
	}
	return nil
}

// RecordProducts upserts mappings for a converted product list
func (s *MappingStore) RecordProducts(products []models.LegacyProduct, restaurantID string) error {
	for _, p := range products {
		if p.OriginalID == "" {
			continue
		}
		if err := s.Record(p.ID, p.OriginalID, restaurantID); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the backend string key for a numeric ID, or
// ErrProductNotFound when no row exists. A collision that produced two rows
// with the same numeric ID within one restaurant is surfaced as an error
// rather than guessed at.
func (s *MappingStore) Lookup(numericID int64, restaurantID string) (string, error) {
	var mappings []models.ProductIDMapping
	err := s.db.
		Where("numeric_id = ? AND restaurant_id = ?", numericID, restaurantID).
		Limit(2).
		Find(&mappings).Error
	if err != nil {
		return "", fmt.Errorf("failed to look up product ID mapping: %w", err)
	}
	switch len(mappings) {
	case 0:
		return "", fmt.Errorf("%w: %d", ErrProductNotFound, numericID)
	case 1:
		return mappings[0].OriginalID, nil
	default:
		return "", fmt.Errorf("numeric ID %d is ambiguous: hash collision between stored products", numericID)
	}
}

// IsNotFound reports whether err means the mapping simply does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
