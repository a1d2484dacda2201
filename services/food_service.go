package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Pradhyumna23/Nourish-AI/models"
)

// FoodService fronts the USDA client and keeps a local cache of food rows so
// repeat lookups do not burn API quota.
type FoodService struct {
	db   *gorm.DB
	usda *USDAService
}

func NewFoodService(db *gorm.DB, usda *USDAService) *FoodService {
	return &FoodService{db: db, usda: usda}
}

// Search queries the USDA database and upserts the returned foods into the
// local cache.
func (s *FoodService) Search(query string, pageSize int) ([]FoodSearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", ErrValidation)
	}

	results, err := s.usda.SearchFoods(query, pageSize)
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].Food.Nutrients = results[i].Nutrients
		s.cacheFood(&results[i].Food)
	}
	return results, nil
}

// Lookup returns a single food with nutrients, served from the local cache
// when the food has been seen before and from the upstream detail endpoint
// otherwise.
func (s *FoodService) Lookup(fdcID int64) (*FoodSearchResult, error) {
	var cached models.FoodItem
	if err := s.db.Where("fdc_id = ?", fdcID).First(&cached).Error; err == nil {
		return &FoodSearchResult{Food: cached, Nutrients: cached.Nutrients}, nil
	}

	result, err := s.usda.GetFood(fdcID)
	if err != nil {
		return nil, err
	}
	result.Food.Nutrients = result.Nutrients
	s.cacheFood(&result.Food)
	return result, nil
}

func (s *FoodService) cacheFood(f *models.FoodItem) {
	var existing models.FoodItem
	err := s.db.Where("fdc_id = ?", f.FdcID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = s.db.Create(f).Error
		return
	}
	if err != nil {
		return
	}
	f.ID = existing.ID
	f.CreatedAt = existing.CreatedAt
	_ = s.db.Save(f).Error
}
