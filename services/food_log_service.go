package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Pradhyumna23/Nourish-AI/models"
)

// FoodLogService records what the user ate. Nutrients are snapshotted at
// logging time from the USDA record, scaled by quantity.
type FoodLogService struct {
	db   *gorm.DB
	food *FoodService
}

func NewFoodLogService(db *gorm.DB, food *FoodService) *FoodLogService {
	return &FoodLogService{db: db, food: food}
}

type LogFoodInput struct {
	FdcID    int64   `json:"fdc_id"`
	FoodName string  `json:"food_name"` // required when fdc_id is 0
	MealType string  `json:"meal_type"`
	Quantity float64 `json:"quantity"` // multiples of 100g for USDA foods
	Unit     string  `json:"unit"`
	Date     string  `json:"date"` // YYYY-MM-DD, defaults to today

	// Manual nutrient entry, used when no fdc_id is given.
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

func (in *LogFoodInput) parseDate() (time.Time, error) {
	if in.Date == "" {
		return dayStart(time.Now()), nil
	}
	d, err := time.ParseInLocation("2006-01-02", in.Date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", ErrValidation)
	}
	return dayStart(d), nil
}

// LogFood creates one log entry. Given an FDC id the snapshot comes from the
// USDA record; otherwise the caller's manual values are used as-is.
func (s *FoodLogService) LogFood(userID uint, in LogFoodInput) (*models.FoodLogEntry, error) {
	meal := models.MealType(in.MealType)
	if !meal.Valid() {
		return nil, fmt.Errorf("unknown meal type %q: %w", in.MealType, ErrValidation)
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	date, err := in.parseDate()
	if err != nil {
		return nil, err
	}

	entry := models.FoodLogEntry{
		UserID:   userID,
		MealType: meal,
		Quantity: in.Quantity,
		Unit:     in.Unit,
		Date:     date,
	}

	if in.FdcID > 0 {
		result, err := s.food.Lookup(in.FdcID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve food %d: %w", in.FdcID, err)
		}
		entry.FdcID = in.FdcID
		entry.FoodName = result.Food.Description
		applySnapshot(&entry, result.Nutrients, in.Quantity)
	} else {
		if in.FoodName == "" {
			return nil, fmt.Errorf("food_name is required without fdc_id: %w", ErrValidation)
		}
		entry.FoodName = in.FoodName
		entry.Calories = in.Calories * in.Quantity
		entry.ProteinG = in.ProteinG * in.Quantity
		entry.CarbsG = in.CarbsG * in.Quantity
		entry.FatG = in.FatG * in.Quantity
		entry.FiberG = in.FiberG * in.Quantity
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to store log entry: %w", err)
	}
	return &entry, nil
}

// USDA values are per 100 g; quantity counts 100 g servings.
func applySnapshot(e *models.FoodLogEntry, n NutrientProfile, qty float64) {
	e.Calories = n.Calories * qty
	e.ProteinG = n.ProteinG * qty
	e.CarbsG = n.CarbsG * qty
	e.FatG = n.FatG * qty
	e.FiberG = n.FiberG * qty
	e.SugarG = n.SugarG * qty
	e.SodiumMg = n.SodiumMg * qty
	e.CalciumMg = n.CalciumMg * qty
	e.IronMg = n.IronMg * qty
	e.VitaminCMg = n.VitaminCMg * qty
	e.PotassiumMg = n.PotassiumMg * qty
}

// ListByDate returns the user's entries for one day, oldest first.
func (s *FoodLogService) ListByDate(userID uint, date time.Time) ([]models.FoodLogEntry, error) {
	var entries []models.FoodLogEntry
	err := s.db.Where("user_id = ? AND date = ?", userID, dayStart(date)).
		Order("created_at asc").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	return entries, nil
}

type UpdateLogInput struct {
	MealType string   `json:"meal_type"`
	Quantity *float64 `json:"quantity"`
}

// UpdateEntry adjusts meal type or quantity. A quantity change rescales the
// snapshot proportionally so it stays consistent with the logged amount.
func (s *FoodLogService) UpdateEntry(userID, entryID uint, in UpdateLogInput) (*models.FoodLogEntry, error) {
	var entry models.FoodLogEntry
	err := s.db.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("log entry %d: %w", entryID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if in.MealType != "" {
		meal := models.MealType(in.MealType)
		if !meal.Valid() {
			return nil, fmt.Errorf("unknown meal type %q: %w", in.MealType, ErrValidation)
		}
		entry.MealType = meal
	}

	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive: %w", ErrValidation)
		}
		if entry.Quantity > 0 {
			scale := *in.Quantity / entry.Quantity
			entry.Calories *= scale
			entry.ProteinG *= scale
			entry.CarbsG *= scale
			entry.FatG *= scale
			entry.FiberG *= scale
			entry.SugarG *= scale
			entry.SodiumMg *= scale
			entry.CalciumMg *= scale
			entry.IronMg *= scale
			entry.VitaminCMg *= scale
			entry.PotassiumMg *= scale
		}
		entry.Quantity = *in.Quantity
	}

	if err := s.db.Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to update log entry: %w", err)
	}
	return &entry, nil
}

// DeleteEntry removes one of the user's own entries.
func (s *FoodLogService) DeleteEntry(userID, entryID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.FoodLogEntry{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete log entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("log entry %d: %w", entryID, ErrNotFound)
	}
	return nil
}
