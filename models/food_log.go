package models

import (
	"time"

	"gorm.io/gorm"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// FoodLogEntry is one logged food. The nutrient fields are a snapshot taken
// at logging time and are never rewritten, even if the USDA record changes.
type FoodLogEntry struct {
	gorm.Model
	UserID   uint      `gorm:"index;not null" json:"-"`
	FdcID    int64     `json:"fdc_id"`
	FoodName string    `gorm:"not null" json:"food_name"`
	Date     time.Time `gorm:"index;not null" json:"date"` // truncated to local midnight
	MealType MealType  `gorm:"size:16;not null" json:"meal_type"`
	Quantity float64   `json:"quantity"`
	Unit     string    `gorm:"size:32" json:"unit"`

	// Nutrient snapshot
	Calories    float64 `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
	FiberG      float64 `json:"fiber_g"`
	SugarG      float64 `json:"sugar_g"`
	SodiumMg    float64 `json:"sodium_mg"`
	CalciumMg   float64 `json:"calcium_mg"`
	IronMg      float64 `json:"iron_mg"`
	VitaminCMg  float64 `json:"vitamin_c_mg"`
	PotassiumMg float64 `json:"potassium_mg"`
}
