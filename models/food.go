package models

import "gorm.io/gorm"

// NutrientProfile is a per-100g (or per-serving, as reported) nutrient
// breakdown for a single food.
type NutrientProfile struct {
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

// FoodItem caches a USDA FoodData Central record the user has interacted
// with, nutrient profile included, so repeat lookups can skip the API.
type FoodItem struct {
	gorm.Model
	FdcID       int64           `gorm:"uniqueIndex;not null" json:"fdc_id"`
	Description string          `gorm:"not null" json:"description"`
	DataType    string          `json:"data_type"` // Foundation | SR Legacy | Branded
	BrandOwner  string          `json:"brand_owner,omitempty"`
	Category    string          `json:"category,omitempty"`
	Nutrients   NutrientProfile `gorm:"embedded" json:"-"`
}
