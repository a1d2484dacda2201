package models

import (
	"gorm.io/gorm"
)

// NutrientTargets holds a user's computed daily targets. One row per user;
// recomputed whenever demographics or the primary goal change.
type NutrientTargets struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"-"`

	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`

	CalciumMg   float64 `json:"calcium_mg"`
	IronMg      float64 `json:"iron_mg"`
	VitaminCMg  float64 `json:"vitamin_c_mg"`
	VitaminDMcg float64 `json:"vitamin_d_mcg"`
	PotassiumMg float64 `json:"potassium_mg"`
	SodiumMg    float64 `json:"sodium_mg"` // upper limit, not a goal to reach

	HydrationGlasses float64 `json:"hydration_glasses"`
	ExerciseMinutes  float64 `json:"exercise_minutes"`

	// Calculation metadata
	BMR    float64 `json:"bmr"`
	TDEE   float64 `json:"tdee"`
	Method string  `gorm:"size:32" json:"method"` // mifflin_st_jeor
}
