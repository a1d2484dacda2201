package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type RecommendationType string

const (
	RecNutrientAdjustment RecommendationType = "NUTRIENT_ADJUSTMENT"
	RecFoodSuggestion     RecommendationType = "FOOD_SUGGESTION"
	RecMealPlan           RecommendationType = "MEAL_PLAN"
	RecHealthAlert        RecommendationType = "HEALTH_ALERT"
	RecSafetyAlert        RecommendationType = "SAFETY_ALERT"
	RecHydration          RecommendationType = "HYDRATION"
	RecActivity           RecommendationType = "ACTIVITY"
)

func (t RecommendationType) Valid() bool {
	switch t {
	case RecNutrientAdjustment, RecFoodSuggestion, RecMealPlan,
		RecHealthAlert, RecSafetyAlert, RecHydration, RecActivity:
		return true
	}
	return false
}

// IsAlert reports whether this type must survive priority truncation.
func (t RecommendationType) IsAlert() bool {
	return t == RecHealthAlert || t == RecSafetyAlert
}

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Priorities run 1 (critical) to 4 (low).
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

// NutrientAdjustment is the structured payload of a NUTRIENT_ADJUSTMENT item.
type NutrientAdjustment struct {
	Nutrient    string   `json:"nutrient"`
	Current     float64  `json:"current"`
	Recommended float64  `json:"recommended"`
	Amount      float64  `json:"amount"`
	Direction   string   `json:"direction"` // increase | decrease
	Unit        string   `json:"unit"`
	Reason      string   `json:"reason,omitempty"`
	FoodSources []string `json:"food_sources,omitempty"`
}

// FoodSuggestionItem is one suggested food inside a FOOD_SUGGESTION item.
type FoodSuggestionItem struct {
	FoodName    string   `json:"food_name"`
	ServingSize float64  `json:"serving_size"`
	ServingUnit string   `json:"serving_unit"`
	Calories    float64  `json:"calories"`
	ProteinG    float64  `json:"protein_g"`
	Reason      string   `json:"reason,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
	Warnings    []string `json:"warnings,omitempty"` // moderate-restriction flags only
}

// ActivityItem is the payload of an ACTIVITY suggestion.
type ActivityItem struct {
	Activity        string  `json:"activity"`
	DurationMinutes float64 `json:"duration_minutes"`
	Reason          string  `json:"reason,omitempty"`
}

// RecommendationPayload carries whichever structured block applies to the
// recommendation's type; the rest stay empty.
type RecommendationPayload struct {
	NutrientAdjustments []NutrientAdjustment `json:"nutrient_adjustments,omitempty"`
	FoodSuggestions     []FoodSuggestionItem `json:"food_suggestions,omitempty"`
	Activities          []ActivityItem       `json:"activities,omitempty"`
	SuggestedAmount     float64              `json:"suggested_amount,omitempty"` // hydration glasses
}

// Recommendation is a persisted pipeline artifact. Never deleted, only
// deactivated; feedback fields are the only user-mutable part.
type Recommendation struct {
	gorm.Model
	UserID uint               `gorm:"index;not null" json:"-"`
	Type   RecommendationType `gorm:"size:32;not null" json:"type"`

	Priority   int             `gorm:"not null" json:"priority"`
	Confidence ConfidenceLevel `gorm:"size:16" json:"confidence_level"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Payload     string `gorm:"type:text" json:"-"` // JSON-encoded RecommendationPayload
	SafetyNote  string `gorm:"type:text" json:"safety_note,omitempty"`
	AIEnhanced  bool   `json:"ai_enhanced"`

	IsActive     bool   `gorm:"default:true" json:"is_active"`
	IsViewed     bool   `json:"is_viewed"`
	IsAccepted   bool   `json:"is_accepted"`
	UserRating   int    `json:"user_rating,omitempty"`
	UserFeedback string `gorm:"type:text" json:"user_feedback,omitempty"`
}

// DecodePayload unmarshals the stored payload; an empty column decodes to the
// zero payload.
func (r *Recommendation) DecodePayload() (RecommendationPayload, error) {
	var p RecommendationPayload
	if r.Payload == "" {
		return p, nil
	}
	err := json.Unmarshal([]byte(r.Payload), &p)
	return p, err
}

// SetPayload stores the JSON encoding of p.
func (r *Recommendation) SetPayload(p RecommendationPayload) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	r.Payload = string(b)
	return nil
}
