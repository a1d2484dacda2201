package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive,
		ActivityVeryActive, ActivityExtremelyActive:
		return true
	}
	return false
}

type Goal string

const (
	GoalWeightLoss        Goal = "weight_loss"
	GoalWeightGain        Goal = "weight_gain"
	GoalMuscleGain        Goal = "muscle_gain"
	GoalMaintenance       Goal = "maintenance"
	GoalHealthImprovement Goal = "health_improvement"
)

func (g Goal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalWeightGain, GoalMuscleGain, GoalMaintenance, GoalHealthImprovement:
		return true
	}
	return false
}

type ConditionSeverity string

const (
	SeverityMild     ConditionSeverity = "mild"
	SeverityModerate ConditionSeverity = "moderate"
	SeveritySevere   ConditionSeverity = "severe"
)

// HealthCondition is a diagnosed condition the advisor branches on
// (diabetes, hypertension, anemia, ...).
type HealthCondition struct {
	gorm.Model
	UserID   uint              `gorm:"index;not null" json:"-"`
	Name     string            `gorm:"not null" json:"name"`
	Severity ConditionSeverity `gorm:"size:16" json:"severity"`
}

type RestrictionStrictness string

const (
	StrictnessFlexible RestrictionStrictness = "flexible"
	StrictnessModerate RestrictionStrictness = "moderate"
	StrictnessStrict   RestrictionStrictness = "strict"
)

// DietaryRestriction, e.g. {vegan, strict} or {gluten_free, moderate}.
// Strict restrictions exclude foods outright; moderate ones only flag them.
type DietaryRestriction struct {
	gorm.Model
	UserID     uint                  `gorm:"index;not null" json:"-"`
	Type       string                `gorm:"not null" json:"type"`
	Strictness RestrictionStrictness `gorm:"size:16" json:"strictness"`
}

type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string
	LastName  string

	Birthday      time.Time
	Sex           Sex `gorm:"size:16"`
	HeightCm      float64
	WeightKg      float64
	ActivityLevel ActivityLevel `gorm:"size:32"`
	PrimaryGoal   Goal          `gorm:"size:32"`

	HealthConditions    []HealthCondition    `json:"health_conditions"`
	DietaryRestrictions []DietaryRestriction `json:"dietary_restrictions"`
	Allergies           string               // comma-separated, e.g. "peanuts,shellfish"

	ProfilePicture string
	Onboarded      bool
	Disabled       bool

	MFAEnabled    bool
	MFACode       string `json:"-"`
	ResetToken    string `json:"-"`
	ResetTokenExp time.Time
}

// AllergyList splits the stored comma-separated allergies into
// trimmed, lowercased entries.
func (u *User) AllergyList() []string {
	if strings.TrimSpace(u.Allergies) == "" {
		return nil
	}
	parts := strings.Split(u.Allergies, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
