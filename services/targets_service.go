package services

import (
	"errors"
	"strings"

	"github.com/Pradhyumna23/Nourish-AI/models"
	"github.com/Pradhyumna23/Nourish-AI/pkg/logger"
	"github.com/Pradhyumna23/Nourish-AI/utils"

	"gorm.io/gorm"
)

// Activity multipliers applied to BMR to get TDEE.
var activityFactors = map[models.ActivityLevel]float64{
	models.ActivitySedentary:        1.2,
	models.ActivityLightlyActive:    1.375,
	models.ActivityModeratelyActive: 1.55,
	models.ActivityVeryActive:       1.725,
	models.ActivityExtremelyActive:  1.9,
}

// TargetsService computes and persists per-user nutrient targets.
type TargetsService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTargetsService(db *gorm.DB) *TargetsService {
	return &TargetsService{db: db, log: logger.New("targets")}
}

// CalculateBMR uses the Mifflin-St Jeor equation. Missing demographics fall
// back to population defaults (70kg, 170cm, age 30) rather than failing.
func CalculateBMR(user *models.User) float64 {
	weight := user.WeightKg
	if weight <= 0 {
		weight = 70
	}
	height := user.HeightCm
	if height <= 0 {
		height = 170
	}
	age := 30
	if !user.Birthday.IsZero() {
		age = utils.CalculateAge(user.Birthday)
	}

	bmr := 10*weight + 6.25*height - 5*float64(age)
	if user.Sex == models.SexMale {
		return bmr + 5
	}
	return bmr - 161
}

// CalculateTDEE scales BMR by the user's activity factor.
func CalculateTDEE(user *models.User) float64 {
	factor, ok := activityFactors[user.ActivityLevel]
	if !ok {
		factor = activityFactors[models.ActivityModeratelyActive]
	}
	return CalculateBMR(user) * factor
}

func calorieTarget(user *models.User) float64 {
	tdee := CalculateTDEE(user)
	switch user.PrimaryGoal {
	case models.GoalWeightLoss:
		return tdee - 500
	case models.GoalWeightGain:
		return tdee + 500
	case models.GoalMuscleGain:
		return tdee + 300
	default:
		return tdee
	}
}

// ComputeTargets derives a full target set from the user's demographics,
// goal, and health conditions. Pure given the user.
func ComputeTargets(user *models.User) models.NutrientTargets {
	calories := calorieTarget(user)

	weight := user.WeightKg
	if weight <= 0 {
		weight = 70
	}

	// Protein in g/kg body weight, by goal then activity.
	proteinPerKg := 1.2
	switch {
	case user.PrimaryGoal == models.GoalMuscleGain:
		proteinPerKg = 2.2
	case user.PrimaryGoal == models.GoalWeightLoss:
		proteinPerKg = 2.0
	case user.ActivityLevel == models.ActivityVeryActive || user.ActivityLevel == models.ActivityExtremelyActive:
		proteinPerKg = 1.8
	}
	proteinG := weight * proteinPerKg

	fatPercent := 0.28
	switch user.PrimaryGoal {
	case models.GoalMuscleGain:
		fatPercent = 0.25
	case models.GoalWeightLoss:
		fatPercent = 0.30
	}
	fatG := calories * fatPercent / 9

	carbCalories := calories - proteinG*4 - fatG*9
	carbsG := carbCalories / 4
	if carbsG < 0 {
		carbsG = 0
	}

	// 14g fiber per 1000 kcal, capped at 35g.
	fiberG := calories / 1000 * 14
	if fiberG > 35 {
		fiberG = 35
	}

	t := models.NutrientTargets{
		UserID:           user.ID,
		Calories:         calories,
		ProteinG:         proteinG,
		CarbsG:           carbsG,
		FatG:             fatG,
		FiberG:           fiberG,
		HydrationGlasses: 8,
		ExerciseMinutes:  30,
		BMR:              CalculateBMR(user),
		TDEE:             CalculateTDEE(user),
		Method:           "mifflin_st_jeor",
	}
	switch user.PrimaryGoal {
	case models.GoalWeightLoss, models.GoalWeightGain, models.GoalMuscleGain:
		t.ExerciseMinutes = 45
	}

	applyMicronutrientRDA(&t, user)
	applyConditionAdjustments(&t, user)
	return t
}

// RDA/DRI baseline by sex and age.
func applyMicronutrientRDA(t *models.NutrientTargets, user *models.User) {
	age := 30
	if !user.Birthday.IsZero() {
		age = utils.CalculateAge(user.Birthday)
	}

	if user.Sex == models.SexMale {
		t.VitaminCMg = 90
		t.VitaminDMcg = 20
		t.IronMg = 8
		t.PotassiumMg = 3400
		t.CalciumMg = 1000
		if age > 70 {
			t.CalciumMg = 1200
		}
	} else {
		t.VitaminCMg = 75
		t.VitaminDMcg = 20
		t.IronMg = 18
		t.PotassiumMg = 2600
		t.CalciumMg = 1000
		if age > 50 {
			t.CalciumMg = 1200
			t.IronMg = 8
		}
	}
	t.SodiumMg = 2300
}

func applyConditionAdjustments(t *models.NutrientTargets, user *models.User) {
	for _, c := range user.HealthConditions {
		name := strings.ToLower(c.Name)
		switch {
		case strings.Contains(name, "anemia"):
			t.IronMg *= 1.5
		case strings.Contains(name, "osteoporosis"):
			t.CalciumMg *= 1.2
			t.VitaminDMcg *= 1.5
		case strings.Contains(name, "hypertension"), strings.Contains(name, "blood pressure"):
			t.SodiumMg = 1500
			t.PotassiumMg *= 1.2
		}
	}
}

// GetOrCompute returns the stored targets for a user, computing and storing
// them on first use.
func (s *TargetsService) GetOrCompute(user *models.User) (*models.NutrientTargets, error) {
	var t models.NutrientTargets
	err := s.db.Where("user_id = ?", user.ID).First(&t).Error
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s.log.Infow("computing default nutrient targets", "user_id", user.ID)
	t = ComputeTargets(user)
	if err := s.db.Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Recompute refreshes the stored targets after a demographics or goal change.
func (s *TargetsService) Recompute(user *models.User) (*models.NutrientTargets, error) {
	fresh := ComputeTargets(user)

	var existing models.NutrientTargets
	err := s.db.Where("user_id = ?", user.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.Create(&fresh).Error; err != nil {
			return nil, err
		}
		return &fresh, nil
	}
	if err != nil {
		return nil, err
	}

	fresh.ID = existing.ID
	fresh.CreatedAt = existing.CreatedAt
	if err := s.db.Save(&fresh).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}
