package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pradhyumna23/Nourish-AI/models"
)

func adviseFor(user *models.User, intake IntakeTotals, hydration float64, limit int) []models.Recommendation {
	targets := baseTargets()
	gaps := AnalyzeGaps(intake, hydration, targets, DefaultGapConfig())
	daily := &DailyIntake{Totals: intake}
	activity := ActivitySnapshot{Hydration: hydration, Exercise: 60}
	return NewAdvisorService(DefaultGapConfig()).Advise(user, targets, gaps, daily, activity, limit)
}

func recsOfType(recs []models.Recommendation, t models.RecommendationType) []models.Recommendation {
	var out []models.Recommendation
	for _, r := range recs {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

func TestAdviseCriticalDeficiencyGetsTopPriority(t *testing.T) {
	user := &models.User{PrimaryGoal: models.GoalMaintenance}
	// Protein at 40 of 150g is under half the target.
	intake := IntakeTotals{Calories: 1900, ProteinG: 40, CarbsG: 240, FatG: 60,
		FiberG: 27, CalciumMg: 950, IronMg: 17, VitaminCMg: 70, PotassiumMg: 2500, SodiumMg: 2000}

	recs := adviseFor(user, intake, 8, 10)

	adjustments := recsOfType(recs, models.RecNutrientAdjustment)
	require.NotEmpty(t, adjustments)

	var protein *models.Recommendation
	for i := range adjustments {
		if strings.Contains(adjustments[i].Title, "protein") {
			protein = &adjustments[i]
		}
	}
	require.NotNil(t, protein, "expected a protein adjustment")
	assert.Equal(t, models.PriorityCritical, protein.Priority)
	assert.Equal(t, models.ConfidenceHigh, protein.Confidence)

	payload, err := protein.DecodePayload()
	require.NoError(t, err)
	require.Len(t, payload.NutrientAdjustments, 1)
	adj := payload.NutrientAdjustments[0]
	assert.Equal(t, NutrientProtein, adj.Nutrient)
	assert.Equal(t, "increase", adj.Direction)
	assert.InDelta(t, 110, adj.Amount, 0.001)
}

func TestAdviseFoodSuggestionsRespectAllergies(t *testing.T) {
	user := &models.User{Allergies: "peanuts", PrimaryGoal: models.GoalMaintenance}
	intake := IntakeTotals{Calories: 1900, ProteinG: 40, CarbsG: 240, FatG: 60,
		FiberG: 27, CalciumMg: 950, IronMg: 17, VitaminCMg: 70, PotassiumMg: 2500, SodiumMg: 2000}

	recs := adviseFor(user, intake, 8, 20)

	suggestions := recsOfType(recs, models.RecFoodSuggestion)
	require.NotEmpty(t, suggestions)
	for _, rec := range suggestions {
		payload, err := rec.DecodePayload()
		require.NoError(t, err)
		for _, f := range payload.FoodSuggestions {
			assert.NotContains(t, strings.ToLower(f.FoodName), "peanut",
				"allergen slipped through in %q", rec.Title)
		}
	}
}

func TestAdviseStrictVeganExcludesAnimalFoods(t *testing.T) {
	user := &models.User{
		PrimaryGoal: models.GoalMaintenance,
		DietaryRestrictions: []models.DietaryRestriction{
			{Type: "vegan", Strictness: models.StrictnessStrict},
		},
	}
	intake := IntakeTotals{Calories: 1900, ProteinG: 40, CarbsG: 240, FatG: 60,
		FiberG: 27, CalciumMg: 950, IronMg: 17, VitaminCMg: 70, PotassiumMg: 2500, SodiumMg: 2000}

	recs := adviseFor(user, intake, 8, 20)

	for _, rec := range recsOfType(recs, models.RecFoodSuggestion) {
		payload, err := rec.DecodePayload()
		require.NoError(t, err)
		for _, f := range payload.FoodSuggestions {
			name := strings.ToLower(f.FoodName)
			for _, banned := range []string{"chicken", "beef", "salmon", "sardine", "yogurt", "milk", "egg"} {
				assert.NotContains(t, name, banned)
			}
		}
	}
}

func TestAdviseHealthAndSafetyAlerts(t *testing.T) {
	user := &models.User{
		PrimaryGoal: models.GoalMaintenance,
		HealthConditions: []models.HealthCondition{
			{Name: "hypertension", Severity: models.SeverityModerate},
		},
	}
	// Sodium well over the limit.
	intake := IntakeTotals{Calories: 1900, ProteinG: 140, CarbsG: 240, FatG: 60,
		FiberG: 27, CalciumMg: 950, IronMg: 17, VitaminCMg: 70, PotassiumMg: 2500, SodiumMg: 3500}

	recs := adviseFor(user, intake, 8, 10)

	health := recsOfType(recs, models.RecHealthAlert)
	require.Len(t, health, 1)
	assert.Equal(t, models.PriorityHigh, health[0].Priority)
	assert.NotEmpty(t, health[0].SafetyNote)

	safety := recsOfType(recs, models.RecSafetyAlert)
	require.Len(t, safety, 1)
	assert.Equal(t, models.PriorityCritical, safety[0].Priority)
	assert.Contains(t, safety[0].Description, "sodium")
}

func TestAdviseAlertsSurviveTruncation(t *testing.T) {
	user := &models.User{
		PrimaryGoal: models.GoalWeightLoss,
		HealthConditions: []models.HealthCondition{
			{Name: "hypertension", Severity: models.SeverityModerate},
		},
	}
	// Everything deficient plus a sodium excess: far more candidates than
	// the limit allows.
	intake := IntakeTotals{SodiumMg: 3500}

	recs := adviseFor(user, intake, 0, 3)

	assert.NotEmpty(t, recsOfType(recs, models.RecHealthAlert), "health alert was truncated away")
	assert.NotEmpty(t, recsOfType(recs, models.RecSafetyAlert), "safety alert was truncated away")
}

func TestAdviseHydrationAndActivity(t *testing.T) {
	user := &models.User{PrimaryGoal: models.GoalMuscleGain}
	intake := IntakeTotals{Calories: 1900, ProteinG: 140, CarbsG: 240, FatG: 60,
		FiberG: 27, CalciumMg: 950, IronMg: 17, VitaminCMg: 70, PotassiumMg: 2500, SodiumMg: 2000}

	targets := baseTargets()
	targets.ExerciseMinutes = 45
	gaps := AnalyzeGaps(intake, 2, targets, DefaultGapConfig())
	recs := NewAdvisorService(DefaultGapConfig()).Advise(
		user, targets, gaps, &DailyIntake{Totals: intake},
		ActivitySnapshot{Hydration: 2, Exercise: 10}, 10)

	hydration := recsOfType(recs, models.RecHydration)
	require.Len(t, hydration, 1)
	payload, err := hydration[0].DecodePayload()
	require.NoError(t, err)
	assert.InDelta(t, 6, payload.SuggestedAmount, 0.001)

	activity := recsOfType(recs, models.RecActivity)
	require.Len(t, activity, 1)
	actPayload, err := activity[0].DecodePayload()
	require.NoError(t, err)
	require.Len(t, actPayload.Activities, 1)
	assert.InDelta(t, 35, actPayload.Activities[0].DurationMinutes, 0.001)
}

func TestAdviseOrderingAndLimit(t *testing.T) {
	user := &models.User{PrimaryGoal: models.GoalMaintenance}
	intake := IntakeTotals{Calories: 600, ProteinG: 30}

	recs := adviseFor(user, intake, 8, 5)

	require.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), 5)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i].Priority, recs[i-1].Priority,
			"recommendations out of priority order at index %d", i)
	}
}

func TestAdvisePotassiumDeficiencyGetsFoods(t *testing.T) {
	user := &models.User{PrimaryGoal: models.GoalMaintenance}
	// Only potassium short: 500 of 2600mg.
	intake := IntakeTotals{Calories: 1900, ProteinG: 140, CarbsG: 240, FatG: 60,
		FiberG: 27, CalciumMg: 950, IronMg: 17, VitaminCMg: 70, PotassiumMg: 500, SodiumMg: 2000}

	recs := adviseFor(user, intake, 8, 10)

	adjustments := recsOfType(recs, models.RecNutrientAdjustment)
	require.Len(t, adjustments, 1)
	payload, err := adjustments[0].DecodePayload()
	require.NoError(t, err)
	require.Len(t, payload.NutrientAdjustments, 1)
	assert.NotEmpty(t, payload.NutrientAdjustments[0].FoodSources)

	suggestions := recsOfType(recs, models.RecFoodSuggestion)
	require.Len(t, suggestions, 1)
	sp, err := suggestions[0].DecodePayload()
	require.NoError(t, err)
	require.NotEmpty(t, sp.FoodSuggestions)
	assert.Equal(t, "Steamed spinach", sp.FoodSuggestions[0].FoodName,
		"highest per-serving potassium entry should rank first")
}

func TestHydrationReminderUsesHydrationBand(t *testing.T) {
	user := &models.User{PrimaryGoal: models.GoalMaintenance}
	cfg := DefaultGapConfig()
	cfg.Hydration.Deficient = 0.5

	targets := baseTargets()
	intake := IntakeTotals{Calories: 2000, ProteinG: 150, CarbsG: 250, FatG: 65,
		FiberG: 28, CalciumMg: 1000, IronMg: 18, VitaminCMg: 75, PotassiumMg: 2600, SodiumMg: 2000}
	gaps := AnalyzeGaps(intake, 5, targets, cfg)
	recs := NewAdvisorService(cfg).Advise(user, targets, gaps, &DailyIntake{Totals: intake},
		ActivitySnapshot{Hydration: 5, Exercise: 60}, 10)

	// 5 of 8 glasses clears the 0.5 hydration band even though it sits
	// under the 0.8 calorie band.
	assert.Empty(t, recsOfType(recs, models.RecHydration))
}

func TestAdviseNeverSuggestsMoreSodium(t *testing.T) {
	user := &models.User{PrimaryGoal: models.GoalMaintenance}
	// Otherwise-adequate day with sodium far under the 2300mg limit.
	intake := IntakeTotals{Calories: 1900, ProteinG: 140, CarbsG: 240, FatG: 60,
		FiberG: 27, CalciumMg: 950, IronMg: 17, VitaminCMg: 70, PotassiumMg: 2500, SodiumMg: 1000}

	recs := adviseFor(user, intake, 8, 10)

	assert.Empty(t, recsOfType(recs, models.RecNutrientAdjustment))
	for _, r := range recs {
		assert.NotContains(t, strings.ToLower(r.Title), "sodium")
	}
}

func TestAdviseAdequateDayIsQuiet(t *testing.T) {
	user := &models.User{PrimaryGoal: models.GoalMaintenance}
	intake := IntakeTotals{Calories: 2000, ProteinG: 150, CarbsG: 250, FatG: 65,
		FiberG: 28, CalciumMg: 1000, IronMg: 18, VitaminCMg: 75, PotassiumMg: 2600, SodiumMg: 2000}

	recs := adviseFor(user, intake, 8, 10)

	assert.Empty(t, recsOfType(recs, models.RecNutrientAdjustment))
	assert.Empty(t, recsOfType(recs, models.RecFoodSuggestion))
	assert.Empty(t, recsOfType(recs, models.RecSafetyAlert))
}
