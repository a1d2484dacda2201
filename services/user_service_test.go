package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pradhyumna23/Nourish-AI/config"
	"github.com/Pradhyumna23/Nourish-AI/models"
)

func TestCompleteOnboardingComputesTargets(t *testing.T) {
	useTestDB(t)
	user := createTestUser(t, config.DB, func(u *models.User) {
		u.Onboarded = false
		u.HeightCm = 0
		u.WeightKg = 0
	})

	err := CompleteOnboarding(user.ID, OnboardingInput{
		Birthday:      "1990-03-15",
		Sex:           "male",
		HeightCm:      180,
		WeightKg:      80,
		ActivityLevel: "moderately_active",
		PrimaryGoal:   "muscle_gain",
		HealthConditions: []ConditionInput{
			{Name: "Anemia", Severity: "mild"},
		},
		DietaryRestrictions: []RestrictionInput{
			{Type: "vegetarian", Strictness: "strict"},
		},
		Allergies: []string{"Peanuts", "Shellfish"},
	})
	require.NoError(t, err)

	var saved models.User
	require.NoError(t, config.DB.Preload("HealthConditions").Preload("DietaryRestrictions").
		First(&saved, user.ID).Error)

	assert.True(t, saved.Onboarded)
	assert.Equal(t, []string{"peanuts", "shellfish"}, saved.AllergyList())
	require.Len(t, saved.HealthConditions, 1)
	assert.Equal(t, "anemia", saved.HealthConditions[0].Name)
	require.Len(t, saved.DietaryRestrictions, 1)
	assert.Equal(t, models.StrictnessStrict, saved.DietaryRestrictions[0].Strictness)

	var targets models.NutrientTargets
	require.NoError(t, config.DB.Where("user_id = ?", user.ID).First(&targets).Error)
	assert.InDelta(t, 80*2.2, targets.ProteinG, 0.001)
	// Anemia raises the iron target above the male RDA of 8mg.
	assert.InDelta(t, 12, targets.IronMg, 0.001)
}

func TestCompleteOnboardingValidation(t *testing.T) {
	useTestDB(t)
	user := createTestUser(t, config.DB, nil)

	err := CompleteOnboarding(user.ID, OnboardingInput{
		Birthday: "15-03-1990", HeightCm: 180, WeightKg: 80,
		ActivityLevel: "moderately_active", PrimaryGoal: "maintenance",
	})
	assert.ErrorIs(t, err, ErrValidation)

	err = CompleteOnboarding(user.ID, OnboardingInput{
		Birthday: "1990-03-15", HeightCm: 180, WeightKg: 80,
		ActivityLevel: "couch_potato", PrimaryGoal: "maintenance",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProfileRecomputesTargetsOnWeightChange(t *testing.T) {
	useTestDB(t)
	user := createTestUser(t, config.DB, nil)

	// Seed targets at the current weight.
	before, err := NewTargetsService(config.DB).GetOrCompute(user)
	require.NoError(t, err)

	require.NoError(t, UpdateUserProfile(user.ID, ProfileInput{WeightKg: 75}))

	var after models.NutrientTargets
	require.NoError(t, config.DB.Where("user_id = ?", user.ID).First(&after).Error)
	assert.Equal(t, before.ID, after.ID)
	assert.NotEqual(t, before.Calories, after.Calories)
}

func TestUpdateProfileNameOnlyKeepsTargets(t *testing.T) {
	useTestDB(t)
	user := createTestUser(t, config.DB, nil)

	before, err := NewTargetsService(config.DB).GetOrCompute(user)
	require.NoError(t, err)

	require.NoError(t, UpdateUserProfile(user.ID, ProfileInput{FirstName: "Renamed"}))

	var after models.NutrientTargets
	require.NoError(t, config.DB.Where("user_id = ?", user.ID).First(&after).Error)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestUpdateHealthProfileRecomputesTargets(t *testing.T) {
	useTestDB(t)
	user := createTestUser(t, config.DB, func(u *models.User) {
		u.Sex = models.SexFemale
	})

	_, err := NewTargetsService(config.DB).GetOrCompute(user)
	require.NoError(t, err)

	err = UpdateHealthProfile(user.ID,
		[]ConditionInput{{Name: "hypertension"}},
		nil,
		[]string{"milk"},
	)
	require.NoError(t, err)

	var targets models.NutrientTargets
	require.NoError(t, config.DB.Where("user_id = ?", user.ID).First(&targets).Error)
	assert.InDelta(t, 1500, targets.SodiumMg, 0.001)

	var saved models.User
	require.NoError(t, config.DB.First(&saved, user.ID).Error)
	assert.Equal(t, []string{"milk"}, saved.AllergyList())
}

func TestDeleteUserDisablesAccount(t *testing.T) {
	useTestDB(t)
	user := createTestUser(t, config.DB, nil)

	require.NoError(t, DeleteUser(user.ID))

	_, err := GetUserProfile(user.ID)
	assert.Error(t, err)
}
