package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Pradhyumna23/Nourish-AI/models"
)

// fakeAI scripts the AI layer for pipeline tests.
type fakeAI struct {
	enh     *AIEnhancement
	err     error
	chatMsg string
	calls   int
}

func (f *fakeAI) EnhanceRecommendations(ctx context.Context, prompt string) (*AIEnhancement, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.enh, nil
}

func (f *fakeAI) Chat(ctx context.Context, message string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.chatMsg, nil
}

func deficientUserSetup(t *testing.T, db *gorm.DB) *models.User {
	user := createTestUser(t, db, nil)
	// One small meal: nearly everything stays deficient.
	logEntry(t, db, user.ID, time.Now(), models.MealBreakfast, models.FoodLogEntry{
		Calories: 300, ProteinG: 10, CarbsG: 40, FatG: 8, FiberG: 3,
	})
	return user
}

func TestGenerateFallsBackWhenAIUnavailable(t *testing.T) {
	db := newTestDB(t)
	user := deficientUserSetup(t, db)
	ai := &fakeAI{err: errors.New("upstream timeout")}
	svc := NewRecommendationService(db, ai)

	result, err := svc.Generate(context.Background(), user.ID, 10)
	require.NoError(t, err)

	assert.False(t, result.AIEnhanced)
	assert.NotEmpty(t, result.Recommendations, "rule baseline must survive AI failure")
	assert.Equal(t, 1, ai.calls)
	for _, r := range result.Recommendations {
		assert.False(t, r.AIEnhanced)
	}
}

func TestGenerateAppliesAIDescriptions(t *testing.T) {
	db := newTestDB(t)
	user := deficientUserSetup(t, db)

	// Grab the baseline titles first so the fake can target one.
	baseline, err := NewRecommendationService(db, nil).Generate(context.Background(), user.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, baseline.Recommendations)
	title := baseline.Recommendations[0].Title

	ai := &fakeAI{enh: &AIEnhancement{
		Descriptions: map[string]string{title: "A friendlier phrasing."},
		Summary:      "You are mostly on track today.",
	}}
	svc := NewRecommendationService(db, ai)

	result, err := svc.Generate(context.Background(), user.ID, 10)
	require.NoError(t, err)

	assert.True(t, result.AIEnhanced)
	assert.Equal(t, "You are mostly on track today.", result.Summary.Narrative)

	found := false
	for _, r := range result.Recommendations {
		if r.Title == title {
			found = true
			assert.Equal(t, "A friendlier phrasing.", r.Description)
			assert.True(t, r.AIEnhanced)
		}
	}
	assert.True(t, found)
}

func TestGenerateFiltersAIFoodsThroughSafetyRules(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, func(u *models.User) {
		u.Allergies = "peanuts"
	})
	logEntry(t, db, user.ID, time.Now(), models.MealBreakfast, models.FoodLogEntry{
		Calories: 300, ProteinG: 10,
	})

	ai := &fakeAI{enh: &AIEnhancement{
		ExtraFoods: map[string][]string{
			NutrientProtein: {"Peanut butter", "Grilled chicken breast"},
		},
	}}
	svc := NewRecommendationService(db, ai)

	result, err := svc.Generate(context.Background(), user.ID, 20)
	require.NoError(t, err)

	for _, r := range result.Recommendations {
		if r.Type != models.RecFoodSuggestion {
			continue
		}
		payload, err := r.DecodePayload()
		require.NoError(t, err)
		for _, f := range payload.FoodSuggestions {
			assert.NotEqual(t, "Peanut butter", f.FoodName, "AI allergen must be filtered")
		}
	}
}

func TestGenerateRetiresPreviousActiveSet(t *testing.T) {
	db := newTestDB(t)
	user := deficientUserSetup(t, db)
	svc := NewRecommendationService(db, nil)

	_, err := svc.Generate(context.Background(), user.ID, 10)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), user.ID, 10)
	require.NoError(t, err)

	active, err := svc.List(user.ID)
	require.NoError(t, err)
	assert.Len(t, active, len(second.Recommendations))
}

func TestGenerateEmitsAlertsForConditions(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, func(u *models.User) {
		u.HealthConditions = []models.HealthCondition{{Name: "hypertension"}}
	})
	logEntry(t, db, user.ID, time.Now(), models.MealDinner, models.FoodLogEntry{
		Calories: 800, SodiumMg: 2500,
	})
	InitAlertDeps(db, nil)
	t.Cleanup(func() { InitAlertDeps(nil, nil) })

	svc := NewRecommendationService(db, nil)
	_, err := svc.Generate(context.Background(), user.ID, 10)
	require.NoError(t, err)

	var alerts []models.Alert
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&alerts).Error)
	require.NotEmpty(t, alerts)

	kinds := map[string]bool{}
	for _, a := range alerts {
		kinds[a.Type] = true
	}
	assert.True(t, kinds["health"])
	assert.True(t, kinds["safety"])
}

func TestSubmitFeedback(t *testing.T) {
	db := newTestDB(t)
	user := deficientUserSetup(t, db)
	svc := NewRecommendationService(db, nil)

	result, err := svc.Generate(context.Background(), user.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, result.Recommendations)
	recID := result.Recommendations[0].ID

	t.Run("rejects out-of-range rating", func(t *testing.T) {
		_, err := svc.SubmitFeedback(user.ID, recID, 0, "", nil)
		assert.ErrorIs(t, err, ErrValidation)
		_, err = svc.SubmitFeedback(user.ID, recID, 6, "", nil)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects another user's recommendation", func(t *testing.T) {
		other := createTestUser(t, db, nil)
		_, err := svc.SubmitFeedback(other.ID, recID, 4, "", nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stores and overwrites idempotently", func(t *testing.T) {
		accepted := true
		rec, err := svc.SubmitFeedback(user.ID, recID, 4, "useful", &accepted)
		require.NoError(t, err)
		assert.Equal(t, 4, rec.UserRating)
		assert.True(t, rec.IsViewed)
		assert.True(t, rec.IsAccepted)

		rec, err = svc.SubmitFeedback(user.ID, recID, 2, "changed my mind", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, rec.UserRating)
		assert.Equal(t, "changed my mind", rec.UserFeedback)
		assert.True(t, rec.IsAccepted, "accepted flag persists when omitted")
	})
}

func TestDeactivateOld(t *testing.T) {
	db := newTestDB(t)
	user := deficientUserSetup(t, db)
	svc := NewRecommendationService(db, nil)

	result, err := svc.Generate(context.Background(), user.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, result.Recommendations)

	// Age half the set past the cutoff.
	old := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, db.Model(&models.Recommendation{}).
		Where("id = ?", result.Recommendations[0].ID).
		Update("created_at", old).Error)

	n, err := svc.DeactivateOld(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestChatFallsBackToApology(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, nil)

	svc := NewRecommendationService(db, &fakeAI{err: errors.New("down")})
	reply, err := svc.Chat(context.Background(), user.ID, "what should I eat?")
	require.NoError(t, err)
	assert.Equal(t, chatFallbackMessage, reply)

	svc = NewRecommendationService(db, &fakeAI{chatMsg: "Try more lentils."})
	reply, err = svc.Chat(context.Background(), user.ID, "what should I eat?")
	require.NoError(t, err)
	assert.Equal(t, "Try more lentils.", reply)

	_, err = svc.Chat(context.Background(), user.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	// Failed and fallback replies are not recorded.
	var n int64
	require.NoError(t, db.Model(&models.ChatMessage{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestChatHistoryOrderedOldestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, nil)

	svc := NewRecommendationService(db, &fakeAI{chatMsg: "ok"})
	for _, msg := range []string{"first", "second", "third"} {
		_, err := svc.Chat(context.Background(), user.ID, msg)
		require.NoError(t, err)
	}

	msgs, err := svc.ChatHistory(user.ID, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "second", msgs[0].UserMessage)
	assert.Equal(t, "third", msgs[1].UserMessage)
	assert.Equal(t, "ok", msgs[0].AIResponse)
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	user := deficientUserSetup(t, db)
	svc := NewRecommendationService(db, nil)

	result, err := svc.Generate(context.Background(), user.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, result.Recommendations)

	_, err = svc.SubmitFeedback(user.ID, result.Recommendations[0].ID, 5, "", nil)
	require.NoError(t, err)

	stats, err := svc.Stats(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, len(result.Recommendations), stats.Total)
	assert.EqualValues(t, 1, stats.Rated)
	assert.InDelta(t, 5, stats.AvgRating, 0.001)
	assert.NotEmpty(t, stats.CountsByType)
}
