package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Pradhyumna23/Nourish-AI/models"
	"github.com/Pradhyumna23/Nourish-AI/pkg/logger"
)

const staleRecommendationAge = 7 * 24 * time.Hour

const chatFallbackMessage = "Sorry, the nutrition assistant is unavailable right now. " +
	"Please try again in a few minutes."

// RecommendationService orchestrates the full pipeline: targets, intake,
// gap analysis, the rule advisor, optional AI enrichment, and persistence.
type RecommendationService struct {
	db      *gorm.DB
	targets *TargetsService
	intake  *IntakeService
	advisor *AdvisorService
	ai      AIClient
	log     *logger.Logger
}

// NewRecommendationService wires the pipeline. ai may be nil, in which case
// only the rule engine runs.
func NewRecommendationService(db *gorm.DB, ai AIClient) *RecommendationService {
	return &RecommendationService{
		db:      db,
		targets: NewTargetsService(db),
		intake:  NewIntakeService(db),
		advisor: NewAdvisorService(DefaultGapConfig()),
		ai:      ai,
		log:     logger.New("recommendation"),
	}
}

// GenerationResult is the full response for a generation run.
type GenerationResult struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	Summary         GenerationSummary       `json:"summary"`
	AIEnhanced      bool                    `json:"ai_enhanced"`
}

// GenerationSummary gives the caller a day-at-a-glance block alongside the
// recommendation list.
type GenerationSummary struct {
	Date              string      `json:"date"`
	CaloriesRemaining float64     `json:"calories_remaining"`
	ProteinRemainingG float64     `json:"protein_remaining_g"`
	DeficientCount    int         `json:"deficient_count"`
	ExceededCount     int         `json:"exceeded_count"`
	CountsByPriority  map[int]int `json:"counts_by_priority"`
	Narrative         string      `json:"narrative,omitempty"`
}

func (s *RecommendationService) loadUser(userID uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("HealthConditions").Preload("DietaryRestrictions").
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *RecommendationService) activityFor(userID uint, date time.Time) ActivitySnapshot {
	var log models.DailyActivityLog
	err := s.db.Where("user_id = ? AND date = ?", userID, dayStart(date)).First(&log).Error
	if err != nil {
		return ActivitySnapshot{}
	}
	return ActivitySnapshot{Hydration: log.Hydration, Exercise: log.Exercise}
}

// Generate runs the whole pipeline for today, persists the results, and
// emits realtime alerts for any alert-typed recommendations. The rule
// baseline is always produced; AI enrichment is best-effort.
func (s *RecommendationService) Generate(ctx context.Context, userID uint, limit int) (*GenerationResult, error) {
	runLog := s.log.With("run_id", uuid.NewString(), "user_id", userID)

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	targets, err := s.targets.GetOrCompute(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	intake, err := s.intake.Daily(userID, now)
	if err != nil {
		return nil, err
	}
	activity := s.activityFor(userID, now)

	gaps := AnalyzeGaps(intake.Totals, activity.Hydration, targets, DefaultGapConfig())
	recs := s.advisor.Advise(user, targets, gaps, intake, activity, limit)

	narrative, aiApplied := s.enrich(ctx, runLog, user, gaps, recs)
	summary := s.summarize(now, gaps)
	summary.Narrative = narrative
	s.fillPriorityCounts(&summary, recs)

	if err := s.persist(userID, recs); err != nil {
		return nil, err
	}

	for _, r := range recs {
		if r.Type.IsAlert() {
			kind := "health"
			if r.Type == models.RecSafetyAlert {
				kind = "safety"
			}
			EmitAlert(userID, kind, r.Title+": "+r.Description)
		}
	}

	runLog.Infow("generated recommendations",
		"count", len(recs), "ai_enhanced", aiApplied,
		"deficient", summary.DeficientCount, "exceeded", summary.ExceededCount)

	return &GenerationResult{
		Recommendations: recs,
		Summary:         summary,
		AIEnhanced:      aiApplied,
	}, nil
}

// enrich applies the AI pass in place. It only rephrases existing
// descriptions and appends vetted extra foods; it never drops or reorders
// rule output. Returns the model's summary sentence and whether anything
// was applied.
func (s *RecommendationService) enrich(ctx context.Context, log *zap.SugaredLogger, user *models.User, gaps GapVector, recs []models.Recommendation) (string, bool) {
	if s.ai == nil || len(recs) == 0 {
		return "", false
	}

	enh, err := s.ai.EnhanceRecommendations(ctx, buildEnhancementPrompt(user, gaps, recs))
	if err != nil {
		log.Warnw("ai enrichment unavailable, keeping rule output", "error", err)
		return "", false
	}

	applied := false
	for i := range recs {
		// Alerts keep their exact rule wording.
		if recs[i].Type.IsAlert() {
			continue
		}
		if d, ok := enh.Descriptions[recs[i].Title]; ok && d != "" {
			recs[i].Description = d
			recs[i].AIEnhanced = true
			applied = true
		}
	}

	if len(enh.ExtraFoods) > 0 {
		applied = s.appendAIFoods(log, user, recs, enh.ExtraFoods) || applied
	}
	return enh.Summary, applied
}

// appendAIFoods merges model-suggested food names into existing
// FOOD_SUGGESTION payloads, re-running the allergy and restriction filter
// on every name the model produced.
func (s *RecommendationService) appendAIFoods(log *zap.SugaredLogger, user *models.User, recs []models.Recommendation, extra map[string][]string) bool {
	applied := false
	for i := range recs {
		if recs[i].Type != models.RecFoodSuggestion {
			continue
		}
		payload, err := recs[i].DecodePayload()
		if err != nil {
			continue
		}

		changed := false
		for nutrient, names := range extra {
			for _, name := range names {
				if !foodNameAllowed(name, user) {
					log.Debugw("dropped ai food suggestion", "food", name)
					continue
				}
				if payloadHasFood(payload, name) {
					continue
				}
				payload.FoodSuggestions = append(payload.FoodSuggestions, models.FoodSuggestionItem{
					FoodName: name,
					Reason:   fmt.Sprintf("Additional source of %s", displayName(nutrient)),
					Benefits: []string{nutrient},
				})
				changed = true
			}
		}
		if changed {
			if err := recs[i].SetPayload(payload); err == nil {
				recs[i].AIEnhanced = true
				applied = true
			}
		}
	}
	return applied
}

func payloadHasFood(p models.RecommendationPayload, name string) bool {
	for _, f := range p.FoodSuggestions {
		if f.FoodName == name {
			return true
		}
	}
	return false
}

func (s *RecommendationService) summarize(date time.Time, gaps GapVector) GenerationSummary {
	sum := GenerationSummary{
		Date:             date.Format("2006-01-02"),
		CountsByPriority: map[int]int{},
	}
	if g, ok := gaps[NutrientCalories]; ok && g.Delta > 0 {
		sum.CaloriesRemaining = g.Delta
	}
	if g, ok := gaps[NutrientProtein]; ok && g.Delta > 0 {
		sum.ProteinRemainingG = g.Delta
	}
	sum.DeficientCount = len(gaps.Deficient())
	sum.ExceededCount = len(gaps.Exceeded())
	return sum
}

// persist deactivates the user's previous active set and stores the new one
// in a single transaction, so readers never see a mixed generation.
func (s *RecommendationService) persist(userID uint, recs []models.Recommendation) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recommendation{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to retire previous recommendations: %w", err)
		}
		for i := range recs {
			if err := tx.Create(&recs[i]).Error; err != nil {
				return fmt.Errorf("failed to store recommendation: %w", err)
			}
		}
		return nil
	})
}

func (s *RecommendationService) fillPriorityCounts(sum *GenerationSummary, recs []models.Recommendation) {
	for _, r := range recs {
		sum.CountsByPriority[r.Priority]++
	}
}

// List returns the user's active recommendations ordered by priority.
func (s *RecommendationService) List(userID uint) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("priority asc, created_at desc").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}

// SubmitFeedback records a rating and optional comment on one
// recommendation. Repeated submissions overwrite the previous values.
func (s *RecommendationService) SubmitFeedback(userID, recID uint, rating int, feedback string, accepted *bool) (*models.Recommendation, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}

	var rec models.Recommendation
	err := s.db.Where("id = ? AND user_id = ?", recID, userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("recommendation %d: %w", recID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation: %w", err)
	}

	rec.UserRating = rating
	rec.UserFeedback = feedback
	rec.IsViewed = true
	if accepted != nil {
		rec.IsAccepted = *accepted
	}

	if err := s.db.Save(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}
	return &rec, nil
}

// MarkViewed flags a recommendation as seen without requiring a rating.
func (s *RecommendationService) MarkViewed(userID, recID uint) error {
	res := s.db.Model(&models.Recommendation{}).
		Where("id = ? AND user_id = ?", recID, userID).
		Update("is_viewed", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark viewed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recommendation %d: %w", recID, ErrNotFound)
	}
	return nil
}

// DeactivateOld retires active recommendations older than a week.
func (s *RecommendationService) DeactivateOld(userID uint) (int64, error) {
	cutoff := time.Now().Add(-staleRecommendationAge)
	res := s.db.Model(&models.Recommendation{}).
		Where("user_id = ? AND is_active = ? AND created_at < ?", userID, true, cutoff).
		Update("is_active", false)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to deactivate old recommendations: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// FeedbackStats summarizes how the user has received past recommendations.
type FeedbackStats struct {
	Total        int64            `json:"total"`
	Viewed       int64            `json:"viewed"`
	Rated        int64            `json:"rated"`
	Accepted     int64            `json:"accepted"`
	AvgRating    float64          `json:"avg_rating"`
	CountsByType map[string]int64 `json:"counts_by_type"`
}

// Stats aggregates feedback over every recommendation the user has received.
func (s *RecommendationService) Stats(userID uint) (*FeedbackStats, error) {
	stats := &FeedbackStats{CountsByType: map[string]int64{}}

	base := s.db.Model(&models.Recommendation{}).Where("user_id = ?", userID)
	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count recommendations: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("is_viewed = ?", true).Count(&stats.Viewed).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("user_rating > 0").Count(&stats.Rated).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_accepted = ?", true).Count(&stats.Accepted).Error; err != nil {
		return nil, err
	}

	var avg *float64
	if err := base.Session(&gorm.Session{}).Where("user_rating > 0").Select("AVG(user_rating)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		stats.AvgRating = *avg
	}

	type typeCount struct {
		Type  string
		Count int64
	}
	var counts []typeCount
	if err := base.Session(&gorm.Session{}).Select("type, COUNT(*) as count").Group("type").Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.CountsByType[c.Type] = c.Count
	}
	return stats, nil
}

// GetDailyGap exposes today's gap vector directly, for the nutrition
// dashboard.
func (s *RecommendationService) GetDailyGap(userID uint, date time.Time) (GapVector, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	targets, err := s.targets.GetOrCompute(user)
	if err != nil {
		return nil, err
	}
	intake, err := s.intake.Daily(userID, date)
	if err != nil {
		return nil, err
	}
	activity := s.activityFor(userID, date)
	return AnalyzeGaps(intake.Totals, activity.Hydration, targets, DefaultGapConfig()), nil
}

// GetWeeklySummary proxies the intake aggregator with the user's targets.
func (s *RecommendationService) GetWeeklySummary(userID uint, weeks int) (*WeeklySummary, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	targets, err := s.targets.GetOrCompute(user)
	if err != nil {
		return nil, err
	}
	return s.intake.Weekly(userID, weeks, targets)
}

// Chat forwards a free-form question to the model, with a static apology
// when the model is unreachable.
func (s *RecommendationService) Chat(ctx context.Context, userID uint, message string) (string, error) {
	if message == "" {
		return "", fmt.Errorf("message is required: %w", ErrValidation)
	}
	if s.ai == nil {
		return chatFallbackMessage, nil
	}
	reply, err := s.ai.Chat(ctx, s.buildChatPrompt(userID, message))
	if err != nil {
		s.log.Warnw("chat upstream unavailable", "user_id", userID, "error", err)
		return chatFallbackMessage, nil
	}

	entry := models.ChatMessage{UserID: userID, UserMessage: message, AIResponse: reply}
	if err := s.db.Create(&entry).Error; err != nil {
		s.log.Warnw("failed to store chat message", "user_id", userID, "error", err)
	}
	return reply, nil
}

// buildChatPrompt prefixes the user's message with assistant instructions
// and whatever profile and intake context is available. Missing context
// never blocks the chat.
func (s *RecommendationService) buildChatPrompt(userID uint, message string) string {
	var sb strings.Builder
	sb.WriteString("You are a friendly nutrition assistant. Give concise, practical advice ")
	sb.WriteString("and recommend consulting a professional for medical questions.")

	if user, err := s.loadUser(userID); err == nil {
		fmt.Fprintf(&sb, "\nUser: goal=%s activity=%s", user.PrimaryGoal, user.ActivityLevel)
		if allergies := user.AllergyList(); len(allergies) > 0 {
			fmt.Fprintf(&sb, " allergies=%s", strings.Join(allergies, ","))
		}
		if targets, err := s.targets.GetOrCompute(user); err == nil {
			if intake, err := s.intake.Daily(userID, time.Now()); err == nil {
				fmt.Fprintf(&sb, "\nToday so far: %.0f/%.0f kcal, %.0f/%.0f g protein",
					intake.Totals.Calories, targets.Calories,
					intake.Totals.ProteinG, targets.ProteinG)
			}
		}
	}

	fmt.Fprintf(&sb, "\n\nUser message: %s", message)
	return sb.String()
}

// ChatHistory returns the user's recent exchanges, oldest first.
func (s *RecommendationService) ChatHistory(userID uint, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var msgs []models.ChatMessage
	err := s.db.Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
