package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Pradhyumna23/Nourish-AI/models"
	"github.com/Pradhyumna23/Nourish-AI/pkg/logger"
)

const defaultRecommendationLimit = 10

// ActivitySnapshot is the day's logged hydration (glasses) and exercise
// (minutes).
type ActivitySnapshot struct {
	Hydration float64
	Exercise  float64
}

// AdvisorService turns a gap vector and profile into candidate
// recommendations without touching any external service, so the pipeline
// still works when the AI is down.
type AdvisorService struct {
	cfg GapConfig
	log *logger.Logger
}

func NewAdvisorService(cfg GapConfig) *AdvisorService {
	return &AdvisorService{cfg: cfg, log: logger.New("advisor")}
}

type candidate struct {
	rec      models.Recommendation
	severity float64 // abs delta of the driving nutrient, for tie-breaks
}

var nutrientFoodSources = map[string][]string{
	NutrientProtein:   {"lean meats", "fish", "eggs", "legumes", "dairy", "nuts"},
	NutrientFiber:     {"whole grains", "vegetables", "fruits", "legumes", "nuts"},
	NutrientCalories:  {"healthy fats", "whole grains", "lean proteins", "fruits"},
	NutrientCarbs:     {"whole grains", "fruits", "vegetables", "legumes"},
	NutrientFat:       {"avocados", "nuts", "olive oil", "fatty fish", "seeds"},
	NutrientIron:      {"red meat", "spinach", "lentils", "fortified cereals"},
	NutrientCalcium:   {"dairy products", "leafy greens", "sardines", "almonds"},
	NutrientVitaminC:  {"citrus fruits", "bell peppers", "strawberries", "broccoli"},
	NutrientPotassium: {"bananas", "potatoes", "spinach", "beans", "salmon"},
}

var nutrientBenefits = map[string]string{
	NutrientProtein:   "muscle maintenance and repair",
	NutrientFiber:     "digestive health and blood sugar control",
	NutrientCalories:  "energy balance and metabolic function",
	NutrientCarbs:     "energy production and brain function",
	NutrientFat:       "hormone production and nutrient absorption",
	NutrientIron:      "oxygen transport and energy levels",
	NutrientCalcium:   "bone strength and density",
	NutrientVitaminC:  "immune function and iron absorption",
	NutrientPotassium: "blood pressure regulation and muscle function",
}

func displayName(nutrient string) string {
	name := strings.TrimSuffix(strings.TrimSuffix(nutrient, "_g"), "_mg")
	return strings.ReplaceAll(name, "_", " ")
}

// Advise runs the rule pipeline: nutrient adjustments, food suggestions,
// condition alerts, hydration, activity; then sorts and truncates. Alerts
// are re-added if truncation dropped them.
func (a *AdvisorService) Advise(
	user *models.User,
	targets *models.NutrientTargets,
	gaps GapVector,
	intake *DailyIntake,
	activity ActivitySnapshot,
	limit int,
) []models.Recommendation {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	var cands []candidate
	cands = append(cands, a.nutrientAdjustments(gaps)...)
	cands = append(cands, a.foodSuggestions(user, gaps)...)
	cands = append(cands, a.conditionAlerts(user, gaps, intake)...)
	if c, ok := a.hydrationReminder(targets, activity); ok {
		cands = append(cands, c)
	}
	if c, ok := a.activitySuggestion(user, targets, activity); ok {
		cands = append(cands, c)
	}

	sortCandidates(cands)
	a.log.Debugw("rule pipeline produced candidates", "user_id", user.ID, "count", len(cands))

	kept := cands
	if len(kept) > limit {
		kept = kept[:limit]
	}

	// Alerts always surface, even past the limit.
	for _, c := range cands {
		if !c.rec.Type.IsAlert() {
			continue
		}
		found := false
		for _, k := range kept {
			if k.rec.Type == c.rec.Type && k.rec.Title == c.rec.Title {
				found = true
				break
			}
		}
		if !found {
			kept = append(kept, c)
		}
	}
	sortCandidates(kept)

	out := make([]models.Recommendation, 0, len(kept))
	for _, c := range kept {
		c.rec.UserID = user.ID
		c.rec.IsActive = true
		out = append(out, c.rec)
	}
	return out
}

// deficiencyPriority maps how far below target an intake sits to a priority;
// anything under half the target is critical.
func (a *AdvisorService) deficiencyPriority(ratio float64) int {
	switch {
	case ratio < a.cfg.Critical:
		return models.PriorityCritical
	case ratio < (a.cfg.Critical+0.8)/2:
		return models.PriorityHigh
	default:
		return models.PriorityMedium
	}
}

func (a *AdvisorService) nutrientAdjustments(gaps GapVector) []candidate {
	var out []candidate
	for _, g := range gaps.Deficient() {
		if g.Nutrient == NutrientHydration {
			continue // handled by the hydration rule
		}
		adj := models.NutrientAdjustment{
			Nutrient:    g.Nutrient,
			Current:     g.Actual,
			Recommended: g.Target,
			Amount:      math.Abs(g.Delta),
			Direction:   "increase",
			Unit:        g.Unit,
			Reason: fmt.Sprintf("Your %s intake is below target, which may impact %s.",
				displayName(g.Nutrient), benefit(g.Nutrient)),
			FoodSources: nutrientFoodSources[g.Nutrient],
		}

		rec := models.Recommendation{
			Type:        models.RecNutrientAdjustment,
			Priority:    a.deficiencyPriority(g.Ratio),
			Confidence:  models.ConfidenceHigh,
			Title:       fmt.Sprintf("Increase your %s intake", displayName(g.Nutrient)),
			Description: fmt.Sprintf("You have had %.0f of %.0f %s today.", g.Actual, g.Target, g.Unit),
		}
		if err := rec.SetPayload(models.RecommendationPayload{NutrientAdjustments: []models.NutrientAdjustment{adj}}); err != nil {
			continue
		}
		out = append(out, candidate{rec: rec, severity: math.Abs(g.Delta)})
	}
	return out
}

func benefit(nutrient string) string {
	if b, ok := nutrientBenefits[nutrient]; ok {
		return b
	}
	return "overall health"
}

func (a *AdvisorService) foodSuggestions(user *models.User, gaps GapVector) []candidate {
	var out []candidate
	for _, g := range gaps.Deficient() {
		if g.Nutrient == NutrientHydration || g.Nutrient == NutrientCalories {
			continue
		}
		foods := lookupFoodsByNutrient(g.Nutrient)
		safe, warnings := filterCandidates(foods, user)
		if len(safe) == 0 {
			continue
		}
		if len(safe) > 3 {
			safe = safe[:3]
		}

		items := make([]models.FoodSuggestionItem, 0, len(safe))
		for _, f := range safe {
			items = append(items, models.FoodSuggestionItem{
				FoodName:    f.Name,
				ServingSize: f.ServingSize,
				ServingUnit: f.ServingUnit,
				Calories:    f.Calories,
				ProteinG:    f.Nutrients[NutrientProtein],
				Reason: fmt.Sprintf("Good source of %s (%.1f %s per serving)",
					displayName(g.Nutrient), f.Nutrients[g.Nutrient], g.Unit),
				Benefits: []string{g.Nutrient},
				Warnings: warnings[f.Name],
			})
		}

		rec := models.Recommendation{
			Type:        models.RecFoodSuggestion,
			Priority:    models.PriorityMedium,
			Confidence:  models.ConfidenceMedium,
			Title:       fmt.Sprintf("Foods to close your %s gap", displayName(g.Nutrient)),
			Description: fmt.Sprintf("Suggestions to help you reach your %s target.", displayName(g.Nutrient)),
		}
		if err := rec.SetPayload(models.RecommendationPayload{FoodSuggestions: items}); err != nil {
			continue
		}
		out = append(out, candidate{rec: rec, severity: math.Abs(g.Delta)})
	}
	return out
}

type conditionRule struct {
	match       []string
	title       string
	description string
	safetyNote  string
}

var conditionRules = []conditionRule{
	{
		match:       []string{"diabetes"},
		title:       "Diabetes management",
		description: "Favor high-fiber, low-glycemic foods and limit added sugars to help regulate blood sugar.",
		safetyNote:  "Discuss significant diet changes with your care team, especially if you take insulin.",
	},
	{
		match:       []string{"hypertension", "blood pressure"},
		title:       "Blood pressure management",
		description: "Keep sodium low and favor potassium-rich foods such as fruits, vegetables, and legumes.",
		safetyNote:  "Sodium targets for hypertension are stricter than the general guideline.",
	},
	{
		match:       []string{"heart", "cardiovascular"},
		title:       "Heart health",
		description: "Emphasize soluble fiber and unsaturated fats; limit saturated and trans fats.",
		safetyNote:  "Consult your physician before major dietary changes.",
	},
	{
		match:       []string{"anemia"},
		title:       "Anemia support",
		description: "Pair iron-rich foods with vitamin C sources to improve absorption.",
		safetyNote:  "Iron supplements should only be taken with healthcare provider guidance.",
	},
	{
		match:       []string{"osteoporosis"},
		title:       "Bone health support",
		description: "Prioritize calcium and vitamin D through dairy, fortified foods, or leafy greens.",
		safetyNote:  "Ask your provider whether a vitamin D supplement is appropriate.",
	},
}

// conditionAlerts emits a HEALTH_ALERT per known condition, and a
// SAFETY_ALERT when today's intake directly conflicts with the condition.
func (a *AdvisorService) conditionAlerts(user *models.User, gaps GapVector, intake *DailyIntake) []candidate {
	var out []candidate
	for _, hc := range user.HealthConditions {
		name := strings.ToLower(hc.Name)
		for _, rule := range conditionRules {
			matched := false
			for _, m := range rule.match {
				if strings.Contains(name, m) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}

			out = append(out, candidate{rec: models.Recommendation{
				Type:        models.RecHealthAlert,
				Priority:    models.PriorityHigh,
				Confidence:  models.ConfidenceHigh,
				Title:       rule.title,
				Description: rule.description,
				SafetyNote:  rule.safetyNote,
			}})

			if sa, ok := a.safetyAlert(rule, gaps, intake); ok {
				out = append(out, sa)
			}
			break
		}
	}
	return out
}

func (a *AdvisorService) safetyAlert(rule conditionRule, gaps GapVector, intake *DailyIntake) (candidate, bool) {
	switch rule.title {
	case "Blood pressure management":
		if g, ok := gaps[NutrientSodium]; ok && g.Status == StatusExceeded {
			return candidate{
				rec: models.Recommendation{
					Type:       models.RecSafetyAlert,
					Priority:   models.PriorityCritical,
					Confidence: models.ConfidenceHigh,
					Title:      "Sodium intake over your limit",
					Description: fmt.Sprintf("Today's sodium (%.0f mg) is above your %.0f mg limit, which matters with your blood pressure condition.",
						g.Actual, g.Target),
					SafetyNote: "Avoid adding salt for the rest of the day and favor fresh foods over processed ones.",
				},
				severity: math.Abs(g.Delta),
			}, true
		}
	case "Diabetes management":
		if intake != nil && intake.Totals.SugarG > 50 {
			return candidate{
				rec: models.Recommendation{
					Type:       models.RecSafetyAlert,
					Priority:   models.PriorityCritical,
					Confidence: models.ConfidenceHigh,
					Title:      "High sugar intake today",
					Description: fmt.Sprintf("You have logged %.0f g of sugar today; with diabetes this warrants attention.",
						intake.Totals.SugarG),
					SafetyNote: "Monitor your blood glucose and favor low-glycemic foods for remaining meals.",
				},
				severity: intake.Totals.SugarG,
			}, true
		}
	}
	return candidate{}, false
}

func (a *AdvisorService) hydrationReminder(targets *models.NutrientTargets, activity ActivitySnapshot) (candidate, bool) {
	goal := targets.HydrationGlasses
	if goal <= 0 || activity.Hydration >= goal*a.cfg.Hydration.Deficient {
		return candidate{}, false
	}

	remaining := goal - activity.Hydration
	priority := models.PriorityMedium
	if activity.Hydration < goal*a.cfg.Critical {
		priority = models.PriorityHigh
	}

	rec := models.Recommendation{
		Type:        models.RecHydration,
		Priority:    priority,
		Confidence:  models.ConfidenceHigh,
		Title:       "Drink more water",
		Description: fmt.Sprintf("You have logged %.0f of %.0f glasses today.", activity.Hydration, goal),
	}
	if err := rec.SetPayload(models.RecommendationPayload{SuggestedAmount: remaining}); err != nil {
		return candidate{}, false
	}
	return candidate{rec: rec, severity: remaining}, true
}

func (a *AdvisorService) activitySuggestion(user *models.User, targets *models.NutrientTargets, activity ActivitySnapshot) (candidate, bool) {
	switch user.PrimaryGoal {
	case models.GoalWeightLoss, models.GoalWeightGain, models.GoalMuscleGain:
	default:
		return candidate{}, false
	}
	if targets.ExerciseMinutes <= 0 || activity.Exercise >= targets.ExerciseMinutes {
		return candidate{}, false
	}

	remaining := targets.ExerciseMinutes - activity.Exercise
	rec := models.Recommendation{
		Type:       models.RecActivity,
		Priority:   models.PriorityMedium,
		Confidence: models.ConfidenceMedium,
		Title:      "Add some movement today",
		Description: fmt.Sprintf("You have logged %.0f of %.0f active minutes toward your %s goal.",
			activity.Exercise, targets.ExerciseMinutes, strings.ReplaceAll(string(user.PrimaryGoal), "_", " ")),
	}
	err := rec.SetPayload(models.RecommendationPayload{Activities: []models.ActivityItem{{
		Activity:        "brisk walk",
		DurationMinutes: remaining,
		Reason:          "Fills the remainder of today's activity target.",
	}}})
	if err != nil {
		return candidate{}, false
	}
	return candidate{rec: rec, severity: remaining}, true
}

func confidenceRank(c models.ConfidenceLevel) int {
	switch c {
	case models.ConfidenceHigh:
		return 3
	case models.ConfidenceMedium:
		return 2
	default:
		return 1
	}
}

// Ordering: priority ascending, then confidence descending, then severity
// descending.
func sortCandidates(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.rec.Priority != b.rec.Priority {
			return a.rec.Priority < b.rec.Priority
		}
		if ca, cb := confidenceRank(a.rec.Confidence), confidenceRank(b.rec.Confidence); ca != cb {
			return ca > cb
		}
		return a.severity > b.severity
	})
}
