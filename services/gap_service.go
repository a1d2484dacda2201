package services

import (
	"math"
	"sort"

	"github.com/Pradhyumna23/Nourish-AI/models"
)

// Nutrient keys used across the gap vector, the knowledge base, and the
// recommendation payloads.
const (
	NutrientCalories  = "calories"
	NutrientProtein   = "protein_g"
	NutrientCarbs     = "carbs_g"
	NutrientFat       = "fat_g"
	NutrientFiber     = "fiber_g"
	NutrientSugar     = "sugar_g"
	NutrientSodium    = "sodium_mg"
	NutrientCalcium   = "calcium_mg"
	NutrientIron      = "iron_mg"
	NutrientVitaminC  = "vitamin_c_mg"
	NutrientPotassium = "potassium_mg"
	NutrientHydration = "hydration"
)

type GapStatus string

const (
	StatusDeficient GapStatus = "deficient"
	StatusAdequate  GapStatus = "adequate"
	StatusExceeded  GapStatus = "exceeded"
)

// NutrientGap is one entry of the gap vector. Delta is signed: target minus
// actual, so a positive delta means the user still has room to eat.
type NutrientGap struct {
	Nutrient string    `json:"nutrient"`
	Actual   float64   `json:"actual"`
	Target   float64   `json:"target"`
	Delta    float64   `json:"delta"`
	Ratio    float64   `json:"ratio"`
	Status   GapStatus `json:"status"`
	Unit     string    `json:"unit"`
}

// GapVector is ephemeral per-request output; it is never persisted.
type GapVector map[string]NutrientGap

// ThresholdPair holds the deficiency and excess ratios for a nutrient class.
type ThresholdPair struct {
	Deficient float64
	Excess    float64
}

// GapConfig holds the ratio thresholds used to classify every nutrient.
type GapConfig struct {
	Calories  ThresholdPair
	Macros    ThresholdPair
	Micros    ThresholdPair
	Hydration ThresholdPair
	Critical  float64 // ratio under which a deficiency is critical
}

func DefaultGapConfig() GapConfig {
	return GapConfig{
		Calories:  ThresholdPair{Deficient: 0.8, Excess: 1.2},
		Macros:    ThresholdPair{Deficient: 0.8, Excess: 1.2},
		Micros:    ThresholdPair{Deficient: 0.6, Excess: 1.5},
		Hydration: ThresholdPair{Deficient: 0.8, Excess: 1.5},
		Critical:  0.5,
	}
}

func (c GapConfig) thresholdsFor(nutrient string) ThresholdPair {
	switch nutrient {
	case NutrientCalories:
		return c.Calories
	case NutrientProtein, NutrientCarbs, NutrientFat, NutrientFiber:
		return c.Macros
	case NutrientSodium:
		// Sodium is a limit, not a goal: it gets the tight excess bound
		// and never classifies as deficient.
		return c.Macros
	case NutrientHydration:
		return c.Hydration
	default:
		return c.Micros
	}
}

func nutrientUnit(nutrient string) string {
	switch nutrient {
	case NutrientCalories:
		return "kcal"
	case NutrientProtein, NutrientCarbs, NutrientFat, NutrientFiber, NutrientSugar:
		return "g"
	case NutrientHydration:
		return "glasses"
	default:
		return "mg"
	}
}

// AnalyzeGaps compares a daily intake against targets and classifies each
// tracked nutrient. Pure: no I/O, no clock, no database.
func AnalyzeGaps(intake IntakeTotals, hydration float64, targets *models.NutrientTargets, cfg GapConfig) GapVector {
	pairs := []struct {
		name   string
		actual float64
		target float64
	}{
		{NutrientCalories, intake.Calories, targets.Calories},
		{NutrientProtein, intake.ProteinG, targets.ProteinG},
		{NutrientCarbs, intake.CarbsG, targets.CarbsG},
		{NutrientFat, intake.FatG, targets.FatG},
		{NutrientFiber, intake.FiberG, targets.FiberG},
		{NutrientCalcium, intake.CalciumMg, targets.CalciumMg},
		{NutrientIron, intake.IronMg, targets.IronMg},
		{NutrientVitaminC, intake.VitaminCMg, targets.VitaminCMg},
		{NutrientPotassium, intake.PotassiumMg, targets.PotassiumMg},
		{NutrientSodium, intake.SodiumMg, targets.SodiumMg},
		{NutrientHydration, hydration, targets.HydrationGlasses},
	}

	gv := make(GapVector, len(pairs))
	for _, p := range pairs {
		gv[p.name] = classify(p.name, p.actual, p.target, cfg)
	}
	return gv
}

func classify(nutrient string, actual, target float64, cfg GapConfig) NutrientGap {
	g := NutrientGap{
		Nutrient: nutrient,
		Actual:   actual,
		Target:   target,
		Delta:    target - actual,
		Status:   StatusAdequate,
		Unit:     nutrientUnit(nutrient),
	}
	if target <= 0 {
		return g
	}

	g.Ratio = actual / target
	th := cfg.thresholdsFor(nutrient)
	switch {
	case actual > target*th.Excess:
		g.Status = StatusExceeded
	case actual < target*th.Deficient && !limitOnly(nutrient):
		g.Status = StatusDeficient
	}
	return g
}

// limitOnly marks nutrients tracked against an upper bound. Staying well
// under the bound is fine, so they are never deficient.
func limitOnly(nutrient string) bool {
	return nutrient == NutrientSodium
}

// Deficient returns the deficient entries ordered by severity, largest
// absolute delta first.
func (gv GapVector) Deficient() []NutrientGap {
	out := make([]NutrientGap, 0, len(gv))
	for _, g := range gv {
		if g.Status == StatusDeficient {
			out = append(out, g)
		}
	}
	sortGapsBySeverity(out)
	return out
}

// Exceeded returns the exceeded entries ordered by severity.
func (gv GapVector) Exceeded() []NutrientGap {
	out := make([]NutrientGap, 0, len(gv))
	for _, g := range gv {
		if g.Status == StatusExceeded {
			out = append(out, g)
		}
	}
	sortGapsBySeverity(out)
	return out
}

func sortGapsBySeverity(gaps []NutrientGap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		return math.Abs(gaps[i].Delta) > math.Abs(gaps[j].Delta)
	})
}
