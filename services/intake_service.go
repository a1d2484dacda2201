package services

import (
	"time"

	"github.com/Pradhyumna23/Nourish-AI/models"

	"gorm.io/gorm"
)

// IntakeTotals is a per-nutrient sum over food log snapshots.
type IntakeTotals struct {
	Calories    float64 `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
	FiberG      float64 `json:"fiber_g"`
	SugarG      float64 `json:"sugar_g"`
	SodiumMg    float64 `json:"sodium_mg"`
	CalciumMg   float64 `json:"calcium_mg"`
	IronMg      float64 `json:"iron_mg"`
	VitaminCMg  float64 `json:"vitamin_c_mg"`
	PotassiumMg float64 `json:"potassium_mg"`
}

func (t *IntakeTotals) add(e models.FoodLogEntry) {
	t.Calories += e.Calories
	t.ProteinG += e.ProteinG
	t.CarbsG += e.CarbsG
	t.FatG += e.FatG
	t.FiberG += e.FiberG
	t.SugarG += e.SugarG
	t.SodiumMg += e.SodiumMg
	t.CalciumMg += e.CalciumMg
	t.IronMg += e.IronMg
	t.VitaminCMg += e.VitaminCMg
	t.PotassiumMg += e.PotassiumMg
}

// DailyIntake is a derived aggregate for one user and day; it is computed on
// demand and never stored.
type DailyIntake struct {
	Date    time.Time                        `json:"date"`
	Totals  IntakeTotals                     `json:"totals"`
	ByMeal  map[models.MealType]IntakeTotals `json:"by_meal"`
	Entries int                              `json:"entries"`
}

// WeeklySummary aggregates a multi-week window. Averages divide by
// DaysLogged, not calendar days, so unlogged days do not depress them.
type WeeklySummary struct {
	From           time.Time          `json:"from"`
	To             time.Time          `json:"to"`
	DaysLogged     int                `json:"days_logged"`
	Totals         IntakeTotals       `json:"totals"`
	Averages       IntakeTotals       `json:"averages"`
	Adherence      map[string]float64 `json:"adherence,omitempty"`
	AdherenceScore float64            `json:"adherence_score"`
}

type IntakeService struct {
	db *gorm.DB
}

func NewIntakeService(db *gorm.DB) *IntakeService {
	return &IntakeService{db: db}
}

func dayStart(t time.Time) time.Time {
	tt := t.In(time.Local)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.Local)
}

// Daily sums all of a user's entries for one day. No entries yields an
// all-zero aggregate.
func (s *IntakeService) Daily(userID uint, date time.Time) (*DailyIntake, error) {
	start := dayStart(date)
	end := start.Add(24 * time.Hour)

	var entries []models.FoodLogEntry
	if err := s.db.
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	agg := &DailyIntake{
		Date:    start,
		ByMeal:  make(map[models.MealType]IntakeTotals),
		Entries: len(entries),
	}
	for _, e := range entries {
		agg.Totals.add(e)
		meal := agg.ByMeal[e.MealType]
		meal.add(e)
		agg.ByMeal[e.MealType] = meal
	}
	return agg, nil
}

// Weekly builds a summary over the trailing N weeks ending today. Passing
// targets enables adherence scoring; nil skips it.
func (s *IntakeService) Weekly(userID uint, weeks int, targets *models.NutrientTargets) (*WeeklySummary, error) {
	if weeks <= 0 {
		weeks = 1
	}
	end := dayStart(time.Now()).Add(24 * time.Hour)
	start := end.AddDate(0, 0, -7*weeks)

	var entries []models.FoodLogEntry
	if err := s.db.
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	sum := &WeeklySummary{From: start, To: end.Add(-24 * time.Hour)}
	days := map[string]struct{}{}
	for _, e := range entries {
		sum.Totals.add(e)
		days[dayStart(e.Date).Format("2006-01-02")] = struct{}{}
	}
	sum.DaysLogged = len(days)

	if sum.DaysLogged > 0 {
		n := float64(sum.DaysLogged)
		sum.Averages = IntakeTotals{
			Calories:    sum.Totals.Calories / n,
			ProteinG:    sum.Totals.ProteinG / n,
			CarbsG:      sum.Totals.CarbsG / n,
			FatG:        sum.Totals.FatG / n,
			FiberG:      sum.Totals.FiberG / n,
			SugarG:      sum.Totals.SugarG / n,
			SodiumMg:    sum.Totals.SodiumMg / n,
			CalciumMg:   sum.Totals.CalciumMg / n,
			IronMg:      sum.Totals.IronMg / n,
			VitaminCMg:  sum.Totals.VitaminCMg / n,
			PotassiumMg: sum.Totals.PotassiumMg / n,
		}
	}

	if targets != nil && sum.DaysLogged > 0 {
		sum.Adherence = adherence(sum.Averages, targets)
		var total float64
		for _, v := range sum.Adherence {
			total += v
		}
		if len(sum.Adherence) > 0 {
			sum.AdherenceScore = total / float64(len(sum.Adherence))
		}
	}
	return sum, nil
}

// adherence scores each target-bearing nutrient 0–100 by how closely the
// average matched the target.
func adherence(avg IntakeTotals, targets *models.NutrientTargets) map[string]float64 {
	score := func(actual, target float64) (float64, bool) {
		if target <= 0 {
			return 0, false
		}
		diff := actual - target
		if diff < 0 {
			diff = -diff
		}
		pct := 100 * (1 - diff/target)
		if pct < 0 {
			pct = 0
		}
		return pct, true
	}

	out := map[string]float64{}
	if v, ok := score(avg.Calories, targets.Calories); ok {
		out[NutrientCalories] = v
	}
	if v, ok := score(avg.ProteinG, targets.ProteinG); ok {
		out[NutrientProtein] = v
	}
	if v, ok := score(avg.CarbsG, targets.CarbsG); ok {
		out[NutrientCarbs] = v
	}
	if v, ok := score(avg.FatG, targets.FatG); ok {
		out[NutrientFat] = v
	}
	if v, ok := score(avg.FiberG, targets.FiberG); ok {
		out[NutrientFiber] = v
	}
	return out
}
