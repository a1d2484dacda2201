package services

import (
	"sort"
	"strings"

	"github.com/Pradhyumna23/Nourish-AI/models"
)

// FoodCandidate is an entry of the curated food-nutrient knowledge base used
// for rule-based food suggestions. Tags drive allergy and restriction
// filtering.
type FoodCandidate struct {
	Name        string
	Tags        []string
	ServingSize float64
	ServingUnit string
	Calories    float64
	Nutrients   map[string]float64
}

// Curated entries, roughly one serving each. Values are approximate and only
// need to rank foods against each other.
var foodKnowledgeBase = []FoodCandidate{
	{Name: "Grilled chicken breast", Tags: []string{"meat", "poultry"}, ServingSize: 100, ServingUnit: "g", Calories: 165,
		Nutrients: map[string]float64{NutrientProtein: 31, NutrientIron: 1.0}},
	{Name: "Baked salmon", Tags: []string{"fish"}, ServingSize: 100, ServingUnit: "g", Calories: 208,
		Nutrients: map[string]float64{NutrientProtein: 22, NutrientCalcium: 12, NutrientPotassium: 384}},
	{Name: "Cooked lentils", Tags: []string{"legume"}, ServingSize: 200, ServingUnit: "g", Calories: 230,
		Nutrients: map[string]float64{NutrientProtein: 18, NutrientFiber: 15.6, NutrientIron: 6.6, NutrientPotassium: 731}},
	{Name: "Greek yogurt", Tags: []string{"dairy"}, ServingSize: 170, ServingUnit: "g", Calories: 100,
		Nutrients: map[string]float64{NutrientProtein: 17, NutrientCalcium: 187}},
	{Name: "Firm tofu", Tags: []string{"soy", "vegan"}, ServingSize: 100, ServingUnit: "g", Calories: 144,
		Nutrients: map[string]float64{NutrientProtein: 17, NutrientCalcium: 350, NutrientIron: 2.7}},
	{Name: "Hard-boiled eggs", Tags: []string{"egg"}, ServingSize: 100, ServingUnit: "g", Calories: 155,
		Nutrients: map[string]float64{NutrientProtein: 13, NutrientIron: 1.2}},
	{Name: "Peanut butter", Tags: []string{"peanut", "nuts"}, ServingSize: 32, ServingUnit: "g", Calories: 190,
		Nutrients: map[string]float64{NutrientProtein: 8, NutrientFiber: 1.9}},
	{Name: "Almonds", Tags: []string{"nuts", "tree nuts"}, ServingSize: 28, ServingUnit: "g", Calories: 164,
		Nutrients: map[string]float64{NutrientProtein: 6, NutrientFiber: 3.5, NutrientCalcium: 76}},
	{Name: "Rolled oats", Tags: []string{"grain"}, ServingSize: 40, ServingUnit: "g", Calories: 150,
		Nutrients: map[string]float64{NutrientProtein: 5, NutrientFiber: 4, NutrientIron: 1.7}},
	{Name: "Cooked quinoa", Tags: []string{"grain", "vegan"}, ServingSize: 185, ServingUnit: "g", Calories: 222,
		Nutrients: map[string]float64{NutrientProtein: 8, NutrientFiber: 5.2, NutrientIron: 2.8}},
	{Name: "Steamed spinach", Tags: []string{"vegetable", "vegan"}, ServingSize: 180, ServingUnit: "g", Calories: 41,
		Nutrients: map[string]float64{NutrientFiber: 4.3, NutrientIron: 6.4, NutrientCalcium: 245, NutrientVitaminC: 17.6, NutrientPotassium: 839}},
	{Name: "Broccoli", Tags: []string{"vegetable", "vegan"}, ServingSize: 156, ServingUnit: "g", Calories: 55,
		Nutrients: map[string]float64{NutrientFiber: 5.1, NutrientVitaminC: 101, NutrientCalcium: 62}},
	{Name: "Orange", Tags: []string{"fruit", "citrus", "vegan"}, ServingSize: 131, ServingUnit: "g", Calories: 62,
		Nutrients: map[string]float64{NutrientFiber: 3.1, NutrientVitaminC: 70, NutrientCalcium: 52}},
	{Name: "Strawberries", Tags: []string{"fruit", "vegan"}, ServingSize: 152, ServingUnit: "g", Calories: 49,
		Nutrients: map[string]float64{NutrientFiber: 3, NutrientVitaminC: 89}},
	{Name: "Fortified breakfast cereal", Tags: []string{"grain", "gluten"}, ServingSize: 40, ServingUnit: "g", Calories: 150,
		Nutrients: map[string]float64{NutrientFiber: 5, NutrientIron: 8.1, NutrientCalcium: 130}},
	{Name: "Low-fat milk", Tags: []string{"dairy"}, ServingSize: 244, ServingUnit: "g", Calories: 102,
		Nutrients: map[string]float64{NutrientProtein: 8, NutrientCalcium: 305}},
	{Name: "Canned sardines", Tags: []string{"fish"}, ServingSize: 92, ServingUnit: "g", Calories: 191,
		Nutrients: map[string]float64{NutrientProtein: 23, NutrientCalcium: 351, NutrientIron: 2.7}},
	{Name: "Black beans", Tags: []string{"legume", "vegan"}, ServingSize: 172, ServingUnit: "g", Calories: 227,
		Nutrients: map[string]float64{NutrientProtein: 15, NutrientFiber: 15, NutrientIron: 3.6, NutrientPotassium: 611}},
	{Name: "Banana", Tags: []string{"fruit", "vegan"}, ServingSize: 118, ServingUnit: "g", Calories: 105,
		Nutrients: map[string]float64{NutrientFiber: 3.1, NutrientVitaminC: 10.3, NutrientPotassium: 422}},
	{Name: "Chia seeds", Tags: []string{"seed", "vegan"}, ServingSize: 28, ServingUnit: "g", Calories: 138,
		Nutrients: map[string]float64{NutrientProtein: 4.7, NutrientFiber: 9.8, NutrientCalcium: 179}},
	{Name: "Lean beef", Tags: []string{"meat", "red meat"}, ServingSize: 100, ServingUnit: "g", Calories: 250,
		Nutrients: map[string]float64{NutrientProtein: 26, NutrientIron: 2.6}},
	{Name: "Red bell pepper", Tags: []string{"vegetable", "vegan"}, ServingSize: 119, ServingUnit: "g", Calories: 37,
		Nutrients: map[string]float64{NutrientFiber: 2.5, NutrientVitaminC: 152}},
	{Name: "Whole-wheat bread", Tags: []string{"grain", "gluten"}, ServingSize: 43, ServingUnit: "g", Calories: 110,
		Nutrients: map[string]float64{NutrientProtein: 5, NutrientFiber: 3}},
}

// Tags a strict restriction forbids outright.
var strictRestrictionTags = map[string][]string{
	"vegan":       {"meat", "poultry", "red meat", "fish", "shellfish", "dairy", "egg"},
	"vegetarian":  {"meat", "poultry", "red meat", "fish", "shellfish"},
	"pescatarian": {"meat", "poultry", "red meat"},
	"gluten_free": {"gluten"},
	"dairy_free":  {"dairy"},
	"nut_free":    {"nuts", "tree nuts", "peanut"},
}

// Keyword groups for matching free-text food names (AI suggestions) against
// allergies.
var allergenKeywords = map[string][]string{
	"milk":      {"milk", "dairy", "cheese", "butter", "cream", "yogurt"},
	"eggs":      {"egg", "eggs"},
	"fish":      {"fish", "salmon", "tuna", "cod", "sardine"},
	"shellfish": {"shrimp", "crab", "lobster", "shellfish"},
	"tree nuts": {"almond", "walnut", "pecan", "cashew", "pistachio", "nut"},
	"peanuts":   {"peanut", "peanuts"},
	"wheat":     {"wheat", "flour", "bread", "pasta", "gluten"},
	"soy":       {"soy", "tofu", "soybean", "edamame"},
}

// lookupFoodsByNutrient returns knowledge-base foods carrying the nutrient,
// best sources first.
func lookupFoodsByNutrient(nutrient string) []FoodCandidate {
	var out []FoodCandidate
	for _, f := range foodKnowledgeBase {
		if f.Nutrients[nutrient] > 0 {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Nutrients[nutrient] > out[j].Nutrients[nutrient]
	})
	return out
}

func tagMatchesAllergy(tag, allergy string) bool {
	return strings.Contains(tag, allergy) || strings.Contains(allergy, tag)
}

// filterCandidates enforces the safety property: foods whose tags intersect
// the user's allergies or violate a strict restriction are removed with no
// substitute; moderate-restriction matches survive with a warning.
func filterCandidates(foods []FoodCandidate, user *models.User) (safe []FoodCandidate, warnings map[string][]string) {
	allergies := user.AllergyList()
	warnings = make(map[string][]string)

	for _, f := range foods {
		excluded := false
		var flags []string

		for _, tag := range f.Tags {
			tag = strings.ToLower(tag)
			for _, allergy := range allergies {
				if tagMatchesAllergy(tag, allergy) {
					excluded = true
				}
			}
		}

		for _, r := range user.DietaryRestrictions {
			banned := strictRestrictionTags[strings.ToLower(r.Type)]
			for _, tag := range f.Tags {
				for _, b := range banned {
					if strings.EqualFold(tag, b) {
						switch r.Strictness {
						case models.StrictnessStrict:
							excluded = true
						case models.StrictnessModerate:
							flags = append(flags, "conflicts with "+r.Type+" preference")
						}
					}
				}
			}
		}

		if excluded {
			continue
		}
		if len(flags) > 0 {
			warnings[f.Name] = flags
		}
		safe = append(safe, f)
	}
	return safe, warnings
}

// foodNameAllowed checks a free-text food name (for example one introduced by
// the AI) against the user's allergies and strict restrictions. Used to
// re-apply the same safety filter over AI output.
func foodNameAllowed(name string, user *models.User) bool {
	lower := strings.ToLower(name)

	// Match against the knowledge base first so tag data is used when we
	// have it.
	for _, f := range foodKnowledgeBase {
		if strings.EqualFold(f.Name, name) {
			safe, _ := filterCandidates([]FoodCandidate{f}, user)
			return len(safe) > 0
		}
	}

	for _, allergy := range user.AllergyList() {
		keywords := []string{allergy}
		for group, kws := range allergenKeywords {
			if strings.Contains(allergy, group) || strings.Contains(group, allergy) {
				keywords = append(keywords, kws...)
			}
		}
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return false
			}
		}
	}

	for _, r := range user.DietaryRestrictions {
		if r.Strictness != models.StrictnessStrict {
			continue
		}
		for _, tag := range strictRestrictionTags[strings.ToLower(r.Type)] {
			if strings.Contains(lower, tag) {
				return false
			}
		}
	}
	return true
}
