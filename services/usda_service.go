package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/Pradhyumna23/Nourish-AI/models"
)

const usdaDefaultBaseURL = "https://api.nal.usda.gov/fdc/v1"

// FDC nutrient numbers used to map search results into our snapshot fields.
const (
	fdcEnergy    = "1008"
	fdcProtein   = "1003"
	fdcCarbs     = "1005"
	fdcFat       = "1004"
	fdcFiber     = "1079"
	fdcSugar     = "2000"
	fdcSodium    = "1093"
	fdcCalcium   = "1087"
	fdcIron      = "1089"
	fdcVitaminC  = "1162"
	fdcPotassium = "1092"
)

// NutrientProfile lives on models.FoodItem so cached rows keep their
// nutrient breakdown; aliased here where all the mapping happens.
type NutrientProfile = models.NutrientProfile

// FoodSearchResult pairs the cached food row with its nutrient profile.
type FoodSearchResult struct {
	Food      models.FoodItem `json:"food"`
	Nutrients NutrientProfile `json:"nutrients"`
}

type USDAService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewUSDAService reads USDA_API_KEY from the environment. The base URL is
// overridable for tests.
func NewUSDAService() *USDAService {
	base := os.Getenv("USDA_BASE_URL")
	if base == "" {
		base = usdaDefaultBaseURL
	}
	return &USDAService{
		apiKey:  os.Getenv("USDA_API_KEY"),
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type fdcSearchResponse struct {
	Foods []struct {
		FdcID         int64  `json:"fdcId"`
		Description   string `json:"description"`
		DataType      string `json:"dataType"`
		BrandOwner    string `json:"brandOwner"`
		FoodCategory  string `json:"foodCategory"`
		FoodNutrients []struct {
			NutrientNumber string  `json:"nutrientNumber"`
			Value          float64 `json:"value"`
		} `json:"foodNutrients"`
	} `json:"foods"`
}

// SearchFoods queries the Food Data Central search endpoint and returns
// foods with their nutrient profiles mapped to our snapshot fields.
func (s *USDAService) SearchFoods(query string, pageSize int) ([]FoodSearchResult, error) {
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 10
	}
	u := fmt.Sprintf(
		"%s/foods/search?query=%s&pageSize=%d&api_key=%s",
		s.baseURL, url.QueryEscape(query), pageSize, s.apiKey,
	)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call FDC search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read FDC search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FDC search API error %d: %s", resp.StatusCode, string(body))
	}

	var sr fdcSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse FDC search JSON: %w", err)
	}

	results := make([]FoodSearchResult, 0, len(sr.Foods))
	for _, f := range sr.Foods {
		r := FoodSearchResult{
			Food: models.FoodItem{
				FdcID:       f.FdcID,
				Description: f.Description,
				DataType:    f.DataType,
				BrandOwner:  f.BrandOwner,
				Category:    f.FoodCategory,
			},
		}
		for _, n := range f.FoodNutrients {
			applyNutrient(&r.Nutrients, n.NutrientNumber, n.Value)
		}
		results = append(results, r)
	}
	return results, nil
}

type fdcFoodResponse struct {
	FdcID         int64  `json:"fdcId"`
	Description   string `json:"description"`
	DataType      string `json:"dataType"`
	BrandOwner    string `json:"brandOwner"`
	FoodCategory  string `json:"foodCategory"`
	FoodNutrients []struct {
		Nutrient struct {
			Number string `json:"number"`
		} `json:"nutrient"`
		Amount float64 `json:"amount"`
	} `json:"foodNutrients"`
}

// GetFood fetches a single food by FDC id. The detail endpoint nests the
// nutrient number differently than search does.
func (s *USDAService) GetFood(fdcID int64) (*FoodSearchResult, error) {
	u := fmt.Sprintf("%s/food/%d?api_key=%s", s.baseURL, fdcID, s.apiKey)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call FDC food endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read FDC food response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("food %d: %w", fdcID, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FDC food API error %d: %s", resp.StatusCode, string(body))
	}

	var fr fdcFoodResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("failed to parse FDC food JSON: %w", err)
	}

	r := &FoodSearchResult{
		Food: models.FoodItem{
			FdcID:       fr.FdcID,
			Description: fr.Description,
			DataType:    fr.DataType,
			BrandOwner:  fr.BrandOwner,
			Category:    fr.FoodCategory,
		},
	}
	for _, n := range fr.FoodNutrients {
		applyNutrient(&r.Nutrients, n.Nutrient.Number, n.Amount)
	}
	return r, nil
}

func applyNutrient(p *NutrientProfile, number string, value float64) {
	switch number {
	case fdcEnergy:
		p.Calories = value
	case fdcProtein:
		p.ProteinG = value
	case fdcCarbs:
		p.CarbsG = value
	case fdcFat:
		p.FatG = value
	case fdcFiber:
		p.FiberG = value
	case fdcSugar:
		p.SugarG = value
	case fdcSodium:
		p.SodiumMg = value
	case fdcCalcium:
		p.CalciumMg = value
	case fdcIron:
		p.IronMg = value
	case fdcVitaminC:
		p.VitaminCMg = value
	case fdcPotassium:
		p.PotassiumMg = value
	}
}
