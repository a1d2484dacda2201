package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUSDA(baseURL string) *USDAService {
	return &USDAService{
		apiKey:  "test",
		baseURL: baseURL,
		client:  &http.Client{Timeout: 2 * time.Second},
	}
}

func TestUSDASearchMapsNutrients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/foods/search", r.URL.Path)
		assert.Equal(t, "chicken breast", r.URL.Query().Get("query"))
		w.Write([]byte(`{"foods":[{
			"fdcId": 171477,
			"description": "Chicken, broiler, breast, grilled",
			"dataType": "SR Legacy",
			"foodCategory": "Poultry Products",
			"foodNutrients": [
				{"nutrientNumber": "1008", "value": 165},
				{"nutrientNumber": "1003", "value": 31},
				{"nutrientNumber": "1004", "value": 3.6},
				{"nutrientNumber": "1093", "value": 74},
				{"nutrientNumber": "9999", "value": 42}
			]
		}]}`))
	}))
	defer srv.Close()

	results, err := testUSDA(srv.URL).SearchFoods("chicken breast", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.EqualValues(t, 171477, r.Food.FdcID)
	assert.Equal(t, "Chicken, broiler, breast, grilled", r.Food.Description)
	assert.Equal(t, "Poultry Products", r.Food.Category)
	assert.InDelta(t, 165, r.Nutrients.Calories, 0.001)
	assert.InDelta(t, 31, r.Nutrients.ProteinG, 0.001)
	assert.InDelta(t, 3.6, r.Nutrients.FatG, 0.001)
	assert.InDelta(t, 74, r.Nutrients.SodiumMg, 0.001)
	assert.Zero(t, r.Nutrients.CarbsG)
}

func TestUSDAGetFoodUsesDetailShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/food/171477", r.URL.Path)
		w.Write([]byte(`{
			"fdcId": 171477,
			"description": "Chicken, broiler, breast, grilled",
			"dataType": "SR Legacy",
			"foodNutrients": [
				{"nutrient": {"number": "1008"}, "amount": 165},
				{"nutrient": {"number": "1003"}, "amount": 31}
			]
		}`))
	}))
	defer srv.Close()

	result, err := testUSDA(srv.URL).GetFood(171477)
	require.NoError(t, err)
	assert.InDelta(t, 165, result.Nutrients.Calories, 0.001)
	assert.InDelta(t, 31, result.Nutrients.ProteinG, 0.001)
}

func TestUSDAGetFoodNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testUSDA(srv.URL).GetFood(99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUSDASearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "invalid api key"}`))
	}))
	defer srv.Close()

	_, err := testUSDA(srv.URL).SearchFoods("rice", 10)
	assert.Error(t, err)
}
