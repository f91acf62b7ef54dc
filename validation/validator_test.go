package validation

import (
	"testing"

	"food-pick/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItem() models.MenuItem {
	return models.MenuItem{
		Name: "비빔밥", Category: models.CategoryKorean, PriceRange: models.PriceUnder10K,
		AloneScore: 5, DateScore: 3, FamilyScore: 4, GroupScore: 3,
		HotWeatherScore: 4, ColdWeatherScore: 3, RainyWeatherScore: 3,
	}
}

func TestStructMenuItem(t *testing.T) {
	require.NoError(t, Struct(validItem()))

	tests := []struct {
		name    string
		mutate  func(*models.MenuItem)
		wantMsg string
	}{
		{"missing name", func(m *models.MenuItem) { m.Name = "" }, "Name is required"},
		{"bad category", func(m *models.MenuItem) { m.Category = "PIZZA" }, `unknown category "PIZZA"`},
		{"bad price range", func(m *models.MenuItem) { m.PriceRange = "FREE" }, `unknown price range "FREE"`},
		{"score too high", func(m *models.MenuItem) { m.DateScore = 6 }, "DateScore must be at most 5"},
		{"score missing", func(m *models.MenuItem) { m.RainyWeatherScore = 0 }, "RainyWeatherScore must be at least 1"},
		{"too spicy", func(m *models.MenuItem) { m.SpicyLevel = 9 }, "SpicyLevel must be at most 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validItem()
			tt.mutate(&m)
			err := Struct(m)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestStructQueryParams(t *testing.T) {
	type query struct {
		Max *int `validate:"required,min=0,max=5"`
	}
	three, nine := 3, 9
	assert.NoError(t, Struct(query{Max: &three}))
	assert.EqualError(t, Struct(query{}), "Max is required")
	assert.EqualError(t, Struct(query{Max: &nine}), "Max must be at most 5")
}
