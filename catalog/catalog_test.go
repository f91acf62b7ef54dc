package catalog

import (
	"context"
	"strings"
	"testing"

	"food-pick/logger"
	"food-pick/models"
	"food-pick/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	items := Default()
	require.NotEmpty(t, items)

	seen := map[string]bool{}
	for _, m := range items {
		assert.False(t, seen[m.Name], "duplicate menu %s", m.Name)
		seen[m.Name] = true
		assert.True(t, m.Category.Valid(), m.Name)
		assert.True(t, m.PriceRange.Valid(), m.Name)
	}
}

func TestLoadRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"unknown field", `
menus:
  - name: x
    category: KOREAN
    price_range: UNDER_10K
    aloen_score: 3
`, "aloen_score"},
		{"score out of range", `
menus:
  - name: x
    category: KOREAN
    price_range: UNDER_10K
    alone_score: 7
    date_score: 3
    family_score: 3
    group_score: 3
    hot_weather_score: 3
    cold_weather_score: 3
    rainy_weather_score: 3
`, "AloneScore must be at most 5"},
		{"bad category", `
menus:
  - name: x
    category: PIZZA
    price_range: UNDER_10K
    alone_score: 3
    date_score: 3
    family_score: 3
    group_score: 3
    hot_weather_score: 3
    cold_weather_score: 3
    rainy_weather_score: 3
`, "unknown category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	items, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	items := Default()

	n, err := Seed(ctx, s, items, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, len(items), n)

	n, err = Seed(ctx, s, items, logger.Nop())
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(items))

	rainy, err := s.Find(ctx, store.NewQuery().WithScoreAtLeast(models.ScoreRainyWeather, 5))
	require.NoError(t, err)
	assert.NotEmpty(t, rainy)
}
