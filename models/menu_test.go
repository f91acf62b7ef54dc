package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"KOREAN", CategoryKorean, false},
		{"korean", CategoryKorean, false},
		{" Japanese ", CategoryJapanese, false},
		{"카페/디저트", CategoryCafe, false},
		{"뷔페", CategoryBuffet, false},
		{"pizza", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoriesHaveDisplayNames(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 9)
	for _, c := range cats {
		assert.True(t, c.Valid(), c)
		assert.NotEmpty(t, c.DisplayName(), c)
	}
}

func TestPriceRangeBands(t *testing.T) {
	assert.Equal(t, 0, PriceUnder10K.MinPrice())
	assert.Equal(t, 10000, PriceUnder10K.MaxPrice())
	assert.Equal(t, 10000, PriceUnder20K.MinPrice())
	assert.Equal(t, 30000, PriceOver30K.MinPrice())
	assert.Equal(t, math.MaxInt32, PriceOver30K.MaxPrice())
	assert.Equal(t, "1만원 이하", PriceUnder10K.DisplayName())

	tests := []struct {
		price int
		want  PriceRange
	}{
		{0, PriceUnder10K},
		{9999, PriceUnder10K},
		{10000, PriceUnder20K},
		{25000, PriceUnder30K},
		{30000, PriceOver30K},
		{120000, PriceOver30K},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceRangeFor(tt.price), "price %d", tt.price)
	}
}

func TestParsePriceRange(t *testing.T) {
	got, err := ParsePriceRange("under_20k")
	require.NoError(t, err)
	assert.Equal(t, PriceUnder20K, got)

	_, err = ParsePriceRange("cheap")
	assert.Error(t, err)
}

func TestScoreFieldOf(t *testing.T) {
	m := MenuItem{
		AloneScore: 1, DateScore: 2, FamilyScore: 3, GroupScore: 4,
		HotWeatherScore: 5, ColdWeatherScore: 1, RainyWeatherScore: 2,
	}
	want := map[ScoreField]int{
		ScoreAlone: 1, ScoreDate: 2, ScoreFamily: 3, ScoreGroup: 4,
		ScoreHotWeather: 5, ScoreColdWeather: 1, ScoreRainyWeather: 2,
	}
	for f, v := range want {
		assert.Equal(t, v, f.Of(m), f)
	}
	assert.Equal(t, NeutralScore, ScoreField("bogus").Of(m))
}

func TestScoreFieldColumn(t *testing.T) {
	assert.Equal(t, "alone_score", ScoreAlone.Column())
	assert.Equal(t, "rainy_weather_score", ScoreRainyWeather.Column())
	assert.Equal(t, "", ScoreField("name; DROP TABLE menus").Column())
}
