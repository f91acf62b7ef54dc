package models

import (
	"fmt"
	"math"
	"strings"
)

// NeutralScore is the score assumed when no situation or weather applies,
// and the minimum a scored item needs to stay in a recommendation.
const NeutralScore = 3

type Category string

const (
	CategoryKorean   Category = "KOREAN"
	CategoryWestern  Category = "WESTERN"
	CategoryJapanese Category = "JAPANESE"
	CategoryChinese  Category = "CHINESE"
	CategorySnack    Category = "SNACK"
	CategoryCafe     Category = "CAFE"
	CategoryBuffet   Category = "BUFFET"
	CategoryAsian    Category = "ASIAN"
	CategoryOther    Category = "OTHER"
)

var categoryDisplay = map[Category]string{
	CategoryKorean:   "한식",
	CategoryWestern:  "양식",
	CategoryJapanese: "일식",
	CategoryChinese:  "중식",
	CategorySnack:    "간식",
	CategoryCafe:     "카페/디저트",
	CategoryBuffet:   "뷔페",
	CategoryAsian:    "아시안",
	CategoryOther:    "기타",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryKorean, CategoryWestern, CategoryJapanese, CategoryChinese,
		CategorySnack, CategoryCafe, CategoryBuffet, CategoryAsian, CategoryOther,
	}
}

func (c Category) DisplayName() string { return categoryDisplay[c] }

func (c Category) Valid() bool {
	_, ok := categoryDisplay[c]
	return ok
}

// ParseCategory accepts the enum name in any case or the display name.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	c := Category(strings.ToUpper(s))
	if c.Valid() {
		return c, nil
	}
	for cat, name := range categoryDisplay {
		if name == s {
			return cat, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

type PriceRange string

const (
	PriceUnder10K PriceRange = "UNDER_10K"
	PriceUnder20K PriceRange = "UNDER_20K"
	PriceUnder30K PriceRange = "UNDER_30K"
	PriceOver30K  PriceRange = "OVER_30K"
)

type priceBand struct {
	display  string
	min, max int
}

var priceBands = map[PriceRange]priceBand{
	PriceUnder10K: {"1만원 이하", 0, 10000},
	PriceUnder20K: {"1~2만원", 10000, 20000},
	PriceUnder30K: {"2~3만원", 20000, 30000},
	PriceOver30K:  {"3만원 이상", 30000, math.MaxInt32},
}

func PriceRanges() []PriceRange {
	return []PriceRange{PriceUnder10K, PriceUnder20K, PriceUnder30K, PriceOver30K}
}

func (p PriceRange) DisplayName() string { return priceBands[p].display }

// MinPrice is the inclusive lower bound of the band in won.
func (p PriceRange) MinPrice() int { return priceBands[p].min }

// MaxPrice is the exclusive upper bound of the band in won.
func (p PriceRange) MaxPrice() int { return priceBands[p].max }

func (p PriceRange) Valid() bool {
	_, ok := priceBands[p]
	return ok
}

func ParsePriceRange(s string) (PriceRange, error) {
	p := PriceRange(strings.ToUpper(strings.TrimSpace(s)))
	if p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("unknown price range: %q", s)
}

// PriceRangeFor returns the band a price in won falls into.
func PriceRangeFor(price int) PriceRange {
	for _, p := range PriceRanges() {
		if price >= p.MinPrice() && price < p.MaxPrice() {
			return p
		}
	}
	return PriceOver30K
}

// MenuItem is a row from the menus table.
type MenuItem struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id" yaml:"id"`
	Name             string     `gorm:"not null" json:"name" yaml:"name" validate:"required"`
	Category         Category   `gorm:"type:varchar(32);not null" json:"category" yaml:"category" validate:"required,category"`
	Description      *string    `gorm:"size:500" json:"description,omitempty" yaml:"description,omitempty" validate:"omitempty,max=500"`
	Calories         *int       `json:"calories,omitempty" yaml:"calories,omitempty" validate:"omitempty,min=0"`
	SpicyLevel       int        `json:"spicy_level" yaml:"spicy_level" validate:"min=0,max=5"`
	HasLiquidOrSauce bool       `json:"has_liquid_or_sauce" yaml:"has_liquid_or_sauce"`
	DietFriendly     bool       `gorm:"column:is_diet_friendly" json:"is_diet_friendly" yaml:"diet_friendly"`
	PriceRange       PriceRange `gorm:"type:varchar(16)" json:"price_range" yaml:"price_range" validate:"required,price_range"`

	AloneScore  int `json:"alone_score" yaml:"alone_score" validate:"min=1,max=5"`
	DateScore   int `json:"date_score" yaml:"date_score" validate:"min=1,max=5"`
	FamilyScore int `json:"family_score" yaml:"family_score" validate:"min=1,max=5"`
	GroupScore  int `json:"group_score" yaml:"group_score" validate:"min=1,max=5"`

	HotWeatherScore   int `json:"hot_weather_score" yaml:"hot_weather_score" validate:"min=1,max=5"`
	ColdWeatherScore  int `json:"cold_weather_score" yaml:"cold_weather_score" validate:"min=1,max=5"`
	RainyWeatherScore int `json:"rainy_weather_score" yaml:"rainy_weather_score" validate:"min=1,max=5"`
}

func (MenuItem) TableName() string { return "menus" }

func (m MenuItem) String() string {
	return fmt.Sprintf("MenuItem(id=%d, name=%q, category=%s)", m.ID, m.Name, m.Category)
}

// ScoreField names one of the per-context score columns.
type ScoreField string

const (
	ScoreAlone        ScoreField = "alone"
	ScoreDate         ScoreField = "date"
	ScoreFamily       ScoreField = "family"
	ScoreGroup        ScoreField = "group"
	ScoreHotWeather   ScoreField = "hot_weather"
	ScoreColdWeather  ScoreField = "cold_weather"
	ScoreRainyWeather ScoreField = "rainy_weather"
)

func ScoreFields() []ScoreField {
	return []ScoreField{
		ScoreAlone, ScoreDate, ScoreFamily, ScoreGroup,
		ScoreHotWeather, ScoreColdWeather, ScoreRainyWeather,
	}
}

// Column is the database column holding the score. Empty for unknown fields.
func (f ScoreField) Column() string {
	for _, known := range ScoreFields() {
		if f == known {
			return string(f) + "_score"
		}
	}
	return ""
}

// Of reads the field from m. Unknown fields read as NeutralScore.
func (f ScoreField) Of(m MenuItem) int {
	switch f {
	case ScoreAlone:
		return m.AloneScore
	case ScoreDate:
		return m.DateScore
	case ScoreFamily:
		return m.FamilyScore
	case ScoreGroup:
		return m.GroupScore
	case ScoreHotWeather:
		return m.HotWeatherScore
	case ScoreColdWeather:
		return m.ColdWeatherScore
	case ScoreRainyWeather:
		return m.RainyWeatherScore
	default:
		return NeutralScore
	}
}
