package models

import "strings"

// Situation is the social context a meal is eaten in.
type Situation int

const (
	SituationNone Situation = iota
	SituationAlone
	SituationDate
	SituationFamily
	SituationGroup
	// SituationUnknown is a non-blank value that matched no synonym.
	SituationUnknown
)

var situationSynonyms = map[string]Situation{
	"alone":  SituationAlone,
	"혼밥":     SituationAlone,
	"date":   SituationDate,
	"데이트":    SituationDate,
	"family": SituationFamily,
	"가족":     SituationFamily,
	"group":  SituationGroup,
	"회식":     SituationGroup,
	"모임":     SituationGroup,
}

// ParseSituation normalizes user input. Blank input is SituationNone.
func ParseSituation(s string) Situation {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return SituationNone
	}
	if v, ok := situationSynonyms[key]; ok {
		return v
	}
	return SituationUnknown
}

func (s Situation) String() string {
	switch s {
	case SituationNone:
		return "none"
	case SituationAlone:
		return "alone"
	case SituationDate:
		return "date"
	case SituationFamily:
		return "family"
	case SituationGroup:
		return "group"
	default:
		return "unknown"
	}
}

// ScoreField returns the column scoring this situation, false for none/unknown.
func (s Situation) ScoreField() (ScoreField, bool) {
	switch s {
	case SituationAlone:
		return ScoreAlone, true
	case SituationDate:
		return ScoreDate, true
	case SituationFamily:
		return ScoreFamily, true
	case SituationGroup:
		return ScoreGroup, true
	default:
		return "", false
	}
}

// Score is the item's suitability for s, NeutralScore when s has no column.
func (s Situation) Score(m MenuItem) int {
	if f, ok := s.ScoreField(); ok {
		return f.Of(m)
	}
	return NeutralScore
}

// Weather is the ambient condition or season.
type Weather int

const (
	WeatherNone Weather = iota
	WeatherHot
	WeatherCold
	WeatherRainy
	WeatherSnowy
	WeatherSpring
	WeatherAutumn
	WeatherUnknown
)

var weatherSynonyms = map[string]Weather{
	"hot":    WeatherHot,
	"더움":     WeatherHot,
	"더운날":    WeatherHot,
	"여름":     WeatherHot,
	"summer": WeatherHot,
	"cold":   WeatherCold,
	"추움":     WeatherCold,
	"추운날":    WeatherCold,
	"겨울":     WeatherCold,
	"winter": WeatherCold,
	"rainy":  WeatherRainy,
	"비":      WeatherRainy,
	"비오는날":   WeatherRainy,
	"장마":     WeatherRainy,
	"snowy":  WeatherSnowy,
	"눈":      WeatherSnowy,
	"눈오는날":   WeatherSnowy,
	"spring": WeatherSpring,
	"봄":      WeatherSpring,
	"autumn": WeatherAutumn,
	"fall":   WeatherAutumn,
	"가을":     WeatherAutumn,
}

func ParseWeather(s string) Weather {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return WeatherNone
	}
	if v, ok := weatherSynonyms[key]; ok {
		return v
	}
	return WeatherUnknown
}

func (w Weather) String() string {
	switch w {
	case WeatherNone:
		return "none"
	case WeatherHot:
		return "hot"
	case WeatherCold:
		return "cold"
	case WeatherRainy:
		return "rainy"
	case WeatherSnowy:
		return "snowy"
	case WeatherSpring:
		return "spring"
	case WeatherAutumn:
		return "autumn"
	default:
		return "unknown"
	}
}

// Seasonal reports spring and autumn, which carry no weather score.
func (w Weather) Seasonal() bool {
	return w == WeatherSpring || w == WeatherAutumn
}

// ScoreField returns the column scoring this weather. Snow reuses the
// cold-weather column.
func (w Weather) ScoreField() (ScoreField, bool) {
	switch w {
	case WeatherHot:
		return ScoreHotWeather, true
	case WeatherCold, WeatherSnowy:
		return ScoreColdWeather, true
	case WeatherRainy:
		return ScoreRainyWeather, true
	default:
		return "", false
	}
}

func (w Weather) Score(m MenuItem) int {
	if f, ok := w.ScoreField(); ok {
		return f.Of(m)
	}
	return NeutralScore
}
