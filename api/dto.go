package api

import (
	"strings"

	"food-pick/models"
	"food-pick/services"
)

type ScoresResponse struct {
	Alone        int `json:"alone"`
	Date         int `json:"date"`
	Family       int `json:"family"`
	Group        int `json:"group"`
	HotWeather   int `json:"hotWeather"`
	ColdWeather  int `json:"coldWeather"`
	RainyWeather int `json:"rainyWeather"`
}

type MenuResponse struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Category          models.Category   `json:"category"`
	CategoryDisplay   string            `json:"categoryDisplay"`
	Description       *string           `json:"description"`
	Calories          *int              `json:"calories"`
	SpicyLevel        int               `json:"spicyLevel"`
	HasLiquidOrSauce  bool              `json:"hasLiquidOrSauce"`
	IsDietFriendly    bool              `json:"isDietFriendly"`
	PriceRange        models.PriceRange `json:"priceRange"`
	PriceRangeDisplay string            `json:"priceRangeDisplay"`
	Scores            ScoresResponse    `json:"scores"`
}

func NewMenuResponse(m models.MenuItem) MenuResponse {
	return MenuResponse{
		ID:                m.ID,
		Name:              m.Name,
		Category:          m.Category,
		CategoryDisplay:   m.Category.DisplayName(),
		Description:       m.Description,
		Calories:          m.Calories,
		SpicyLevel:        m.SpicyLevel,
		HasLiquidOrSauce:  m.HasLiquidOrSauce,
		IsDietFriendly:    m.DietFriendly,
		PriceRange:        m.PriceRange,
		PriceRangeDisplay: m.PriceRange.DisplayName(),
		Scores: ScoresResponse{
			Alone:        m.AloneScore,
			Date:         m.DateScore,
			Family:       m.FamilyScore,
			Group:        m.GroupScore,
			HotWeather:   m.HotWeatherScore,
			ColdWeather:  m.ColdWeatherScore,
			RainyWeather: m.RainyWeatherScore,
		},
	}
}

func NewMenuResponses(items []models.MenuItem) []MenuResponse {
	out := make([]MenuResponse, len(items))
	for i, m := range items {
		out[i] = NewMenuResponse(m)
	}
	return out
}

type EnumResponse struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}

type spicyQuery struct {
	Max *int `form:"max" validate:"required,min=0,max=5"`
}

type searchQuery struct {
	Name string `form:"name" validate:"required"`
}

type categoriesQuery struct {
	Categories []string `form:"categories"`
}

type minScoreQuery struct {
	MinScore int `form:"minScore" validate:"omitempty,min=1,max=5"`
}

type randomQuery struct {
	Count int `form:"count" validate:"min=0"`
}

type filterQuery struct {
	Categories       []string `form:"categories"`
	MaxSpicy         *int     `form:"maxSpicy" validate:"omitempty,min=0,max=5"`
	DietFriendly     *bool    `form:"dietFriendly"`
	HasLiquidOrSauce *bool    `form:"hasLiquidOrSauce"`
	PriceRange       string   `form:"priceRange"`
}

// recommendRequest is read from the query string on GET and from the JSON
// body on POST.
type recommendRequest struct {
	Categories   []string `form:"categories" json:"categories"`
	Situation    string   `form:"situation" json:"situation"`
	Weather      string   `form:"weather" json:"weather"`
	MaxSpicy     *int     `form:"maxSpicy" json:"maxSpicy" validate:"omitempty,min=0,max=5"`
	DietFriendly *bool    `form:"dietFriendly" json:"dietFriendly"`
	AvoidLiquid  *bool    `form:"avoidLiquid" json:"avoidLiquid"`
	PriceRange   string   `form:"priceRange" json:"priceRange"`
}

func (r recommendRequest) raw() services.RawCriteria {
	return services.RawCriteria{
		Categories:   splitList(r.Categories),
		Situation:    r.Situation,
		Weather:      r.Weather,
		MaxSpicy:     r.MaxSpicy,
		DietFriendly: r.DietFriendly,
		AvoidLiquid:  r.AvoidLiquid,
		PriceRange:   r.PriceRange,
	}
}

// splitList accepts both ?c=A&c=B and ?c=A,B.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseCategories(values []string) ([]models.Category, error) {
	parts := splitList(values)
	out := make([]models.Category, 0, len(parts))
	for _, p := range parts {
		c, err := models.ParseCategory(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
