package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"food-pick/models"
	"food-pick/store"
)

// TopN is the maximum number of recommendations returned.
const TopN = 3

// Criteria narrows a recommendation. Nil pointers and empty slices impose no
// constraint; Situation and Weather default to None.
type Criteria struct {
	Categories   []models.Category
	Situation    models.Situation
	Weather      models.Weather
	MaxSpicy     *int
	DietFriendly *bool
	// AvoidLiquid set to true keeps only items without soup or sauce.
	// False behaves like nil.
	AvoidLiquid *bool
	PriceRange  *models.PriceRange
}

// BasicQuery is the attribute stage of the recommendation, everything
// except the situation and weather scores.
func (c Criteria) BasicQuery() store.Query {
	q := store.NewQuery().WithCategories(c.Categories...)
	if c.MaxSpicy != nil {
		q = q.WithMaxSpicy(*c.MaxSpicy)
	}
	if c.DietFriendly != nil {
		q = q.WithDietFriendly(*c.DietFriendly)
	}
	if c.AvoidLiquid != nil && *c.AvoidLiquid {
		q = q.WithLiquidOrSauce(false)
	}
	if c.PriceRange != nil {
		q = q.WithPriceRange(*c.PriceRange)
	}
	return q
}

// RawCriteria is Criteria as it arrives from HTTP, the bot or the CLI.
type RawCriteria struct {
	Categories   []string `json:"categories"`
	Situation    string   `json:"situation"`
	Weather      string   `json:"weather"`
	MaxSpicy     *int     `json:"maxSpicy"`
	DietFriendly *bool    `json:"dietFriendly"`
	AvoidLiquid  *bool    `json:"avoidLiquid"`
	PriceRange   string   `json:"priceRange"`
}

// CriteriaFromStrings parses raw input. Situation and weather never fail:
// unrecognized values become Unknown. Categories and price ranges are closed
// sets, so an unknown value is an error. A price range may also be given as a
// budget in won, which selects the band containing it.
func CriteriaFromStrings(raw RawCriteria) (Criteria, error) {
	c := Criteria{
		Situation:    models.ParseSituation(raw.Situation),
		Weather:      models.ParseWeather(raw.Weather),
		MaxSpicy:     raw.MaxSpicy,
		DietFriendly: raw.DietFriendly,
		AvoidLiquid:  raw.AvoidLiquid,
	}
	for _, s := range raw.Categories {
		if strings.TrimSpace(s) == "" {
			continue
		}
		cat, err := models.ParseCategory(s)
		if err != nil {
			return Criteria{}, err
		}
		c.Categories = append(c.Categories, cat)
	}
	if strings.TrimSpace(raw.PriceRange) != "" {
		p, err := parsePrice(raw.PriceRange)
		if err != nil {
			return Criteria{}, fmt.Errorf("criteria: %w", err)
		}
		c.PriceRange = &p
	}
	return c, nil
}

func parsePrice(s string) (models.PriceRange, error) {
	if won, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && won >= 0 {
		return models.PriceRangeFor(won), nil
	}
	return models.ParsePriceRange(s)
}

// Recommend returns up to TopN items from catalog, best first.
func Recommend(catalog []models.MenuItem, c Criteria) []models.MenuItem {
	if c.Weather.Seasonal() {
		return []models.MenuItem{}
	}
	return Rank(store.Filter(catalog, c.BasicQuery()), c.Situation, c.Weather)
}

type scored struct {
	item  models.MenuItem
	score int
}

// Rank runs the situation and weather stages over candidates that already
// passed the basic filter, then keeps the TopN by combined score. Ties keep
// candidate order.
func Rank(candidates []models.MenuItem, s models.Situation, w models.Weather) []models.MenuItem {
	if w.Seasonal() {
		return []models.MenuItem{}
	}

	ranked := make([]scored, 0, len(candidates))
	for _, m := range candidates {
		total := s.Score(m)
		if total < models.NeutralScore {
			continue
		}
		if w != models.WeatherNone {
			ws := w.Score(m)
			if ws < models.NeutralScore {
				continue
			}
			total += ws
		}
		ranked = append(ranked, scored{item: m, score: total})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]models.MenuItem, 0, min(len(ranked), TopN))
	for _, r := range ranked[:min(len(ranked), TopN)] {
		out = append(out, r.item)
	}
	return out
}
