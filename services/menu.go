package services

import (
	"context"
	"fmt"

	"food-pick/logger"
	"food-pick/metrics"
	"food-pick/models"
	"food-pick/store"
)

const (
	DefaultMinScore    = 4
	DefaultRandomCount = 5
	MaxRandomCount     = 20
)

// Filter is the composite attribute filter. Unset fields pass everything.
type Filter struct {
	Categories       []models.Category
	MaxSpicy         *int
	DietFriendly     *bool
	HasLiquidOrSauce *bool
	PriceRange       *models.PriceRange
}

func (f Filter) Query() store.Query {
	q := store.NewQuery().WithCategories(f.Categories...)
	if f.MaxSpicy != nil {
		q = q.WithMaxSpicy(*f.MaxSpicy)
	}
	if f.DietFriendly != nil {
		q = q.WithDietFriendly(*f.DietFriendly)
	}
	if f.HasLiquidOrSauce != nil {
		q = q.WithLiquidOrSauce(*f.HasLiquidOrSauce)
	}
	if f.PriceRange != nil {
		q = q.WithPriceRange(*f.PriceRange)
	}
	return q
}

// MenuService exposes catalog lookups and recommendations over a MenuStore.
type MenuService struct {
	store store.MenuStore
	log   *logger.Logger
}

func NewMenuService(s store.MenuStore, baseLog *logger.Logger) *MenuService {
	return &MenuService{store: s, log: baseLog.With("service", "MenuService")}
}

func (s *MenuService) All(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return items, nil
}

func (s *MenuService) ByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get menu %d: %w", id, err)
	}
	return m, nil
}

func (s *MenuService) ByCategory(ctx context.Context, c models.Category) ([]models.MenuItem, error) {
	return s.find(ctx, store.NewQuery().WithCategory(c))
}

// ByCategories keeps items in any of cs. An empty cs yields nothing.
func (s *MenuService) ByCategories(ctx context.Context, cs []models.Category) ([]models.MenuItem, error) {
	return s.find(ctx, store.NewQuery().WithCategoryIn(cs))
}

func (s *MenuService) SearchByName(ctx context.Context, name string) ([]models.MenuItem, error) {
	return s.find(ctx, store.NewQuery().WithNameContaining(name))
}

func (s *MenuService) BySpicyLevel(ctx context.Context, maxLevel int) ([]models.MenuItem, error) {
	return s.find(ctx, store.NewQuery().WithMaxSpicy(maxLevel))
}

func (s *MenuService) DietFriendly(ctx context.Context) ([]models.MenuItem, error) {
	return s.find(ctx, store.NewQuery().WithDietFriendly(true))
}

func (s *MenuService) WithoutLiquid(ctx context.Context) ([]models.MenuItem, error) {
	return s.find(ctx, store.NewQuery().WithLiquidOrSauce(false))
}

func (s *MenuService) ByPriceRange(ctx context.Context, p models.PriceRange) ([]models.MenuItem, error) {
	return s.find(ctx, store.NewQuery().WithPriceRange(p))
}

func (s *MenuService) Filtered(ctx context.Context, f Filter) ([]models.MenuItem, error) {
	return s.find(ctx, f.Query())
}

// ForSituation keeps items scoring at least minScore for sit. minScore <= 0
// means DefaultMinScore. None and Unknown have no score column and yield
// nothing.
func (s *MenuService) ForSituation(ctx context.Context, sit models.Situation, minScore int) ([]models.MenuItem, error) {
	f, ok := sit.ScoreField()
	if !ok {
		return []models.MenuItem{}, nil
	}
	return s.find(ctx, store.NewQuery().WithScoreAtLeast(f, orDefault(minScore)))
}

// ForWeather is like ForSituation but only answers hot and cold weather.
func (s *MenuService) ForWeather(ctx context.Context, w models.Weather, minScore int) ([]models.MenuItem, error) {
	var f models.ScoreField
	switch w {
	case models.WeatherHot:
		f = models.ScoreHotWeather
	case models.WeatherCold:
		f = models.ScoreColdWeather
	default:
		return []models.MenuItem{}, nil
	}
	return s.find(ctx, store.NewQuery().WithScoreAtLeast(f, orDefault(minScore)))
}

// Random samples count items. count <= 0 means DefaultRandomCount and the
// result never exceeds MaxRandomCount.
func (s *MenuService) Random(ctx context.Context, count int) ([]models.MenuItem, error) {
	if count <= 0 {
		count = DefaultRandomCount
	}
	items, err := s.store.Sample(ctx, min(count, MaxRandomCount))
	if err != nil {
		return nil, fmt.Errorf("sample menus: %w", err)
	}
	return items, nil
}

// Recommend pushes the attribute filter down to the store and ranks what
// comes back.
func (s *MenuService) Recommend(ctx context.Context, c Criteria) ([]models.MenuItem, error) {
	metrics.RecommendationsServed.WithLabelValues(c.Situation.String(), c.Weather.String()).Inc()

	var result []models.MenuItem
	if c.Weather.Seasonal() {
		result = []models.MenuItem{}
	} else {
		candidates, err := s.find(ctx, c.BasicQuery())
		if err != nil {
			return nil, err
		}
		result = Rank(candidates, c.Situation, c.Weather)
	}

	metrics.RecommendationResultSize.Observe(float64(len(result)))
	s.log.Debug("recommendation served",
		"situation", c.Situation.String(),
		"weather", c.Weather.String(),
		"results", len(result),
	)
	return result, nil
}

func (s *MenuService) find(ctx context.Context, q store.Query) ([]models.MenuItem, error) {
	items, err := s.store.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find menus: %w", err)
	}
	return items, nil
}

func orDefault(minScore int) int {
	if minScore <= 0 {
		return DefaultMinScore
	}
	return minScore
}
