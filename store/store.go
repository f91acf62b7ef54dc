// Package store is the data-access layer for the menu catalog.
//
// Every backend implements MenuStore. Filters are expressed once as a Query
// and translated by each backend (SQL for pgx and gorm, Query.Matches for the
// in-memory store), so a new filter never needs a new method.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food-pick/models"
)

var ErrNotFound = errors.New("menu not found")

// MenuStore returns menus in ascending id order unless noted otherwise.
type MenuStore interface {
	FetchAll(ctx context.Context) ([]models.MenuItem, error)
	Find(ctx context.Context, q Query) ([]models.MenuItem, error)
	Get(ctx context.Context, id int64) (*models.MenuItem, error)
	// Sample returns up to n menus in random order.
	Sample(ctx context.Context, n int) ([]models.MenuItem, error)
	// Create inserts item and sets its ID.
	Create(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id int64) error
}

// ScoreThreshold keeps menus whose Field score is at least Min.
type ScoreThreshold struct {
	Field models.ScoreField `json:"field"`
	Min   int               `json:"min"`
}

// Query is a conjunction of optional predicates. Nil pointers, empty slices
// and empty strings impose no constraint.
type Query struct {
	Categories       []models.Category  `json:"categories,omitempty"`
	MaxSpicy         *int               `json:"max_spicy,omitempty"`
	DietFriendly     *bool              `json:"diet_friendly,omitempty"`
	HasLiquidOrSauce *bool              `json:"has_liquid_or_sauce,omitempty"`
	PriceRange       *models.PriceRange `json:"price_range,omitempty"`
	NameContains     string             `json:"name_contains,omitempty"`
	Scores           []ScoreThreshold   `json:"scores,omitempty"`

	// MatchNone is set by WithCategoryIn with an empty set.
	MatchNone bool `json:"match_none,omitempty"`
}

// Validate rejects score thresholds on unknown fields, which SQL backends
// cannot translate.
func (q Query) Validate() error {
	for _, s := range q.Scores {
		if s.Field.Column() == "" {
			return fmt.Errorf("unknown score field: %q", s.Field)
		}
	}
	return nil
}

func NewQuery() Query { return Query{} }

func (q Query) WithCategory(c models.Category) Query {
	q.Categories = []models.Category{c}
	return q
}

// WithCategories filters on a category set. An empty set is ignored.
func (q Query) WithCategories(cs ...models.Category) Query {
	if len(cs) == 0 {
		return q
	}
	q.Categories = append([]models.Category(nil), cs...)
	return q
}

// WithCategoryIn is WithCategories except that an empty set matches nothing.
func (q Query) WithCategoryIn(cs []models.Category) Query {
	if len(cs) == 0 {
		q.MatchNone = true
		return q
	}
	return q.WithCategories(cs...)
}

func (q Query) WithMaxSpicy(level int) Query {
	q.MaxSpicy = &level
	return q
}

func (q Query) WithDietFriendly(v bool) Query {
	q.DietFriendly = &v
	return q
}

func (q Query) WithLiquidOrSauce(v bool) Query {
	q.HasLiquidOrSauce = &v
	return q
}

func (q Query) WithPriceRange(p models.PriceRange) Query {
	q.PriceRange = &p
	return q
}

func (q Query) WithNameContaining(s string) Query {
	q.NameContains = s
	return q
}

func (q Query) WithScoreAtLeast(f models.ScoreField, min int) Query {
	q.Scores = append(append([]ScoreThreshold(nil), q.Scores...), ScoreThreshold{Field: f, Min: min})
	return q
}

// Matches is the reference semantics every backend must agree with.
func (q Query) Matches(m models.MenuItem) bool {
	if q.MatchNone {
		return false
	}
	if len(q.Categories) > 0 && !containsCategory(q.Categories, m.Category) {
		return false
	}
	if q.MaxSpicy != nil && m.SpicyLevel > *q.MaxSpicy {
		return false
	}
	if q.DietFriendly != nil && m.DietFriendly != *q.DietFriendly {
		return false
	}
	if q.HasLiquidOrSauce != nil && m.HasLiquidOrSauce != *q.HasLiquidOrSauce {
		return false
	}
	if q.PriceRange != nil && m.PriceRange != *q.PriceRange {
		return false
	}
	if q.NameContains != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(q.NameContains)) {
		return false
	}
	for _, s := range q.Scores {
		if s.Field.Of(m) < s.Min {
			return false
		}
	}
	return true
}

func containsCategory(cs []models.Category, c models.Category) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}

// Filter applies q to an in-memory catalog, preserving order.
func Filter(catalog []models.MenuItem, q Query) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(catalog))
	for _, m := range catalog {
		if q.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}
