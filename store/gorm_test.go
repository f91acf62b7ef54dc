package store

import (
	"context"
	"path/filepath"
	"testing"

	"food-pick/logger"
	"food-pick/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menus.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger.Discard})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	s := NewGormStore(gdb, logger.Nop())
	require.NoError(t, s.AutoMigrate(context.Background()))
	for _, m := range sampleMenus() {
		m := m
		require.NoError(t, s.Create(context.Background(), &m))
	}
	return s
}

func TestGormStoreAgreesWithMatches(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	queries := map[string]Query{
		"all":         NewQuery(),
		"none":        NewQuery().WithCategoryIn(nil),
		"categories":  NewQuery().WithCategories(models.CategoryKorean, models.CategoryWestern),
		"spicy":       NewQuery().WithMaxSpicy(1),
		"diet":        NewQuery().WithDietFriendly(true),
		"dry":         NewQuery().WithLiquidOrSauce(false),
		"price":       NewQuery().WithPriceRange(models.PriceOver30K),
		"name":        NewQuery().WithNameContaining("kimchi"),
		"literal pct": NewQuery().WithNameContaining("100%"),
		"scores":      NewQuery().WithScoreAtLeast(models.ScoreHotWeather, 4).WithScoreAtLeast(models.ScoreAlone, 3),
	}
	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			got, err := s.Find(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, names(Filter(sampleMenus(), q)), names(got))
		})
	}
}

func TestGormStoreCRUD(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	m, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Bibimbap", m.Name)
	assert.True(t, m.DietFriendly)

	_, err = s.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, 2))
	assert.ErrorIs(t, s.Delete(ctx, 2), ErrNotFound)

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	sample, err := s.Sample(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, sample, 3)
}
