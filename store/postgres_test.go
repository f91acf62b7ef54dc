package store

import (
	"context"
	"os"
	"testing"

	"food-pick/logger"
	"food-pick/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWhere(t *testing.T) {
	tests := []struct {
		name     string
		q        Query
		wantSQL  string
		wantArgs []any
	}{
		{"empty", NewQuery(), "", nil},
		{"match none", NewQuery().WithCategoryIn([]models.Category{}), " WHERE FALSE", nil},
		{
			"categories",
			NewQuery().WithCategories(models.CategoryKorean, models.CategoryCafe),
			" WHERE category = ANY($1)",
			[]any{[]string{"KOREAN", "CAFE"}},
		},
		{
			"spicy and diet",
			NewQuery().WithMaxSpicy(2).WithDietFriendly(true),
			" WHERE spicy_level <= $1 AND is_diet_friendly = $2",
			[]any{2, true},
		},
		{
			"liquid and price",
			NewQuery().WithLiquidOrSauce(false).WithPriceRange(models.PriceUnder20K),
			" WHERE has_liquid_or_sauce = $1 AND price_range = $2",
			[]any{false, "UNDER_20K"},
		},
		{
			"name is escaped",
			NewQuery().WithNameContaining("100%_"),
			" WHERE name ILIKE $1",
			[]any{`%100\%\_%`},
		},
		{
			"scores",
			NewQuery().WithScoreAtLeast(models.ScoreDate, 3).WithScoreAtLeast(models.ScoreRainyWeather, 4),
			" WHERE date_score >= $1 AND rainy_weather_score >= $2",
			[]any{3, 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := buildWhere(tt.q)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

// Integration test against a live database. Set TEST_POSTGRES_DSN to a
// database with the migrations applied; the menus table is truncated.
func TestPostgresStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("skipping postgres integration test: TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, `TRUNCATE menus RESTART IDENTITY`)
	require.NoError(t, err)

	s := NewPostgresStore(pool, logger.Nop())
	for _, m := range sampleMenus() {
		m := m
		require.NoError(t, s.Create(ctx, &m))
	}

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	q := NewQuery().WithMaxSpicy(3).WithLiquidOrSauce(true).WithScoreAtLeast(models.ScoreColdWeather, 3)
	got, err := s.Find(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, names(Filter(all, q)), names(got))

	got, err = s.Find(ctx, NewQuery().WithNameContaining("100%"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Pasta 100%"}, names(got))

	_, err = s.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 999), ErrNotFound)

	sample, err := s.Sample(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, sample, 2)
}
