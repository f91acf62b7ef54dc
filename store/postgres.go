package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-pick/logger"
	"food-pick/metrics"
	"food-pick/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const menuColumns = `id, name, category, description, calories, spicy_level, has_liquid_or_sauce,
	is_diet_friendly, price_range, alone_score, date_score, family_score, group_score,
	hot_weather_score, cold_weather_score, rainy_weather_score`

// PostgresStore runs hand-written SQL over a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPostgresStore(pool *pgxpool.Pool, baseLog *logger.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, log: baseLog.With("repo", "PostgresStore")}
}

func (s *PostgresStore) FetchAll(ctx context.Context) ([]models.MenuItem, error) {
	defer observe("postgres", "fetch_all")()
	return s.query(ctx, `SELECT `+menuColumns+` FROM menus ORDER BY id`)
}

func (s *PostgresStore) Find(ctx context.Context, q Query) ([]models.MenuItem, error) {
	defer observe("postgres", "find")()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	where, args := buildWhere(q)
	return s.query(ctx, `SELECT `+menuColumns+` FROM menus`+where+` ORDER BY id`, args...)
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*models.MenuItem, error) {
	defer observe("postgres", "get")()
	row := s.pool.QueryRow(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = $1`, id)
	m, err := scanMenu(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *PostgresStore) Sample(ctx context.Context, n int) ([]models.MenuItem, error) {
	defer observe("postgres", "sample")()
	return s.query(ctx, `SELECT `+menuColumns+` FROM menus ORDER BY RANDOM() LIMIT $1`, max(n, 0))
}

func (s *PostgresStore) Create(ctx context.Context, item *models.MenuItem) error {
	defer observe("postgres", "create")()
	err := s.pool.QueryRow(ctx, `
		INSERT INTO menus (
			name, category, description, calories, spicy_level, has_liquid_or_sauce,
			is_diet_friendly, price_range, alone_score, date_score, family_score, group_score,
			hot_weather_score, cold_weather_score, rainy_weather_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`,
		item.Name, string(item.Category), item.Description, item.Calories, item.SpicyLevel,
		item.HasLiquidOrSauce, item.DietFriendly, string(item.PriceRange),
		item.AloneScore, item.DateScore, item.FamilyScore, item.GroupScore,
		item.HotWeatherScore, item.ColdWeatherScore, item.RainyWeatherScore,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert menu %q: %w", item.Name, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	defer observe("postgres", "delete")()
	tag, err := s.pool.Exec(ctx, `DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]models.MenuItem, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		s.log.Error("menu query failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func scanMenu(row pgx.Row) (models.MenuItem, error) {
	var m models.MenuItem
	var category, priceRange string
	err := row.Scan(
		&m.ID, &m.Name, &category, &m.Description, &m.Calories, &m.SpicyLevel, &m.HasLiquidOrSauce,
		&m.DietFriendly, &priceRange, &m.AloneScore, &m.DateScore, &m.FamilyScore, &m.GroupScore,
		&m.HotWeatherScore, &m.ColdWeatherScore, &m.RainyWeatherScore,
	)
	m.Category = models.Category(category)
	m.PriceRange = models.PriceRange(priceRange)
	return m, err
}

// buildWhere renders q as a WHERE clause with $n placeholders. It returns an
// empty clause when q imposes nothing. q must have passed Validate.
func buildWhere(q Query) (string, []any) {
	if q.MatchNone {
		return " WHERE FALSE", nil
	}
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(q.Categories) > 0 {
		cats := make([]string, len(q.Categories))
		for i, c := range q.Categories {
			cats[i] = string(c)
		}
		conds = append(conds, "category = ANY("+arg(cats)+")")
	}
	if q.MaxSpicy != nil {
		conds = append(conds, "spicy_level <= "+arg(*q.MaxSpicy))
	}
	if q.DietFriendly != nil {
		conds = append(conds, "is_diet_friendly = "+arg(*q.DietFriendly))
	}
	if q.HasLiquidOrSauce != nil {
		conds = append(conds, "has_liquid_or_sauce = "+arg(*q.HasLiquidOrSauce))
	}
	if q.PriceRange != nil {
		conds = append(conds, "price_range = "+arg(string(*q.PriceRange)))
	}
	if q.NameContains != "" {
		conds = append(conds, "name ILIKE "+arg("%"+escapeLike(q.NameContains)+"%"))
	}
	for _, s := range q.Scores {
		conds = append(conds, s.Field.Column()+" >= "+arg(s.Min))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func observe(backend, op string) func() {
	start := time.Now()
	return func() {
		metrics.StoreOperationDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
	}
}
