package store

import (
	"context"
	"errors"
	"strings"

	"food-pick/logger"
	"food-pick/models"

	"gorm.io/gorm"
)

// GormStore serves the catalog through gorm. It works with any dialect whose
// SQL supports LIKE ... ESCAPE and RANDOM(): postgres and sqlite.
type GormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGormStore(db *gorm.DB, baseLog *logger.Logger) *GormStore {
	return &GormStore{db: db, log: baseLog.With("repo", "GormStore")}
}

// AutoMigrate creates or updates the menus table from the model.
func (s *GormStore) AutoMigrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.MenuItem{})
}

func (s *GormStore) FetchAll(ctx context.Context) ([]models.MenuItem, error) {
	defer observe("gorm", "fetch_all")()
	results := []models.MenuItem{}
	if err := s.db.WithContext(ctx).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *GormStore) Find(ctx context.Context, q Query) ([]models.MenuItem, error) {
	defer observe("gorm", "find")()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	results := []models.MenuItem{}
	if err := applyQuery(s.db.WithContext(ctx), q).Order("id").Find(&results).Error; err != nil {
		s.log.Error("menu query failed", "error", err)
		return nil, err
	}
	return results, nil
}

func (s *GormStore) Get(ctx context.Context, id int64) (*models.MenuItem, error) {
	defer observe("gorm", "get")()
	var m models.MenuItem
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) Sample(ctx context.Context, n int) ([]models.MenuItem, error) {
	defer observe("gorm", "sample")()
	results := []models.MenuItem{}
	if err := s.db.WithContext(ctx).Order("RANDOM()").Limit(max(n, 0)).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *GormStore) Create(ctx context.Context, item *models.MenuItem) error {
	defer observe("gorm", "create")()
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *GormStore) Delete(ctx context.Context, id int64) error {
	defer observe("gorm", "delete")()
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func applyQuery(tx *gorm.DB, q Query) *gorm.DB {
	if q.MatchNone {
		return tx.Where("1 = 0")
	}
	if len(q.Categories) > 0 {
		cats := make([]string, len(q.Categories))
		for i, c := range q.Categories {
			cats[i] = string(c)
		}
		tx = tx.Where("category IN ?", cats)
	}
	if q.MaxSpicy != nil {
		tx = tx.Where("spicy_level <= ?", *q.MaxSpicy)
	}
	if q.DietFriendly != nil {
		tx = tx.Where("is_diet_friendly = ?", *q.DietFriendly)
	}
	if q.HasLiquidOrSauce != nil {
		tx = tx.Where("has_liquid_or_sauce = ?", *q.HasLiquidOrSauce)
	}
	if q.PriceRange != nil {
		tx = tx.Where("price_range = ?", string(*q.PriceRange))
	}
	if q.NameContains != "" {
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q.NameContains))+"%")
	}
	for _, s := range q.Scores {
		tx = tx.Where(s.Field.Column()+" >= ?", s.Min)
	}
	return tx
}
