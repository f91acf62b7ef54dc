package store

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"

	"food-pick/models"
)

// MemoryStore keeps the catalog in a slice. It backs tests and the "memory"
// store driver, which is seeded from the embedded catalog at startup.
type MemoryStore struct {
	mu     sync.RWMutex
	items  []models.MenuItem
	nextID int64
}

func NewMemoryStore(items ...models.MenuItem) *MemoryStore {
	s := &MemoryStore{nextID: 1}
	for _, it := range items {
		it := it
		_ = s.Create(context.Background(), &it)
	}
	return s
}

func (s *MemoryStore) FetchAll(ctx context.Context) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MenuItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryStore) Find(ctx context.Context, q Query) ([]models.MenuItem, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Filter(s.items, q), nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	m := s.items[i]
	return &m, nil
}

func (s *MemoryStore) Sample(ctx context.Context, n int) ([]models.MenuItem, error) {
	all, _ := s.FetchAll(ctx)

	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if n < len(all) {
		all = all[:max(n, 0)]
	}
	return all, nil
}

// Create keeps an explicit positive ID (seed files may pin IDs) and assigns
// the next free one otherwise.
func (s *MemoryStore) Create(ctx context.Context, item *models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID <= 0 || s.indexOf(item.ID) >= 0 {
		item.ID = s.nextID
	}
	if item.ID >= s.nextID {
		s.nextID = item.ID + 1
	}
	s.items = append(s.items, *item)
	sort.SliceStable(s.items, func(i, j int) bool { return s.items[i].ID < s.items[j].ID })
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *MemoryStore) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
