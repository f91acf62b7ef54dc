// Package catalog loads seed menus from YAML. The default catalog is embedded
// in the binary.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"food-pick/logger"
	"food-pick/models"
	"food-pick/store"
	"food-pick/validation"

	"gopkg.in/yaml.v3"
)

//go:embed menus.yaml
var defaultCatalog []byte

type file struct {
	Menus []models.MenuItem `yaml:"menus"`
}

// Load decodes and validates a catalog. Unknown keys are rejected so typos in
// score names do not silently default to zero.
func Load(r io.Reader) ([]models.MenuItem, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, m := range f.Menus {
		if err := validation.Struct(m); err != nil {
			return nil, fmt.Errorf("menu #%d (%s): %w", i+1, m.Name, err)
		}
	}
	return f.Menus, nil
}

func LoadFile(path string) ([]models.MenuItem, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Load(fh)
}

// Default returns the embedded catalog.
func Default() []models.MenuItem {
	items, err := Load(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic("embedded catalog is invalid: " + err.Error())
	}
	return items
}

// Seed inserts items whose name is not in s yet and reports how many were
// created.
func Seed(ctx context.Context, s store.MenuStore, items []models.MenuItem, log *logger.Logger) (int, error) {
	existing, err := s.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: list existing: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, m := range existing {
		seen[m.Name] = true
	}

	created := 0
	for _, m := range items {
		if seen[m.Name] {
			log.Debug("seed: skipping existing menu", "name", m.Name)
			continue
		}
		m.ID = 0
		if err := s.Create(ctx, &m); err != nil {
			return created, fmt.Errorf("seed: %w", err)
		}
		seen[m.Name] = true
		created++
	}
	log.Info("catalog seeded", "created", created, "skipped", len(items)-created)
	return created, nil
}
