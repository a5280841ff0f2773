// Package store provides the category catalog: a flat, read-only table of
// categories loaded from YAML and indexed by id and name.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"fjacquet/fintrack/internal/fileutils"
	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/models"
)

// CategoryStore manages loading and lookup of category data
type CategoryStore struct {
	CategoriesFile string

	logger logging.Logger

	mu     sync.RWMutex
	byID   map[int64]models.Category
	byName map[string]int64
}

// NewCategoryStore creates a new store for the categories file
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &CategoryStore{
		CategoriesFile: categoriesFile,
		logger:         logger,
		byID:           make(map[int64]models.Category),
		byName:         make(map[string]int64),
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".fintrack", filename),
	}
	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "fintrack", filename)
		if fileutils.FileExists(configPath) {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadCategories reads, validates and indexes the categories file. A missing
// file yields an empty catalog, not an error.
func (s *CategoryStore) LoadCategories() ([]models.Category, error) {
	filename := s.CategoriesFile
	if filename == "" {
		filename = "categories.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.Warn("Categories file not found, catalog is empty",
			logging.Field{Key: logging.FieldFile, Value: filename})
		s.install(nil)
		return []models.Category{}, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	categories, err := parseCategories(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", filePath, err)
	}
	if err := validateCatalog(categories); err != nil {
		return nil, fmt.Errorf("invalid categories file %s: %w", filePath, err)
	}

	s.install(categories)
	s.logger.Debug("Loaded categories",
		logging.Field{Key: logging.FieldCount, Value: len(categories)},
		logging.Field{Key: logging.FieldFile, Value: filePath})
	return categories, nil
}

// parseCategories accepts either the "categories:" document or a bare list.
func parseCategories(data []byte) ([]models.Category, error) {
	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err == nil && len(cfg.Categories) > 0 {
		return cfg.Categories, nil
	}

	var categories []models.Category
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func validateCatalog(categories []models.Category) error {
	ids := make(map[int64]struct{}, len(categories))
	names := make(map[string]int64, len(categories))

	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := ids[c.ID]; dup {
			return fmt.Errorf("duplicate category id %d", c.ID)
		}
		ids[c.ID] = struct{}{}

		key := nameKey(c.Name)
		if other, dup := names[key]; dup {
			return fmt.Errorf("category name %q used by ids %d and %d", c.Name, other, c.ID)
		}
		names[key] = c.ID
	}

	for _, c := range categories {
		if c.ParentID == nil {
			continue
		}
		if _, ok := ids[*c.ParentID]; !ok {
			return fmt.Errorf("category %d (%s) references unknown parent %d", c.ID, c.Name, *c.ParentID)
		}
	}
	return nil
}

func (s *CategoryStore) install(categories []models.Category) {
	byID := make(map[int64]models.Category, len(categories))
	byName := make(map[string]int64, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
		byName[nameKey(c.Name)] = c.ID
	}

	s.mu.Lock()
	s.byID = byID
	s.byName = byName
	s.mu.Unlock()
}

// CategoryIDByName resolves a category name, ignoring case and surrounding
// whitespace.
func (s *CategoryStore) CategoryIDByName(name string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[nameKey(name)]
	return id, ok
}

// CategoryByID returns the category with the given id.
func (s *CategoryStore) CategoryByID(id int64) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	return c, ok
}

// Categories returns the catalog sorted by id.
func (s *CategoryStore) Categories() []models.Category {
	s.mu.RLock()
	out := make([]models.Category, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
