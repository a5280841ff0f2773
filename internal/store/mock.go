package store

import (
	"strings"

	"fjacquet/fintrack/internal/models"
)

// MockCategoryStore is an in-memory catalog for tests.
type MockCategoryStore struct {
	Categories []models.Category
}

// CategoryIDByName resolves name case-insensitively.
func (m *MockCategoryStore) CategoryIDByName(name string) (int64, bool) {
	for _, c := range m.Categories {
		if strings.EqualFold(strings.TrimSpace(name), c.Name) {
			return c.ID, true
		}
	}
	return 0, false
}

// CategoryByID returns the category with the given id.
func (m *MockCategoryStore) CategoryByID(id int64) (models.Category, bool) {
	for _, c := range m.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}
