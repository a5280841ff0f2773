// Package models provides the data structures shared by the categorization engine,
// its storage adapters and its transports.
package models

import "fmt"

// Category is an entry of the flat category table. Hierarchy is expressed by
// ParentID only; the categorizer consumes ids and never walks the tree.
type Category struct {
	ID          int64  `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	ParentID    *int64 `yaml:"parent_id,omitempty" json:"parent_id,omitempty"`
}

// Validate checks the structural constraints of a single category entry.
func (c Category) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("category %q: id must be positive, got %d", c.Name, c.ID)
	}
	if c.Name == "" {
		return fmt.Errorf("category %d: name is required", c.ID)
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return fmt.Errorf("category %d (%s) references itself as parent", c.ID, c.Name)
	}
	return nil
}

// CategoriesConfig represents the structure of the categories YAML file
type CategoriesConfig struct {
	Categories []Category `yaml:"categories"`
}

// LabeledDescription is one training sample: a raw description and the
// category it was filed under.
type LabeledDescription struct {
	Description string `json:"description" csv:"description"`
	CategoryID  int64  `json:"category_id" csv:"category_id"`
}
