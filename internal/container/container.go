// Package container provides dependency injection for the fintrack application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/fintrack/internal/categorizer"
	"fjacquet/fintrack/internal/classifier"
	"fjacquet/fintrack/internal/config"
	"fjacquet/fintrack/internal/importer"
	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/modelstore"
	"fjacquet/fintrack/internal/rules"
	"fjacquet/fintrack/internal/storage"
	"fjacquet/fintrack/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// It acts as the central registry for dependency injection, ensuring that all
// components receive their required dependencies through constructors.
//
// Container is immutable after creation. Close releases the database.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	categories *store.CategoryStore
	db         *storage.Store
	models     *modelstore.FileStore
	classifier *classifier.Classifier
	engine     *categorizer.Engine
	importer   *importer.Importer
}

// NewContainer creates and wires all application dependencies with a logger
// built from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an injected logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	// Category catalog: a missing file is tolerated, a malformed one is not
	categoryStore := store.NewCategoryStore(cfg.CategoriesPath(), logger)
	if _, err := categoryStore.LoadCategories(); err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	db, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.DatabasePath(), err)
	}

	// Classifier, restored from the last saved model when one is usable
	modelStore := modelstore.NewFileStore(cfg.ModelPath(), logger)
	clf := classifier.New(classifier.Config{
		MinSamples:  cfg.Categorization.MinTrainingSamples,
		MaxFeatures: cfg.Categorization.MaxFeatures,
	}, modelStore, logger)
	if state, ok := modelStore.Load(); ok {
		clf.Restore(state)
	}

	engine, err := categorizer.NewEngine(categorizer.Config{
		SimilarityThreshold: cfg.Categorization.SimilarityThreshold,
		RuleThreshold:       cfg.Categorization.RuleThreshold,
		MinTrainingSamples:  cfg.Categorization.MinTrainingSamples,
		DefaultCategory:     cfg.Categorization.DefaultCategory,
	}, categorizer.Dependencies{
		Model:       clf,
		Rules:       rules.NewMatcher(db, logger),
		Training:    db,
		Categories:  categoryStore,
		Corrections: db,
		Transactor:  db,
	}, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	logger.Info("Container initialized successfully",
		logging.Field{Key: "database", Value: cfg.DatabasePath()},
		logging.Field{Key: "model", Value: cfg.ModelPath()},
		logging.Field{Key: "ml_trained", Value: clf.Stats().Trained})

	return &Container{
		logger:     logger,
		config:     cfg,
		categories: categoryStore,
		db:         db,
		models:     modelStore,
		classifier: clf,
		engine:     engine,
		importer:   importer.NewImporter(db, logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetEngine returns the categorization engine.
func (c *Container) GetEngine() *categorizer.Engine {
	return c.engine
}

// GetStore returns the category catalog.
func (c *Container) GetStore() *store.CategoryStore {
	return c.categories
}

// GetStorage returns the SQLite store.
func (c *Container) GetStorage() *storage.Store {
	return c.db
}

// GetClassifier returns the statistical classifier.
func (c *Container) GetClassifier() *classifier.Classifier {
	return c.classifier
}

// GetImporter returns the training data importer bound to the database.
func (c *Container) GetImporter() *importer.Importer {
	return c.importer
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	c.logger.Info("Container closed")
	return nil
}
