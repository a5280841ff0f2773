// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/fintrack/internal/models"
)

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CategorizationConfig holds the tunables of the categorization engine.
type CategorizationConfig struct {
	MinTrainingSamples  int     `mapstructure:"min_training_samples" yaml:"min_training_samples"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
	RuleThreshold       float64 `mapstructure:"rule_threshold" yaml:"rule_threshold"`
	DefaultCategory     string  `mapstructure:"default_category" yaml:"default_category"`
	MaxFeatures         int     `mapstructure:"max_features" yaml:"max_features"`
}

// DataConfig locates the files the application reads and writes. Relative
// file names are resolved against Directory.
type DataConfig struct {
	Directory      string `mapstructure:"directory" yaml:"directory"`
	DatabaseFile   string `mapstructure:"database_file" yaml:"database_file"`
	ModelFile      string `mapstructure:"model_file" yaml:"model_file"`
	CategoriesFile string `mapstructure:"categories_file" yaml:"categories_file"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
}

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	Categorization CategorizationConfig `mapstructure:"categorization" yaml:"categorization"`
	Data           DataConfig           `mapstructure:"data" yaml:"data"`
	Server         ServerConfig         `mapstructure:"server" yaml:"server"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then config.yaml, then FINTRACK_* environment variables.
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile is InitializeConfig with an explicit config file.
// An empty path searches the standard locations.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.fintrack")
		v.AddConfigPath(".fintrack")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("FINTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. Unprefixed names kept for deployments configured with the bare variables
	if err := v.BindEnv("categorization.min_training_samples",
		"FINTRACK_CATEGORIZATION_MIN_TRAINING_SAMPLES", "MIN_TRAINING_SAMPLES"); err != nil {
		return nil, fmt.Errorf("failed to bind MIN_TRAINING_SAMPLES: %w", err)
	}
	if err := v.BindEnv("categorization.similarity_threshold",
		"FINTRACK_CATEGORIZATION_SIMILARITY_THRESHOLD", "SIMILARITY_THRESHOLD"); err != nil {
		return nil, fmt.Errorf("failed to bind SIMILARITY_THRESHOLD: %w", err)
	}
	if err := v.BindEnv("categorization.rule_threshold"); err != nil {
		return nil, fmt.Errorf("failed to bind rule threshold: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The rule tier follows the classifier threshold unless set on its own.
	if !v.IsSet("categorization.rule_threshold") {
		config.Categorization.RuleThreshold = config.Categorization.SimilarityThreshold
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Categorization defaults
	v.SetDefault("categorization.min_training_samples", models.DefaultMinTrainingSamples)
	v.SetDefault("categorization.similarity_threshold", models.DefaultSimilarityThreshold)
	v.SetDefault("categorization.default_category", models.DefaultCategoryName)
	v.SetDefault("categorization.max_features", models.DefaultMaxFeatures)

	// Data defaults
	v.SetDefault("data.directory", ".fintrack")
	v.SetDefault("data.database_file", "fintrack.db")
	v.SetDefault("data.model_file", "categorizer.yaml")
	v.SetDefault("data.categories_file", "categories.yaml")

	// Server defaults
	v.SetDefault("server.address", ":8080")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	c := config.Categorization
	if c.MinTrainingSamples < 1 {
		return fmt.Errorf("categorization.min_training_samples must be at least 1, got: %d", c.MinTrainingSamples)
	}
	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return fmt.Errorf("categorization.similarity_threshold must be between 0.0 and 1.0, got: %f", c.SimilarityThreshold)
	}
	if c.RuleThreshold < 0.0 || c.RuleThreshold > 1.0 {
		return fmt.Errorf("categorization.rule_threshold must be between 0.0 and 1.0, got: %f", c.RuleThreshold)
	}
	if c.MaxFeatures < 0 {
		return fmt.Errorf("categorization.max_features must not be negative, got: %d", c.MaxFeatures)
	}
	if strings.TrimSpace(c.DefaultCategory) == "" {
		return fmt.Errorf("categorization.default_category must not be empty")
	}

	if config.Data.DatabaseFile == "" || config.Data.ModelFile == "" {
		return fmt.Errorf("data.database_file and data.model_file are required")
	}

	return nil
}

// DatabasePath returns the SQLite database location.
func (c *Config) DatabasePath() string {
	return c.resolve(c.Data.DatabaseFile)
}

// ModelPath returns the persisted classifier location.
func (c *Config) ModelPath() string {
	return c.resolve(c.Data.ModelFile)
}

// CategoriesPath returns the category catalog location.
func (c *Config) CategoriesPath() string {
	return c.resolve(c.Data.CategoriesFile)
}

func (c *Config) resolve(name string) string {
	if name == ":memory:" || filepath.IsAbs(name) || c.Data.Directory == "" {
		return name
	}
	return filepath.Join(c.Data.Directory, name)
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
