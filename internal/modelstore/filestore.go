// Package modelstore persists the classifier state as a versioned YAML
// artifact. Writes go to a temporary file that is renamed over the target, so
// readers always see either the previous or the new model. When several
// processes share one artifact the last writer wins.
package modelstore

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"fjacquet/fintrack/internal/categorizererror"
	"fjacquet/fintrack/internal/fileutils"
	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/models"
	"fjacquet/fintrack/internal/validation"
)

const (
	defaultAttempts   = 3
	defaultRetryDelay = 50 * time.Millisecond
)

// artifact is the on-disk layout of a saved model.
type artifact struct {
	FormatVersion int                 `yaml:"format_version"`
	SavedAt       time.Time           `yaml:"saved_at"`
	Trained       bool                `yaml:"trained"`
	Vocabulary    []string            `yaml:"vocabulary"`
	IDF           []float64           `yaml:"idf"`
	Centroids     map[int64][]float64 `yaml:"centroids"`
	Corpus        map[int64][]string  `yaml:"corpus"`
}

// FileStore saves and loads model state at a fixed path.
type FileStore struct {
	path       string
	logger     logging.Logger
	attempts   int
	retryDelay time.Duration
	now        func() time.Time
}

// NewFileStore creates a FileStore for path.
func NewFileStore(path string, logger logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &FileStore{
		path:       path,
		logger:     logger,
		attempts:   defaultAttempts,
		retryDelay: defaultRetryDelay,
		now:        time.Now,
	}
}

// Path returns the artifact location.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes state atomically, retrying transient failures with exponential
// backoff. The returned error is a *categorizererror.PersistenceError.
func (s *FileStore) Save(state models.ModelState) error {
	data, err := yaml.Marshal(artifact{
		FormatVersion: models.ModelFormatVersion,
		SavedAt:       s.now().UTC(),
		Trained:       state.Trained,
		Vocabulary:    state.Vocabulary,
		IDF:           state.IDF,
		Centroids:     state.Centroids,
		Corpus:        state.Corpus,
	})
	if err != nil {
		return &categorizererror.PersistenceError{Op: "encode model", Path: s.path, Err: err}
	}

	delay := s.retryDelay
	for attempt := 1; ; attempt++ {
		err = s.writeAtomic(data)
		if err == nil {
			s.logger.Debug("Model saved",
				logging.Field{Key: logging.FieldFile, Value: s.path},
				logging.Field{Key: "bytes", Value: len(data)})
			return nil
		}
		if attempt >= s.attempts {
			return &categorizererror.PersistenceError{
				Op:   "save model",
				Path: s.path,
				Err:  fmt.Errorf("after %d attempts: %w", attempt, err),
			}
		}

		s.logger.WithError(err).Warn("Model save failed, retrying",
			logging.Field{Key: "attempt", Value: attempt},
			logging.Field{Key: "delay", Value: delay.String()})
		time.Sleep(delay)
		delay *= 2
	}
}

func (s *FileStore) writeAtomic(data []byte) error {
	return fileutils.WriteFileAtomic(s.path, data, models.PermissionDataFile, models.PermissionDirectory)
}

// Load reads the saved state. It returns false when no usable model exists:
// the file is missing, unreadable, undecodable, of an unknown format version
// or internally inconsistent. A bad artifact is logged, never fatal.
func (s *FileStore) Load() (models.ModelState, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("No saved model found", logging.Field{Key: logging.FieldFile, Value: s.path})
		} else {
			s.logger.WithError(err).Warn("Failed to read saved model", logging.Field{Key: logging.FieldFile, Value: s.path})
		}
		return models.ModelState{}, false
	}

	if info, err := os.Stat(s.path); err == nil {
		if err := validation.IsValidFilePermissions(info.Mode()); err != nil {
			s.logger.WithError(err).Warn("Saved model is readable by other users",
				logging.Field{Key: logging.FieldFile, Value: s.path})
		}
	}

	var a artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		s.logger.WithError(err).Warn("Failed to decode saved model, starting untrained",
			logging.Field{Key: logging.FieldFile, Value: s.path})
		return models.ModelState{}, false
	}

	if err := validate(a); err != nil {
		s.logger.WithError(err).Warn("Saved model is not usable, starting untrained",
			logging.Field{Key: logging.FieldFile, Value: s.path})
		return models.ModelState{}, false
	}

	state := models.ModelState{
		Version:    a.FormatVersion,
		Trained:    a.Trained,
		Vocabulary: a.Vocabulary,
		IDF:        a.IDF,
		Centroids:  a.Centroids,
		Corpus:     a.Corpus,
	}
	if state.Centroids == nil {
		state.Centroids = make(map[int64][]float64)
	}
	if state.Corpus == nil {
		state.Corpus = make(map[int64][]string)
	}

	s.logger.Info("Loaded saved model",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: "trained", Value: state.Trained},
		logging.Field{Key: "categories", Value: len(state.Centroids)},
		logging.Field{Key: "saved_at", Value: a.SavedAt})
	return state, true
}

func validate(a artifact) error {
	if a.FormatVersion != models.ModelFormatVersion {
		return fmt.Errorf("unsupported format version %d", a.FormatVersion)
	}
	if len(a.IDF) != len(a.Vocabulary) {
		return fmt.Errorf("idf has %d weights for %d terms", len(a.IDF), len(a.Vocabulary))
	}
	if a.Trained && len(a.Centroids) == 0 {
		return errors.New("trained model without centroids")
	}
	for id, centroid := range a.Centroids {
		if len(centroid) != len(a.Vocabulary) {
			return fmt.Errorf("centroid %d has width %d, vocabulary has %d terms", id, len(centroid), len(a.Vocabulary))
		}
		if len(a.Corpus[id]) == 0 {
			return fmt.Errorf("centroid %d has no corpus", id)
		}
	}
	return nil
}
