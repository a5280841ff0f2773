// Package classifier implements the statistical tier of the categorizer: a
// TF-IDF vectorizer and one centroid per category, compared by cosine
// similarity.
package classifier

import (
	"sort"
	"sync"

	"fjacquet/fintrack/internal/categorizererror"
	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/models"
	"fjacquet/fintrack/internal/textutils"
)

// Persister stores a snapshot of the classifier after every state change.
type Persister interface {
	Save(state models.ModelState) error
}

// Config holds the tunables of the classifier.
type Config struct {
	MinSamples  int
	MaxFeatures int
}

// DefaultConfig returns the stock classifier configuration.
func DefaultConfig() Config {
	return Config{
		MinSamples:  models.DefaultMinTrainingSamples,
		MaxFeatures: models.DefaultMaxFeatures,
	}
}

// Classifier predicts categories from free-text descriptions. All methods are
// safe for concurrent use. Training builds new maps and swaps them in under
// the write lock so readers never see a half-built model.
type Classifier struct {
	mu         sync.RWMutex
	config     Config
	vectorizer *Vectorizer
	centroids  map[int64][]float64
	corpus     map[int64][]string
	trained    bool

	saveMu    sync.Mutex
	persister Persister
	logger    logging.Logger
}

// New creates an untrained classifier. persister may be nil, in which case
// state lives only in memory.
func New(config Config, persister Persister, logger logging.Logger) *Classifier {
	if config.MinSamples < 1 {
		config.MinSamples = models.DefaultMinTrainingSamples
	}
	if config.MaxFeatures < 0 {
		config.MaxFeatures = 0
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	return &Classifier{
		config:     config,
		vectorizer: newVectorizer(nil, nil),
		centroids:  make(map[int64][]float64),
		corpus:     make(map[int64][]string),
		persister:  persister,
		logger:     logger,
	}
}

// Train fits the model on samples. It returns false with an
// InsufficientDataError and leaves the current state untouched when there are
// fewer than MinSamples samples overall or no category reaches MinSamples.
// On success the corpus is replaced by the qualifying categories only. A
// non-nil error alongside true is a PersistenceWarning.
func (c *Classifier) Train(samples []models.LabeledDescription) (bool, error) {
	minSamples := c.config.MinSamples
	if len(samples) < minSamples {
		return false, &categorizererror.InsufficientDataError{Scope: "total", Count: len(samples), Min: minSamples}
	}

	grouped := make(map[int64][]string)
	for _, s := range samples {
		grouped[s.CategoryID] = append(grouped[s.CategoryID], textutils.Normalize(s.Description))
	}

	corpus := make(map[int64][]string)
	for id, docs := range grouped {
		if len(docs) >= minSamples {
			corpus[id] = docs
		}
	}
	if len(corpus) == 0 {
		return false, &categorizererror.InsufficientDataError{Scope: "category", Count: len(samples), Min: minSamples}
	}

	vectorizer, centroids := c.fit(corpus, minSamples)

	c.mu.Lock()
	c.vectorizer = vectorizer
	c.centroids = centroids
	c.corpus = corpus
	c.trained = true
	c.mu.Unlock()

	c.logger.Info("Classifier trained",
		logging.Field{Key: logging.FieldCount, Value: len(samples)},
		logging.Field{Key: "categories", Value: len(centroids)},
		logging.Field{Key: "vocabulary_size", Value: vectorizer.Size()})

	return true, c.persist()
}

// Predict returns the category whose centroid is most similar to description,
// provided the similarity is positive and at least threshold. Ties go to the
// lowest category id.
func (c *Classifier) Predict(description string, threshold float64) (models.Prediction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.trained || len(c.centroids) == 0 {
		return models.Prediction{}, false
	}

	vec := c.vectorizer.Transform(textutils.Normalize(description))

	var (
		bestID    int64
		bestScore float64
		found     bool
	)
	for _, id := range sortedIDs(c.centroids) {
		score := cosineSimilarity(vec, c.centroids[id])
		if score > bestScore {
			bestID, bestScore, found = id, score, true
		}
	}

	if !found || bestScore < threshold {
		return models.Prediction{}, false
	}
	return models.Prediction{CategoryID: bestID, Score: bestScore, Tier: models.TierMachineLearning}, true
}

// UpdateWithCorrection adds description to the corpus of categoryID. Once that
// corpus holds MinSamples descriptions the whole model is refit: the
// vocabulary is rebuilt over every corpus and a centroid is recomputed for
// every category with at least MinSamples descriptions. retrained reports
// whether that happened; a non-nil error is a PersistenceWarning.
func (c *Classifier) UpdateWithCorrection(description string, categoryID int64) (bool, error) {
	normalized := textutils.Normalize(description)
	minSamples := c.config.MinSamples

	c.mu.Lock()
	corpus := copyCorpus(c.corpus)
	corpus[categoryID] = append(corpus[categoryID], normalized)

	if len(corpus[categoryID]) < minSamples {
		c.corpus = corpus
		c.mu.Unlock()
		return false, c.persist()
	}

	vectorizer, centroids := c.fit(corpus, minSamples)
	c.vectorizer = vectorizer
	c.centroids = centroids
	c.corpus = corpus
	c.trained = true
	c.mu.Unlock()

	c.logger.Info("Classifier retrained after correction",
		logging.Field{Key: logging.FieldCategoryID, Value: categoryID},
		logging.Field{Key: "categories", Value: len(centroids)})

	return true, c.persist()
}

// Stats reports a summary of the current model.
func (c *Classifier) Stats() models.ClassifierStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	samples := 0
	for _, docs := range c.corpus {
		samples += len(docs)
	}

	return models.ClassifierStats{
		Trained:        c.trained,
		CategoryCount:  len(c.centroids),
		SampleCount:    samples,
		MinSamples:     c.config.MinSamples,
		VocabularySize: c.vectorizer.Size(),
	}
}

// State returns a deep copy of the model suitable for persistence.
func (c *Classifier) State() models.ModelState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateLocked()
}

func (c *Classifier) stateLocked() models.ModelState {
	centroids := make(map[int64][]float64, len(c.centroids))
	for id, vec := range c.centroids {
		centroids[id] = append([]float64(nil), vec...)
	}

	return models.ModelState{
		Version:    models.ModelFormatVersion,
		Trained:    c.trained,
		Vocabulary: append([]string(nil), c.vectorizer.vocabulary...),
		IDF:        append([]float64(nil), c.vectorizer.idf...),
		Centroids:  centroids,
		Corpus:     copyCorpus(c.corpus),
	}
}

// Restore replaces the model with a previously saved state. The state is
// expected to have been validated by the loader.
func (c *Classifier) Restore(state models.ModelState) {
	centroids := make(map[int64][]float64, len(state.Centroids))
	for id, vec := range state.Centroids {
		centroids[id] = append([]float64(nil), vec...)
	}
	vectorizer := RestoreVectorizer(state.Vocabulary, state.IDF)
	corpus := copyCorpus(state.Corpus)

	c.mu.Lock()
	c.vectorizer = vectorizer
	c.centroids = centroids
	c.corpus = corpus
	c.trained = state.Trained && len(centroids) > 0
	c.mu.Unlock()

	c.logger.Debug("Classifier state restored",
		logging.Field{Key: "categories", Value: len(centroids)},
		logging.Field{Key: "vocabulary_size", Value: vectorizer.Size()})
}

// fit builds a vectorizer over every description in corpus and a centroid for
// each category holding at least minSamples descriptions.
func (c *Classifier) fit(corpus map[int64][]string, minSamples int) (*Vectorizer, map[int64][]float64) {
	ids := sortedIDs(corpus)

	var docs []string
	for _, id := range ids {
		docs = append(docs, corpus[id]...)
	}
	vectorizer := FitVectorizer(docs, c.config.MaxFeatures)

	centroids := make(map[int64][]float64)
	for _, id := range ids {
		if len(corpus[id]) >= minSamples {
			centroids[id] = vectorizer.Centroid(corpus[id])
		}
	}
	return vectorizer, centroids
}

// persist snapshots the current state and hands it to the persister. Saves
// are serialized so the last save always carries the latest state.
func (c *Classifier) persist() error {
	if c.persister == nil {
		return nil
	}

	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	if err := c.persister.Save(c.State()); err != nil {
		c.logger.WithError(err).Warn("Failed to persist classifier state")
		return &categorizererror.PersistenceWarning{Err: err}
	}
	return nil
}

func copyCorpus(src map[int64][]string) map[int64][]string {
	dst := make(map[int64][]string, len(src))
	for id, docs := range src {
		dst[id] = append([]string(nil), docs...)
	}
	return dst
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
