package modelstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/fintrack/internal/categorizererror"
	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/models"
)

func sampleState() models.ModelState {
	return models.ModelState{
		Version:    models.ModelFormatVersion,
		Trained:    true,
		Vocabulary: []string{"coffee", "taxi"},
		IDF:        []float64{1.2876820724517808, 1.6931471805599454},
		Centroids: map[int64][]float64{
			5: {1, 0},
			7: {0, 1},
		},
		Corpus: map[int64][]string{
			5: {"coffee", "coffee shop", "morning coffee"},
			7: {"taxi", "taxi ride", "uber taxi"},
		},
	}
}

func newTestStore(t *testing.T) (*FileStore, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	store := NewFileStore(filepath.Join(t.TempDir(), "models", "categorizer.yaml"), logger)
	store.retryDelay = time.Millisecond
	return store, logger
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	state := sampleState()

	require.NoError(t, store.Save(state))

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, state, loaded)

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save(sampleState()))

	next := sampleState()
	next.Corpus[9] = []string{"rent"}
	require.NoError(t, store.Save(next))

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, []string{"rent"}, loaded.Corpus[9])
}

func TestFileStore_SaveUntrainedCorpus(t *testing.T) {
	store, _ := newTestStore(t)
	state := models.ModelState{
		Version: models.ModelFormatVersion,
		Corpus:  map[int64][]string{7: {"taxi ride"}},
	}
	require.NoError(t, store.Save(state))

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.False(t, loaded.Trained)
	assert.Equal(t, []string{"taxi ride"}, loaded.Corpus[7])
	assert.NotNil(t, loaded.Centroids)
}

func TestFileStore_LoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "corrupt yaml",
			content: "format_version: [unterminated",
		},
		{
			name:    "unknown format version",
			content: "format_version: 99\ntrained: true\n",
		},
		{
			name: "centroid width mismatch",
			content: `format_version: 1
trained: true
vocabulary: [coffee, taxi]
idf: [1, 1]
centroids:
  5: [1]
corpus:
  5: [coffee]
`,
		},
		{
			name: "centroid without corpus",
			content: `format_version: 1
trained: true
vocabulary: [coffee]
idf: [1]
centroids:
  5: [1]
`,
		},
		{
			name: "idf length mismatch",
			content: `format_version: 1
vocabulary: [coffee, taxi]
idf: [1]
`,
		},
		{
			name:    "trained without centroids",
			content: "format_version: 1\ntrained: true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, logger := newTestStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o750))
			require.NoError(t, os.WriteFile(store.Path(), []byte(tt.content), 0o600))

			_, ok := store.Load()
			assert.False(t, ok)
			assert.NotEmpty(t, logger.GetEntriesByLevel("WARN"))
		})
	}
}

func TestFileStore_LoadMissing(t *testing.T) {
	store, logger := newTestStore(t)

	_, ok := store.Load()
	assert.False(t, ok)
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))
}

func TestFileStore_SaveFailsAfterRetries(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	logger := logging.NewMockLogger()
	store := NewFileStore(filepath.Join(blocker, "categorizer.yaml"), logger)
	store.retryDelay = time.Millisecond

	err := store.Save(sampleState())
	require.Error(t, err)

	var pe *categorizererror.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "save model", pe.Op)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 2)
}

func TestFileStore_LoadWarnsOnWorldReadableArtifact(t *testing.T) {
	store, logger := newTestStore(t)
	require.NoError(t, store.Save(sampleState()))
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))

	require.NoError(t, os.Chmod(store.Path(), 0o644))
	_, ok := store.Load()
	require.True(t, ok)
	assert.True(t, logger.HasEntry("WARN", "Saved model is readable by other users"))
}
