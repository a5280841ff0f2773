package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/fintrack/internal/categorizer"
	"fjacquet/fintrack/internal/categorizererror"
	"fjacquet/fintrack/internal/classifier"
	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/models"
	"fjacquet/fintrack/internal/rules"
	"fjacquet/fintrack/internal/storage"
	"fjacquet/fintrack/internal/store"
)

func setupHandler(t *testing.T) (http.Handler, *storage.Store) {
	t.Helper()
	st, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := logging.NewMockLogger()
	catalog := &store.MockCategoryStore{Categories: []models.Category{
		{ID: 5, Name: "Coffee"},
		{ID: 7, Name: "Transport"},
		{ID: 99, Name: "Other"},
	}}

	engine, err := categorizer.NewEngine(categorizer.DefaultConfig(), categorizer.Dependencies{
		Model:       classifier.New(classifier.DefaultConfig(), nil, logger),
		Rules:       rules.NewMatcher(st, logger),
		Training:    st,
		Categories:  catalog,
		Corrections: st,
		Transactor:  st,
	}, logger)
	require.NoError(t, err)

	return NewHandler(Deps{Engine: engine, Categories: catalog, Logger: logger}), st
}

func do(t *testing.T, h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	h, _ := setupHandler(t)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPredict(t *testing.T) {
	h, _ := setupHandler(t)

	tests := []struct {
		name     string
		url      string
		body     string
		wantCode int
		wantID   int64
		wantName string
	}{
		{
			name:     "json body falls back to default",
			url:      "/api/v1/categorization/predict",
			body:     `{"description":"xyz123"}`,
			wantCode: http.StatusOK,
			wantID:   99,
			wantName: "Other",
		},
		{
			name:     "query parameter",
			url:      "/api/v1/categorization/predict?description=xyz123",
			wantCode: http.StatusOK,
			wantID:   99,
			wantName: "Other",
		},
		{
			name:     "missing description",
			url:      "/api/v1/categorization/predict",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed body",
			url:      "/api/v1/categorization/predict",
			body:     `{"description":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.url, tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			resp := decode[PredictResponse](t, rec)
			require.NotNil(t, resp.CategoryID)
			assert.Equal(t, tt.wantID, *resp.CategoryID)
			assert.Equal(t, tt.wantName, resp.CategoryName)
		})
	}
}

func TestPredict_NoCategory(t *testing.T) {
	st, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	logger := logging.NewMockLogger()
	engine, err := categorizer.NewEngine(categorizer.DefaultConfig(), categorizer.Dependencies{
		Model:      classifier.New(classifier.DefaultConfig(), nil, logger),
		Rules:      rules.NewMatcher(st, logger),
		Categories: &store.MockCategoryStore{},
	}, logger)
	require.NoError(t, err)
	h := NewHandler(Deps{Engine: engine, Logger: logger})

	rec := do(t, h, http.MethodPost, "/api/v1/categorization/predict", `{"description":"xyz123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"category_id":null,"category_name":"Unable to predict"}`, rec.Body.String())
}

func TestCorrectionThenPredict(t *testing.T) {
	h, _ := setupHandler(t)

	rec := do(t, h, http.MethodPost, "/api/v1/categorization/corrections",
		`{"transaction_id":1,"old_category_id":99,"new_category_id":7,"description":"Taxi ride downtown"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"status":"recorded"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/categorization/predict", `{"description":"taxi ride downtown"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[PredictResponse](t, rec)
	require.NotNil(t, resp.CategoryID)
	assert.Equal(t, int64(7), *resp.CategoryID)
	assert.Equal(t, "Transport", resp.CategoryName)
	assert.Equal(t, models.TierRule, resp.Tier)

	rec = do(t, h, http.MethodGet, "/api/v1/categorization/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[models.EngineStats](t, rec)
	assert.Equal(t, 1, stats.RuleBased.Count)
	assert.Equal(t, 1, stats.CorrectionCount)
	assert.Equal(t, 0.7, stats.Threshold)
}

func TestCorrection_Invalid(t *testing.T) {
	h, _ := setupHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing category", body: `{"transaction_id":1,"description":"taxi"}`},
		{name: "missing transaction", body: `{"new_category_id":7,"description":"taxi"}`},
		{name: "not json", body: `taxi`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/categorization/corrections", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestTrain(t *testing.T) {
	h, st := setupHandler(t)

	rec := do(t, h, http.MethodPost, "/api/v1/categorization/train", "")
	require.Equal(t, http.StatusOK, rec.Code)
	failed := decode[models.TrainResult](t, rec)
	assert.False(t, failed.Success)
	assert.Equal(t, 0, failed.CurrentCount)
	assert.Contains(t, failed.Message, "Need at least 3")

	cat := int64(5)
	_, err := st.InsertLabeledTransactions(context.Background(), []storage.LabeledTransaction{
		{Description: "starbucks coffee", CategoryID: &cat},
		{Description: "coffee shop", CategoryID: &cat},
		{Description: "morning coffee", CategoryID: &cat},
	})
	require.NoError(t, err)

	rec = do(t, h, http.MethodPost, "/api/v1/categorization/train", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ok := decode[models.TrainResult](t, rec)
	assert.True(t, ok.Success)
	assert.Equal(t, "ML model trained successfully", ok.Message)
	require.NotNil(t, ok.Stats)
	assert.True(t, ok.Stats.Trained)
}

type stubEngine struct {
	trainErr   error
	statsErr   error
	correctErr error
}

func (s stubEngine) PredictCategory(context.Context, string) (models.Prediction, bool, error) {
	return models.Prediction{}, false, errors.New("boom")
}

func (s stubEngine) LearnFromCorrection(context.Context, models.CorrectionInput) error {
	return s.correctErr
}

func (s stubEngine) TrainMLModel(context.Context) (models.TrainResult, error) {
	return models.TrainResult{Success: s.trainErr == nil || categorizererror.IsWarning(s.trainErr)}, s.trainErr
}

func (s stubEngine) GetStats(context.Context) (models.EngineStats, error) {
	return models.EngineStats{}, s.statsErr
}

func TestHandlerErrors(t *testing.T) {
	warning := &categorizererror.PersistenceWarning{Err: errors.New("disk full")}

	tests := []struct {
		name     string
		engine   stubEngine
		method   string
		url      string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "predict failure",
			method:   http.MethodPost,
			url:      "/api/v1/categorization/predict",
			body:     `{"description":"taxi"}`,
			wantCode: http.StatusInternalServerError,
			wantBody: "prediction failed",
		},
		{
			name:     "stats failure",
			engine:   stubEngine{statsErr: errors.New("database is locked")},
			method:   http.MethodGet,
			url:      "/api/v1/categorization/stats",
			wantCode: http.StatusInternalServerError,
			wantBody: "database is locked",
		},
		{
			name:     "train failure",
			engine:   stubEngine{trainErr: errors.New("database is locked")},
			method:   http.MethodPost,
			url:      "/api/v1/categorization/train",
			wantCode: http.StatusInternalServerError,
			wantBody: "training failed",
		},
		{
			name:     "train persistence warning",
			engine:   stubEngine{trainErr: warning},
			method:   http.MethodPost,
			url:      "/api/v1/categorization/train",
			wantCode: http.StatusOK,
			wantBody: `"warning"`,
		},
		{
			name:     "correction persistence warning",
			engine:   stubEngine{correctErr: warning},
			method:   http.MethodPost,
			url:      "/api/v1/categorization/corrections",
			body:     `{"transaction_id":1,"new_category_id":7,"description":"taxi"}`,
			wantCode: http.StatusCreated,
			wantBody: "disk full",
		},
		{
			name:     "correction hard failure",
			engine:   stubEngine{correctErr: errors.New("context canceled")},
			method:   http.MethodPost,
			url:      "/api/v1/categorization/corrections",
			body:     `{"transaction_id":1,"new_category_id":7,"description":"taxi"}`,
			wantCode: http.StatusInternalServerError,
			wantBody: "correction failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(Deps{Engine: tt.engine, Logger: logging.NewMockLogger()})

			rec := do(t, h, tt.method, tt.url, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	h, _ := setupHandler(t)

	rec := do(t, h, http.MethodGet, "/api/v1/categorization/predict", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
