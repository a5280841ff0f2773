package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"fjacquet/fintrack/internal/categorizererror"
	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/models"
)

// PredictRequest is the body of POST /predict. The description may also be
// passed as a query parameter.
type PredictRequest struct {
	Description string `json:"description"`
}

// PredictResponse reports the predicted category. CategoryID is null when no
// tier produced a category.
type PredictResponse struct {
	CategoryID   *int64  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Tier         string  `json:"tier,omitempty"`
	Score        float64 `json:"score,omitempty"`
}

// CorrectionRequest is the body of POST /corrections.
type CorrectionRequest struct {
	TransactionID int64  `json:"transaction_id"`
	OldCategoryID *int64 `json:"old_category_id"`
	NewCategoryID int64  `json:"new_category_id"`
	Description   string `json:"description"`
}

type trainResponse struct {
	models.TrainResult
	Warning string `json:"warning,omitempty"`
}

type correctionResponse struct {
	Status  string `json:"status"`
	Warning string `json:"warning,omitempty"`
}

const unableToPredict = "Unable to predict"

func handleTrain(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := deps.Engine.TrainMLModel(r.Context())
		resp := trainResponse{TrainResult: result}
		if err != nil {
			if !categorizererror.IsWarning(err) {
				deps.Logger.WithError(err).Error("Training failed")
				httpError(w, http.StatusInternalServerError, "api_error", "training failed: %v", err)
				return
			}
			resp.Warning = err.Error()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.Engine.GetStats(r.Context())
		if err != nil {
			deps.Logger.WithError(err).Error("Failed to collect stats")
			httpError(w, http.StatusInternalServerError, "api_error", "failed to collect stats: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handlePredict(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		description := r.URL.Query().Get("description")
		if description == "" && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
			defer r.Body.Close()

			var req PredictRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
				return
			}
			description = req.Description
		}
		if strings.TrimSpace(description) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "description is required")
			return
		}

		pred, found, err := deps.Engine.PredictCategory(r.Context(), description)
		if err != nil {
			deps.Logger.WithError(err).Error("Prediction failed")
			httpError(w, http.StatusInternalServerError, "api_error", "prediction failed: %v", err)
			return
		}
		if !found {
			writeJSON(w, http.StatusOK, PredictResponse{CategoryName: unableToPredict})
			return
		}

		resp := PredictResponse{
			CategoryID: &pred.CategoryID,
			Tier:       pred.Tier,
			Score:      pred.Score,
		}
		if deps.Categories != nil {
			if c, ok := deps.Categories.CategoryByID(pred.CategoryID); ok {
				resp.CategoryName = c.Name
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleCorrection(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		defer r.Body.Close()

		var req CorrectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		err := deps.Engine.LearnFromCorrection(r.Context(), models.CorrectionInput{
			TransactionID: req.TransactionID,
			OldCategoryID: req.OldCategoryID,
			NewCategoryID: req.NewCategoryID,
			Description:   req.Description,
		})
		resp := correctionResponse{Status: "recorded"}
		switch {
		case err == nil:
		case errors.Is(err, categorizererror.ErrInvalidCorrection):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		case categorizererror.IsWarning(err):
			deps.Logger.WithError(err).Warn("Correction learned but not fully persisted",
				logging.Field{Key: logging.FieldTransactionID, Value: req.TransactionID})
			resp.Warning = err.Error()
		default:
			deps.Logger.WithError(err).Error("Correction failed")
			httpError(w, http.StatusInternalServerError, "api_error", "correction failed: %v", err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}
