package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"riskscreen/db"
	"riskscreen/ml"
)

// modelInfo is the static description served by /api/model.
type modelInfo struct {
	Features   []string       `json:"features"`
	Importance []float64      `json:"importance"`
	Metrics    ml.EvalMetrics `json:"metrics"`
}

type apiHandlers struct {
	app  *app
	info modelInfo
}

func (h *apiHandlers) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("POST /api/assess", h.handleAssess)
	mux.HandleFunc("GET /api/model", h.handleModel)
	mux.HandleFunc("GET /api/history", h.handleHistory)
}

func (h *apiHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type assessRequest struct {
	Features []float64 `json:"features"`
}

// handleAssess scores a raw feature vector supplied in training column
// order. Length mismatches are a client error, not a garbage score.
func (h *apiHandlers) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	result, err := h.app.scorer.Assess(req.Features)
	if err != nil {
		var invalid *ml.InvalidInputError
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalid.Error()})
			return
		}
		h.app.logger.Error("api assessment failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "assessment failed"})
		return
	}

	h.app.recordAssessment(result, req.Features)
	writeJSON(w, http.StatusOK, result)
}

func (h *apiHandlers) handleModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.info)
}

func (h *apiHandlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !db.Enabled() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "history persistence is disabled"})
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	records, err := db.RecentAssessments(limit)
	if err != nil {
		h.app.logger.Error("querying history", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assessments": records,
		"count":       len(records),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
