package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"palava-proof/internal/domain/models"
	"palava-proof/internal/domain/services"
	"palava-proof/pkg/logger"
)

// maxBodyBytes caps request bodies; SMS and chat messages are far smaller
const maxBodyBytes = 64 << 10

// CheckHandler handles message checking endpoints
type CheckHandler struct {
	checker *services.CheckService
	sharer  *services.ShareService
	logger  *logger.Logger
}

// NewCheckHandler creates a new CheckHandler
func NewCheckHandler(checker *services.CheckService, sharer *services.ShareService, log *logger.Logger) *CheckHandler {
	return &CheckHandler{
		checker: checker,
		sharer:  sharer,
		logger:  log.WithComponent("check-handler"),
	}
}

// MessageRequest is the request body for check and share
type MessageRequest struct {
	Message string `json:"message"`
}

// Check handles POST /api/v1/check - classifies a pasted message
func (h *CheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.checker.Check(r.Context(), req.Message)
	if errors.Is(err, services.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, "Please paste a message to check")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to check message")
		writeError(w, http.StatusInternalServerError, "Check failed")
		return
	}

	h.logger.Info().
		Str("status", string(result.Verdict.Status)).
		Int("confidence", result.Verdict.Confidence).
		Bool("is_scam", result.Verdict.IsScam).
		Msg("message checked")

	writeJSON(w, http.StatusOK, result)
}

// Share handles POST /api/v1/share - builds the warning text to share
func (h *CheckHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, err := h.sharer.Share(r.Context(), req.Message)
	if errors.Is(err, services.ErrNothingToShare) {
		writeError(w, http.StatusBadRequest, "No message to share. Please check a message first")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build share text")
		writeError(w, http.StatusInternalServerError, "Share failed")
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// PatternsResponse lists the indicator categories and verdict thresholds
type PatternsResponse struct {
	Categories []models.CategoryInfo `json:"categories"`
	Thresholds map[string]int        `json:"thresholds"`
}

// Patterns handles GET /api/v1/patterns
func (h *CheckHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PatternsResponse{
		Categories: services.Categories(),
		Thresholds: map[string]int{
			"suspicious": services.SuspiciousThreshold,
			"danger":     services.DangerThreshold,
			"max":        services.MaxConfidence,
		},
	})
}
