package handlers

import (
	"encoding/json"
	"net/http"

	"palava-proof/internal/domain/services"
	"palava-proof/pkg/logger"
)

// FeedbackHandler handles verdict feedback
type FeedbackHandler struct {
	feedback *services.FeedbackService
	logger   *logger.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(feedback *services.FeedbackService, log *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedback: feedback,
		logger:   log.WithComponent("feedback-handler"),
	}
}

// FeedbackRequest is the request body for feedback
type FeedbackRequest struct {
	Accurate *bool `json:"accurate"`
}

// FeedbackResponse carries the acknowledgement shown to the user
type FeedbackResponse struct {
	Message string `json:"message"`
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Accurate == nil {
		writeError(w, http.StatusBadRequest, "accurate is required")
		return
	}

	var ack string
	if *req.Accurate {
		ack = h.feedback.MarkAccurate(r.Context())
	} else {
		ack = h.feedback.MarkInaccurate(r.Context())
	}
	writeJSON(w, http.StatusOK, FeedbackResponse{Message: ack})
}

// Stats handles GET /api/v1/feedback/stats
func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.feedback.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load feedback stats")
		writeError(w, http.StatusInternalServerError, "Failed to load feedback stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
