package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"palava-proof/internal/domain/models"
	"palava-proof/internal/domain/services"
	"palava-proof/pkg/logger"
)

// ReportsHandler handles scam report endpoints
type ReportsHandler struct {
	reports *services.ReportService
	logger  *logger.Logger
}

// NewReportsHandler creates a new ReportsHandler
func NewReportsHandler(reports *services.ReportService, log *logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		reports: reports,
		logger:  log.WithComponent("reports-handler"),
	}
}

// ReportRequest is the request body for reporting a scam
type ReportRequest struct {
	Content     string `json:"content"`
	Type        string `json:"type,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	URL         string `json:"url,omitempty"`
	ReportedBy  string `json:"reported_by,omitempty"`
}

// Submit handles POST /api/v1/report
func (h *ReportsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.reports.Submit(r.Context(), models.Report{
		Content:     req.Content,
		Type:        req.Type,
		PhoneNumber: req.PhoneNumber,
		URL:         req.URL,
		ReportedBy:  req.ReportedBy,
	})
	if errors.Is(err, services.ErrEmptyReport) {
		writeError(w, http.StatusBadRequest, "Report content is required")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to submit report")
		writeError(w, http.StatusInternalServerError, "Report failed")
		return
	}

	status := http.StatusOK
	if receipt.Stored && !receipt.Duplicate {
		status = http.StatusCreated
	}
	writeJSON(w, status, receipt)
}

// RecentResponse wraps the recent scams list
type RecentResponse struct {
	Scams []models.Report `json:"scams"`
	Count int             `json:"count"`
}

// Recent handles GET /api/v1/recent-scams
func (h *ReportsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	scams, err := h.reports.Recent(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list recent scams")
		writeError(w, http.StatusInternalServerError, "Could not load recent scams")
		return
	}
	writeJSON(w, http.StatusOK, RecentResponse{Scams: scams, Count: len(scams)})
}
