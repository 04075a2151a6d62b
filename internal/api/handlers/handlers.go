package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"palava-proof/internal/domain/services"
	"palava-proof/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Root     *RootHandler
	Health   *HealthHandler
	Check    *CheckHandler
	Reports  *ReportsHandler
	Feedback *FeedbackHandler
}

// Pinger is a dependency probed by the readiness check
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Checker  *services.CheckService
	Reports  *services.ReportService
	Feedback *services.FeedbackService
	Sharer   *services.ShareService
	Version  string
	// Probes are checked by /ready, keyed by dependency name
	Probes map[string]Pinger
	Logger *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Root:     NewRootHandler(deps.Version),
		Health:   NewHealthHandler(deps.Probes, deps.Version, deps.Logger),
		Check:    NewCheckHandler(deps.Checker, deps.Sharer, deps.Logger),
		Reports:  NewReportsHandler(deps.Reports, deps.Logger),
		Feedback: NewFeedbackHandler(deps.Feedback, deps.Logger),
	}
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError sends a JSON error body
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
