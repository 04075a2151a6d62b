package handlers

import "net/http"

// RootHandler serves the service banner
type RootHandler struct {
	version string
}

// NewRootHandler creates a new RootHandler
func NewRootHandler(version string) *RootHandler {
	return &RootHandler{version: version}
}

// BannerResponse describes the service and its endpoints
type BannerResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Index handles GET /
func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, BannerResponse{
		Message: "Palava Proof API - Liberia's Community Scam Shield",
		Version: h.version,
		Endpoints: map[string]string{
			"POST /api/v1/check":         "Check a message for scam indicators",
			"POST /api/v1/report":        "Report a scam message",
			"GET /api/v1/recent-scams":   "Recently confirmed scams",
			"POST /api/v1/feedback":      "Rate a verdict",
			"GET /api/v1/feedback/stats": "Feedback totals",
			"POST /api/v1/share":         "Build a shareable warning",
			"GET /api/v1/patterns":       "Scam indicator categories",
			"GET /health":                "Liveness",
			"GET /ready":                 "Readiness",
		},
	})
}
