package streaming

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"palava-proof/internal/domain/models"
)

// EventType represents the type of palava event
type EventType string

const (
	EventTypeReportSubmitted EventType = "report_submitted"
	EventTypePalavaDetected  EventType = "palava_detected"
)

// Event is a real-time notification about a report or a detected scam
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Report details
	ReportID      int64  `json:"report_id,omitempty"`
	ReportType    string `json:"report_type,omitempty"`
	Duplicate     bool   `json:"duplicate,omitempty"`
	TimesReported int    `json:"times_reported,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	URL           string `json:"url,omitempty"`

	// Verdict details
	Status     models.Status     `json:"status,omitempty"`
	Confidence int               `json:"confidence,omitempty"`
	Categories []models.Category `json:"categories,omitempty"`
	Preview    string            `json:"preview,omitempty"`
}

// NewReportEvent creates an event for a stored report
func NewReportEvent(r *models.Report, duplicate bool) *Event {
	return &Event{
		ID:            uuid.New().String(),
		Type:          EventTypeReportSubmitted,
		Timestamp:     time.Now(),
		ReportID:      r.ID,
		ReportType:    r.Type,
		Duplicate:     duplicate,
		TimesReported: r.TimesReported,
		PhoneNumber:   r.PhoneNumber,
		URL:           r.URL,
	}
}

// NewDetectionEvent creates an event for a dangerous verdict
func NewDetectionEvent(v models.Verdict, preview string) *Event {
	categories := make([]models.Category, len(v.Findings))
	for i, f := range v.Findings {
		categories[i] = f.Category
	}
	return &Event{
		ID:         uuid.New().String(),
		Type:       EventTypePalavaDetected,
		Timestamp:  time.Now(),
		Status:     v.Status,
		Confidence: v.Confidence,
		Categories: categories,
		Preview:    preview,
	}
}

// Subject returns the NATS subject an event is published on.
// Hierarchy: palava.<event_type>.<qualifier>
func (e *Event) Subject() string {
	var qualifier string
	switch e.Type {
	case EventTypeReportSubmitted:
		qualifier = e.ReportType
	case EventTypePalavaDetected:
		qualifier = string(e.Status)
	}
	return "palava." + string(e.Type) + "." + subjectToken(qualifier)
}

var subjectTokenPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// subjectToken lowercases a user-supplied value for use as one subject
// level. Anything that could add a level, act as a wildcard or break the
// subject becomes "unknown".
func subjectToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if !subjectTokenPattern.MatchString(s) {
		return "unknown"
	}
	return s
}

// Subscription represents a client's subscription preferences
type Subscription struct {
	// Filter by event types (empty = all)
	Types []EventType `json:"types,omitempty"`

	// Drop detections below this confidence
	MinConfidence int `json:"min_confidence,omitempty"`

	// Include repeat reports of known scams
	IncludeDuplicates bool `json:"include_duplicates,omitempty"`
}

// Matches checks if an event matches the subscription filters
func (s *Subscription) Matches(event *Event) bool {
	if s == nil {
		return true
	}
	if len(s.Types) > 0 && !slices.Contains(s.Types, event.Type) {
		return false
	}
	if event.Type == EventTypePalavaDetected && event.Confidence < s.MinConfidence {
		return false
	}
	if event.Duplicate && !s.IncludeDuplicates {
		return false
	}
	return true
}
