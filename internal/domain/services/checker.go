package services

import (
	"context"
	"errors"
	"strings"

	"palava-proof/internal/domain/models"
	"palava-proof/pkg/logger"
)

// ErrEmptyMessage is returned when asked to check blank text
var ErrEmptyMessage = errors.New("please paste a message to check")

// CheckResult bundles everything shown for one checked message
type CheckResult struct {
	Verdict          models.Verdict          `json:"verdict"`
	Display          *models.DisplayPayload  `json:"display"`
	CommunityReports []models.CommunityMatch `json:"community_reports"`
}

// CheckService runs the classify/present pipeline for hosts and adds
// community lookups and event publishing around it
type CheckService struct {
	reports   *ReportService
	publisher EventPublisher
	logger    *logger.Logger
}

// NewCheckService creates a new CheckService. reports and publisher may be nil.
func NewCheckService(reports *ReportService, publisher EventPublisher, log *logger.Logger) *CheckService {
	return &CheckService{
		reports:   reports,
		publisher: publisher,
		logger:    log.WithComponent("checker"),
	}
}

// Check classifies a message. The verdict only depends on the text;
// lookups and events are best effort.
func (s *CheckService) Check(ctx context.Context, message string) (*CheckResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	verdict := Classify(message)
	display, err := Present(verdict, message)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		Verdict:          verdict,
		Display:          display,
		CommunityReports: []models.CommunityMatch{},
	}
	if s.reports != nil {
		result.CommunityReports = s.reports.Lookup(ctx, message)
	}

	s.logger.Debug().
		Str("status", string(verdict.Status)).
		Int("confidence", verdict.Confidence).
		Int("findings", len(verdict.Findings)).
		Int("community_reports", len(result.CommunityReports)).
		Msg("message checked")

	if verdict.Status == models.StatusDanger && s.publisher != nil {
		if err := s.publisher.PublishPalavaDetected(ctx, verdict, display.Preview); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish detection event")
		}
	}

	return result, nil
}
