package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"palava-proof/internal/domain/models"
	"palava-proof/pkg/logger"
)

// ErrEmptyReport is returned when a report has no content
var ErrEmptyReport = errors.New("report content is required")

const (
	// similarPrefixLength is how much of a new report's content must appear
	// in an existing one for them to count as the same scam
	similarPrefixLength = 50

	recentLimit    = 20
	recentCacheKey = "cache:recent_scams"
	recentCacheTTL = time.Minute

	reportNewMessage       = "Thank you for reporting! Your report helps protect other Liberians."
	reportDuplicateMessage = "Thank you! This scam has been reported before. Your report helps confirm it."
)

var (
	urlPattern   = regexp.MustCompile(`https?://(?:[a-zA-Z]|[0-9]|[$-_@.&+])+`)
	phonePattern = regexp.MustCompile(`0\d{9}|\+231\d{9}`)
)

// ReportStore persists reports. Ids are assigned by the store.
type ReportStore interface {
	// FindSimilar returns models.ErrReportNotFound when nothing matches
	FindSimilar(ctx context.Context, contentPrefix, phone, url string) (*models.Report, error)
	Insert(ctx context.Context, r *models.Report) (int64, error)
	IncrementTimesReported(ctx context.Context, id int64) error
	// Recent returns verified or repeatedly reported scams, newest first
	Recent(ctx context.Context, limit int) ([]models.Report, error)
	CountByURL(ctx context.Context, url string) (int, error)
	CountByPhone(ctx context.Context, phone string) (int, error)
}

// JSONCache is the subset of the cache used by services
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// EventPublisher announces domain events to other systems
type EventPublisher interface {
	PublishReportSubmitted(ctx context.Context, r *models.Report, duplicate bool) error
	PublishPalavaDetected(ctx context.Context, v models.Verdict, preview string) error
}

// ReportService records scam reports and answers community lookups.
// Store failures never reach the reporter.
type ReportService struct {
	store     ReportStore
	cache     JSONCache
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewReportService creates a new ReportService. Any collaborator may be nil.
func NewReportService(store ReportStore, cache JSONCache, publisher EventPublisher, log *logger.Logger) *ReportService {
	return &ReportService{
		store:     store,
		cache:     cache,
		publisher: publisher,
		logger:    log.WithComponent("reports"),
		now:       time.Now,
	}
}

// Submit records a report, folding it into an existing one when the same
// scam was already reported
func (s *ReportService) Submit(ctx context.Context, r models.Report) (*models.ReportReceipt, error) {
	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		return nil, ErrEmptyReport
	}
	if r.Type == "" {
		r.Type = models.DefaultReportType
	}
	if r.ReportedAt.IsZero() {
		r.ReportedAt = s.now()
	}
	r.TimesReported = 1

	receipt := &models.ReportReceipt{Message: reportNewMessage}
	if s.store == nil {
		s.logger.Warn().Msg("no report store configured, report not persisted")
		return receipt, nil
	}

	existing, err := s.store.FindSimilar(ctx, truncateRunes(r.Content, similarPrefixLength), r.PhoneNumber, r.URL)
	switch {
	case err == nil:
		if err := s.store.IncrementTimesReported(ctx, existing.ID); err != nil {
			s.logger.Error().Err(err).Int64("report_id", existing.ID).Msg("failed to increment report count")
			return receipt, nil
		}
		receipt.ID = existing.ID
		receipt.Duplicate = true
		receipt.Message = reportDuplicateMessage
		r.ID = existing.ID
		r.TimesReported = existing.TimesReported + 1
	case errors.Is(err, models.ErrReportNotFound):
		id, err := s.store.Insert(ctx, &r)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to insert report")
			return receipt, nil
		}
		receipt.ID = id
		r.ID = id
	default:
		s.logger.Error().Err(err).Msg("failed to look up similar reports")
		return receipt, nil
	}
	receipt.Stored = true

	s.logger.Info().
		Int64("report_id", receipt.ID).
		Bool("duplicate", receipt.Duplicate).
		Str("type", r.Type).
		Msg("report recorded")

	if s.cache != nil {
		if err := s.cache.Delete(ctx, recentCacheKey); err != nil {
			s.logger.Debug().Err(err).Msg("failed to invalidate recent scams cache")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishReportSubmitted(ctx, &r, receipt.Duplicate); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish report event")
		}
	}

	return receipt, nil
}

// Recent lists scams that were verified or reported more than three times
func (s *ReportService) Recent(ctx context.Context) ([]models.Report, error) {
	if s.store == nil {
		return []models.Report{}, nil
	}

	if s.cache != nil {
		var cached []models.Report
		if err := s.cache.GetJSON(ctx, recentCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	reports, err := s.store.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []models.Report{}
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, recentCacheKey, reports, recentCacheTTL); err != nil {
			s.logger.Debug().Err(err).Msg("failed to cache recent scams")
		}
	}
	return reports, nil
}

// Lookup finds URLs and phone numbers in message that were reported
// before. Lookup failures are logged and skipped.
func (s *ReportService) Lookup(ctx context.Context, message string) []models.CommunityMatch {
	matches := []models.CommunityMatch{}
	if s.store == nil {
		return matches
	}

	for _, u := range ExtractURLs(message) {
		count, err := s.store.CountByURL(ctx, u)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", u).Msg("url lookup failed")
			continue
		}
		if count > 0 {
			matches = append(matches, models.CommunityMatch{Kind: "url", Value: u, Count: count})
		}
	}

	for _, p := range ExtractPhoneNumbers(message) {
		count, err := s.store.CountByPhone(ctx, p)
		if err != nil {
			s.logger.Warn().Err(err).Str("phone", p).Msg("phone lookup failed")
			continue
		}
		if count > 0 {
			matches = append(matches, models.CommunityMatch{Kind: "phone", Value: p, Count: count})
		}
	}

	return matches
}

// ExtractURLs returns the http(s) URLs in a message
func ExtractURLs(message string) []string {
	return urlPattern.FindAllString(message, -1)
}

// ExtractPhoneNumbers returns local (0XXXXXXXXX) and international
// (+231XXXXXXXXX) Liberian numbers in a message
func ExtractPhoneNumbers(message string) []string {
	return phonePattern.FindAllString(message, -1)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
