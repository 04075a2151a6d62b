package services

import (
	"context"
	"fmt"

	"palava-proof/pkg/logger"
)

// FeedbackKind is the user's judgement of a verdict
type FeedbackKind string

const (
	FeedbackAccurate   FeedbackKind = "accurate"
	FeedbackInaccurate FeedbackKind = "inaccurate"
)

const (
	accurateAck   = "🙏 Thank you for your feedback! This helps improve Palava Proof."
	inaccurateAck = "📝 Thank you for letting us know. We'll review this message."
)

// FeedbackCounter records feedback somewhere durable
type FeedbackCounter interface {
	IncrFeedback(ctx context.Context, kind string) (int64, error)
	FeedbackCounts(ctx context.Context) (map[string]int64, error)
}

// FeedbackService acknowledges feedback and counts it when a counter is
// configured
type FeedbackService struct {
	counter FeedbackCounter
	logger  *logger.Logger
}

// NewFeedbackService creates a new FeedbackService. counter may be nil.
func NewFeedbackService(counter FeedbackCounter, log *logger.Logger) *FeedbackService {
	return &FeedbackService{
		counter: counter,
		logger:  log.WithComponent("feedback"),
	}
}

// MarkAccurate records that a verdict was right and returns the
// acknowledgement to show
func (s *FeedbackService) MarkAccurate(ctx context.Context) string {
	s.record(ctx, FeedbackAccurate)
	return accurateAck
}

// MarkInaccurate records that a verdict needs review and returns the
// acknowledgement to show
func (s *FeedbackService) MarkInaccurate(ctx context.Context) string {
	s.record(ctx, FeedbackInaccurate)
	return inaccurateAck
}

func (s *FeedbackService) record(ctx context.Context, kind FeedbackKind) {
	if s.counter == nil {
		return
	}
	total, err := s.counter.IncrFeedback(ctx, string(kind))
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("failed to record feedback")
		return
	}
	s.logger.Debug().Str("kind", string(kind)).Int64("total", total).Msg("feedback recorded")
}

// Stats returns the recorded totals per feedback kind. Both kinds are
// always present; without a counter they are zero.
func (s *FeedbackService) Stats(ctx context.Context) (map[string]int64, error) {
	stats := map[string]int64{
		string(FeedbackAccurate):   0,
		string(FeedbackInaccurate): 0,
	}
	if s.counter == nil {
		return stats, nil
	}
	counts, err := s.counter.FeedbackCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback counts: %w", err)
	}
	for kind, n := range counts {
		stats[kind] = n
	}
	return stats, nil
}
