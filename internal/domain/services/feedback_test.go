package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palava-proof/pkg/logger"
)

type memoryCounter struct {
	counts map[string]int64
	err    error
}

func (c *memoryCounter) IncrFeedback(_ context.Context, kind string) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.counts == nil {
		c.counts = make(map[string]int64)
	}
	c.counts[kind]++
	return c.counts[kind], nil
}

func (c *memoryCounter) FeedbackCounts(context.Context) (map[string]int64, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.counts, nil
}

func TestFeedbackAcknowledgements(t *testing.T) {
	counter := &memoryCounter{}
	svc := NewFeedbackService(counter, logger.NewNop())
	ctx := context.Background()

	assert.Equal(t, "🙏 Thank you for your feedback! This helps improve Palava Proof.", svc.MarkAccurate(ctx))
	assert.Equal(t, "📝 Thank you for letting us know. We'll review this message.", svc.MarkInaccurate(ctx))
	svc.MarkAccurate(ctx)

	assert.Equal(t, int64(2), counter.counts["accurate"])
	assert.Equal(t, int64(1), counter.counts["inaccurate"])
}

func TestFeedbackCounterFailureIsSwallowed(t *testing.T) {
	svc := NewFeedbackService(&memoryCounter{err: errors.New("redis down")}, logger.NewNop())
	assert.NotEmpty(t, svc.MarkAccurate(context.Background()))
}

func TestFeedbackWithoutCounter(t *testing.T) {
	svc := NewFeedbackService(nil, logger.NewNop())
	assert.NotEmpty(t, svc.MarkInaccurate(context.Background()))
}

func TestFeedbackStats(t *testing.T) {
	ctx := context.Background()

	counter := &memoryCounter{}
	svc := NewFeedbackService(counter, logger.NewNop())
	svc.MarkInaccurate(ctx)
	svc.MarkInaccurate(ctx)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"accurate": 0, "inaccurate": 2}, stats)

	stats, err = NewFeedbackService(nil, logger.NewNop()).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"accurate": 0, "inaccurate": 0}, stats)

	_, err = NewFeedbackService(&memoryCounter{err: errors.New("redis down")}, logger.NewNop()).Stats(ctx)
	assert.Error(t, err)
}
