package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palava-proof/internal/domain/models"
	"palava-proof/pkg/logger"
)

func TestCheckEmpty(t *testing.T) {
	svc := NewCheckService(nil, nil, logger.NewNop())
	_, err := svc.Check(context.Background(), " \t")
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestCheckPublishesOnlyDanger(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewCheckService(nil, pub, logger.NewNop())
	ctx := context.Background()

	res, err := svc.Check(ctx, "verify account prize")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspicious, res.Verdict.Status)
	assert.Empty(t, pub.detections)

	res, err = svc.Check(ctx, "lucky winner, click today")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDanger, res.Verdict.Status)
	require.Len(t, pub.detections, 1)
	assert.Equal(t, 60, pub.detections[0].Confidence)
}

func TestCheckAddsCommunityReports(t *testing.T) {
	store := &memoryStore{reports: []models.Report{
		{ID: 1, Content: "x", PhoneNumber: "0770123456", TimesReported: 1},
	}}
	reports := NewReportService(store, nil, nil, logger.NewNop())
	svc := NewCheckService(reports, nil, logger.NewNop())

	msg := "call 0770123456"
	res, err := svc.Check(context.Background(), msg)
	require.NoError(t, err)

	// community data never changes the verdict
	assert.Equal(t, Classify(msg), res.Verdict)
	require.Len(t, res.CommunityReports, 1)
	assert.Equal(t, "phone", res.CommunityReports[0].Kind)
	assert.Equal(t, msg, res.Display.Preview)
}

func TestCheckWithoutReportsHasEmptyCommunityList(t *testing.T) {
	svc := NewCheckService(nil, nil, logger.NewNop())
	res, err := svc.Check(context.Background(), "hello")
	require.NoError(t, err)
	require.NotNil(t, res.CommunityReports)
	assert.Empty(t, res.CommunityReports)
}
