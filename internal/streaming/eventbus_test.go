package streaming

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palava-proof/internal/domain/models"
	"palava-proof/internal/domain/services"
	"palava-proof/pkg/logger"
)

var _ services.EventPublisher = (*EventBusPublisher)(nil)

func TestEventBusDeliversMatchingEvents(t *testing.T) {
	bus := NewEventBus(nil, logger.NewNop())
	defer bus.Close()

	all, unsubAll := bus.Subscribe(nil)
	defer unsubAll()
	detections, unsubDetections := bus.Subscribe(&Subscription{Types: []EventType{EventTypePalavaDetected}})
	defer unsubDetections()

	pub := NewEventBusPublisher(bus)
	ctx := context.Background()

	require.NoError(t, pub.PublishReportSubmitted(ctx, &models.Report{ID: 7, Type: "sms", TimesReported: 1}, false))
	verdict := services.Classify("URGENT!!! You won a prize, click here")
	require.NoError(t, pub.PublishPalavaDetected(ctx, verdict, "URGENT!!!"))

	first := <-all
	assert.Equal(t, EventTypeReportSubmitted, first.Type)
	assert.Equal(t, int64(7), first.ReportID)
	assert.Equal(t, "palava.report_submitted.sms", first.Subject())

	second := <-all
	assert.Equal(t, EventTypePalavaDetected, second.Type)

	got := <-detections
	assert.Equal(t, EventTypePalavaDetected, got.Type)
	assert.Equal(t, models.StatusDanger, got.Status)
	assert.Equal(t, "palava.palava_detected.danger", got.Subject())
	assert.Contains(t, got.Categories, models.CategoryUrgency)
	assert.NotEmpty(t, got.ID)
	assert.Empty(t, detections)
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus(nil, logger.NewNop())

	ch, unsubscribe := bus.Subscribe(nil)
	assert.Equal(t, 1, bus.SubscriberCount())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, bus.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)
}

func TestEventBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewEventBus(nil, logger.NewNop())
	defer bus.Close()

	ch, _ := bus.Subscribe(nil)
	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, bus.Publish(context.Background(), &Event{Type: EventTypeReportSubmitted}))
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestSubscriptionMatches(t *testing.T) {
	detection := &Event{Type: EventTypePalavaDetected, Confidence: 70}
	duplicate := &Event{Type: EventTypeReportSubmitted, Duplicate: true}

	var none *Subscription
	assert.True(t, none.Matches(duplicate))

	assert.False(t, (&Subscription{MinConfidence: 80}).Matches(detection))
	assert.True(t, (&Subscription{MinConfidence: 60}).Matches(detection))
	assert.False(t, (&Subscription{}).Matches(duplicate))
	assert.True(t, (&Subscription{IncludeDuplicates: true}).Matches(duplicate))
	assert.False(t, (&Subscription{Types: []EventType{EventTypeReportSubmitted}}).Matches(detection))
}

func TestSubjectKeepsReportTypeToOneLevel(t *testing.T) {
	tests := []struct {
		reportType string
		want       string
	}{
		{"whatsapp", "palava.report_submitted.whatsapp"},
		{"SMS", "palava.report_submitted.sms"},
		{"voice-call_2", "palava.report_submitted.voice-call_2"},
		{"sms.x", "palava.report_submitted.unknown"},
		{"a b", "palava.report_submitted.unknown"},
		{">", "palava.report_submitted.unknown"},
		{"*", "palava.report_submitted.unknown"},
		{"", "palava.report_submitted.unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.reportType, func(t *testing.T) {
			e := &Event{Type: EventTypeReportSubmitted, ReportType: tt.reportType}
			assert.Equal(t, tt.want, e.Subject())
		})
	}
}
