package streaming

import (
	"context"

	"palava-proof/internal/domain/models"
)

// EventBusPublisher implements services.EventPublisher using the EventBus
type EventBusPublisher struct {
	eventBus *EventBus
}

// NewEventBusPublisher creates a new publisher adapter
func NewEventBusPublisher(eventBus *EventBus) *EventBusPublisher {
	return &EventBusPublisher{eventBus: eventBus}
}

// PublishReportSubmitted announces a stored report
func (p *EventBusPublisher) PublishReportSubmitted(ctx context.Context, r *models.Report, duplicate bool) error {
	return p.eventBus.Publish(ctx, NewReportEvent(r, duplicate))
}

// PublishPalavaDetected announces a dangerous message
func (p *EventBusPublisher) PublishPalavaDetected(ctx context.Context, v models.Verdict, preview string) error {
	return p.eventBus.Publish(ctx, NewDetectionEvent(v, preview))
}
