package events

import (
	"context"

	"github.com/opentracing/opentracing-go"

	"github.com/customeros/mailharvest/dto"
	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/logger"
	"github.com/customeros/mailharvest/internal/tracing"
)

type eventsService struct {
	publisher *RabbitMQPublisher
	log       logger.Logger
}

// NewEventsService returns a progress observer backed by RabbitMQ. When
// rabbitmqURL is empty the service is a no-op.
func NewEventsService(rabbitmqURL string, log logger.Logger) interfaces.EventsService {
	service := &eventsService{
		log: log,
	}

	if rabbitmqURL == "" {
		return service
	}

	publisher, err := NewRabbitMQPublisher(rabbitmqURL, log, nil)
	if err != nil {
		log.Errorf("Failed to connect events publisher, progress events disabled: %v", err)
		return service
	}
	service.publisher = publisher

	return service
}

func (s *eventsService) Notify(ctx context.Context, event dto.ProgressEvent) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishEvent(ctx, RoutingKeyProgress, event)
	if err != nil {
		s.log.Errorf("Failed to publish progress event: %v", err)
	}
}

func (s *eventsService) PublishRunCompleted(ctx context.Context, event dto.RunCompletedEvent) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "EventsService.PublishRunCompleted")
	defer span.Finish()
	tracing.TagRun(span, event.RunID)

	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishEvent(ctx, RoutingKeyRunCompleted, event)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Failed to publish run completed event: %v", err)
	}
}

func (s *eventsService) Close() error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Close()
}
