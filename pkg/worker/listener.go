package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/reservation-admin/pkg/messaging"
	"github.com/jwalitptl/reservation-admin/pkg/metrics"
)

// Subscriber streams raw message payloads from a channel.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// HandlerFunc handles one decoded event.
type HandlerFunc func(ctx context.Context, msg Event) error

// Event is a reservation event as received from the broker.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EventListener consumes reservation events and dispatches them by type.
// Unknown event types are counted and skipped.
type EventListener struct {
	subscriber Subscriber
	channel    string
	handlers   map[string]HandlerFunc
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

func NewEventListener(subscriber Subscriber, channel string, m *metrics.Metrics, logger zerolog.Logger) *EventListener {
	return &EventListener{
		subscriber: subscriber,
		channel:    channel,
		handlers:   make(map[string]HandlerFunc),
		metrics:    m,
		logger:     logger.With().Str("component", "event-listener").Str("channel", channel).Logger(),
	}
}

// Handle registers fn for events of eventType.
func (l *EventListener) Handle(eventType string, fn HandlerFunc) {
	l.handlers[eventType] = fn
}

// Start blocks until ctx is done or the subscription closes.
func (l *EventListener) Start(ctx context.Context) error {
	messages, err := l.subscriber.Subscribe(ctx, l.channel)
	if err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}

	l.logger.Info().Msg("Worker started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info().Msg("Worker shutting down")
			return nil
		case payload, ok := <-messages:
			if !ok {
				l.logger.Info().Msg("subscription closed")
				return nil
			}
			l.process(ctx, payload)
		}
	}
}

func (l *EventListener) process(ctx context.Context, payload []byte) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		l.metrics.EventsConsumed.WithLabelValues("invalid", "error").Inc()
		l.logger.Warn().Err(err).Msg("dropping malformed event")
		return
	}

	fn, ok := l.handlers[evt.Type]
	if !ok {
		l.metrics.EventsConsumed.WithLabelValues(evt.Type, "ignored").Inc()
		l.logger.Debug().Str("event_type", evt.Type).Msg("no handler for event")
		return
	}

	if err := fn(ctx, evt); err != nil {
		l.metrics.EventsConsumed.WithLabelValues(evt.Type, "error").Inc()
		l.logger.Error().Err(err).Str("event_type", evt.Type).Msg("Error processing event")
		return
	}
	l.metrics.EventsConsumed.WithLabelValues(evt.Type, "ok").Inc()
}

// LogDeletion writes an audit log line for a reservation.deleted event.
func LogDeletion(logger zerolog.Logger) HandlerFunc {
	return func(_ context.Context, evt Event) error {
		var r struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Date    string `json:"date"`
			Time    string `json:"time"`
			Service string `json:"service"`
		}
		if err := json.Unmarshal(evt.Payload, &r); err != nil {
			return fmt.Errorf("decode %s payload: %w", messaging.EventReservationDeleted, err)
		}
		logger.Info().
			Str("reservation_id", r.ID).
			Str("name", r.Name).
			Str("date", r.Date).
			Str("time", r.Time).
			Str("service", r.Service).
			Msg("booking deleted")
		return nil
	}
}
