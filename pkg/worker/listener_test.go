package worker

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/reservation-admin/pkg/messaging"
	"github.com/jwalitptl/reservation-admin/pkg/metrics"
)

type chanSubscriber struct {
	ch  chan []byte
	err error
}

func (s *chanSubscriber) Subscribe(context.Context, string) (<-chan []byte, error) {
	return s.ch, s.err
}

func TestEventListener_Dispatch(t *testing.T) {
	sub := &chanSubscriber{ch: make(chan []byte, 4)}
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	var logs bytes.Buffer

	l := NewEventListener(sub, "reservations", m, zerolog.Nop())
	l.Handle(messaging.EventReservationDeleted, LogDeletion(zerolog.New(&logs)))
	l.Handle("reservation.failing", func(context.Context, Event) error { return errors.New("nope") })

	sub.ch <- []byte(`{"type":"reservation.deleted","payload":{"id":"42","name":"Ana","date":"2026-10-17","time":"10:00"}}`)
	sub.ch <- []byte(`{"type":"reservation.created","payload":{}}`)
	sub.ch <- []byte(`not json`)
	sub.ch <- []byte(`{"type":"reservation.failing","payload":{}}`)
	close(sub.ch)

	done := make(chan error, 1)
	go func() { done <- l.Start(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after the subscription closed")
	}

	assert.Contains(t, logs.String(), `"reservation_id":"42"`)
	assert.Contains(t, logs.String(), `"message":"booking deleted"`)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsConsumed.WithLabelValues(messaging.EventReservationDeleted, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsConsumed.WithLabelValues("reservation.created", "ignored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsConsumed.WithLabelValues("invalid", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsConsumed.WithLabelValues("reservation.failing", "error")))
}

func TestEventListener_StopsOnCancel(t *testing.T) {
	sub := &chanSubscriber{ch: make(chan []byte)}
	l := NewEventListener(sub, "reservations", metrics.NewMetrics("test", prometheus.NewRegistry()), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop on cancel")
	}
}

func TestEventListener_SubscribeError(t *testing.T) {
	sub := &chanSubscriber{err: errors.New("redis down")}
	l := NewEventListener(sub, "reservations", metrics.NewMetrics("test", prometheus.NewRegistry()), zerolog.Nop())

	err := l.Start(context.Background())
	assert.ErrorContains(t, err, "redis down")
}
