package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/roomflow/Hotel-Booking-System/pkg/logging"
)

type fakeProducer struct {
	msgs []kafka.Message
	err  error
}

func (p *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Parallel()

	t.Run("publishes keyed message with headers", func(t *testing.T) {
		producer := &fakeProducer{}
		d := NewDispatcher(logging.New("test"), producer, "booking.events")

		event := Event{
			ID:          1,
			AggregateID: "42",
			Type:        "BookingConfirmed",
			Payload:     []byte(`{"booking_id":42}`),
			Traceparent: "00-abc-def-01",
		}
		if err := d.Dispatch(context.Background(), event); err != nil {
			t.Fatalf("dispatch: %v", err)
		}

		if len(producer.msgs) != 1 {
			t.Fatalf("messages = %d, want 1", len(producer.msgs))
		}
		msg := producer.msgs[0]
		if msg.Topic != "booking.events" || string(msg.Key) != "42" {
			t.Fatalf("unexpected message %+v", msg)
		}
		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		if headers["event_type"] != "BookingConfirmed" {
			t.Fatalf("event_type header = %q", headers["event_type"])
		}
		if headers["traceparent"] != "00-abc-def-01" {
			t.Fatalf("traceparent header = %q", headers["traceparent"])
		}
	})

	t.Run("omits traceparent header when absent", func(t *testing.T) {
		producer := &fakeProducer{}
		d := NewDispatcher(logging.New("test"), producer, "booking.events")

		if err := d.Dispatch(context.Background(), Event{ID: 2, AggregateID: "7", Type: "BookingCancelled"}); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
		for _, h := range producer.msgs[0].Headers {
			if h.Key == "traceparent" {
				t.Fatal("unexpected traceparent header")
			}
		}
	})

	t.Run("propagates producer errors", func(t *testing.T) {
		wantErr := errors.New("broker down")
		d := NewDispatcher(logging.New("test"), &fakeProducer{err: wantErr}, "booking.events")

		if err := d.Dispatch(context.Background(), Event{ID: 3, AggregateID: "7"}); !errors.Is(err, wantErr) {
			t.Fatalf("expected producer error, got %v", err)
		}
	})
}
