package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/roomflow/Hotel-Booking-System/internal/booking/domain"
	"github.com/roomflow/Hotel-Booking-System/pkg/idempotency"
	"github.com/roomflow/Hotel-Booking-System/pkg/tracing"
)

// Reader is the subset of kafka.Reader the worker needs.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Deduper recognizes messages that were already handled, keyed by
// topic/partition/offset.
type Deduper interface {
	Seen(ctx context.Context, key string) (bool, error)
}

// Worker consumes booking events and turns them into user notifications.
// The Kafka delivery guarantee is at-least-once, so every message is checked
// against the dedup store before it is handled.
type Worker struct {
	log      *slog.Logger
	reader   Reader
	dedup    Deduper
	notifier Notifier
	tracer   trace.Tracer
}

func New(log *slog.Logger, reader Reader, dedup Deduper, notifier Notifier) *Worker {
	return &Worker{
		log:      log,
		reader:   reader,
		dedup:    dedup,
		notifier: notifier,
		tracer:   otel.Tracer("notification-worker"),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("notification worker started")
	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		if err := w.handle(ctx, msg); err != nil {
			// Leave the message uncommitted so it is redelivered.
			w.log.Error("message handling failed", "topic", msg.Topic, "offset", msg.Offset, "err", err)
			continue
		}
		if err := w.reader.CommitMessages(ctx, msg); err != nil {
			w.log.Error("commit failed", "topic", msg.Topic, "offset", msg.Offset, "err", err)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg kafka.Message) error {
	key := idempotency.OffsetKey(msg.Topic, msg.Partition, msg.Offset)
	seen, err := w.dedup.Seen(ctx, key)
	if err != nil {
		return fmt.Errorf("dedup check: %w", err)
	}
	if seen {
		w.log.Info("duplicate delivery skipped", "topic", msg.Topic, "offset", msg.Offset)
		return nil
	}

	ctx = tracing.ExtractKafkaHeaders(ctx, msg.Headers)
	ctx, span := w.tracer.Start(ctx, "HandleBookingEvent")
	defer span.End()

	switch eventType(msg) {
	case domain.EventBookingConfirmed:
		var ev domain.BookingConfirmed
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", domain.EventBookingConfirmed, err)
		}
		return w.notifier.Notify(ctx, ev.UserID, "Booking confirmed",
			fmt.Sprintf("Your booking %d for room %d is confirmed.", ev.BookingID, ev.RoomID))
	case domain.EventBookingCancelled:
		var ev domain.BookingCancelled
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", domain.EventBookingCancelled, err)
		}
		return w.notifier.Notify(ctx, ev.UserID, "Booking cancelled",
			fmt.Sprintf("Your booking %d for room %d was cancelled: %s.", ev.BookingID, ev.RoomID, ev.Reason))
	default:
		w.log.Warn("unknown event type, skipping", "type", eventType(msg), "offset", msg.Offset)
		return nil
	}
}

func eventType(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
