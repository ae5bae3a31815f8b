// Package hotelclient is the HTTP adapter for the hotel service's internal
// room endpoints. Retrying is the caller's concern; each method performs
// exactly one request.
package hotelclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const requestIDHeader = "X-Request-Id"

type Client struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

func New(log *slog.Logger, baseURL string) *Client {
	return &Client{
		log:     log,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		tracer: otel.Tracer("hotel-client"),
	}
}

func (c *Client) ConfirmAvailability(ctx context.Context, roomID int64, requestID string) (bool, error) {
	body, err := c.post(ctx, fmt.Sprintf("/api/rooms/%d/confirm-availability", roomID), requestID)
	if err != nil {
		return false, err
	}
	var confirmed bool
	if err := json.Unmarshal(body, &confirmed); err != nil {
		return false, fmt.Errorf("decode confirm response: %w", err)
	}
	return confirmed, nil
}

func (c *Client) ReleaseSlot(ctx context.Context, roomID int64, requestID string) error {
	_, err := c.post(ctx, fmt.Sprintf("/api/rooms/%d/release", roomID), requestID)
	return err
}

func (c *Client) IncrementTimesBooked(ctx context.Context, roomID int64, requestID string) error {
	_, err := c.post(ctx, fmt.Sprintf("/api/rooms/%d/increment-bookings", roomID), requestID)
	return err
}

func (c *Client) post(ctx context.Context, path, requestID string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "hotel"+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("http.url", c.baseURL+path),
		attribute.String("request.id", requestID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	req.Header.Set(requestIDHeader, requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("hotel service returned %s: %s", resp.Status, body)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return body, nil
}
