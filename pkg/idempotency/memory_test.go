package idempotency

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	ok, err := s.IsProcessed(ctx, "req-1")
	if err != nil || ok {
		t.Fatalf("fresh key: ok=%v err=%v", ok, err)
	}

	if err := s.MarkProcessed(ctx, "req-1"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	ok, err = s.IsProcessed(ctx, "req-1")
	if err != nil || !ok {
		t.Fatalf("marked key: ok=%v err=%v", ok, err)
	}

	// Other keys are unaffected.
	if ok, _ := s.IsProcessed(ctx, "req-1-increment"); ok {
		t.Fatal("derived key must not inherit the marker")
	}

	if err := s.RemoveProcessed(ctx, "req-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if ok, _ := s.IsProcessed(ctx, "req-1"); ok {
		t.Fatal("removed key must read as unprocessed")
	}
}

func TestOffsetKey(t *testing.T) {
	t.Parallel()

	if got := OffsetKey("booking.events", 2, 41); got != "booking.events:2:41" {
		t.Fatalf("OffsetKey = %q", got)
	}
}
