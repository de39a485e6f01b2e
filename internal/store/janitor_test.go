package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/aksara/internal/model"
)

func TestJanitor_Retention(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	fresh := testReport("fresh")
	fresh.ScannedAt = now.Add(-10 * time.Minute)
	stale := testReport("stale")
	stale.ScannedAt = now.Add(-2 * time.Hour)
	expired := testReport("expired")
	expired.ScannedAt = now.Add(-8 * 24 * time.Hour)

	for _, r := range []*model.Report{fresh, stale, expired} {
		if err := s.Save(ctx, r, r.Subject); err != nil {
			t.Fatal(err)
		}
	}

	j := NewJanitor(s, time.Hour, 7*24*time.Hour, nil)

	purged, err := j.PurgeSegments(ctx)
	if err != nil {
		t.Fatalf("PurgeSegments failed: %v", err)
	}
	if purged != 4 {
		t.Errorf("Expected 4 purged segments, got %d", purged)
	}

	got, err := s.Get(ctx, stale.ID)
	if err != nil {
		t.Fatalf("Expected stale aggregate to survive, got %v", err)
	}
	if len(got.Result.Segments) != 0 {
		t.Errorf("Expected stale segments purged, got %d", len(got.Result.Segments))
	}

	got, err = s.Get(ctx, fresh.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Result.Segments) != 2 {
		t.Errorf("Expected fresh segments kept, got %d", len(got.Result.Segments))
	}

	n, err := j.ExpireHistory(ctx)
	if err != nil {
		t.Fatalf("ExpireHistory failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 expired scan, got %d", n)
	}
	if _, err := s.Get(ctx, expired.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected expired scan gone, got %v", err)
	}

	if err := j.Vacuum(ctx); err != nil {
		t.Errorf("Vacuum failed: %v", err)
	}
}

func TestJanitor_Disabled(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r := testReport("old")
	r.ScannedAt = time.Now().Add(-30 * 24 * time.Hour)
	if err := s.Save(ctx, r, "old"); err != nil {
		t.Fatal(err)
	}

	j := NewJanitor(s, 0, 0, nil)
	if err := j.Sweep(ctx); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if _, err := s.Get(ctx, r.ID); err != nil {
		t.Errorf("Expected scan kept with retention disabled, got %v", err)
	}
}

func TestJanitor_RunStopsOnCancel(t *testing.T) {
	s := openTestStore(t)
	j := NewJanitor(s, time.Hour, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected Run to return after cancel")
	}
}
