package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) *RedisDistanceCache {
	t.Helper()

	srv := miniredis.RunT(t)

	c, err := NewRedisDistanceCache(srv.Addr(), "", 0, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	origin := "125.611700,7.085400"
	put := map[string]float64{
		"125.620000,7.070000": 1523.4,
		"125.630000,7.090000": 2890,
	}

	if err := c.PutMany(ctx, origin, put); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.GetMany(ctx, origin, []string{
		"125.620000,7.070000",
		"125.630000,7.090000",
		"125.999000,7.000000", // never stored
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
	if got["125.620000,7.070000"] != 1523.4 {
		t.Fatalf("wrong meters for first destination: %v", got["125.620000,7.070000"])
	}
	if got["125.630000,7.090000"] != 2890 {
		t.Fatalf("wrong meters for second destination: %v", got["125.630000,7.090000"])
	}
}

func TestRedisDistanceCacheMissIsNotError(t *testing.T) {
	c := newTestCache(t)

	got, err := c.GetMany(context.Background(), "125.611700,7.085400", []string{"125.620000,7.070000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no hits, got %v", got)
	}
}

func TestRedisDistanceCacheEmptyOrigin(t *testing.T) {
	c := newTestCache(t)

	if _, err := c.GetMany(context.Background(), "", []string{"x"}); err == nil {
		t.Fatal("expected error for empty origin")
	}
	if err := c.PutMany(context.Background(), "", map[string]float64{"x": 1}); err == nil {
		t.Fatal("expected error for empty origin")
	}
}
