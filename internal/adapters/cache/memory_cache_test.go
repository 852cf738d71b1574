package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	t.Cleanup(c.Stop)
	return c
}

func entry(key string, ttl time.Duration) *core.AnalysisCacheEntry {
	now := time.Now()
	return &core.AnalysisCacheEntry{
		Key:       key,
		Analysis:  "analysis for " + key,
		ModelUsed: "gpt-4o-mini",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	want := entry("k1", time.Hour)
	if err := c.Set(ctx, want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Analysis != want.Analysis || got.ModelUsed != want.ModelUsed {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, entry("stale", -time.Minute)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	_, err := c.Get(ctx, "stale")
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("Get() error = %v, want ErrExpired", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, entry("k1", time.Hour)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := c.Get(ctx, "k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryCacheCleanup(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, entry("stale", -time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, entry("fresh", time.Hour)); err != nil {
		t.Fatal(err)
	}

	if err := c.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	if _, err := c.Get(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired entry survived cleanup, Get() error = %v", err)
	}
	if _, err := c.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh entry removed by cleanup, Get() error = %v", err)
	}
}
