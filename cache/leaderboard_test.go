package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*LeaderboardCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewLeaderboardCache(client, time.Minute), mr
}

func sampleEntries() []*models.LeaderboardEntry {
	return []*models.LeaderboardEntry{
		{ParticipantID: 1, FullName: "First", Score: 90},
		{ParticipantID: 2, FullName: "Second", Score: 70},
	}
}

func TestLeaderboardCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok := c.Get(ctx, nil); ok {
		t.Fatal("expected cache miss on empty cache")
	}

	c.Set(ctx, nil, sampleEntries())

	entries, ok := c.Get(ctx, nil)
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if len(entries) != 2 || entries[0].Score != 90 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestLeaderboardCacheKeysPerContest(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	contestID := 5

	c.Set(ctx, &contestID, sampleEntries())

	if _, ok := c.Get(ctx, nil); ok {
		t.Fatal("global key must be independent of contest key")
	}
	if _, ok := c.Get(ctx, &contestID); !ok {
		t.Fatal("expected hit for contest key")
	}
}

func TestLeaderboardCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, nil, sampleEntries())
	c.Invalidate(ctx, nil)

	if _, ok := c.Get(ctx, nil); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestLeaderboardCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, nil, sampleEntries())
	mr.FastForward(2 * time.Minute)

	if _, ok := c.Get(ctx, nil); ok {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestLeaderboardCacheSurvivesRedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	// Все операции best-effort: падение redis не должно паниковать.
	c.Set(ctx, nil, sampleEntries())
	c.Invalidate(ctx, nil)
	if _, ok := c.Get(ctx, nil); ok {
		t.Fatal("expected miss when redis is down")
	}
}
