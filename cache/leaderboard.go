package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/redis/go-redis/v9"
)

// LeaderboardCache хранит снимок таблицы результатов в redis.
// Кеш строго производный: источник истины — participants.score в Postgres,
// любая ошибка redis приводит к чтению из базы, а не к отказу запроса.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *LeaderboardCache) Get(ctx context.Context, contestID *int) ([]*models.LeaderboardEntry, bool) {
	raw, err := c.client.Get(ctx, c.key(contestID)).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []*models.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, contestID *int, entries []*models.LeaderboardEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	// best-effort: результат записи не проверяется выше по стеку
	_ = c.client.Set(ctx, c.key(contestID), raw, c.ttl).Err()
}

func (c *LeaderboardCache) Invalidate(ctx context.Context, contestID *int) {
	_ = c.client.Del(ctx, c.key(contestID)).Err()
}

func (c *LeaderboardCache) key(contestID *int) string {
	if contestID == nil {
		return "leaderboard:global"
	}
	return fmt.Sprintf("leaderboard:%d", *contestID)
}
