// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gwngames/persister/internal/platform/constants"
)

// DedupCache is a best-effort msg_id seen-set backed by Redis. It only
// reduces duplicate work: the upserts are idempotent, so the cache fails
// open — any Redis error means "not seen" and the envelope is processed.
type DedupCache struct {
	client *redis.Client
	window time.Duration
	logger *slog.Logger
}

// NewDedupCache wraps a Redis client into a dedup cache. A nil client
// disables deduplication entirely.
func NewDedupCache(client *redis.Client, logger *slog.Logger) *DedupCache {
	if client == nil {
		return nil
	}
	return &DedupCache{
		client: client,
		window: constants.MsgIDDedupWindow,
		logger: logger,
	}
}

// Seen marks msgID as processed and reports whether it had already been
// marked within the dedup window.
func (cache *DedupCache) Seen(ctx context.Context, msgID string) bool {
	if cache == nil {
		return false
	}

	fresh, err := cache.client.SetNX(ctx, constants.RedisPrefixMsgID+msgID, 1, cache.window).Result()
	if err != nil {
		cache.logger.Warn("dedup_cache_unavailable",
			slog.String("msg_id", msgID),
			slog.Any("error", err),
		)
		return false
	}

	return !fresh
}

// Forget drops the seen marker for msgID, so a message that failed
// processing can be replayed by the scraper.
func (cache *DedupCache) Forget(ctx context.Context, msgID string) {
	if cache == nil {
		return
	}
	if err := cache.client.Del(ctx, constants.RedisPrefixMsgID+msgID).Err(); err != nil {
		cache.logger.Warn("dedup_cache_forget_failed",
			slog.String("msg_id", msgID),
			slog.Any("error", err),
		)
	}
}
