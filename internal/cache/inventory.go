package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	StatsKeyPrefix = "stats:%d"
	StyleKeyPrefix = "style:%d"
)

const (
	// StatsTTL is short because stats change on every publish attempt.
	StatsTTL = time.Minute
	StyleTTL = 5 * time.Minute
)

func StatsKey(userID uint) string {
	return fmt.Sprintf(StatsKeyPrefix, userID)
}

func StyleKey(userID uint) string {
	return fmt.Sprintf(StyleKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateStats(ctx context.Context, userID uint) {
	Invalidate(ctx, StatsKey(userID))
}

func InvalidateStyle(ctx context.Context, userID uint) {
	Invalidate(ctx, StyleKey(userID))
}
