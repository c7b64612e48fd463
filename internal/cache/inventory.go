package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix   = "post:%d"
	FeedKeyPrefix   = "feed:%s"
	StatsKey        = "admin:stats"
	CommentsPrefix  = "post:%d:comments"
	BlacklistSetKey = "blacklist:phones"
)

const (
	PostTTL      = 10 * time.Minute
	FeedTTL      = 1 * time.Minute
	CommentsTTL  = 2 * time.Minute
	StatsTTL     = 30 * time.Second
	BlacklistTTL = 5 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// FeedKey builds the cache key for an unfiltered category page. Filtered
// queries (search or region) bypass the cache entirely.
func FeedKey(category string) string {
	return fmt.Sprintf(FeedKeyPrefix, category)
}

func CommentsKey(postID uint) string {
	return fmt.Sprintf(CommentsPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, CommentsKey(postID))
}

func InvalidateFeed(ctx context.Context, category string) {
	Invalidate(ctx, FeedKey(category))
	Invalidate(ctx, StatsKey)
}

func InvalidateBlacklist(ctx context.Context) {
	Invalidate(ctx, BlacklistSetKey)
}
