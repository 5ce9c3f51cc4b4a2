// Package cache provides Redis helpers for the read-heavy counters.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/campus-social/backend/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	CommentCountKeyPrefix      = "post:%s:comment-count"
	CommentGenerationKeyPrefix = "post:%s:comment-gen"
)

// CommentCountKey is the key holding the cached comment total of a post.
func CommentCountKey(postID string) string {
	return fmt.Sprintf(CommentCountKeyPrefix, postID)
}

// CommentGenerationKey is bumped on every new comment of a post. A count
// read from the store is only cached if the generation did not move.
func CommentGenerationKey(postID string) string {
	return fmt.Sprintf(CommentGenerationKeyPrefix, postID)
}

type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			metrics.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			metrics.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// NewRedis connects to addr, which is either a redis:// URL or host:port,
// and pings it once.
func NewRedis(ctx context.Context, addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
