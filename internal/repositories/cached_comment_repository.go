package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/pkg/cache"
	"github.com/anonto42/campus-social/backend/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KEYS[1] count, KEYS[2] generation.
var invalidateCount = redis.NewScript(`
redis.call('INCR', KEYS[2])
redis.call('DEL', KEYS[1])
return 1
`)

// KEYS[1] count, KEYS[2] generation; ARGV generation seen before counting,
// count, ttl in milliseconds (0 keeps it forever).
var storeCountIfCurrent = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// CachedCommentRepository serves CountByPostID from Redis. Creating a comment
// bumps the post's generation and drops the cached total; a count read from
// the store is only cached when no comment was created while it was read.
// Redis failures fall through to the wrapped repository.
type CachedCommentRepository struct {
	CommentRepository
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewCachedCommentRepository(inner CommentRepository, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedCommentRepository {
	return &CachedCommentRepository{CommentRepository: inner, client: client, ttl: ttl, log: log}
}

func (r *CachedCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.CommentRepository.CreateComment(ctx, comment); err != nil {
		return err
	}
	postID := comment.PostID.Hex()
	keys := []string{cache.CommentCountKey(postID), cache.CommentGenerationKey(postID)}
	if err := invalidateCount.Run(ctx, r.client, keys).Err(); err != nil {
		r.log.Warn("invalidate comment count", zap.String("key", keys[0]), zap.Error(err))
	}
	return nil
}

func (r *CachedCommentRepository) CountByPostID(ctx context.Context, postID string) (int64, error) {
	key := cache.CommentCountKey(postID)
	genKey := cache.CommentGenerationKey(postID)

	vals, err := r.client.MGet(ctx, key, genKey).Result()
	gen := "0"
	if err != nil {
		r.log.Warn("read comment count", zap.String("key", key), zap.Error(err))
		vals = nil
	} else {
		if s, ok := vals[0].(string); ok {
			if n, perr := strconv.ParseInt(s, 10, 64); perr == nil {
				metrics.CacheLookups.WithLabelValues("comment_count", "hit").Inc()
				return n, nil
			}
		}
		if s, ok := vals[1].(string); ok {
			gen = s
		}
	}
	metrics.CacheLookups.WithLabelValues("comment_count", "miss").Inc()

	n, err := r.CommentRepository.CountByPostID(ctx, postID)
	if err != nil {
		return 0, err
	}
	// Without a generation read there is nothing to guard the write with.
	if vals != nil {
		args := []interface{}{gen, n, r.ttl.Milliseconds()}
		if err := storeCountIfCurrent.Run(ctx, r.client, []string{key, genKey}, args...).Err(); err != nil {
			r.log.Warn("store comment count", zap.String("key", key), zap.Error(err))
		}
	}
	return n, nil
}
