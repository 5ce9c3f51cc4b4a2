package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// countingCommentRepository records how often the backing count is read.
// afterCount, when set, runs once between reading the count and returning it.
type countingCommentRepository struct {
	CommentRepository
	counts     int
	afterCount func()
}

func (r *countingCommentRepository) CountByPostID(ctx context.Context, postID string) (int64, error) {
	r.counts++
	n, err := r.CommentRepository.CountByPostID(ctx, postID)
	if hook := r.afterCount; hook != nil {
		r.afterCount = nil
		hook()
	}
	return n, err
}

func newCachedFixture(t *testing.T) (*CachedCommentRepository, *countingCommentRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingCommentRepository{CommentRepository: NewMemoryCommentRepository()}
	return NewCachedCommentRepository(inner, client, time.Minute, zap.NewNop()), inner, mr
}

func TestCachedCommentCount(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedFixture(t)
	postID := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.CreateComment(ctx, &models.Comment{PostID: postID, Content: "c"}))
	}

	n, err := repo.CountByPostID(ctx, postID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 1, inner.counts)

	n, err = repo.CountByPostID(ctx, postID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 1, inner.counts, "second read should be served from redis")

	cached, err := mr.Get(cache.CommentCountKey(postID.Hex()))
	require.NoError(t, err)
	assert.Equal(t, "2", cached)
	assert.Equal(t, time.Minute, mr.TTL(cache.CommentCountKey(postID.Hex())))

	require.NoError(t, repo.CreateComment(ctx, &models.Comment{PostID: postID, Content: "c"}))
	assert.False(t, mr.Exists(cache.CommentCountKey(postID.Hex())), "create must invalidate")

	n, err = repo.CountByPostID(ctx, postID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, 2, inner.counts)
}

func TestCachedCommentCountRedisDown(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedFixture(t)
	postID := primitive.NewObjectID()
	require.NoError(t, repo.CreateComment(ctx, &models.Comment{PostID: postID, Content: "c"}))

	mr.Close()

	n, err := repo.CountByPostID(ctx, postID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, inner.counts)
}

func TestCachedCommentCountInvalidID(t *testing.T) {
	repo, _, _ := newCachedFixture(t)
	_, err := repo.CountByPostID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestCachedCommentCountIgnoresCountRacingCreate(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCachedFixture(t)
	postID := primitive.NewObjectID()
	inner.afterCount = func() {
		require.NoError(t, repo.CreateComment(ctx, &models.Comment{PostID: postID, Content: "late"}))
	}

	n, err := repo.CountByPostID(ctx, postID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n, "the read saw the store before the create")
	assert.False(t, mr.Exists(cache.CommentCountKey(postID.Hex())), "a count older than the last create is not cached")

	n, err = repo.CountByPostID(ctx, postID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 2, inner.counts)

	n, err = repo.CountByPostID(ctx, postID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 2, inner.counts, "an uncontended count is cached")
}

func TestCachedCommentCreateBumpsGeneration(t *testing.T) {
	ctx := context.Background()
	repo, _, mr := newCachedFixture(t)
	postID := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.CreateComment(ctx, &models.Comment{PostID: postID, Content: "c"}))
	}
	gen, err := mr.Get(cache.CommentGenerationKey(postID.Hex()))
	require.NoError(t, err)
	assert.Equal(t, "2", gen)
}
