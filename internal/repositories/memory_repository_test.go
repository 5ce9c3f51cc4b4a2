package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryPostRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	first := models.NewPost(&models.CreatePostRequest{Content: "one", Author: "A", AuthorID: "a"})
	second := models.NewPost(&models.CreatePostRequest{Content: "two", Author: "B", AuthorID: "b"})
	require.NoError(t, repo.CreatePost(ctx, first))
	require.NoError(t, repo.CreatePost(ctx, second))

	posts, err := repo.GetAllPosts(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "two", posts[0].Content, "newest first")

	paged, err := repo.GetAllPosts(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "one", paged[0].Content)

	id := first.ID.Hex()
	liked, err := repo.ToggleLike(ctx, id, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, liked.Likes)
	unliked, err := repo.ToggleLike(ctx, id, "u1")
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	for i := 0; i < 2; i++ {
		_, err = repo.IncrementShares(ctx, id)
		require.NoError(t, err)
	}
	got, err := repo.GetPostByID(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Shares)

	_, err = repo.ToggleLike(ctx, primitive.NewObjectID().Hex(), "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.IncrementShares(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestMemoryPostRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	p := models.NewPost(&models.CreatePostRequest{Content: "x", Author: "A", AuthorID: "a"})
	require.NoError(t, repo.CreatePost(ctx, p))

	got, err := repo.GetPostByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	got.Likes = append(got.Likes, "intruder")

	again, err := repo.GetPostByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, again.Likes)
}

func TestMemoryCommentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCommentRepository()
	postID, otherPost := primitive.NewObjectID(), primitive.NewObjectID()

	root := &models.Comment{PostID: postID, Content: "root"}
	require.NoError(t, repo.CreateComment(ctx, root))
	reply := &models.Comment{PostID: postID, Content: "reply"}
	reply.ReplyTo(root)
	require.NoError(t, repo.CreateComment(ctx, reply))
	require.NoError(t, repo.CreateComment(ctx, &models.Comment{PostID: otherPost, Content: "elsewhere"}))

	comments, err := repo.GetCommentsByPostID(ctx, postID.Hex())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "root", comments[0].Content)
	assert.Equal(t, 1, comments[1].Depth)

	n, err := repo.CountByPostID(ctx, postID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	empty, err := repo.GetCommentsByPostID(ctx, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	liked, err := repo.ToggleLike(ctx, reply.ID.Hex(), "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, liked.Likes)

	_, err = repo.GetCommentByID(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	now := time.Now()

	alice := models.NewUser("uid-a", "alice@example.com", "Alice", "", now)
	require.NoError(t, repo.CreateUser(ctx, alice))
	require.NoError(t, repo.CreateUser(ctx, models.NewUser("uid-b", "bob@example.com", "Bob", "", now)))

	err := repo.CreateUser(ctx, models.NewUser("uid-c", "ALICE@example.com", "Al", "", now))
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repo.FindByUIDOrEmail(ctx, "unknown", "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "uid-a", got.UID)

	users, err := repo.GetUsersByUIDs(ctx, []string{"uid-b", "ghost", "uid-a"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "uid-b", users[0].UID)
	assert.Equal(t, "uid-a", users[1].UID)

	got.Bio = "hi"
	require.NoError(t, repo.UpdateUser(ctx, got))
	reread, err := repo.GetUserByUID(ctx, "uid-a")
	require.NoError(t, err)
	assert.Equal(t, "hi", reread.Bio)

	got.Email = "bob@example.com"
	assert.ErrorIs(t, repo.UpdateUser(ctx, got), ErrDuplicate)

	assert.ErrorIs(t, repo.UpdateUser(ctx, &models.User{UID: "ghost"}), ErrNotFound)
	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
