package repositories

import (
	"context"

	"github.com/anonto42/campus-social/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByUIDOrEmail returns the first user matching either key.
	FindByUIDOrEmail(ctx context.Context, uid, email string) (*models.User, error)
	// GetUsersByUIDs returns the users found for uids, in the order of uids.
	GetUsersByUIDs(ctx context.Context, uids []string) ([]models.User, error)
	// UpdateUser replaces the stored user with the same uid.
	UpdateUser(ctx context.Context, user *models.User) error
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	// GetAllPosts returns posts newest first. A zero limit means no limit.
	GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	ToggleLike(ctx context.Context, id, userID string) (*models.Post, error)
	IncrementShares(ctx context.Context, id string) (*models.Post, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	// GetCommentsByPostID returns every comment of a post, oldest first.
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	CountByPostID(ctx context.Context, postID string) (int64, error)
	ToggleLike(ctx context.Context, id, userID string) (*models.Comment, error)
}

// SchemaInitializer is implemented by stores that need indexes or tables
// created before first use.
type SchemaInitializer interface {
	InitSchema(ctx context.Context) error
}

// InitSchemas runs InitSchema on every store that supports it.
func InitSchemas(ctx context.Context, stores ...interface{}) error {
	for _, s := range stores {
		if si, ok := s.(SchemaInitializer); ok {
			if err := si.InitSchema(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}
