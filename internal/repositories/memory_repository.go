package repositories

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/campus-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The memory repositories back STORE_DRIVER=memory and the handler tests.
// They keep the same ordering and error contracts as the Mongo ones.

// MemoryUserRepository implements UserRepository in process memory
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UID == user.UID || u.Email == user.Email {
			return fmt.Errorf("user %s: %w", user.UID, ErrDuplicate)
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users = append(r.users, cloneUser(user))
	return nil
}

func (r *MemoryUserRepository) GetUserByUID(_ context.Context, uid string) (*models.User, error) {
	return r.find(uid, func(u *models.User) bool { return u.UID == uid })
}

func (r *MemoryUserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	return r.find(email, func(u *models.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) FindByUIDOrEmail(_ context.Context, uid, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	return r.find(uid, func(u *models.User) bool { return u.UID == uid || u.Email == email })
}

func (r *MemoryUserRepository) find(key string, match func(*models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", key, ErrNotFound)
}

func (r *MemoryUserRepository) GetUsersByUIDs(_ context.Context, uids []string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byUID := make(map[string]*models.User, len(uids))
	for _, u := range r.users {
		if slices.Contains(uids, u.UID) {
			byUID[u.UID] = cloneUser(u)
		}
	}
	return orderByUIDs(uids, byUID), nil
}

func (r *MemoryUserRepository) UpdateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.UID != user.UID {
			continue
		}
		for _, other := range r.users {
			if other != u && other.Email == user.Email {
				return fmt.Errorf("user %s: %w", user.UID, ErrDuplicate)
			}
		}
		updated := cloneUser(user)
		updated.ID = u.ID
		r.users[i] = updated
		return nil
	}
	return fmt.Errorf("user %s: %w", user.UID, ErrNotFound)
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Qualifications = slices.Clone(u.Qualifications)
	c.Skills = slices.Clone(u.Skills)
	if u.DateOfBirth != nil {
		dob := *u.DateOfBirth
		c.DateOfBirth = &dob
	}
	return &c
}

// MemoryPostRepository implements PostRepository in process memory
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]*models.Post
	now   func() time.Time
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[primitive.ObjectID]*models.Post), now: time.Now}
}

func (r *MemoryPostRepository) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []string{}
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *MemoryPostRepository) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	objID, err := parseObjectID("post", id)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[objID]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return clonePost(p), nil
}

func (r *MemoryPostRepository) GetAllPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	r.mu.RLock()
	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, *clonePost(p))
	}
	r.mu.RUnlock()

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID.Hex() > posts[j].ID.Hex()
	})
	return page(posts, skip, limit), nil
}

func (r *MemoryPostRepository) ToggleLike(_ context.Context, id, userID string) (*models.Post, error) {
	return r.update(id, func(p *models.Post) {
		p.Likes = models.ToggleLike(p.Likes, userID)
	})
}

func (r *MemoryPostRepository) IncrementShares(_ context.Context, id string) (*models.Post, error) {
	return r.update(id, func(p *models.Post) {
		p.Shares++
	})
}

func (r *MemoryPostRepository) update(id string, mutate func(*models.Post)) (*models.Post, error) {
	objID, err := parseObjectID("post", id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[objID]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	mutate(p)
	p.UpdatedAt = r.now()
	return clonePost(p), nil
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Likes = slices.Clone(p.Likes)
	if c.Likes == nil {
		c.Likes = []string{}
	}
	return &c
}

// MemoryCommentRepository implements CommentRepository in process memory
type MemoryCommentRepository struct {
	mu       sync.RWMutex
	comments map[primitive.ObjectID]*models.Comment
	now      func() time.Time
}

func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{comments: make(map[primitive.ObjectID]*models.Comment), now: time.Now}
}

func (r *MemoryCommentRepository) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.Likes == nil {
		comment.Likes = []string{}
	}
	if comment.Mentions == nil {
		comment.Mentions = []string{}
	}
	r.comments[comment.ID] = cloneComment(comment)
	return nil
}

func (r *MemoryCommentRepository) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	objID, err := parseObjectID("comment", id)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comments[objID]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, ErrNotFound)
	}
	return cloneComment(c), nil
}

func (r *MemoryCommentRepository) GetCommentsByPostID(_ context.Context, postID string) ([]models.Comment, error) {
	objID, err := parseObjectID("post", postID)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	comments := []models.Comment{}
	for _, c := range r.comments {
		if c.PostID == objID {
			comments = append(comments, *cloneComment(c))
		}
	}
	r.mu.RUnlock()

	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID.Hex() < comments[j].ID.Hex()
	})
	return comments, nil
}

func (r *MemoryCommentRepository) CountByPostID(_ context.Context, postID string) (int64, error) {
	objID, err := parseObjectID("post", postID)
	if err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, c := range r.comments {
		if c.PostID == objID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryCommentRepository) ToggleLike(_ context.Context, id, userID string) (*models.Comment, error) {
	objID, err := parseObjectID("comment", id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[objID]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, ErrNotFound)
	}
	c.Likes = models.ToggleLike(c.Likes, userID)
	c.UpdatedAt = r.now()
	return cloneComment(c), nil
}

func cloneComment(c *models.Comment) *models.Comment {
	out := *c
	out.Likes = slices.Clone(c.Likes)
	out.Mentions = slices.Clone(c.Mentions)
	if c.ParentCommentID != nil {
		parent := *c.ParentCommentID
		out.ParentCommentID = &parent
	}
	return &out
}

func page[T any](items []T, skip, limit int64) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(items)) {
		return items[:0]
	}
	items = items[skip:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}
