package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SchemaVersion is stamped on every post and comment written by this service.
const SchemaVersion = 1

// Post represents a social media post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Content       string             `json:"content" bson:"content"`
	Author        string             `json:"author" bson:"author"`     // display name at the time of posting
	AuthorID      string             `json:"authorId" bson:"authorId"` // uid of the user who created the post
	PhotoURL      string             `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Likes         []string           `json:"likes" bson:"likes"`
	Shares        int64              `json:"shares" bson:"shares"`
	SchemaVersion int                `json:"schemaVersion" bson:"schemaVersion"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=5000"`
	Author   string `json:"author" validate:"required,max=50"`
	AuthorID string `json:"authorId" validate:"required"`
	PhotoURL string `json:"photoURL,omitempty" validate:"omitempty,url"`
}

// NewPost builds a post from a validated request.
func NewPost(req *CreatePostRequest) *Post {
	return &Post{
		Content:       req.Content,
		Author:        req.Author,
		AuthorID:      req.AuthorID,
		PhotoURL:      req.PhotoURL,
		Likes:         []string{},
		SchemaVersion: SchemaVersion,
	}
}

// LikeRequest is the body of both like-toggle endpoints.
type LikeRequest struct {
	UserID string `json:"userId" validate:"required"`
}
