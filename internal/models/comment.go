package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post. A nil ParentCommentID marks a root comment.
type Comment struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Content         string              `json:"content" bson:"content"`
	Author          string              `json:"author" bson:"author"`
	AuthorID        string              `json:"authorId" bson:"authorId"`
	PhotoURL        string              `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	PostID          primitive.ObjectID  `json:"postId" bson:"postId"`
	ParentCommentID *primitive.ObjectID `json:"parentCommentId" bson:"parentCommentId"`
	Depth           int                 `json:"depth" bson:"depth"`
	Mentions        []string            `json:"mentions" bson:"mentions"`
	Likes           []string            `json:"likes" bson:"likes"`
	SchemaVersion   int                 `json:"schemaVersion" bson:"schemaVersion"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// IsRoot reports whether the comment replies to the post itself.
func (c *Comment) IsRoot() bool {
	return c.ParentCommentID == nil
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content         string   `json:"content" validate:"required,min=1,max=2000"`
	Author          string   `json:"author" validate:"required,max=50"`
	AuthorID        string   `json:"authorId" validate:"required"`
	PostID          string   `json:"postId" validate:"required"`
	ParentCommentID string   `json:"parentCommentId,omitempty"`
	PhotoURL        string   `json:"photoURL,omitempty" validate:"omitempty,url"`
	Mentions        []string `json:"mentions,omitempty" validate:"omitempty,max=50"`
}

// NewComment builds a root comment (depth 0) for postID. Callers attach a
// parent with ReplyTo.
func NewComment(req *CreateCommentRequest, postID primitive.ObjectID) *Comment {
	mentions := req.Mentions
	if mentions == nil {
		mentions = ExtractMentions(req.Content)
	}
	return &Comment{
		Content:       req.Content,
		Author:        req.Author,
		AuthorID:      req.AuthorID,
		PhotoURL:      req.PhotoURL,
		PostID:        postID,
		Mentions:      mentions,
		Likes:         []string{},
		SchemaVersion: SchemaVersion,
	}
}

// ReplyTo makes c a reply to parent, one level deeper.
func (c *Comment) ReplyTo(parent *Comment) {
	id := parent.ID
	c.ParentCommentID = &id
	c.Depth = parent.Depth + 1
}
