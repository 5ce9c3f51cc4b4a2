package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	"github.com/anonto42/campus-social/backend/internal/thread"
	"github.com/anonto42/campus-social/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	log               *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		log:               log,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.GET("/comments", h.GetCommentTree)
	g.GET("/comments/flat", h.GetFlatComments)
	g.GET("/comments/count", h.CountComments)
	g.POST("/comments/:id/like", h.ToggleLike)
	g.GET("/comments/:id/likes", h.GetLikers)
}

// CreateComment adds a root comment or a reply. A reply's parent must
// exist and belong to the same post; its depth is the parent's plus one.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	req.AuthorID = actingUser(c, req.AuthorID)

	post, err := h.postRepository.GetPostByID(ctx, req.PostID)
	if err != nil {
		return storeError(err, "Post")
	}

	comment := models.NewComment(&req, post.ID)
	if req.ParentCommentID != "" {
		parent, err := h.commentRepository.GetCommentByID(ctx, req.ParentCommentID)
		if err != nil {
			return storeError(err, "Parent comment")
		}
		if parent.PostID != post.ID {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to a different post")
		}
		comment.ReplyTo(parent)
	}

	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return storeError(err, "Comment")
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetCommentTree returns the comments of ?postId= as a reply tree
func (h *CommentHandler) GetCommentTree(c echo.Context) error {
	comments, err := h.postComments(c)
	if err != nil {
		return err
	}
	roots, orphans := thread.NestWithOrphans(comments)
	if len(orphans) > 0 {
		h.log.Debug("dropped orphaned comments",
			zap.String("postId", c.QueryParam("postId")),
			zap.Int("count", len(orphans)),
		)
	}
	return c.JSON(http.StatusOK, roots)
}

// GetFlatComments returns the comments of ?postId= in pre-order with depths.
// ?render=true clamps the depths at thread.MaxRenderDepth for display.
func (h *CommentHandler) GetFlatComments(c echo.Context) error {
	render := false
	if raw := c.QueryParam("render"); raw != "" {
		var err error
		if render, err = strconv.ParseBool(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid render parameter")
		}
	}
	comments, err := h.postComments(c)
	if err != nil {
		return err
	}
	if render {
		return c.JSON(http.StatusOK, thread.Render(thread.Nest(comments), thread.MaxRenderDepth))
	}
	return c.JSON(http.StatusOK, thread.Flatten(comments))
}

// CountComments counts every comment of ?postId=, replies included
func (h *CommentHandler) CountComments(c echo.Context) error {
	postID := c.QueryParam("postId")
	if postID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Post ID is required")
	}
	n, err := h.commentRepository.CountByPostID(c.Request().Context(), postID)
	if err != nil {
		return storeError(err, "Post")
	}
	return c.JSON(http.StatusOK, echo.Map{"totalComments": n})
}

// ToggleLike likes the comment for userId, or unlikes it if already liked
func (h *CommentHandler) ToggleLike(c echo.Context) error {
	var req models.LikeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.commentRepository.ToggleLike(c.Request().Context(), c.Param("id"), actingUser(c, req.UserID))
	if err != nil {
		return storeError(err, "Comment")
	}
	metrics.LikeToggles.WithLabelValues("comment").Inc()
	return c.JSON(http.StatusOK, comment)
}

// GetLikers lists the users who liked the comment
func (h *CommentHandler) GetLikers(c echo.Context) error {
	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err, "Comment")
	}
	likes, err := likerSummaries(c, h.userRepository, comment.Likes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"likes": likes})
}

func (h *CommentHandler) postComments(c echo.Context) ([]models.Comment, error) {
	postID := c.QueryParam("postId")
	if postID == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Post ID is required")
	}
	comments, err := h.commentRepository.GetCommentsByPostID(c.Request().Context(), postID)
	if err != nil {
		return nil, storeError(err, "Post")
	}
	return comments, nil
}
