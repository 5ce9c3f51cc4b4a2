package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	"github.com/anonto42/campus-social/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository // resolves likers to summaries
	log            *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, log *zap.Logger) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		log:            log,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
	g.POST("/posts/:id/like", h.ToggleLike)
	g.GET("/posts/:id/likes", h.GetLikers)
	g.POST("/posts/:id/share", h.SharePost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	req.AuthorID = actingUser(c, req.AuthorID)

	post := models.NewPost(&req)
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return storeError(err, "Post")
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err, "Post")
	}
	return c.JSON(http.StatusOK, post)
}

// GetPosts lists posts newest first; skip and limit are optional
func (h *PostHandler) GetPosts(c echo.Context) error {
	skip, err := queryInt(c, "skip")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	posts, err := h.postRepository.GetAllPosts(c.Request().Context(), skip, limit)
	if err != nil {
		return storeError(err, "Post")
	}
	return c.JSON(http.StatusOK, posts)
}

// ToggleLike likes the post for userId, or unlikes it if already liked
func (h *PostHandler) ToggleLike(c echo.Context) error {
	var req models.LikeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.postRepository.ToggleLike(c.Request().Context(), c.Param("id"), actingUser(c, req.UserID))
	if err != nil {
		return storeError(err, "Post")
	}
	metrics.LikeToggles.WithLabelValues("post").Inc()
	return c.JSON(http.StatusOK, post)
}

// GetLikers lists the users who liked the post
func (h *PostHandler) GetLikers(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(err, "Post")
	}
	likes, err := likerSummaries(c, h.userRepository, post.Likes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"likes": likes})
}

// SharePost increments the share counter
func (h *PostHandler) SharePost(c echo.Context) error {
	post, err := h.postRepository.IncrementShares(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err, "Post")
	}
	metrics.Shares.Inc()
	return c.JSON(http.StatusOK, post)
}

func likerSummaries(c echo.Context, users repositories.UserRepository, uids []string) ([]models.UserSummary, error) {
	found, err := users.GetUsersByUIDs(c.Request().Context(), uids)
	if err != nil {
		return nil, storeError(err, "User")
	}
	summaries := make([]models.UserSummary, 0, len(found))
	for i := range found {
		summaries = append(summaries, found[i].Summary())
	}
	return summaries, nil
}

func queryInt(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" parameter")
	}
	return n, nil
}
