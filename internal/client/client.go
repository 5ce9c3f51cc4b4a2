// Package client is a Go client for the campus-social API together with the
// optimistic view state a UI keeps on top of it.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/thread"
	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

// Client calls the JSON endpoints mounted under /api.
type Client struct {
	rest *resty.Client
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:8080/api.
func New(baseURL string) *Client {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")
	return &Client{rest: rest}
}

// SetAuthToken sends token as a bearer credential on every request.
func (c *Client) SetAuthToken(token string) *Client {
	c.rest.SetAuthToken(token)
	return c
}

// Execute sends one request and decodes a 2xx body into out. Any other status
// becomes an *APIError.
func (c *Client) Execute(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.rest.R().
		SetContext(ctx).
		SetError(&errorBody{})
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := http.StatusText(resp.StatusCode())
		if eb, ok := resp.Error().(*errorBody); ok && eb.Error != "" {
			msg = eb.Error
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}

// Posts lists posts newest first.
func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.Execute(ctx, http.MethodGet, "/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// TogglePostLike flips userID's like on the post and returns the stored post.
func (c *Client) TogglePostLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	post := &models.Post{}
	err := c.Execute(ctx, http.MethodPost, "/posts/"+postID+"/like", models.LikeRequest{UserID: userID}, post)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// SharePost records one share of the post.
func (c *Client) SharePost(ctx context.Context, postID string) (*models.Post, error) {
	post := &models.Post{}
	if err := c.Execute(ctx, http.MethodPost, "/posts/"+postID+"/share", nil, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ToggleCommentLike flips userID's like on the comment.
func (c *Client) ToggleCommentLike(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	comment := &models.Comment{}
	err := c.Execute(ctx, http.MethodPost, "/comments/"+commentID+"/like", models.LikeRequest{UserID: userID}, comment)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateComment stores a comment or reply and returns it with its id and depth.
func (c *Client) CreateComment(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
	comment := &models.Comment{}
	if err := c.Execute(ctx, http.MethodPost, "/comments", req, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// CommentTree fetches the nested reply tree of a post.
func (c *Client) CommentTree(ctx context.Context, postID string) ([]*thread.Node, error) {
	var roots []*thread.Node
	if err := c.Execute(ctx, http.MethodGet, "/comments?postId="+url.QueryEscape(postID), nil, &roots); err != nil {
		return nil, err
	}
	return roots, nil
}

// CommentCount returns the number of comments on a post, replies included.
func (c *Client) CommentCount(ctx context.Context, postID string) (int64, error) {
	var out struct {
		TotalComments int64 `json:"totalComments"`
	}
	if err := c.Execute(ctx, http.MethodGet, "/comments/count?postId="+url.QueryEscape(postID), nil, &out); err != nil {
		return 0, err
	}
	return out.TotalComments, nil
}
