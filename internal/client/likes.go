package client

import (
	"context"

	"github.com/anonto42/campus-social/backend/internal/models"
)

// LikeState is what a like button shows.
type LikeState struct {
	Liked bool
	Count int
}

// LikeStateFor derives the button state of userID from a likes set.
func LikeStateFor(likes []string, userID string) LikeState {
	return LikeState{Liked: models.HasLiked(likes, userID), Count: len(likes)}
}

// Toggled is the state after one click, before the server answers.
func (s LikeState) Toggled() LikeState {
	if s.Liked {
		return LikeState{Liked: false, Count: max(s.Count-1, 0)}
	}
	return LikeState{Liked: true, Count: s.Count + 1}
}

// LikeController drives the like button of one post or comment for one user.
type LikeController struct {
	userID string
	state  *Optimistic[LikeState]
	toggle func(ctx context.Context) ([]string, error)
}

// PostLikes returns the like controller of post for userID.
func (c *Client) PostLikes(post *models.Post, userID string) *LikeController {
	id := post.ID.Hex()
	return &LikeController{
		userID: userID,
		state:  NewOptimistic(LikeStateFor(post.Likes, userID)),
		toggle: func(ctx context.Context) ([]string, error) {
			p, err := c.TogglePostLike(ctx, id, userID)
			if err != nil {
				return nil, err
			}
			return p.Likes, nil
		},
	}
}

// CommentLikes returns the like controller of comment for userID.
func (c *Client) CommentLikes(comment *models.Comment, userID string) *LikeController {
	id := comment.ID.Hex()
	return &LikeController{
		userID: userID,
		state:  NewOptimistic(LikeStateFor(comment.Likes, userID)),
		toggle: func(ctx context.Context) ([]string, error) {
			cm, err := c.ToggleCommentLike(ctx, id, userID)
			if err != nil {
				return nil, err
			}
			return cm.Likes, nil
		},
	}
}

// Toggle flips the button at once and settles it on the server's likes set.
// On failure the button returns to exactly what it showed before.
func (l *LikeController) Toggle(ctx context.Context) (LikeState, error) {
	return l.state.Apply(ctx, LikeState.Toggled, func(ctx context.Context, _ LikeState) (LikeState, error) {
		likes, err := l.toggle(ctx)
		if err != nil {
			return LikeState{}, err
		}
		return LikeStateFor(likes, l.userID), nil
	})
}

// State returns what the button currently shows.
func (l *LikeController) State() LikeState { return l.state.Value() }

// Phase returns the phase of the last toggle.
func (l *LikeController) Phase() Phase { return l.state.Phase() }

// ShareController counts shares of one post.
type ShareController struct {
	state *Optimistic[int64]
	share func(ctx context.Context) (int64, error)
}

// PostShares returns the share controller of post.
func (c *Client) PostShares(post *models.Post) *ShareController {
	id := post.ID.Hex()
	return &ShareController{
		state: NewOptimistic(post.Shares),
		share: func(ctx context.Context) (int64, error) {
			p, err := c.SharePost(ctx, id)
			if err != nil {
				return 0, err
			}
			return p.Shares, nil
		},
	}
}

// Share bumps the counter at once and settles it on the stored count.
func (s *ShareController) Share(ctx context.Context) (int64, error) {
	return s.state.Apply(ctx,
		func(n int64) int64 { return n + 1 },
		func(ctx context.Context, _ int64) (int64, error) { return s.share(ctx) },
	)
}

// Count returns the displayed share count.
func (s *ShareController) Count() int64 { return s.state.Value() }

// Phase returns the phase of the last share.
func (s *ShareController) Phase() Phase { return s.state.Phase() }
