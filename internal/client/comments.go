package client

import (
	"context"
	"slices"
	"time"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/thread"
	"github.com/google/uuid"
)

// TempIDPrefix marks ids of comments the server has not stored yet.
const TempIDPrefix = "temp-"

// CommentView is a comment as the client shows it. Views are never modified
// once built; inserts copy the path from the root down.
type CommentView struct {
	ID          string
	ParentID    string
	Content     string
	Author      string
	AuthorID    string
	PhotoURL    string
	Depth       int
	Likes       []string
	Mentions    []string
	CreatedAt   time.Time
	Provisional bool
	Replies     []*CommentView
}

func viewOf(c *models.Comment) *CommentView {
	v := &CommentView{
		ID:        c.ID.Hex(),
		Content:   c.Content,
		Author:    c.Author,
		AuthorID:  c.AuthorID,
		PhotoURL:  c.PhotoURL,
		Depth:     c.Depth,
		Likes:     c.Likes,
		Mentions:  c.Mentions,
		CreatedAt: c.CreatedAt,
		Replies:   []*CommentView{},
	}
	if c.ParentCommentID != nil {
		v.ParentID = c.ParentCommentID.Hex()
	}
	return v
}

// viewsOf converts a fetched tree without recursion.
func viewsOf(roots []*thread.Node) []*CommentView {
	type item struct {
		node *thread.Node
		view *CommentView
	}
	out := make([]*CommentView, len(roots))
	stack := make([]item, 0, len(roots))
	for i, n := range roots {
		out[i] = viewOf(&n.Comment)
		stack = append(stack, item{n, out[i]})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		it.view.Replies = make([]*CommentView, len(it.node.Replies))
		for i, r := range it.node.Replies {
			it.view.Replies[i] = viewOf(&r.Comment)
			stack = append(stack, item{r, it.view.Replies[i]})
		}
	}
	return out
}

// RenderedComment is one display row: the comment and its indentation level.
type RenderedComment struct {
	*CommentView
	Level int
}

// CommentThread is the client-side comment tree of one post.
type CommentThread struct {
	client *Client
	postID string
	roots  *Optimistic[[]*CommentView]
	newID  func() string
	now    func() time.Time
}

// LoadThread fetches the comment tree of postID.
func (c *Client) LoadThread(ctx context.Context, postID string) (*CommentThread, error) {
	roots, err := c.CommentTree(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &CommentThread{
		client: c,
		postID: postID,
		roots:  NewOptimistic(viewsOf(roots)),
		newID:  func() string { return TempIDPrefix + uuid.NewString() },
		now:    time.Now,
	}, nil
}

// Roots returns the top-level comments, newest submission first for
// comments added in this session.
func (t *CommentThread) Roots() []*CommentView { return t.roots.Value() }

// Phase returns the phase of the last submission.
func (t *CommentThread) Phase() Phase { return t.roots.Phase() }

// Submit shows req at once under a temporary id and sends it. On success the
// provisional comment is swapped for the stored one; on failure it is
// removed and the tree is exactly as before. req.PostID is filled in.
func (t *CommentThread) Submit(ctx context.Context, req models.CreateCommentRequest) (*CommentView, error) {
	req.PostID = t.postID
	provisional := &CommentView{
		ID:          t.newID(),
		ParentID:    req.ParentCommentID,
		Content:     req.Content,
		Author:      req.Author,
		AuthorID:    req.AuthorID,
		PhotoURL:    req.PhotoURL,
		Likes:       []string{},
		Mentions:    req.Mentions,
		CreatedAt:   t.now(),
		Provisional: true,
		Replies:     []*CommentView{},
	}

	var stored *CommentView
	_, err := t.roots.Apply(ctx,
		func(roots []*CommentView) []*CommentView {
			if req.ParentCommentID == "" {
				return append([]*CommentView{provisional}, roots...)
			}
			if next, ok := insertReply(roots, req.ParentCommentID, provisional); ok {
				return next
			}
			return roots
		},
		func(ctx context.Context, speculative []*CommentView) ([]*CommentView, error) {
			created, err := t.client.CreateComment(ctx, &req)
			if err != nil {
				return nil, err
			}
			stored = viewOf(created)
			if next, ok := replace(speculative, provisional.ID, stored); ok {
				return next, nil
			}
			// The parent was not loaded locally, so nothing was shown.
			return speculative, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Render lists the thread in pre-order with indentation clamped at
// thread.MaxRenderDepth.
func (t *CommentThread) Render() []RenderedComment {
	return render(t.Roots(), thread.MaxRenderDepth)
}

func render(roots []*CommentView, maxLevel int) []RenderedComment {
	type frame struct {
		view  *CommentView
		level int
	}
	rows := []RenderedComment{}
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{view: roots[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rows = append(rows, RenderedComment{CommentView: f.view, Level: min(f.level, maxLevel)})
		for i := len(f.view.Replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{view: f.view.Replies[i], level: f.level + 1})
		}
	}
	return rows
}

// pathTo returns the child indices leading from roots to the view with id.
func pathTo(roots []*CommentView, id string) ([]int, bool) {
	type frame struct {
		view *CommentView
		path []int
	}
	stack := make([]frame, 0, len(roots))
	for i, r := range roots {
		stack = append(stack, frame{r, []int{i}})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.view.ID == id {
			return f.path, true
		}
		for i, r := range f.view.Replies {
			stack = append(stack, frame{r, append(slices.Clone(f.path), i)})
		}
	}
	return nil, false
}

// rebuild copies every view on path and lets edit change the last one.
func rebuild(roots []*CommentView, path []int, edit func(*CommentView) *CommentView) []*CommentView {
	out := slices.Clone(roots)
	level := out
	for depth, idx := range path {
		cp := *level[idx]
		if depth == len(path)-1 {
			level[idx] = edit(&cp)
			break
		}
		cp.Replies = slices.Clone(cp.Replies)
		level[idx] = &cp
		level = cp.Replies
	}
	return out
}

func insertReply(roots []*CommentView, parentID string, child *CommentView) ([]*CommentView, bool) {
	path, ok := pathTo(roots, parentID)
	if !ok {
		return roots, false
	}
	return rebuild(roots, path, func(parent *CommentView) *CommentView {
		child.Depth = parent.Depth + 1
		parent.Replies = append(slices.Clone(parent.Replies), child)
		return parent
	}), true
}

func replace(roots []*CommentView, id string, with *CommentView) ([]*CommentView, bool) {
	path, ok := pathTo(roots, id)
	if !ok {
		return roots, false
	}
	return rebuild(roots, path, func(old *CommentView) *CommentView {
		with.Replies = old.Replies
		return with
	}), true
}
