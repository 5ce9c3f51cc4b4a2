// Package thread turns the flat, parent-referencing comment records of one
// post into a reply tree or a depth-annotated pre-order list.
package thread

import (
	"sort"
	"time"

	"github.com/anonto42/campus-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxRenderDepth is the deepest indentation level a reply is rendered at.
const MaxRenderDepth = 10

// Node is a comment with its direct replies, oldest first.
type Node struct {
	models.Comment
	Replies []*Node `json:"replies"`
}

// Entry is one row of the flattened thread. Depth is the distance from the
// root in the built tree; it shadows the depth stored on the record.
type Entry struct {
	models.Comment
	Depth        int       `json:"depth"`
	DisplayOrder time.Time `json:"displayOrder"`
}

type frame struct {
	node  *Node
	depth int
}

// Nest builds the reply forest. Comments whose parent is not in the input
// are dropped together with their descendants.
func Nest(comments []models.Comment) []*Node {
	roots, _ := NestWithOrphans(comments)
	return roots
}

// NestWithOrphans is Nest that also returns the dropped comments, oldest
// first. Repeated ids keep their earliest record.
func NestWithOrphans(comments []models.Comment) ([]*Node, []models.Comment) {
	ordered := sortedCopy(comments)
	byID := make(map[primitive.ObjectID]*Node, len(ordered))
	nodes := make([]*Node, 0, len(ordered))
	for i := range ordered {
		if _, dup := byID[ordered[i].ID]; dup {
			continue
		}
		n := &Node{Comment: ordered[i], Replies: []*Node{}}
		byID[n.ID] = n
		nodes = append(nodes, n)
	}

	roots := []*Node{}
	for _, n := range nodes {
		if n.IsRoot() {
			roots = append(roots, n)
			continue
		}
		if parent, ok := byID[*n.ParentCommentID]; ok && parent != n {
			parent.Replies = append(parent.Replies, n)
		}
	}

	reached := make(map[*Node]bool, len(nodes))
	walk(roots, func(f frame) { reached[f.node] = true })

	orphans := []models.Comment{}
	for _, n := range nodes {
		if !reached[n] {
			orphans = append(orphans, n.Comment)
		}
	}
	return roots, orphans
}

// Flatten lists the thread in pre-order: each comment is followed by its
// replies, siblings oldest first.
func Flatten(comments []models.Comment) []Entry {
	return FlattenTree(Nest(comments))
}

// FlattenTree lists an already nested forest in pre-order.
func FlattenTree(roots []*Node) []Entry {
	entries := []Entry{}
	walk(roots, func(f frame) {
		entries = append(entries, Entry{
			Comment:      f.node.Comment,
			Depth:        f.depth,
			DisplayOrder: f.node.CreatedAt,
		})
	})
	return entries
}

// Render flattens roots for display, clamping indentation at max.
func Render(roots []*Node, max int) []Entry {
	return CapDepth(FlattenTree(roots), max)
}

// CapDepth returns a copy of entries with every depth above max set to max.
func CapDepth(entries []Entry, max int) []Entry {
	capped := make([]Entry, len(entries))
	for i, e := range entries {
		if e.Depth > max {
			e.Depth = max
		}
		capped[i] = e
	}
	return capped
}

// walk visits the forest in pre-order using an explicit stack, so thread
// depth is bounded by memory rather than goroutine stack size.
func walk(roots []*Node, visit func(frame)) {
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(f)
		for i := len(f.node.Replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Replies[i], depth: f.depth + 1})
		}
	}
}

func sortedCopy(comments []models.Comment) []models.Comment {
	ordered := make([]models.Comment, len(comments))
	copy(ordered, comments)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.Hex() < b.ID.Hex()
	})
	return ordered
}
