package models

import (
	"regexp"
	"slices"
)

// ToggleLike returns a copy of likes with userID removed when present and
// appended when absent. Applying it twice yields the original set.
func ToggleLike(likes []string, userID string) []string {
	out := make([]string, 0, len(likes)+1)
	found := false
	for _, id := range likes {
		if id == userID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, userID)
	}
	return out
}

// HasLiked reports whether userID is in likes.
func HasLiked(likes []string, userID string) bool {
	return slices.Contains(likes, userID)
}

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ExtractMentions returns the distinct @name tokens of content in order of appearance.
func ExtractMentions(content string) []string {
	mentions := []string{}
	for _, m := range mentionPattern.FindAllStringSubmatch(content, -1) {
		if !slices.Contains(mentions, m[1]) {
			mentions = append(mentions, m[1])
		}
	}
	return mentions
}
