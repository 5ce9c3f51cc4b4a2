package client

import (
	"fmt"
	"net/url"
	"strings"
)

// Platforms a comment link can be shared to. PlatformCopy yields the bare link.
const (
	PlatformFacebook = "facebook"
	PlatformTwitter  = "twitter"
	PlatformLinkedIn = "linkedin"
	PlatformCopy     = "copy"
)

// CommentLink is the page address of a comment under origin.
func CommentLink(origin, postID, commentID string) string {
	return fmt.Sprintf("%s/posts/%s#comment-%s", strings.TrimRight(origin, "/"), postID, commentID)
}

// ShareURL returns the address that shares comment on platform.
func ShareURL(platform, origin, postID string, comment *CommentView) (string, error) {
	link := CommentLink(origin, postID, comment.ID)
	switch platform {
	case PlatformFacebook:
		return "https://www.facebook.com/sharer/sharer.php?" + url.Values{"u": {link}}.Encode(), nil
	case PlatformTwitter:
		text := comment.Content + " - By " + comment.Author
		return "https://twitter.com/intent/tweet?" + url.Values{"text": {text}, "url": {link}}.Encode(), nil
	case PlatformLinkedIn:
		return "https://www.linkedin.com/sharing/share-offsite/?" + url.Values{"url": {link}}.Encode(), nil
	case PlatformCopy:
		return link, nil
	default:
		return "", fmt.Errorf("unknown share platform %q", platform)
	}
}
