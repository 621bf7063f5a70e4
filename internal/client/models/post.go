package models

import (
	"regexp"
	"time"
)

// MediaKind classifies a post's attachment by its URL extension.
type MediaKind string

const (
	MediaNone  MediaKind = ""
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

var (
	imageExtRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif)$`)
	videoExtRe = regexp.MustCompile(`(?i)\.(mp4|mov|avi|webm)$`)
)

// Post is a feed item as served by the posts endpoints. Content is rich-text
// HTML and is passed through untouched.
type Post struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username,omitempty"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	MediaURL      string    `json:"media_url,omitempty"`
	Category      string    `json:"category,omitempty"`
	Visibility    string    `json:"visibility,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	LikesCount    int       `json:"likes_count,omitempty"`
	CommentsCount int       `json:"comments_count,omitempty"`
}

// Media returns the attachment classification for the post.
func (p Post) Media() MediaKind {
	switch {
	case p.MediaURL == "":
		return MediaNone
	case imageExtRe.MatchString(p.MediaURL):
		return MediaImage
	case videoExtRe.MatchString(p.MediaURL):
		return MediaVideo
	default:
		return MediaNone
	}
}

// HasTag reports whether the post carries the given tag.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
