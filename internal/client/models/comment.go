package models

import "time"

// Comment is a client-only annotation on a post. The backend exposes no
// comment endpoint, so comments live in memory for the session and are
// never transmitted.
type Comment struct {
	ID        string    `json:"id"`
	PostID    int64     `json:"post_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
