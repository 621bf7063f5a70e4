package feed

import (
	"context"
	"errors"
	"time"

	"github.com/dpetrovs/proconnect/internal/client/api"
	"github.com/dpetrovs/proconnect/internal/client/models"
	"github.com/dpetrovs/proconnect/internal/common"
	"github.com/google/uuid"
)

var ErrPostNotFound = errors.New("post not found")

// Like applies the optimistic increment immediately, then confirms it with
// the server. The mutation moves pending -> committed on success; on
// failure the increment is rolled back and the mutation is marked failed.
// The caller's view shows the incremented count regardless of server
// response timing.
func (c *Controller) Like(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.likes[id] == LikePending {
		c.mu.Unlock()
		return nil
	}
	post := c.findLocked(id)
	if post == nil {
		c.mu.Unlock()
		return ErrPostNotFound
	}
	post.LikesCount++
	c.likes[id] = LikePending
	c.recomputeLocked()
	c.mu.Unlock()

	if err := c.api.LikePost(ctx, id); err != nil {
		c.mu.Lock()
		if post := c.findLocked(id); post != nil && post.LikesCount > 0 {
			post.LikesCount--
		}
		c.likes[id] = LikeFailed
		c.recomputeLocked()
		c.mu.Unlock()

		if c.auth != nil {
			c.auth.HandleAuthError(ctx, err)
		}
		c.log.Warn(ctx, "like rolled back", "post", id, "err", err)
		return err
	}

	c.mu.Lock()
	c.likes[id] = LikeCommitted
	c.mu.Unlock()
	return nil
}

// Delete removes the post from the list only after the server confirms the
// deletion. On failure the item stays and the error message is returned for
// display. The confirmation prompt is the caller's job.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.api.DeletePost(ctx, id); err != nil {
		if c.auth != nil {
			c.auth.HandleAuthError(ctx, err)
		}
		return err
	}

	c.mu.Lock()
	kept := c.all[:0]
	for _, p := range c.all {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.all = kept
	delete(c.comments, id)
	c.recomputeLocked()
	c.mu.Unlock()
	return nil
}

// Edit replaces the post's mutable fields in place after the server
// confirms the update. There is no optimistic pre-update.
func (c *Controller) Edit(ctx context.Context, id int64, fields api.PostUpdate) error {
	updated, err := c.api.UpdatePost(ctx, id, fields)
	if err != nil {
		if c.auth != nil {
			c.auth.HandleAuthError(ctx, err)
		}
		return err
	}

	c.mu.Lock()
	if post := c.findLocked(id); post != nil && updated != nil {
		post.Title = updated.Title
		post.Content = updated.Content
		if updated.Category != "" {
			post.Category = updated.Category
		}
		if updated.Visibility != "" {
			post.Visibility = updated.Visibility
		}
		if updated.Tags != nil {
			post.Tags = updated.Tags
		}
		post.UpdatedAt = updated.UpdatedAt
	}
	c.recomputeLocked()
	c.mu.Unlock()
	return nil
}

// Create submits a draft as a new post and, on success, prepends the
// server's copy to the candidate set.
func (c *Controller) Create(ctx context.Context, draft models.Draft) (*models.Post, error) {
	if draft.Title == "" || draft.Content == "" {
		return nil, common.ErrValidation
	}

	post, err := c.api.CreatePost(ctx, draft)
	if err != nil {
		if c.auth != nil {
			c.auth.HandleAuthError(ctx, err)
		}
		return nil, err
	}

	c.mu.Lock()
	c.all = append([]models.Post{*post}, c.all...)
	c.recomputeLocked()
	c.mu.Unlock()
	return post, nil
}

// AddComment appends a client-only comment. Comments are never transmitted;
// the backend has no comment endpoint, so they live for the process only.
func (c *Controller) AddComment(id int64, username, content string) (*models.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.findLocked(id) == nil {
		return nil, ErrPostNotFound
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		PostID:    id,
		Username:  username,
		Content:   content,
		CreatedAt: time.Now(),
	}
	c.comments[id] = append(c.comments[id], comment)
	return &comment, nil
}

// Comments returns the client-only comments for a post, in insertion order.
func (c *Controller) Comments(id int64) []models.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Comment, len(c.comments[id]))
	copy(out, c.comments[id])
	return out
}

// Get returns a copy of the post with the given id from the candidate set.
func (c *Controller) Get(id int64) (models.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p := c.findLocked(id); p != nil {
		return *p, true
	}
	return models.Post{}, false
}

// findLocked returns a pointer into c.all. Caller holds c.mu.
func (c *Controller) findLocked(id int64) *models.Post {
	for i := range c.all {
		if c.all[i].ID == id {
			return &c.all[i]
		}
	}
	return nil
}
