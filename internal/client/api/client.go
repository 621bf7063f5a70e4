// Package api implements the REST/JSON client for the ProConnect backend.
// All authenticated calls go through a single request wrapper so session
// expiry is detected in exactly one place.
package api

import (
	"context"

	"github.com/dpetrovs/proconnect/internal/client/models"
)

// PostUpdate carries the mutable post fields for an edit. Empty fields are
// omitted from the request body so the server replaces only what was sent.
type PostUpdate struct {
	Title      string   `json:"title,omitempty"`
	Content    string   `json:"content,omitempty"`
	Category   string   `json:"category,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Client is the remote API surface consumed by the session store and the
// feed controller. Implementations must not retry failed calls.
type Client interface {
	// Login authenticates with a username-or-email identifier. Identifiers
	// containing '@' are sent in the email field.
	Login(ctx context.Context, identifier, password string) (*models.Session, error)
	Signup(ctx context.Context, username, email, password string) error

	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, fields models.Profile) (*models.Profile, error)
	// UploadProfileImage sends the file at path as multipart form data and
	// returns the stored image URL plus the refreshed profile projection.
	UploadProfileImage(ctx context.Context, path string) (string, *models.Profile, error)

	// GetPosts returns the full feed. excludeUserID > 0 filters out that
	// author server-side.
	GetPosts(ctx context.Context, excludeUserID int64) ([]models.Post, error)
	GetMyPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, draft models.Draft) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, fields PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error
	LikePost(ctx context.Context, id int64) error

	// Ping reports server reachability. Any HTTP response counts as
	// reachable; only transport faults are errors.
	Ping(ctx context.Context) error
}
