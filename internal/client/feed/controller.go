package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dpetrovs/proconnect/internal/client/api"
	"github.com/dpetrovs/proconnect/internal/client/models"
	"github.com/dpetrovs/proconnect/internal/common"
	"github.com/dpetrovs/proconnect/internal/logging"
)

// DefaultPageSize matches the web client's PAGE_SIZE.
const DefaultPageSize = 10

// Scope selects which candidate set the controller fetches.
type Scope string

const (
	// ScopeFeed is everyone's posts.
	ScopeFeed Scope = "feed"
	// ScopeMine is only the authenticated user's posts.
	ScopeMine Scope = "mine"
)

// LikeState is the per-mutation state machine for an optimistic like.
type LikeState string

const (
	LikePending   LikeState = "pending"
	LikeCommitted LikeState = "committed"
	// LikeFailed means the optimistic increment was rolled back.
	LikeFailed LikeState = "failed"
)

// AuthErrorHandler lets the controller route unauthorized responses to the
// session store's single expiry reaction. Satisfied by *session.Store.
type AuthErrorHandler interface {
	HandleAuthError(ctx context.Context, err error) bool
}

// Controller owns the in-memory post list and the fetch/filter/paginate
// pipeline. Changing any filter input re-runs the pipeline after a debounce
// interval; LoadMore re-fetches and re-filters the whole candidate set with
// a larger page, exactly like the web client. Overlapping refreshes are not
// sequenced: the last one to resolve wins.
type Controller struct {
	api  api.Client
	auth AuthErrorHandler
	log  logging.Logger

	mu       sync.Mutex
	scope    Scope
	filter   Filter
	page     int
	pageSize int

	all      []models.Post
	filtered []models.Post
	visible  []models.Post
	hasMore  bool
	errMsg   string

	likes    map[int64]LikeState
	comments map[int64][]models.Comment

	debounce time.Duration
	timer    *time.Timer
	baseCtx  context.Context
}

// Option tweaks controller construction.
type Option func(*Controller)

// WithPageSize overrides DefaultPageSize.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithDebounce sets the delay between a filter change and the pipeline
// re-run. Zero disables the delayed re-run entirely; callers then refresh
// explicitly.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// New builds a controller for the given scope. ctx is the lifetime context
// used by debounced background refreshes.
func New(ctx context.Context, apiClient api.Client, auth AuthErrorHandler, log logging.Logger, scope Scope, opts ...Option) *Controller {
	c := &Controller{
		api:      apiClient,
		auth:     auth,
		log:      log,
		scope:    scope,
		page:     1,
		pageSize: DefaultPageSize,
		likes:    make(map[int64]LikeState),
		comments: make(map[int64][]models.Comment),
		debounce: 500 * time.Millisecond,
		baseCtx:  ctx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh runs the full pipeline now: fetch the whole candidate set, filter,
// sort, slice. A pending debounced refresh is cancelled first. A fetch
// failure puts the controller in an error state and empties the view.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	scope := c.scope
	c.mu.Unlock()

	var (
		posts []models.Post
		err   error
	)
	if scope == ScopeMine {
		posts, err = c.api.GetMyPosts(ctx)
	} else {
		posts, err = c.api.GetPosts(ctx, 0)
	}

	if err != nil {
		if c.auth != nil && c.auth.HandleAuthError(ctx, err) {
			err = errors.New("session expired, please log in again")
		}
		c.mu.Lock()
		c.errMsg = "An error occurred while fetching posts."
		if errors.Is(err, common.ErrUnavailable) {
			c.errMsg = "Network error. Please try again."
		}
		c.all = nil
		c.recomputeLocked()
		c.mu.Unlock()
		c.log.Warn(ctx, "feed fetch failed", "scope", string(scope), "err", err)
		return err
	}

	c.mu.Lock()
	c.errMsg = ""
	c.all = posts
	c.recomputeLocked()
	c.mu.Unlock()
	return nil
}

// recomputeLocked re-derives filtered/visible/hasMore from the candidate
// set. Caller holds c.mu.
func (c *Controller) recomputeLocked() {
	c.filtered = Apply(c.all, c.filter)
	c.visible, c.hasMore = Page(c.filtered, c.page, c.pageSize)
}

// scheduleRefresh (re)starts the debounce timer. Repeated filter changes
// within the interval coalesce into one pipeline run.
func (c *Controller) scheduleRefresh() {
	if c.debounce <= 0 {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		if err := c.Refresh(c.baseCtx); err != nil {
			c.log.Warn(c.baseCtx, "debounced refresh failed", "err", err)
		}
	})
}

// setFilter applies fn to the filter, resets pagination, recomputes the
// local view immediately, and schedules the debounced re-fetch.
func (c *Controller) setFilter(fn func(*Filter)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.filter)
	c.page = 1
	c.recomputeLocked()
	c.scheduleRefresh()
}

func (c *Controller) SetSearch(s string)     { c.setFilter(func(f *Filter) { f.Search = s }) }
func (c *Controller) SetCategory(s string)   { c.setFilter(func(f *Filter) { f.Category = s }) }
func (c *Controller) SetVisibility(s string) { c.setFilter(func(f *Filter) { f.Visibility = s }) }
func (c *Controller) SetTag(s string)        { c.setFilter(func(f *Filter) { f.Tag = s }) }
func (c *Controller) SetMedia(m MediaFilter) { c.setFilter(func(f *Filter) { f.Media = m }) }
func (c *Controller) SetSort(s Sort)         { c.setFilter(func(f *Filter) { f.Sort = s }) }

// Filter returns a copy of the current filter inputs.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Visible returns the current page-limited view.
func (c *Controller) Visible() []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Post, len(c.visible))
	copy(out, c.visible)
	return out
}

// HasMore reports whether the filtered set extends past the visible slice.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Err returns the page-level error message, or "".
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// LoadMore grows the window by one page and re-runs the entire pipeline,
// re-fetching the full candidate set. Returns false when there was nothing
// more to load.
func (c *Controller) LoadMore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if !c.hasMore {
		c.mu.Unlock()
		return false, nil
	}
	c.page++
	c.mu.Unlock()
	return true, c.Refresh(ctx)
}

// LikeStateOf reports the optimistic-like state machine for a post.
func (c *Controller) LikeStateOf(id int64) LikeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.likes[id]
}
