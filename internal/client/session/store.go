// Package session holds the authenticated identity, bearer token, and the
// cached profile projection. Every state-mutating operation writes through
// to the durable single-record state store before it returns, so a restart
// observes the last completed operation, never a partial one.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dpetrovs/proconnect/internal/client/api"
	"github.com/dpetrovs/proconnect/internal/client/models"
	"github.com/dpetrovs/proconnect/internal/client/state"
	"github.com/dpetrovs/proconnect/internal/common"
	"github.com/dpetrovs/proconnect/internal/logging"
)

// State is the authentication phase of the store.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// ProfileState qualifies an authenticated session's profile snapshot.
type ProfileState string

const (
	ProfileNone    ProfileState = "none"
	ProfileLoading ProfileState = "loading"
	ProfileReady   ProfileState = "ready"
	// ProfileStale means the cached snapshot is being served because the
	// server could not be reached.
	ProfileStale ProfileState = "stale"
)

// Sink is notified when the session is forcibly ended (expired or rejected
// token). The CLI reacts by returning the user to the login prompt; tests
// inject a recording stub. Exactly one notification is sent per failure.
type Sink interface {
	SessionExpired(reason string)
}

// Result is the outcome of a user-facing operation. Expected failures
// (validation, rejected credentials, server-side errors) are reported here
// rather than as Go errors.
type Result struct {
	OK      bool
	Message string
}

// Store is the session/profile state container. It implements api.TokenSource.
type Store struct {
	api  api.Client
	repo state.Repository
	log  logging.Logger
	sink Sink

	mu           sync.Mutex
	state        State
	profileState ProfileState
	session      models.Session
	profile      *models.Profile
	draft        *models.Draft
}

func NewStore(apiClient api.Client, repo state.Repository, log logging.Logger, sink Sink) *Store {
	return &Store{
		api:          apiClient,
		repo:         repo,
		log:          log,
		sink:         sink,
		state:        StateAnonymous,
		profileState: ProfileNone,
	}
}

// Rehydrate restores the last persisted session, profile, and draft. Called
// once at startup; a missing or unreadable record leaves the store anonymous.
func (s *Store) Rehydrate(ctx context.Context) {
	rec, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrNoSavedState) {
			s.log.Warn(ctx, "discarding unreadable saved state", "err", err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = rec.Session
	s.profile = rec.Profile
	s.draft = rec.Draft
	if s.session.LoggedIn() {
		s.state = StateAuthenticated
		if s.profile != nil {
			s.profileState = ProfileStale
		}
	}
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) ProfileState() ProfileState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileState
}

// CurrentUser returns the session identity, or nil when anonymous.
func (s *Store) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.User
}

// Profile returns the cached profile snapshot. It may be stale when the
// client is offline; check ProfileState.
func (s *Store) Profile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Login authenticates with a username-or-email identifier. Empty inputs
// fail validation without any network call. Expected authentication
// failures come back as a Result with a displayable message; only the
// Result distinguishes transport faults ("network error") from rejected
// credentials.
func (s *Store) Login(ctx context.Context, identifier, password string) Result {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return Result{Message: "Identifier and password are required."}
	}

	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()

	sess, err := s.api.Login(ctx, identifier, password)
	if err != nil {
		s.clearSession(ctx)
		return loginFailure(err)
	}

	s.mu.Lock()
	s.session = *sess
	s.state = StateAuthenticated
	s.profileState = ProfileLoading
	s.mu.Unlock()
	s.persist(ctx)

	// Awaited here so callers observe a settled profile state, but its
	// outcome never fails the login.
	s.RefreshProfile(ctx)

	return Result{OK: true}
}

func loginFailure(err error) Result {
	if errors.Is(err, common.ErrUnavailable) {
		return Result{Message: "Network error. Please try again."}
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Msg != "" {
		return Result{Message: apiErr.Msg}
	}
	if errors.Is(err, common.ErrUnauthorized) {
		if msg := strings.TrimSuffix(err.Error(), ": "+common.ErrUnauthorized.Error()); msg != err.Error() && msg != "" {
			return Result{Message: msg}
		}
	}
	return Result{Message: "Login failed"}
}

// Signup registers a new account. It does not log in.
func (s *Store) Signup(ctx context.Context, username, email, password string) Result {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return Result{Message: "All fields are required."}
	}

	if err := s.api.Signup(ctx, username, email, password); err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			return Result{Message: "Network error. Please try again."}
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Msg != "" {
			return Result{Message: apiErr.Msg}
		}
		return Result{Message: "Signup failed"}
	}
	return Result{OK: true, Message: "Account created. You can log in now."}
}

// Logout clears the in-memory and persisted session and profile
// unconditionally. The draft survives. Idempotent.
func (s *Store) Logout(ctx context.Context) {
	s.clearSession(ctx)
}

// UpdateProfile PATCHes the changed fields and, on success, replaces the
// cached snapshot wholesale (not merged).
func (s *Store) UpdateProfile(ctx context.Context, fields models.Profile) Result {
	if !s.loggedIn() {
		return Result{Message: "You must be logged in to update your profile."}
	}

	updated, err := s.api.UpdateProfile(ctx, fields)
	if err != nil {
		if s.expireOnUnauthorized(ctx, err) {
			return Result{Message: "Session expired. Please log in again."}
		}
		if errors.Is(err, common.ErrUnavailable) {
			return Result{Message: "Network error. Please try again."}
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Msg != "" {
			return Result{Message: apiErr.Msg}
		}
		return Result{Message: "Profile update failed"}
	}

	s.mu.Lock()
	s.profile = updated
	s.profileState = ProfileReady
	s.mu.Unlock()
	s.persist(ctx)

	return Result{OK: true, Message: "Profile updated successfully!"}
}

// UploadAvatar sends a profile image and adopts the refreshed projection
// the server returns alongside the stored URL.
func (s *Store) UploadAvatar(ctx context.Context, path string) Result {
	if !s.loggedIn() {
		return Result{Message: "You must be logged in to upload an avatar."}
	}

	url, updated, err := s.api.UploadProfileImage(ctx, path)
	if err != nil {
		if s.expireOnUnauthorized(ctx, err) {
			return Result{Message: "Session expired. Please log in again."}
		}
		if errors.Is(err, common.ErrUnavailable) {
			return Result{Message: "Network error. Please try again."}
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Msg != "" {
			return Result{Message: apiErr.Msg}
		}
		return Result{Message: "Image upload failed"}
	}

	s.mu.Lock()
	if updated != nil {
		s.profile = updated
		s.profileState = ProfileReady
	} else if s.profile != nil {
		s.profile.AvatarURL = url
	}
	s.mu.Unlock()
	s.persist(ctx)

	return Result{OK: true, Message: "Avatar updated."}
}

// RefreshProfile fetches the canonical profile and replaces the cached
// snapshot, merging missing username/email from the session user first.
// This is a best-effort background refresh: fetch errors are logged, never
// surfaced, and an unreachable server just marks the cache stale.
func (s *Store) RefreshProfile(ctx context.Context) {
	if !s.loggedIn() {
		return
	}

	profile, err := s.api.GetProfile(ctx)
	if err != nil {
		if s.expireOnUnauthorized(ctx, err) {
			return
		}
		s.log.Warn(ctx, "profile refresh failed, serving cached snapshot", "err", err)
		s.mu.Lock()
		if s.profile != nil {
			s.profileState = ProfileStale
		} else {
			s.profileState = ProfileNone
		}
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	profile.MergeIdentity(s.session.User)
	s.profile = profile
	s.profileState = ProfileReady
	s.mu.Unlock()
	s.persist(ctx)
}

// Draft returns the persisted unsent post draft, or nil.
func (s *Store) Draft() *models.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SaveDraft persists the draft being composed.
func (s *Store) SaveDraft(ctx context.Context, d models.Draft) {
	s.mu.Lock()
	if d.Empty() {
		s.draft = nil
	} else {
		draft := d
		s.draft = &draft
	}
	s.mu.Unlock()
	s.persist(ctx)
}

// ClearDraft drops the draft, typically after a successful submission.
func (s *Store) ClearDraft(ctx context.Context) {
	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *Store) loggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.LoggedIn()
}

// HandleAuthError routes an authenticated-request failure from another
// component (e.g. the feed controller) through the store's single expiry
// reaction. Returns true when the error was a session expiry and the
// session has been cleared.
func (s *Store) HandleAuthError(ctx context.Context, err error) bool {
	return s.expireOnUnauthorized(ctx, err)
}

// expireOnUnauthorized implements the store-level reaction to session
// expiry: clear everything once and notify the sink. Returns true when err
// was an unauthorized failure. When several in-flight requests fail with
// the same dead token, only the first one notifies.
func (s *Store) expireOnUnauthorized(ctx context.Context, err error) bool {
	if !errors.Is(err, common.ErrUnauthorized) {
		return false
	}

	s.mu.Lock()
	wasAuthenticated := s.state != StateAnonymous
	s.mu.Unlock()

	s.clearSession(ctx)
	if wasAuthenticated && s.sink != nil {
		s.sink.SessionExpired(err.Error())
	}
	return true
}

// clearSession resets to Anonymous in memory and on disk. The draft is kept.
func (s *Store) clearSession(ctx context.Context) {
	s.mu.Lock()
	s.session = models.Session{}
	s.profile = nil
	s.state = StateAnonymous
	s.profileState = ProfileNone
	s.mu.Unlock()
	s.persist(ctx)
}

// persist writes the whole state as one atomic record. Failures are logged;
// in-memory state stays authoritative for the running session.
func (s *Store) persist(ctx context.Context) {
	s.mu.Lock()
	rec := &state.Record{
		Session: s.session,
		Profile: s.profile,
		Draft:   s.draft,
	}
	s.mu.Unlock()

	if err := s.repo.Save(ctx, rec); err != nil {
		s.log.Error(ctx, "persisting client state", "err", err)
	}
}
