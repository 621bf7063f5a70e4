package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dpetrovs/proconnect/internal/client/api"
	"github.com/dpetrovs/proconnect/internal/client/models"
	"github.com/dpetrovs/proconnect/internal/client/state"
	"github.com/dpetrovs/proconnect/internal/common"
	"github.com/dpetrovs/proconnect/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAPI struct {
	loginRet   *models.Session
	loginErr   error
	loginCalls int

	signupErr   error
	signupCalls int

	profileRet   *models.Profile
	profileErr   error
	profileCalls int

	updateRet *models.Profile
	updateErr error

	uploadURL     string
	uploadProfile *models.Profile
	uploadErr     error
}

var _ api.Client = (*fakeAPI)(nil)

func (f *fakeAPI) Login(ctx context.Context, identifier, password string) (*models.Session, error) {
	f.loginCalls++
	return f.loginRet, f.loginErr
}

func (f *fakeAPI) Signup(ctx context.Context, username, email, password string) error {
	f.signupCalls++
	return f.signupErr
}

func (f *fakeAPI) GetProfile(ctx context.Context) (*models.Profile, error) {
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profileRet == nil {
		return &models.Profile{}, nil
	}
	cp := *f.profileRet
	return &cp, nil
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, fields models.Profile) (*models.Profile, error) {
	return f.updateRet, f.updateErr
}

func (f *fakeAPI) UploadProfileImage(ctx context.Context, path string) (string, *models.Profile, error) {
	return f.uploadURL, f.uploadProfile, f.uploadErr
}

func (f *fakeAPI) GetPosts(ctx context.Context, excludeUserID int64) ([]models.Post, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) GetMyPosts(ctx context.Context) ([]models.Post, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) CreatePost(ctx context.Context, draft models.Draft) (*models.Post, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) UpdatePost(ctx context.Context, id int64, fields api.PostUpdate) (*models.Post, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) DeletePost(ctx context.Context, id int64) error {
	return errors.New("not implemented")
}

func (f *fakeAPI) LikePost(ctx context.Context, id int64) error {
	return errors.New("not implemented")
}

func (f *fakeAPI) Ping(ctx context.Context) error { return nil }

type memRepo struct {
	rec     *state.Record
	saves   int
	saveErr error
}

var _ state.Repository = (*memRepo)(nil)

func (m *memRepo) Load(ctx context.Context) (*state.Record, error) {
	if m.rec == nil {
		return nil, common.ErrNoSavedState
	}
	cp := *m.rec
	return &cp, nil
}

func (m *memRepo) Save(ctx context.Context, rec *state.Record) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *rec
	m.rec = &cp
	return nil
}

func (m *memRepo) Clear(ctx context.Context) error {
	m.rec = nil
	return nil
}

type recordingSink struct {
	calls   int
	reasons []string
}

func (r *recordingSink) SessionExpired(reason string) {
	r.calls++
	r.reasons = append(r.reasons, reason)
}

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}

func (n nopLogger) With(args ...any) logging.Logger { return n }

func testUser() *models.User {
	return &models.User{ID: 7, Username: "alice", Email: "alice@example.com"}
}

func newTestStore(t *testing.T, apiClient api.Client, repo state.Repository, sink Sink) *Store {
	t.Helper()
	return NewStore(apiClient, repo, nopLogger{}, sink)
}

// ---- login ----

func TestLogin_ValidationFailsWithoutNetwork(t *testing.T) {
	f := &fakeAPI{}
	s := newTestStore(t, f, &memRepo{}, nil)

	res := s.Login(context.Background(), "", "secret")
	assert.False(t, res.OK)
	assert.Equal(t, "Identifier and password are required.", res.Message)

	res = s.Login(context.Background(), "alice", "")
	assert.False(t, res.OK)

	res = s.Login(context.Background(), "   ", "secret")
	assert.False(t, res.OK)

	assert.Zero(t, f.loginCalls)
	assert.Equal(t, StateAnonymous, s.State())
}

func TestLogin_SuccessPersistsAndLoadsProfile(t *testing.T) {
	repo := &memRepo{}
	f := &fakeAPI{
		loginRet:   &models.Session{User: testUser(), Token: "tok-1"},
		profileRet: &models.Profile{Title: "Engineer"},
	}
	s := newTestStore(t, f, repo, nil)

	res := s.Login(context.Background(), "alice", "secret")
	require.True(t, res.OK)

	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, ProfileReady, s.ProfileState())

	require.NotNil(t, repo.rec)
	assert.Equal(t, "tok-1", repo.rec.Session.Token)
	require.NotNil(t, repo.rec.Profile)
	assert.Equal(t, "Engineer", repo.rec.Profile.Title)
}

func TestLogin_TransportFailure(t *testing.T) {
	f := &fakeAPI{loginErr: fmt.Errorf("dial: %w", common.ErrUnavailable)}
	s := newTestStore(t, f, &memRepo{}, nil)

	res := s.Login(context.Background(), "alice", "secret")
	assert.False(t, res.OK)
	assert.Equal(t, "Network error. Please try again.", res.Message)
	assert.Equal(t, StateAnonymous, s.State())
}

func TestLogin_RejectedCredentialsDoNotNotifySink(t *testing.T) {
	sink := &recordingSink{}
	f := &fakeAPI{loginErr: &api.APIError{Status: 401, Msg: "Invalid credentials"}}
	s := newTestStore(t, f, &memRepo{}, sink)

	res := s.Login(context.Background(), "alice", "wrong")
	assert.False(t, res.OK)
	assert.Equal(t, "Invalid credentials", res.Message)
	// a rejected login is not a session expiry
	assert.Zero(t, sink.calls)
}

func TestLogin_ProfileFetchFailureDoesNotFailLogin(t *testing.T) {
	f := &fakeAPI{
		loginRet:   &models.Session{User: testUser(), Token: "tok-1"},
		profileErr: fmt.Errorf("dial: %w", common.ErrUnavailable),
	}
	s := newTestStore(t, f, &memRepo{}, nil)

	res := s.Login(context.Background(), "alice", "secret")
	require.True(t, res.OK)
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, ProfileNone, s.ProfileState())
	assert.Nil(t, s.Profile())
}

// ---- signup ----

func TestSignup_Validation(t *testing.T) {
	f := &fakeAPI{}
	s := newTestStore(t, f, &memRepo{}, nil)

	res := s.Signup(context.Background(), "", "a@b.c", "pw")
	assert.False(t, res.OK)
	assert.Zero(t, f.signupCalls)
}

func TestSignup_SuccessDoesNotLogIn(t *testing.T) {
	f := &fakeAPI{}
	s := newTestStore(t, f, &memRepo{}, nil)

	res := s.Signup(context.Background(), "alice", "alice@example.com", "pw")
	require.True(t, res.OK)
	assert.Equal(t, 1, f.signupCalls)
	assert.Equal(t, StateAnonymous, s.State())
}

func TestSignup_ServerErrorMessageSurfaces(t *testing.T) {
	f := &fakeAPI{signupErr: &api.APIError{Status: 409, Msg: "Username already taken"}}
	s := newTestStore(t, f, &memRepo{}, nil)

	res := s.Signup(context.Background(), "alice", "alice@example.com", "pw")
	assert.False(t, res.OK)
	assert.Equal(t, "Username already taken", res.Message)
}

// ---- logout ----

func TestLogout_ClearsSessionAndProfileKeepsDraft(t *testing.T) {
	repo := &memRepo{}
	f := &fakeAPI{loginRet: &models.Session{User: testUser(), Token: "tok-1"}}
	s := newTestStore(t, f, repo, nil)
	require.True(t, s.Login(context.Background(), "alice", "secret").OK)
	s.SaveDraft(context.Background(), models.Draft{Title: "wip", Content: "..."})

	s.Logout(context.Background())

	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.Profile())
	require.NotNil(t, repo.rec)
	assert.Empty(t, repo.rec.Session.Token)
	require.NotNil(t, repo.rec.Draft)
	assert.Equal(t, "wip", repo.rec.Draft.Title)
}

func TestLogout_Idempotent(t *testing.T) {
	s := newTestStore(t, &fakeAPI{}, &memRepo{}, nil)
	s.Logout(context.Background())
	s.Logout(context.Background())
	assert.Equal(t, StateAnonymous, s.State())
}

// ---- rehydrate ----

func TestRehydrate_RestoresStaleProfile(t *testing.T) {
	repo := &memRepo{rec: &state.Record{
		SchemaVersion: state.SchemaVersion,
		Session:       models.Session{User: testUser(), Token: "tok-1"},
		Profile:       &models.Profile{Title: "Engineer"},
	}}
	s := newTestStore(t, &fakeAPI{}, repo, nil)

	s.Rehydrate(context.Background())

	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, ProfileStale, s.ProfileState())
	require.NotNil(t, s.Profile())
	assert.Equal(t, "Engineer", s.Profile().Title)
}

func TestRehydrate_NothingSaved(t *testing.T) {
	s := newTestStore(t, &fakeAPI{}, &memRepo{}, nil)
	s.Rehydrate(context.Background())
	assert.Equal(t, StateAnonymous, s.State())
}

// ---- profile ----

func TestRefreshProfile_MergesIdentity(t *testing.T) {
	f := &fakeAPI{
		loginRet:   &models.Session{User: testUser(), Token: "tok-1"},
		profileRet: &models.Profile{Title: "Engineer"}, // no username/email
	}
	s := newTestStore(t, f, &memRepo{}, nil)
	require.True(t, s.Login(context.Background(), "alice", "secret").OK)

	p := s.Profile()
	require.NotNil(t, p)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "alice@example.com", p.Email)
	assert.Equal(t, "Engineer", p.Title)
}

func TestRefreshProfile_UnavailableMarksStale(t *testing.T) {
	f := &fakeAPI{
		loginRet:   &models.Session{User: testUser(), Token: "tok-1"},
		profileRet: &models.Profile{Title: "Engineer"},
	}
	s := newTestStore(t, f, &memRepo{}, nil)
	require.True(t, s.Login(context.Background(), "alice", "secret").OK)
	require.Equal(t, ProfileReady, s.ProfileState())

	f.profileErr = fmt.Errorf("dial: %w", common.ErrUnavailable)
	s.RefreshProfile(context.Background())

	assert.Equal(t, ProfileStale, s.ProfileState())
	require.NotNil(t, s.Profile())
	assert.Equal(t, "Engineer", s.Profile().Title)
}

func TestUpdateProfile_ReplacesSnapshotWholesale(t *testing.T) {
	repo := &memRepo{}
	f := &fakeAPI{
		loginRet:   &models.Session{User: testUser(), Token: "tok-1"},
		profileRet: &models.Profile{Title: "Engineer", Bio: "old bio"},
	}
	s := newTestStore(t, f, repo, nil)
	require.True(t, s.Login(context.Background(), "alice", "secret").OK)

	f.updateRet = &models.Profile{Title: "Staff Engineer"}
	res := s.UpdateProfile(context.Background(), models.Profile{Title: "Staff Engineer"})
	require.True(t, res.OK)

	p := s.Profile()
	require.NotNil(t, p)
	assert.Equal(t, "Staff Engineer", p.Title)
	// wholesale replacement: the old bio is gone unless the server echoed it
	assert.Empty(t, p.Bio)
	require.NotNil(t, repo.rec.Profile)
	assert.Equal(t, "Staff Engineer", repo.rec.Profile.Title)
}

func TestUpdateProfile_RequiresLogin(t *testing.T) {
	s := newTestStore(t, &fakeAPI{}, &memRepo{}, nil)
	res := s.UpdateProfile(context.Background(), models.Profile{Title: "x"})
	assert.False(t, res.OK)
}

func TestUploadAvatar_AdoptsReturnedProfile(t *testing.T) {
	f := &fakeAPI{
		loginRet:      &models.Session{User: testUser(), Token: "tok-1"},
		uploadURL:     "/uploads/avatar.png",
		uploadProfile: &models.Profile{AvatarURL: "/uploads/avatar.png", Title: "Engineer"},
	}
	s := newTestStore(t, f, &memRepo{}, nil)
	require.True(t, s.Login(context.Background(), "alice", "secret").OK)

	res := s.UploadAvatar(context.Background(), "/tmp/avatar.png")
	require.True(t, res.OK)
	require.NotNil(t, s.Profile())
	assert.Equal(t, "/uploads/avatar.png", s.Profile().AvatarURL)
}

// ---- expiry ----

func TestHandleAuthError_NotifiesSinkOnce(t *testing.T) {
	sink := &recordingSink{}
	f := &fakeAPI{loginRet: &models.Session{User: testUser(), Token: "tok-1"}}
	s := newTestStore(t, f, &memRepo{}, sink)
	require.True(t, s.Login(context.Background(), "alice", "secret").OK)

	expired := fmt.Errorf("Invalid token: %w", common.ErrUnauthorized)
	assert.True(t, s.HandleAuthError(context.Background(), expired))
	assert.True(t, s.HandleAuthError(context.Background(), expired))

	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
}

func TestHandleAuthError_IgnoresOtherErrors(t *testing.T) {
	sink := &recordingSink{}
	f := &fakeAPI{loginRet: &models.Session{User: testUser(), Token: "tok-1"}}
	s := newTestStore(t, f, &memRepo{}, sink)
	require.True(t, s.Login(context.Background(), "alice", "secret").OK)

	assert.False(t, s.HandleAuthError(context.Background(), errors.New("boom")))
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Zero(t, sink.calls)
}

func TestExpiry_DuringProfileRefresh(t *testing.T) {
	sink := &recordingSink{}
	f := &fakeAPI{loginRet: &models.Session{User: testUser(), Token: "tok-1"}}
	s := newTestStore(t, f, &memRepo{}, sink)
	require.True(t, s.Login(context.Background(), "alice", "secret").OK)

	f.profileErr = fmt.Errorf("Invalid token: %w", common.ErrUnauthorized)
	s.RefreshProfile(context.Background())

	assert.Equal(t, StateAnonymous, s.State())
	assert.Equal(t, 1, sink.calls)
}

// ---- draft ----

func TestDraft_PersistedAndCleared(t *testing.T) {
	repo := &memRepo{}
	s := newTestStore(t, &fakeAPI{}, repo, nil)

	s.SaveDraft(context.Background(), models.Draft{Title: "wip", Content: "body"})
	require.NotNil(t, s.Draft())
	require.NotNil(t, repo.rec.Draft)

	s.ClearDraft(context.Background())
	assert.Nil(t, s.Draft())
	assert.Nil(t, repo.rec.Draft)
}

func TestDraft_EmptyDraftIsDropped(t *testing.T) {
	s := newTestStore(t, &fakeAPI{}, &memRepo{}, nil)
	s.SaveDraft(context.Background(), models.Draft{})
	assert.Nil(t, s.Draft())
}

func TestPersist_RepoFailureKeepsMemoryAuthoritative(t *testing.T) {
	repo := &memRepo{saveErr: errors.New("disk full")}
	f := &fakeAPI{loginRet: &models.Session{User: testUser(), Token: "tok-1"}}
	s := newTestStore(t, f, repo, nil)

	res := s.Login(context.Background(), "alice", "secret")
	require.True(t, res.OK)
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "tok-1", s.Token())
}
