package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dpetrovs/proconnect/internal/client/models"
	"github.com/dpetrovs/proconnect/internal/common"
)

// HTTPClient is the production Client backed by net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the backend at baseURL (scheme://host[:port],
// no trailing slash). Authenticated requests pull the bearer token from tokens.
func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(tokens, timeout),
	}
}

// do is the single request wrapper every method calls through. It sends the
// request, maps transport faults to common.ErrUnavailable, classifies error
// responses (including session expiry) and decodes a 2xx body into out when
// out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", common.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errorBody, _ := io.ReadAll(resp.Body)
		return classifyError(resp, errorBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in any, out any) error {
	reqBytes, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(reqBytes), out)
}

type loginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*models.Session, error) {
	req := loginRequest{Password: password}
	if strings.Contains(identifier, "@") {
		req.Email = identifier
	} else {
		req.Username = identifier
	}

	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, &APIError{Status: http.StatusOK, Msg: "login response missing token or user"}
	}
	return &models.Session{User: resp.User, Token: resp.Token}, nil
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Signup(ctx context.Context, username, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/signup", signupRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, nil)
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, fields models.Profile) (*models.Profile, error) {
	var p models.Profile
	if err := c.doJSON(ctx, http.MethodPut, "/api/profile", fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type profileImageResponse struct {
	URL     string          `json:"url"`
	Profile *models.Profile `json:"profile"`
}

func (c *HTTPClient) UploadProfileImage(ctx context.Context, path string) (string, *models.Profile, error) {
	body, contentType, err := fileForm("image", path, nil)
	if err != nil {
		return "", nil, err
	}

	var resp profileImageResponse
	if err := c.do(ctx, http.MethodPost, "/api/profile/image", contentType, body, &resp); err != nil {
		return "", nil, err
	}
	return resp.URL, resp.Profile, nil
}

func (c *HTTPClient) GetPosts(ctx context.Context, excludeUserID int64) ([]models.Post, error) {
	path := "/api/posts"
	if excludeUserID > 0 {
		path += "?exclude_user_id=" + url.QueryEscape(fmt.Sprint(excludeUserID))
	}

	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, path, "", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HTTPClient) GetMyPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/api/my-posts", "", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, draft models.Draft) (*models.Post, error) {
	fields := map[string]string{
		"title":   draft.Title,
		"content": draft.Content,
	}
	if draft.Category != "" {
		fields["category"] = draft.Category
	}

	var (
		body        io.Reader
		contentType string
		err         error
	)
	if draft.MediaPath != "" {
		body, contentType, err = fileForm("media", draft.MediaPath, fields)
	} else {
		body, contentType, err = textForm(fields)
	}
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", contentType, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *HTTPClient) UpdatePost(ctx context.Context, id int64, fields PostUpdate) (*models.Post, error) {
	var post models.Post
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/posts/%d", id), fields, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *HTTPClient) DeletePost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), "", nil, nil)
}

// LikePost hits /posts/:id/like without the /api prefix; the backend mounts
// the like route at the root.
func (c *HTTPClient) LikePost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/like", id), "", nil, nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", common.ErrUnavailable)
	}
	resp.Body.Close()
	return nil
}

// textForm builds a multipart body containing only text fields.
func textForm(fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// fileForm builds a multipart body with the file at path under fieldName
// plus any extra text fields.
func fileForm(fieldName, path string, fields map[string]string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile(fieldName, filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
