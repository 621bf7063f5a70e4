// Package models defines the wire and cache types shared by the API client,
// the session store, and the feed controller. JSON tags follow the backend's
// snake_case contract.
package models

// User is the minimal identity returned by the login endpoint.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session pairs the authenticated identity with its bearer token.
// Token is non-empty iff User is non-nil, except transiently during login.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// LoggedIn reports whether the session carries an authenticated identity.
func (s Session) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}
