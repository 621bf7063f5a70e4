package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dpetrovs/proconnect/internal/common"
)

// APIError is an application-level failure: a non-2xx response carrying a
// structured {"msg": ...} body. Transport faults and expired sessions are
// reported as wrapped sentinels instead (common.ErrUnavailable,
// common.ErrUnauthorized).
type APIError struct {
	Status int
	Msg    string
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// errBody is the error payload shape used by every endpoint.
type errBody struct {
	Msg string `json:"msg"`
}

// classifyError converts a non-2xx response into an error. Session expiry is
// detected here, once, for every call site: a 401 status or an error message
// mentioning the token maps to common.ErrUnauthorized.
func classifyError(resp *http.Response, body []byte) error {
	var eb errBody
	_ = json.Unmarshal(body, &eb)
	msg := strings.TrimSpace(eb.Msg)

	if resp.StatusCode == http.StatusUnauthorized || strings.Contains(strings.ToLower(msg), "token") {
		if msg == "" {
			msg = "session expired"
		}
		return fmt.Errorf("%s: %w", msg, common.ErrUnauthorized)
	}

	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return &APIError{Status: resp.StatusCode, Msg: msg}
}
