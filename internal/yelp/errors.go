// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package yelp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Failure kinds. Every error returned by Client matches exactly one of
// these with errors.Is.
var (
	ErrConnection   = errors.New("provider unreachable")
	ErrAuth         = errors.New("provider rejected credentials")
	ErrRateLimit    = errors.New("provider rate limit exceeded")
	ErrParse        = errors.New("malformed provider response")
	ErrProvider     = errors.New("provider request failed")
	ErrInvalidQuery = errors.New("invalid search query")
)

// Error describes a failed provider call. Kind is one of the Err* values
// above; Err is the underlying cause, if any.
type Error struct {
	Kind error

	// Op is the call that failed: "token" or "search".
	Op string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Code and Description come from the provider's error body when present.
	Code        string
	Description string

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "yelp %s: %v", e.Op, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " %s", e.Code)
	}
	if e.Description != "" {
		fmt.Fprintf(&b, " (%s)", e.Description)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName returns a short label for the failure kind of err, or "" when
// err is not a provider error. Used for metrics and logs.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidQuery):
		return "invalid_query"
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrRateLimit):
		return "rate_limit"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrProvider):
		return "provider"
	default:
		return ""
	}
}

// statusError classifies a non-2xx response. The token endpoint treats any
// unexpected status as an authentication failure.
func statusError(op string, status int, body []byte) *Error {
	e := &Error{Op: op, StatusCode: status}
	e.Code, e.Description = decodeProviderError(body)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = ErrAuth
	case status == http.StatusTooManyRequests:
		e.Kind = ErrRateLimit
	case op == opToken:
		e.Kind = ErrAuth
	default:
		e.Kind = ErrProvider
	}
	return e
}

// Yelp error bodies come in two shapes:
//
//	{"error": {"code": "TOKEN_INVALID", "description": "..."}}
//	{"error": "invalid_client", "error_description": "..."}
type providerError struct {
	Error            json.RawMessage `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

type providerErrorDetail struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func decodeProviderError(body []byte) (code, description string) {
	var pe providerError
	if err := json.Unmarshal(body, &pe); err != nil || len(pe.Error) == 0 {
		return "", ""
	}

	var s string
	if err := json.Unmarshal(pe.Error, &s); err == nil {
		return s, pe.ErrorDescription
	}

	var d providerErrorDetail
	if err := json.Unmarshal(pe.Error, &d); err == nil {
		return d.Code, d.Description
	}
	return "", ""
}
