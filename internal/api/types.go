package api

import (
	"fmt"
	"strings"
)

// Operation names one of the auth endpoint calls.
type Operation string

const (
	OpSignup Operation = "signup"
	OpLogin  Operation = "login"
	OpMe     Operation = "me"
	OpLogout Operation = "logout"
)

// Credentials is the input to signup and login. It is never retained
// after the request is built.
type Credentials struct {
	Name     string
	Email    string
	Password string
}

// Trimmed returns a copy with surrounding whitespace removed from the name
// and email. The password is left untouched.
func (c Credentials) Trimmed() Credentials {
	return Credentials{
		Name:     strings.TrimSpace(c.Name),
		Email:    strings.TrimSpace(c.Email),
		Password: c.Password,
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionInfo is the decoded JSON object returned by signup, login and me.
// The client only reads name and email from it for display.
type SessionInfo map[string]any

// Field returns the named field as display text, or "" when absent.
func (s SessionInfo) Field(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Error is an application failure: the server answered with a non-2xx status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Result is the outcome of every client call. Exactly one of success or
// failure holds: Err is nil on success, and Payload is only meaningful then.
type Result struct {
	// Payload is the decoded body: a JSON value, the raw text when the
	// body was not JSON, or nil for an empty body.
	Payload any
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	Err    error
}

// Success builds a successful result.
func Success(status int, payload any) Result {
	return Result{Payload: payload, Status: status}
}

// Failure builds a failed result. A nil err is replaced so the result can
// never be mistaken for a success.
func Failure(status int, err error) Result {
	if err == nil {
		err = fmt.Errorf("unknown failure")
	}
	return Result{Status: status, Err: err}
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Message returns the human-readable failure message, or "" on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Session returns the payload as a SessionInfo when it is a JSON object.
func (r Result) Session() SessionInfo {
	if m, ok := r.Payload.(map[string]any); ok {
		return SessionInfo(m)
	}
	return nil
}
