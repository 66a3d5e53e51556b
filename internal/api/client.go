package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	signupPath = "/api/auth/signup"
	loginPath  = "/api/auth/login"
	mePath     = "/api/auth/me"
	logoutPath = "/api/auth/logout"
)

// UserAgent is sent with every request.
var UserAgent = "authpanel/dev"

// Client is the auth endpoint client. The session cookie lives in the
// client's jar; the client never reads or sets it itself.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	reads   singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for the auth service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Signup creates an account. On success the payload is the created record.
func (c *Client) Signup(ctx context.Context, name, email, password string) Result {
	return c.do(ctx, http.MethodPost, signupPath, signupRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
}

// Login creates a session for the given credentials.
func (c *Client) Login(ctx context.Context, email, password string) Result {
	return c.do(ctx, http.MethodPost, loginPath, loginRequest{
		Email:    email,
		Password: password,
	})
}

// CurrentSession reads the active session. Concurrent callers share one
// in-flight request.
func (c *Client) CurrentSession(ctx context.Context) Result {
	v, _, _ := c.reads.Do(mePath, func() (interface{}, error) {
		return c.do(ctx, http.MethodGet, mePath, nil), nil
	})
	return v.(Result)
}

// Logout terminates the session. The success payload may be nil.
func (c *Client) Logout(ctx context.Context) Result {
	return c.do(ctx, http.MethodPost, logoutPath, nil)
}

// do sends one request and normalizes its outcome. It never returns a
// transport error directly; every failure becomes a Result.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) Result {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Failure(0, fmt.Errorf("encoding request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Failure(0, fmt.Errorf("creating request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).
			Str("request_id", requestID).
			Str("method", method).
			Str("path", path).
			Msg("request failed")
		return Failure(0, fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()

	res := decodeResponse(resp)
	c.log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Bool("ok", res.OK()).
		Msg("request completed")
	return res
}
