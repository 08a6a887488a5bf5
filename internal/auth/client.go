package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit caps request rate against the identity provider. Auth
	// requests are rare (sign-in, sign-up); the limiter exists to keep a
	// misbehaving caller from hammering the provider.
	RateLimit = 5.0
)

// Client is a rate-limited HTTP client for a REST identity provider exposing
// signUp / signInWithPassword operations keyed by an API key.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key sent with each request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the identity provider at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// signUpRequest is the provider sign-up payload.
type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

// signInRequest is the provider password sign-in payload.
type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is the provider response for both operations.
type sessionResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
	ExpiresIn   string `json:"expiresIn"` // Seconds, as a string
}

// errorResponse is the provider error envelope.
type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignUp creates an account and returns the fresh session.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (*Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	return c.post(ctx, "accounts:signUp", signUpRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
}

// LogIn exchanges email/password for a session.
func (c *Client) LogIn(ctx context.Context, email, password string) (*Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	return c.post(ctx, "accounts:signInWithPassword", signInRequest{
		Email:    email,
		Password: password,
	})
}

// post sends one provider call and maps the response to a Session.
func (c *Client) post(ctx context.Context, operation string, payload interface{}) (*Session, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := c.baseURL + "/" + operation
	if c.apiKey != "" {
		url += "?key=" + c.apiKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling identity provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, mapProviderError(resp.StatusCode, respBody)
	}

	var sr sessionResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	ttl := DefaultSessionTTL
	if sr.ExpiresIn != "" {
		if secs, err := strconv.Atoi(sr.ExpiresIn); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	return &Session{
		UserID:      sr.LocalID,
		Email:       sr.Email,
		DisplayName: sr.DisplayName,
		Token:       sr.IDToken,
		ExpiresAt:   time.Now().Add(ttl),
	}, nil
}

// mapProviderError translates provider error codes into the package's
// sentinel errors where a sentinel exists.
func mapProviderError(status int, body []byte) error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		switch er.Error.Message {
		case "EMAIL_EXISTS":
			return ErrEmailTaken
		case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
			return ErrInvalidCredentials
		}
		return fmt.Errorf("identity provider error (HTTP %d): %s", status, er.Error.Message)
	}
	return fmt.Errorf("identity provider error (HTTP %d)", status)
}
