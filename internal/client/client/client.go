package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/weynak/weynak/internal/common"
)

// Profile is what the server reports about the bearer of a token.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Client is the account API as seen by the CLI. Methods returning a string
// return the server's confirmation message.
type Client interface {
	Register(ctx context.Context, name, email string, password []byte) (string, error)
	Login(ctx context.Context, email string, password []byte) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, otp string, newPassword []byte) (string, error)
	Me(ctx context.Context, token string) (*Profile, error)
	Ping(ctx context.Context) error
	Close() error
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient talks to the server at baseURL. timeout bounds each call.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type messageResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var m messageResponse
		_ = json.NewDecoder(resp.Body).Decode(&m)
		return &APIError{StatusCode: resp.StatusCode, Kind: m.Kind, Message: m.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) postMessage(ctx context.Context, path string, in any) (string, error) {
	var m messageResponse
	if err := c.do(ctx, http.MethodPost, path, "", in, &m); err != nil {
		return "", err
	}
	return m.Message, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email string, password []byte) (string, error) {
	return c.postMessage(ctx, "/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": string(password),
	})
}

// Login returns the session token.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	in := map[string]string{"email": email, "password": string(password)}
	if err := c.do(ctx, http.MethodPost, "/login", "", in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.postMessage(ctx, "/forgot-password", map[string]string{"email": email})
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, otp string, newPassword []byte) (string, error) {
	return c.postMessage(ctx, "/reset-password", map[string]string{
		"email":       email,
		"otp":         otp,
		"newPassword": string(newPassword),
	})
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/me", token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Ping probes /health.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "", nil, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
