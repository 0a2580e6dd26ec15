package auth

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

	"github.com/pawwell/pawwell-go/routes"
)

const defaultUserAgent = "PawWellSDK/1"

// Config controls how the standalone auth client talks to the PawWell API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Client issues login, refresh, and logout requests directly, bypassing the
// SDK's intercepting pipeline. The refresh coordinator depends on this:
// refresh traffic must never itself trigger a refresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Credentials encapsulates email/password inputs for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse mirrors the login endpoint's response body.
type LoginResponse struct {
	Success            bool      `json:"success"`
	Message            string    `json:"message,omitempty"`
	Access             string    `json:"access"`
	Refresh            string    `json:"refresh"`
	User               *User     `json:"user,omitempty"`
	AccessTokenExpiry  time.Time `json:"access_token_expiry,omitempty"`
	RefreshTokenExpiry time.Time `json:"refresh_token_expiry,omitempty"`
}

// Credential converts the response into the persistable artifact. Missing
// expiries are recovered from the tokens' embedded claims.
func (r LoginResponse) Credential() Credential {
	cred := Credential{
		AccessToken:      r.Access,
		RefreshToken:     r.Refresh,
		AccessExpiresAt:  r.AccessTokenExpiry,
		RefreshExpiresAt: r.RefreshTokenExpiry,
		User:             r.User,
	}
	if cred.AccessExpiresAt.IsZero() {
		cred.AccessExpiresAt = TokenExpiry(r.Access)
	}
	if cred.RefreshExpiresAt.IsZero() {
		cred.RefreshExpiresAt = TokenExpiry(r.Refresh)
	}
	return cred
}

// RefreshResponse mirrors the token refresh endpoint's response body.
// Refresh is populated only when the server rotates refresh tokens.
type RefreshResponse struct {
	Success           bool      `json:"success"`
	Access            string    `json:"access"`
	Refresh           string    `json:"refresh,omitempty"`
	AccessTokenExpiry time.Time `json:"access_token_expiry,omitempty"`
}

// Error conveys HTTP failures from the auth endpoints, normalized from the
// backend's {success, message, errors} envelope.
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("auth: http %d: %s", e.Status, msg)
}

// NewClient constructs a Client with sane defaults.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("auth: base url required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		baseURL:    strings.TrimSuffix(base, "/"),
		httpClient: client,
		userAgent:  ua,
	}, nil
}

// Login exchanges user credentials for an access/refresh token pair plus the
// user profile snapshot.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	if strings.TrimSpace(creds.Email) == "" || strings.TrimSpace(creds.Password) == "" {
		return LoginResponse{}, errors.New("auth: email and password required")
	}
	var out LoginResponse
	if err := c.post(ctx, routes.AccountsLogin, "", creds, &out); err != nil {
		return LoginResponse{}, err
	}
	return out, nil
}

// Refresh swaps a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return RefreshResponse{}, errors.New("auth: refresh token required")
	}
	payload := struct {
		Refresh string `json:"refresh"`
	}{Refresh: refreshToken}
	var out RefreshResponse
	if err := c.post(ctx, routes.AccountsTokenRefresh, "", payload, &out); err != nil {
		return RefreshResponse{}, err
	}
	if out.AccessTokenExpiry.IsZero() {
		out.AccessTokenExpiry = TokenExpiry(out.Access)
	}
	return out, nil
}

// Logout blacklists the refresh token server-side. Callers treat failures as
// best-effort; local credential state is cleared regardless.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return errors.New("auth: refresh token required")
	}
	payload := struct {
		Refresh string `json:"refresh"`
	}{Refresh: refreshToken}
	return c.post(ctx, routes.AccountsLogout, accessToken, payload, nil)
}

func (c *Client) post(ctx context.Context, path, bearer string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func decodeError(status int, body []byte) error {
	authErr := &Error{Status: status}
	var envelope struct {
		Message string              `json:"message"`
		Detail  string              `json:"detail"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		authErr.Message = strings.TrimSpace(string(body))
		return authErr
	}
	authErr.Message = envelope.Message
	if authErr.Message == "" {
		authErr.Message = envelope.Detail
	}
	authErr.Fields = envelope.Errors
	return authErr
}
