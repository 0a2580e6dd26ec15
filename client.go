package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pawwell/pawwell-go/auth"
	"github.com/pawwell/pawwell-go/headers"
	"github.com/pawwell/pawwell-go/store"
)

const defaultBaseURL = "https://api.pawwell.app/api"
const defaultUserAgent = "pawwell-sdk/" + Version

const defaultRequestTimeout = 10 * time.Second

// Config wires the token store, base URL, and telemetry for the API client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// Store persists the credential between runs. Defaults to an in-memory
	// store, which is only useful for single-run tools and tests.
	Store     store.TokenStore
	Telemetry TelemetryHooks
	UserAgent string
	// Retry applies to idempotent GETs on transient transport/5xx failures.
	Retry RetryConfig
}

// Client is the single point of egress for every backend call. It attaches
// the stored bearer token on the way out and transparently refreshes it when
// the backend answers 401, so service-client callers never see an auth
// failure unless the refresh itself fails.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      store.TokenStore
	telemetry  TelemetryHooks
	userAgent  string
	retry      RetryConfig

	authClient *auth.Client
	refresher  *refreshCoordinator

	expiredMu sync.Mutex
	onExpired func()

	// Grouped service clients.
	Accounts     *AccountsClient
	Pets         *PetsClient
	Bookings     *BookingsClient
	ActivityLogs *ActivityLogsClient
	Emergency    *EmergencyClient
	Contact      *ContactClient
	Admin        *AdminClient
}

// NewClient validates the configuration and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(defaultRequestTimeout)
	}
	tokenStore := cfg.Store
	if tokenStore == nil {
		tokenStore = store.NewMemory()
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	authClient, err := auth.NewClient(auth.Config{
		BaseURL:    normalized,
		HTTPClient: httpClient,
		UserAgent:  ua,
	})
	if err != nil {
		return nil, err
	}
	client := &Client{
		baseURL:    normalized,
		httpClient: httpClient,
		store:      tokenStore,
		telemetry:  cfg.Telemetry,
		userAgent:  ua,
		retry:      cfg.Retry.normalized(),
		authClient: authClient,
	}
	client.refresher = newRefreshCoordinator(client)
	client.Accounts = &AccountsClient{client: client}
	client.Pets = &PetsClient{client: client}
	client.Bookings = &BookingsClient{client: client}
	client.ActivityLogs = &ActivityLogsClient{client: client}
	client.Emergency = &EmergencyClient{client: client}
	client.Contact = &ContactClient{client: client}
	client.Admin = &AdminClient{client: client}
	return client, nil
}

// Store exposes the configured token store. The session and refresh
// coordinator are its only writers.
func (c *Client) Store() store.TokenStore { return c.store }

// OnSessionExpired registers a callback fired when the credential becomes
// irrecoverable (refresh failed or no refresh token). The session context
// uses this to flip to logged-out so route guards redirect to login.
func (c *Client) OnSessionExpired(fn func()) {
	c.expiredMu.Lock()
	c.onExpired = fn
	c.expiredMu.Unlock()
}

func (c *Client) notifySessionExpired() {
	c.expiredMu.Lock()
	fn := c.onExpired
	c.expiredMu.Unlock()
	if fn != nil {
		fn()
	}
}

func newHTTPClient(requestTimeout time.Duration) *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ConfigError{Reason: "base URL required"}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", ConfigError{Reason: fmt.Sprintf("invalid base URL: %v", err)}
	}
	if u.Scheme == "" {
		return "", ConfigError{Reason: "base URL missing scheme (http/https)"}
	}
	if u.Host == "" {
		return "", ConfigError{Reason: "base URL missing host"}
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

// requestFactory rebuilds a request from scratch for each attempt so bodies
// can be replayed after a refresh or a transient-failure retry.
type requestFactory func(ctx context.Context) (*http.Request, error)

func (c *Client) jsonFactory(method, path string, payload any) requestFactory {
	return func(ctx context.Context) (*http.Request, error) {
		var body io.Reader
		if payload != nil {
			encoded, err := json.Marshal(payload)
			if err != nil {
				return nil, err
			}
			body = bytes.NewReader(encoded)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}
		injectTraceparent(ctx, req)
		return req, nil
	}
}

// FileUpload carries an in-memory file for multipart endpoints (pet images).
// Content is retained so the request can be rebuilt for the post-refresh
// replay.
type FileUpload struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
}

func (c *Client) multipartFactory(method, path string, fields map[string]string, file *FileUpload) requestFactory {
	return func(ctx context.Context) (*http.Request, error) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		for name, value := range fields {
			if err := writer.WriteField(name, value); err != nil {
				return nil, err
			}
		}
		if file != nil {
			header := textproto.MIMEHeader{}
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.FieldName, file.FileName))
			contentType := file.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			header.Set("Content-Type", contentType)
			part, err := writer.CreatePart(header)
			if err != nil {
				return nil, err
			}
			if _, err := part.Write(file.Content); err != nil {
				return nil, err
			}
		}
		if err := writer.Close(); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), bytes.NewReader(buf.Bytes()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Accept", "application/json")
		injectTraceparent(ctx, req)
		return req, nil
	}
}

// sendMultipartAndDecode issues a multipart request and decodes the response
// body into out (when out is non-nil).
func (c *Client) sendMultipartAndDecode(ctx context.Context, method, path string, fields map[string]string, file *FileUpload, out any) error {
	resp, err := c.send(ctx, c.multipartFactory(method, path, fields, file))
	if err != nil {
		return err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// prepare runs the request interceptor: user agent, correlation id, and the
// bearer token read from the token store. It never blocks on the network.
func (c *Client) prepare(ctx context.Context, req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set(headers.Client, defaultUserAgent)
	if req.Header.Get(headers.RequestID) == "" {
		req.Header.Set(headers.RequestID, uuid.NewString())
	}
	if cred, ok, err := c.store.Load(ctx); err == nil && ok && cred.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	}
}

// send dispatches a request built by factory, retrying once after a
// successful token refresh when the backend answers 401, and retrying
// idempotent GETs on transient failures per the retry config.
//
// The returned response always has a status below 400; everything else is
// normalized to an error.
func (c *Client) send(ctx context.Context, build requestFactory) (*http.Response, error) {
	refreshed := false
	attempt := 0
	for {
		attempt++
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		c.prepare(ctx, req)
		if c.telemetry.OnHTTPRequest != nil {
			c.telemetry.OnHTTPRequest(ctx, req)
		}
		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if c.telemetry.OnHTTPResponse != nil {
			c.telemetry.OnHTTPResponse(ctx, req, resp, err, time.Since(start))
		}
		c.telemetry.metric(ctx, "sdk_http_request_latency_ms", float64(time.Since(start).Milliseconds()), map[string]string{
			"path": req.URL.Path,
		})
		if err != nil {
			kind := classifyTransportErrorKind(err)
			if c.shouldRetryTransport(req, kind, attempt) {
				c.sleep(ctx, c.retry.backoffDelay(attempt+1))
				continue
			}
			return nil, &TransportError{Kind: kind, Message: "request failed", Cause: err}
		}
		if resp.StatusCode == http.StatusUnauthorized && !refreshed {
			//nolint:errcheck // response is being discarded for the retry
			_ = resp.Body.Close()
			c.telemetry.log(ctx, LogLevelInfo, "auth_refresh_triggered", map[string]any{
				"path": req.URL.Path,
			})
			if err := c.refresher.refresh(ctx); err != nil {
				return nil, err
			}
			refreshed = true
			continue
		}
		if resp.StatusCode >= 500 && req.Method == http.MethodGet && attempt < c.retry.MaxAttempts {
			//nolint:errcheck // response is being discarded for the retry
			_ = resp.Body.Close()
			c.sleep(ctx, c.retry.backoffDelay(attempt+1))
			continue
		}
		if resp.StatusCode >= 400 {
			defer func() { _ = resp.Body.Close() }() //nolint:errcheck // best-effort cleanup
			return nil, decodeAPIError(resp)
		}
		return resp, nil
	}
}

func (c *Client) shouldRetryTransport(req *http.Request, kind TransportErrorKind, attempt int) bool {
	if kind == TransportErrorCanceled {
		return false
	}
	if req.Method != http.MethodGet {
		return false
	}
	return attempt < c.retry.MaxAttempts
}

func (c *Client) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// sendAndDecode issues a JSON request and decodes the response body into out
// (when out is non-nil).
func (c *Client) sendAndDecode(ctx context.Context, method, path string, payload, out any) error {
	resp, err := c.send(ctx, c.jsonFactory(method, path, payload))
	if err != nil {
		return err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
