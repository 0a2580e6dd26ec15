package sdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pawwell/pawwell-go/auth"
	"github.com/pawwell/pawwell-go/headers"
	"github.com/pawwell/pawwell-go/routes"
	"github.com/pawwell/pawwell-go/store"
	"github.com/pawwell/pawwell-go/testutil"
)

func TestNewClientValidatesBaseURL(t *testing.T) {
	cases := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"default", "", false},
		{"trailing slash trimmed", "https://api.example.com/api/", false},
		{"missing scheme", "api.example.com", true},
		{"garbage", "://nope", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewClient(Config{BaseURL: tc.baseURL})
			if tc.wantErr && err == nil {
				t.Fatal("expected config error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRequestCarriesInterceptorHeaders(t *testing.T) {
	var captured http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		testutil.WriteJSON(w, http.StatusOK, petsPayload())
	}))
	defer srv.Close()

	tokenStore := store.NewMemory()
	seedStore(t, tokenStore, auth.Credential{AccessToken: "token-abc", RefreshToken: "refresh-abc"})
	client, err := NewClient(Config{BaseURL: srv.URL, Store: tokenStore, UserAgent: "pawwell-test/1.0"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Pets.List(context.Background()); err != nil {
		t.Fatalf("list pets: %v", err)
	}

	if got := captured.Get("Authorization"); got != "Bearer token-abc" {
		t.Fatalf("Authorization = %q", got)
	}
	if got := captured.Get("User-Agent"); got != "pawwell-test/1.0" {
		t.Fatalf("User-Agent = %q", got)
	}
	if captured.Get(headers.Client) == "" {
		t.Fatal("missing client identification header")
	}
	if captured.Get(headers.RequestID) == "" {
		t.Fatal("missing request id header")
	}
}

func TestAnonymousRequestOmitsAuthorization(t *testing.T) {
	var captured http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Thanks!"})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Contact.Send(context.Background(), ContactMessage{
		Name:    "Sam",
		Email:   "sam@example.com",
		Message: "Are weekend visits possible?",
	})
	if err != nil {
		t.Fatalf("send contact: %v", err)
	}
	if got := captured.Get("Authorization"); got != "" {
		t.Fatalf("expected no Authorization header, got %q", got)
	}
}

func TestErrorEnvelopeDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headers.RequestID, r.Header.Get(headers.RequestID))
		testutil.WriteFieldErrors(w, http.StatusBadRequest, map[string][]string{
			"booking_date": {"Booking date cannot be in the past."},
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Bookings.Create(context.Background(), BookingRequest{
		PetID:       1,
		ServiceType: "boarding",
		Date:        "2020-01-01",
		TimeSlot:    "09:00-10:00",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", apiErr.Status)
	}
	if msgs := apiErr.Fields["booking_date"]; len(msgs) != 1 || !strings.Contains(msgs[0], "past") {
		t.Fatalf("fields = %v", apiErr.Fields)
	}
	if apiErr.RequestID == "" {
		t.Fatal("expected request id echoed into the error")
	}
}

func TestNonJSONErrorBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream exploded</html>"))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Contact.Send(context.Background(), ContactMessage{
		Name:    "Sam",
		Email:   "sam@example.com",
		Message: "hello",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Fatalf("status = %d", apiErr.Status)
	}
	if apiErr.Message == "" {
		t.Fatal("expected a non-empty fallback message")
	}
}

func TestGetRetriesOn5xx(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			testutil.WriteError(w, http.StatusServiceUnavailable, "warming up")
			return
		}
		testutil.WriteJSON(w, http.StatusOK, petsPayload())
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL: srv.URL,
		Retry:   RetryConfig{MaxAttempts: 3, BaseBackoff: 1, MaxBackoff: 1},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	pets, err := client.Pets.List(context.Background())
	if err != nil {
		t.Fatalf("list pets: %v", err)
	}
	if len(pets) != 1 {
		t.Fatalf("unexpected pets: %+v", pets)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestPostNeverRetriesOn5xx(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		testutil.WriteError(w, http.StatusInternalServerError, "boom")
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL: srv.URL,
		Retry:   RetryConfig{MaxAttempts: 3, BaseBackoff: 1, MaxBackoff: 1},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Contact.Send(context.Background(), ContactMessage{
		Name:    "Sam",
		Email:   "sam@example.com",
		Message: "hello",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestTelemetryHooksObserveRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, petsPayload())
	}))
	defer srv.Close()

	var requests, responses, metrics atomic.Int64
	client, err := NewClient(Config{
		BaseURL: srv.URL,
		Telemetry: TelemetryHooks{
			OnHTTPRequest: func(ctx context.Context, req *http.Request) {
				requests.Add(1)
			},
			OnHTTPResponse: func(ctx context.Context, req *http.Request, resp *http.Response, err error, d time.Duration) {
				responses.Add(1)
			},
			OnMetric: func(ctx context.Context, m Metric) {
				metrics.Add(1)
			},
		},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Pets.List(context.Background()); err != nil {
		t.Fatalf("list pets: %v", err)
	}
	if requests.Load() != 1 || responses.Load() != 1 {
		t.Fatalf("hooks fired req=%d resp=%d", requests.Load(), responses.Load())
	}
	if metrics.Load() == 0 {
		t.Fatal("expected latency metric")
	}
}

func TestRefreshEndpointLivesOutsideInterceptor(t *testing.T) {
	// The refresh request itself must not carry the stale bearer token through
	// the intercepting pipeline, or a 401 from it would recurse.
	var refreshAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case routes.AccountsTokenRefresh:
			refreshAuth.Store(r.Header.Get(headers.RequestID))
			testutil.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "access": "fresh"})
		case routes.Pets:
			if r.Header.Get("Authorization") != "Bearer fresh" {
				testutil.WriteError(w, http.StatusUnauthorized, "Token expired.")
				return
			}
			testutil.WriteJSON(w, http.StatusOK, petsPayload())
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tokenStore := store.NewMemory()
	seedStore(t, tokenStore, auth.Credential{AccessToken: "stale", RefreshToken: "refresh-1"})
	client, err := NewClient(Config{BaseURL: srv.URL, Store: tokenStore})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Pets.List(context.Background()); err != nil {
		t.Fatalf("list pets: %v", err)
	}
	// The standalone auth client does not stamp the SDK request id header.
	if got, _ := refreshAuth.Load().(string); got != "" {
		t.Fatalf("refresh went through the intercepting pipeline (request id %q)", got)
	}
}
