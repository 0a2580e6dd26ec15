package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"

	"github.com/pawwell/pawwell-go/headers"
)

// ErrSessionExpired is returned when the stored credential can no longer be
// refreshed: the refresh token is missing, expired, or rejected. Local
// credential state has already been cleared when this surfaces.
var ErrSessionExpired = errors.New("sdk: session expired, login required")

// APIError captures a normalized backend failure: the server's
// {success, message, errors} envelope plus HTTP metadata.
type APIError struct {
	Status    int
	Message   string
	RequestID string
	// Fields maps field names to validation messages for 400-level
	// validation failures.
	Fields map[string][]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("sdk: api error %d: %s", e.Status, msg)
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("sdk: api error %d: %s (fields: %s)", e.Status, msg, strings.Join(names, ", "))
}

// ValidationError carries field-level failures detected client-side, before
// any network traffic. The field map mirrors the backend's errors envelope so
// UIs render both identically.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "sdk: validation failed: " + strings.Join(names, ", ")
}

// ConfigError indicates invalid SDK configuration or request inputs detected
// before any network traffic.
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string {
	return "sdk: config error: " + e.Reason
}

// TransportErrorKind classifies failures below the HTTP layer.
type TransportErrorKind string

const (
	TransportErrorTimeout    TransportErrorKind = "timeout"
	TransportErrorConnection TransportErrorKind = "connection"
	TransportErrorCanceled   TransportErrorKind = "canceled"
	TransportErrorOther      TransportErrorKind = "other"
)

// TransportError wraps network-level failures (DNS, connect, timeout) so
// callers can distinguish them from backend rejections.
type TransportError struct {
	Kind    TransportErrorKind
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sdk: transport error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("sdk: transport error (%s): %s", e.Kind, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Cause }

func classifyTransportErrorKind(err error) TransportErrorKind {
	switch {
	case errors.Is(err, context.Canceled):
		return TransportErrorCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return TransportErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransportErrorTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return TransportErrorConnection
	}
	return TransportErrorOther
}

// IsUnauthorized reports whether err is a 401 backend rejection.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsValidation reports whether err carries field-level validation messages,
// whether they were produced client-side or by the backend.
func IsValidation(err error) bool {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && len(apiErr.Fields) > 0
}

// decodeAPIError normalizes a non-2xx response into *APIError. The backend's
// envelope is {success: false, message, errors: {field: [msgs]}}; bare DRF
// responses carry "detail" instead.
func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{
		Status:    resp.StatusCode,
		RequestID: resp.Header.Get(headers.RequestID),
	}
	if len(data) == 0 {
		apiErr.Message = resp.Status
		return apiErr
	}
	var envelope struct {
		Message string              `json:"message"`
		Detail  string              `json:"detail"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	apiErr.Message = envelope.Message
	if apiErr.Message == "" {
		apiErr.Message = envelope.Detail
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	apiErr.Fields = envelope.Errors
	return apiErr
}
