package sdk

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pawwell/pawwell-go/routes"
)

// EmergencyStatus is the handling state of an emergency request.
type EmergencyStatus string

const (
	EmergencyOpen     EmergencyStatus = "open"
	EmergencyHandling EmergencyStatus = "handling"
	EmergencyResolved EmergencyStatus = "resolved"
)

// EmergencyRequest is an urgent care request routed ahead of bookings.
type EmergencyRequest struct {
	ID          int64           `json:"id"`
	OwnerID     int64           `json:"owner"`
	PetID       int64           `json:"pet"`
	Description string          `json:"description"`
	Phone       string          `json:"phone,omitempty"`
	Status      EmergencyStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// EmergencyClient provides methods for emergency care requests.
type EmergencyClient struct {
	client *Client
}

func (c *EmergencyClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: emergency client not initialized")
	}
	return nil
}

type emergencyListResponse struct {
	Success  bool               `json:"success"`
	Requests []EmergencyRequest `json:"emergency_requests"`
}

type emergencyResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Request *EmergencyRequest `json:"emergency_request"`
}

// Create files an emergency request.
func (c *EmergencyClient) Create(ctx context.Context, petID int64, description, phone string) (EmergencyRequest, error) {
	if err := c.ensureInitialized(); err != nil {
		return EmergencyRequest{}, err
	}
	fields := map[string][]string{}
	if petID <= 0 {
		fields["pet"] = append(fields["pet"], "Select the pet needing care.")
	}
	if strings.TrimSpace(description) == "" {
		fields["description"] = append(fields["description"], "Describe the emergency.")
	}
	if len(fields) > 0 {
		return EmergencyRequest{}, &ValidationError{Fields: fields}
	}
	payload := struct {
		PetID       int64  `json:"pet"`
		Description string `json:"description"`
		Phone       string `json:"phone,omitempty"`
	}{PetID: petID, Description: description, Phone: phone}
	var resp emergencyResponse
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.EmergencyRequests, payload, &resp); err != nil {
		return EmergencyRequest{}, err
	}
	if resp.Request == nil {
		return EmergencyRequest{}, fmt.Errorf("sdk: missing emergency request in response")
	}
	return *resp.Request, nil
}

// List returns the caller's emergency requests. Veterinarians and admins see
// every open request.
func (c *EmergencyClient) List(ctx context.Context) ([]EmergencyRequest, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	var resp emergencyListResponse
	if err := c.client.sendAndDecode(ctx, http.MethodGet, routes.EmergencyRequests, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Requests, nil
}

// UpdateStatus moves an emergency request to a new handling state
// (veterinarian or admin only).
func (c *EmergencyClient) UpdateStatus(ctx context.Context, requestID int64, status EmergencyStatus) (EmergencyRequest, error) {
	if err := c.ensureInitialized(); err != nil {
		return EmergencyRequest{}, err
	}
	if requestID <= 0 {
		return EmergencyRequest{}, ConfigError{Reason: "emergency request id is required"}
	}
	switch status {
	case EmergencyOpen, EmergencyHandling, EmergencyResolved:
	default:
		return EmergencyRequest{}, ConfigError{Reason: fmt.Sprintf("unknown emergency status %q", status)}
	}
	payload := struct {
		Status EmergencyStatus `json:"status"`
	}{Status: status}
	var resp emergencyResponse
	path := fmt.Sprintf("%s%d/status/", routes.EmergencyRequests, requestID)
	if err := c.client.sendAndDecode(ctx, http.MethodPut, path, payload, &resp); err != nil {
		return EmergencyRequest{}, err
	}
	if resp.Request == nil {
		return EmergencyRequest{}, fmt.Errorf("sdk: missing emergency request in response")
	}
	return *resp.Request, nil
}
