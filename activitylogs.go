package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pawwell/pawwell-go/routes"
)

// ActivityLog records a care activity (feeding, walk, medication) for a pet.
type ActivityLog struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner"`
	PetID        int64     `json:"pet"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description,omitempty"`
	LoggedAt     time.Time `json:"logged_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ActivityLogRequest contains the writable fields for recording or updating
// an activity log entry.
type ActivityLogRequest struct {
	PetID        int64     `json:"pet"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description,omitempty"`
	LoggedAt     time.Time `json:"logged_at,omitempty"`
}

// Validate performs the client-side field checks.
func (r ActivityLogRequest) Validate() error {
	fields := map[string][]string{}
	if r.PetID <= 0 {
		fields["pet"] = append(fields["pet"], "Select a pet for the activity.")
	}
	if strings.TrimSpace(r.ActivityType) == "" {
		fields["activity_type"] = append(fields["activity_type"], "Activity type is required.")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ActivityLogsClient provides methods for managing activity logs.
type ActivityLogsClient struct {
	client *Client
}

func (c *ActivityLogsClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: activity logs client not initialized")
	}
	return nil
}

type activityLogListResponse struct {
	Success bool          `json:"success"`
	Logs    []ActivityLog `json:"activity_logs"`
}

type activityLogResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Log     *ActivityLog `json:"activity_log"`
}

// ActivityLogListOptions filters List.
type ActivityLogListOptions struct {
	// PetID restricts results to one pet.
	PetID int64
	// ActivityType restricts results to one activity kind.
	ActivityType string
}

// List returns the authenticated user's activity logs, newest first.
func (c *ActivityLogsClient) List(ctx context.Context, opts ActivityLogListOptions) ([]ActivityLog, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	path := routes.ActivityLogs
	params := url.Values{}
	if opts.PetID > 0 {
		params.Set("pet", strconv.FormatInt(opts.PetID, 10))
	}
	if opts.ActivityType != "" {
		params.Set("activity_type", opts.ActivityType)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var resp activityLogListResponse
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// Create records an activity. A zero LoggedAt means "now" server-side.
func (c *ActivityLogsClient) Create(ctx context.Context, req ActivityLogRequest) (ActivityLog, error) {
	if err := c.ensureInitialized(); err != nil {
		return ActivityLog{}, err
	}
	if err := req.Validate(); err != nil {
		return ActivityLog{}, err
	}
	var resp activityLogResponse
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.ActivityLogs, req, &resp); err != nil {
		return ActivityLog{}, err
	}
	if resp.Log == nil {
		return ActivityLog{}, fmt.Errorf("sdk: missing activity log in response")
	}
	return *resp.Log, nil
}

// Update rewrites an activity log entry.
func (c *ActivityLogsClient) Update(ctx context.Context, logID int64, req ActivityLogRequest) (ActivityLog, error) {
	if err := c.ensureInitialized(); err != nil {
		return ActivityLog{}, err
	}
	if logID <= 0 {
		return ActivityLog{}, ConfigError{Reason: "activity log id is required"}
	}
	if err := req.Validate(); err != nil {
		return ActivityLog{}, err
	}
	var resp activityLogResponse
	path := fmt.Sprintf("%s%d/", routes.ActivityLogs, logID)
	if err := c.client.sendAndDecode(ctx, http.MethodPut, path, req, &resp); err != nil {
		return ActivityLog{}, err
	}
	if resp.Log == nil {
		return ActivityLog{}, fmt.Errorf("sdk: missing activity log in response")
	}
	return *resp.Log, nil
}

// Delete removes an activity log entry.
func (c *ActivityLogsClient) Delete(ctx context.Context, logID int64) error {
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	if logID <= 0 {
		return ConfigError{Reason: "activity log id is required"}
	}
	path := fmt.Sprintf("%s%d/", routes.ActivityLogs, logID)
	return c.client.sendAndDecode(ctx, http.MethodDelete, path, nil, nil)
}
