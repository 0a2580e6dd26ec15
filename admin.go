package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pawwell/pawwell-go/routes"
)

// AdminClient wraps the moderation endpoints. Every method requires an
// admin-role credential; the backend rejects anything else with 403.
type AdminClient struct {
	client *Client
}

func (c *AdminClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: admin client not initialized")
	}
	return nil
}

// ListBookings returns bookings across all users for moderation, optionally
// filtered by status.
func (c *AdminClient) ListBookings(ctx context.Context, status BookingStatus) ([]Booking, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	path := routes.AdminBookings
	if status != "" {
		params := url.Values{}
		params.Set("status", string(status))
		path += "?" + params.Encode()
	}
	var resp bookingListResponse
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

func (c *AdminClient) moderateBooking(ctx context.Context, bookingID int64, status BookingStatus, note string) (Booking, error) {
	if bookingID <= 0 {
		return Booking{}, ConfigError{Reason: "booking id is required"}
	}
	payload := struct {
		Status    BookingStatus `json:"status"`
		AdminNote string        `json:"admin_note,omitempty"`
	}{Status: status, AdminNote: strings.TrimSpace(note)}
	var resp bookingResponse
	path := fmt.Sprintf("%s%d/status/", routes.Bookings, bookingID)
	if err := c.client.sendAndDecode(ctx, http.MethodPut, path, payload, &resp); err != nil {
		return Booking{}, err
	}
	if resp.Booking == nil {
		return Booking{}, fmt.Errorf("sdk: missing booking in response")
	}
	return *resp.Booking, nil
}

// ApproveBooking accepts a pending booking.
func (c *AdminClient) ApproveBooking(ctx context.Context, bookingID int64, note string) (Booking, error) {
	if err := c.ensureInitialized(); err != nil {
		return Booking{}, err
	}
	return c.moderateBooking(ctx, bookingID, BookingApproved, note)
}

// RejectBooking declines a pending booking. The note is surfaced to the
// owner, so rejections should carry one.
func (c *AdminClient) RejectBooking(ctx context.Context, bookingID int64, note string) (Booking, error) {
	if err := c.ensureInitialized(); err != nil {
		return Booking{}, err
	}
	return c.moderateBooking(ctx, bookingID, BookingRejected, note)
}

// AllActivityLogs returns activity logs across all users.
func (c *AdminClient) AllActivityLogs(ctx context.Context) ([]ActivityLog, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	var resp activityLogListResponse
	if err := c.client.sendAndDecode(ctx, http.MethodGet, routes.AdminActivityLogs, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// NotificationSummary aggregates what needs admin attention.
type NotificationSummary struct {
	Success            bool `json:"success"`
	PendingBookings    int  `json:"pending_bookings"`
	OpenEmergencies    int  `json:"open_emergencies"`
	UnreadContactMsgs  int  `json:"unread_contact_messages"`
	UnverifiedAccounts int  `json:"unverified_accounts"`
}

// NotificationSummary returns pending counts for the admin dashboard.
func (c *AdminClient) NotificationSummary(ctx context.Context) (NotificationSummary, error) {
	if err := c.ensureInitialized(); err != nil {
		return NotificationSummary{}, err
	}
	var resp NotificationSummary
	if err := c.client.sendAndDecode(ctx, http.MethodGet, routes.AdminNotificationSummary, nil, &resp); err != nil {
		return NotificationSummary{}, err
	}
	return resp, nil
}

// ReceivedContactMessage is a stored contact submission with its metadata.
type ReceivedContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactMessages lists submitted contact messages, newest first.
func (c *AdminClient) ContactMessages(ctx context.Context) ([]ReceivedContactMessage, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	var resp struct {
		Success  bool                     `json:"success"`
		Messages []ReceivedContactMessage `json:"messages"`
	}
	if err := c.client.sendAndDecode(ctx, http.MethodGet, routes.AdminContactMessages, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}
