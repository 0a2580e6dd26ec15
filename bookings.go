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

// BookingStatus is the moderation state of a booking request.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking represents a service booking request.
type Booking struct {
	ID          int64         `json:"id"`
	OwnerID     int64         `json:"owner"`
	PetID       int64         `json:"pet"`
	ServiceType string        `json:"service_type"`
	Date        string        `json:"date"`      // YYYY-MM-DD
	TimeSlot    string        `json:"time_slot"` // e.g. "09:00-10:00"
	Notes       string        `json:"notes,omitempty"`
	Status      BookingStatus `json:"status"`
	AdminNote   string        `json:"admin_note,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// BookingRequest contains the writable fields for creating or updating a
// booking.
type BookingRequest struct {
	PetID       int64  `json:"pet"`
	ServiceType string `json:"service_type"`
	Date        string `json:"date"`
	TimeSlot    string `json:"time_slot"`
	Notes       string `json:"notes,omitempty"`
}

// Validate performs the client-side field checks.
func (r BookingRequest) Validate() error {
	fields := map[string][]string{}
	if r.PetID <= 0 {
		fields["pet"] = append(fields["pet"], "Select a pet for the booking.")
	}
	if strings.TrimSpace(r.ServiceType) == "" {
		fields["service_type"] = append(fields["service_type"], "Service type is required.")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		fields["date"] = append(fields["date"], "Enter a valid date (YYYY-MM-DD).")
	}
	if strings.TrimSpace(r.TimeSlot) == "" {
		fields["time_slot"] = append(fields["time_slot"], "Time slot is required.")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Availability is the answer to a slot availability check.
type Availability struct {
	Success   bool   `json:"success"`
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}

// BookingsClient provides methods for managing booking requests.
type BookingsClient struct {
	client *Client
}

func (c *BookingsClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: bookings client not initialized")
	}
	return nil
}

type bookingListResponse struct {
	Success  bool      `json:"success"`
	Bookings []Booking `json:"bookings"`
}

type bookingResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Booking *Booking `json:"booking"`
}

// CheckAvailability reports whether a service slot is still free. Callers
// should treat the answer as advisory; creation can still fail on a race.
func (c *BookingsClient) CheckAvailability(ctx context.Context, serviceType, date, timeSlot string) (Availability, error) {
	if err := c.ensureInitialized(); err != nil {
		return Availability{}, err
	}
	payload := struct {
		ServiceType string `json:"service_type"`
		Date        string `json:"date"`
		TimeSlot    string `json:"time_slot"`
	}{ServiceType: serviceType, Date: date, TimeSlot: timeSlot}
	var resp Availability
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.BookingsCheckAvailability, payload, &resp); err != nil {
		return Availability{}, err
	}
	return resp, nil
}

// BookingListOptions filters List.
type BookingListOptions struct {
	// Status filters to one moderation state.
	Status BookingStatus
	// From/To bound the booking date (inclusive, YYYY-MM-DD).
	From string
	To   string
}

// List returns the authenticated user's bookings, newest first.
func (c *BookingsClient) List(ctx context.Context, opts BookingListOptions) ([]Booking, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	path := routes.Bookings
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", string(opts.Status))
	}
	if opts.From != "" {
		params.Set("from", opts.From)
	}
	if opts.To != "" {
		params.Set("to", opts.To)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var resp bookingListResponse
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// Create submits a booking request; it starts in the pending state until an
// admin approves or rejects it.
func (c *BookingsClient) Create(ctx context.Context, req BookingRequest) (Booking, error) {
	if err := c.ensureInitialized(); err != nil {
		return Booking{}, err
	}
	if err := req.Validate(); err != nil {
		return Booking{}, err
	}
	var resp bookingResponse
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.Bookings, req, &resp); err != nil {
		return Booking{}, err
	}
	if resp.Booking == nil {
		return Booking{}, fmt.Errorf("sdk: missing booking in response")
	}
	return *resp.Booking, nil
}

// Get retrieves one booking by id.
func (c *BookingsClient) Get(ctx context.Context, bookingID int64) (Booking, error) {
	if err := c.ensureInitialized(); err != nil {
		return Booking{}, err
	}
	if bookingID <= 0 {
		return Booking{}, ConfigError{Reason: "booking id is required"}
	}
	var resp bookingResponse
	path := fmt.Sprintf("%s%d/", routes.Bookings, bookingID)
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return Booking{}, err
	}
	if resp.Booking == nil {
		return Booking{}, fmt.Errorf("sdk: missing booking in response")
	}
	return *resp.Booking, nil
}

// Update rewrites a pending booking's details. Approved bookings are
// immutable from the owner side.
func (c *BookingsClient) Update(ctx context.Context, bookingID int64, req BookingRequest) (Booking, error) {
	if err := c.ensureInitialized(); err != nil {
		return Booking{}, err
	}
	if bookingID <= 0 {
		return Booking{}, ConfigError{Reason: "booking id is required"}
	}
	if err := req.Validate(); err != nil {
		return Booking{}, err
	}
	var resp bookingResponse
	path := fmt.Sprintf("%s%d/", routes.Bookings, bookingID)
	if err := c.client.sendAndDecode(ctx, http.MethodPut, path, req, &resp); err != nil {
		return Booking{}, err
	}
	if resp.Booking == nil {
		return Booking{}, fmt.Errorf("sdk: missing booking in response")
	}
	return *resp.Booking, nil
}

// Cancel withdraws a booking request.
func (c *BookingsClient) Cancel(ctx context.Context, bookingID int64) error {
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	if bookingID <= 0 {
		return ConfigError{Reason: "booking id is required"}
	}
	path := fmt.Sprintf("%s%d/", routes.Bookings, bookingID)
	return c.client.sendAndDecode(ctx, http.MethodDelete, path, nil, nil)
}
