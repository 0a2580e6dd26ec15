package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pawwell/pawwell-go/routes"
	"github.com/pawwell/pawwell-go/testutil"
)

func TestCheckAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != routes.BookingsCheckAvailability || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			ServiceType string `json:"service_type"`
			Date        string `json:"date"`
			TimeSlot    string `json:"time_slot"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		available := body.TimeSlot != "09:00-10:00"
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"available": available,
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	taken, err := client.Bookings.CheckAvailability(context.Background(), "grooming", "2026-09-01", "09:00-10:00")
	if err != nil {
		t.Fatalf("check availability: %v", err)
	}
	if taken.Available {
		t.Fatal("expected slot to be taken")
	}
	free, err := client.Bookings.CheckAvailability(context.Background(), "grooming", "2026-09-01", "10:00-11:00")
	if err != nil {
		t.Fatalf("check availability: %v", err)
	}
	if !free.Available {
		t.Fatal("expected slot to be free")
	}
}

func TestBookingListForwardsFilters(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"bookings": []map[string]any{
				{"id": 3, "pet": 42, "service_type": "boarding", "status": "pending"},
			},
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	bookings, err := client.Bookings.List(context.Background(), BookingListOptions{
		Status: BookingPending,
		From:   "2026-09-01",
		To:     "2026-09-30",
	})
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(bookings) != 1 || bookings[0].Status != BookingPending {
		t.Fatalf("bookings = %+v", bookings)
	}
	if query != "from=2026-09-01&status=pending&to=2026-09-30" {
		t.Fatalf("query = %q", query)
	}
}

func TestAdminModerationHitsStatusEndpoint(t *testing.T) {
	var gotPath, gotMethod string
	var body struct {
		Status    BookingStatus `json:"status"`
		AdminNote string        `json:"admin_note"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_ = json.NewDecoder(r.Body).Decode(&body)
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"booking": map[string]any{"id": 9, "status": string(body.Status), "admin_note": body.AdminNote},
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	booking, err := client.Admin.RejectBooking(context.Background(), 9, "Fully booked that week.")
	if err != nil {
		t.Fatalf("reject booking: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != routes.Bookings+"9/status/" {
		t.Fatalf("hit %s %s", gotMethod, gotPath)
	}
	if body.Status != BookingRejected || body.AdminNote == "" {
		t.Fatalf("payload = %+v", body)
	}
	if booking.Status != BookingRejected {
		t.Fatalf("booking = %+v", booking)
	}
}

func TestAdminNotificationSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != routes.AdminNotificationSummary {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"success":                 true,
			"pending_bookings":        4,
			"open_emergencies":        1,
			"unread_contact_messages": 2,
			"unverified_accounts":     7,
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	summary, err := client.Admin.NotificationSummary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.PendingBookings != 4 || summary.OpenEmergencies != 1 || summary.UnverifiedAccounts != 7 {
		t.Fatalf("summary = %+v", summary)
	}
}
