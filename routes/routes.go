// Package routes provides shared API route constants used by the SDK's
// service clients so endpoint paths live in exactly one place.
package routes

// Account endpoints.
const (
	// AccountsRegister creates a new user account and triggers the
	// verification email.
	AccountsRegister = "/accounts/register/"

	// AccountsLogin exchanges email/password for a JWT token pair.
	AccountsLogin = "/accounts/login/"

	// AccountsLogout blacklists the presented refresh token.
	AccountsLogout = "/accounts/logout/"

	// AccountsProfile returns the authenticated user's profile.
	AccountsProfile = "/accounts/profile/"

	// AccountsTokenRefresh exchanges a refresh token for a new access token.
	AccountsTokenRefresh = "/accounts/token/refresh/" // #nosec G101 -- route path, not a credential

	// AccountsForgotPassword sends a password reset link to the user's email.
	AccountsForgotPassword = "/accounts/forgot-password/"

	// AccountsVerifyOTP verifies a one-time password issued during reset.
	AccountsVerifyOTP = "/accounts/verify-otp/"

	// AccountsResetPassword sets a new password using a reset token.
	AccountsResetPassword = "/accounts/reset-password/"

	// AccountsVerifyEmail verifies a registration email token (append token + "/").
	AccountsVerifyEmail = "/accounts/verify-email/"

	// AccountsResendVerification re-sends the verification email.
	AccountsResendVerification = "/accounts/resend-verification/"
)

// Pet profile endpoints.
const (
	// Pets lists the caller's pets (GET) or creates one (multipart POST).
	Pets = "/pets/"
)

// Booking endpoints.
const (
	// Bookings lists the caller's bookings (GET) or creates one (POST).
	Bookings = "/bookings/"

	// BookingsCheckAvailability checks whether a service slot is free.
	BookingsCheckAvailability = "/bookings/check-availability/"

	// AdminBookings lists every booking for moderation.
	AdminBookings = "/bookings/admin/all/"
)

// Activity log endpoints.
const (
	// ActivityLogs lists the caller's activity logs (GET) or records one (POST).
	ActivityLogs = "/activity-logs/"

	// AdminActivityLogs lists activity logs across all users.
	AdminActivityLogs = "/activity-logs/admin/all/"
)

// Emergency and contact endpoints.
const (
	// EmergencyRequests creates (POST) or lists (GET) emergency requests.
	EmergencyRequests = "/emergency-requests/"

	// Contact submits a contact-us message.
	Contact = "/contact/"

	// AdminNotificationSummary returns pending counts for the admin dashboard.
	AdminNotificationSummary = "/admin/notifications/summary/"

	// AdminContactMessages lists submitted contact messages.
	AdminContactMessages = "/admin/contact-messages/"
)
