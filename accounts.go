package sdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/pawwell/pawwell-go/auth"
	"github.com/pawwell/pawwell-go/routes"
)

// AccountsClient wraps the account and authentication endpoints.
//
// Login, Logout, and RefreshToken are the only service methods that write the
// token store; everything else reads it implicitly through the request
// pipeline.
type AccountsClient struct {
	client *Client
}

func (a *AccountsClient) ensureInitialized() error {
	if a == nil || a.client == nil {
		return fmt.Errorf("sdk: accounts client not initialized")
	}
	return nil
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterRe     = regexp.MustCompile(`[A-Za-z]`)
	digitRe      = regexp.MustCompile(`\d`)
	phoneSepRe   = regexp.MustCompile(`[\s\-\(\)]`)
	phoneRe      = regexp.MustCompile(`^\+?[\d]{10,15}$`)
)

func validatePassword(field, value string, fields map[string][]string) {
	if len(value) < 8 {
		fields[field] = append(fields[field], "Password must be at least 8 characters long.")
	}
	if !letterRe.MatchString(value) {
		fields[field] = append(fields[field], "Password must contain at least one letter.")
	}
	if !digitRe.MatchString(value) {
		fields[field] = append(fields[field], "Password must contain at least one number.")
	}
}

// RegisterRequest creates a new account. The account stays inactive until the
// emailed verification link is followed.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	Role            Role   `json:"user_type,omitempty"`
}

// Validate performs the client-side field checks; failures never reach the
// network.
func (r RegisterRequest) Validate() error {
	fields := map[string][]string{}
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if !emailPattern.MatchString(email) {
		fields["email"] = append(fields["email"], "Enter a valid email address.")
	}
	validatePassword("password", r.Password, fields)
	if r.Password != r.ConfirmPassword {
		fields["confirm_password"] = append(fields["confirm_password"], "Passwords do not match.")
	}
	if strings.TrimSpace(r.FirstName) == "" {
		fields["first_name"] = append(fields["first_name"], "First name is required.")
	}
	if strings.TrimSpace(r.LastName) == "" {
		fields["last_name"] = append(fields["last_name"], "Last name is required.")
	}
	if r.PhoneNumber != "" {
		cleaned := phoneSepRe.ReplaceAllString(r.PhoneNumber, "")
		if !phoneRe.MatchString(cleaned) {
			fields["phone_number"] = append(fields["phone_number"], "Enter a valid phone number (10-15 digits).")
		}
	}
	if r.Role != "" && !r.Role.Valid() {
		fields["user_type"] = append(fields["user_type"], "Unknown account type.")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// StatusResponse is the generic {success, message} acknowledgement most
// account endpoints return.
type StatusResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Email     string `json:"email,omitempty"`
	EmailSent bool   `json:"email_sent,omitempty"`
}

// Register creates a new account and triggers the verification email.
// Registration does not log the user in; email verification comes first.
func (a *AccountsClient) Register(ctx context.Context, req RegisterRequest) (StatusResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return StatusResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return StatusResponse{}, err
	}
	normalized := req
	normalized.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if normalized.Role == "" {
		normalized.Role = RolePetOwner
	}
	var resp StatusResponse
	if err := a.client.sendAndDecode(ctx, http.MethodPost, routes.AccountsRegister, normalized, &resp); err != nil {
		return StatusResponse{}, err
	}
	return resp, nil
}

// Login exchanges email/password for a token pair, persists the credential
// (with the user snapshot) to the token store, and returns the response.
//
// Login traffic bypasses the refresh interceptor: a 401 here means wrong
// credentials, not an expired session.
func (a *AccountsClient) Login(ctx context.Context, email, password string) (auth.LoginResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return auth.LoginResponse{}, err
	}
	resp, err := a.client.authClient.Login(ctx, auth.Credentials{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	})
	if err != nil {
		return auth.LoginResponse{}, normalizeAuthError(err)
	}
	if err := a.client.store.Save(ctx, resp.Credential()); err != nil {
		return auth.LoginResponse{}, err
	}
	return resp, nil
}

// Logout blacklists the refresh token server-side, then clears the token
// store regardless of the outcome. The local transition is guaranteed even
// when the network call fails or times out.
func (a *AccountsClient) Logout(ctx context.Context) error {
	if err := a.ensureInitialized(); err != nil {
		return err
	}
	cred, ok, _ := a.client.store.Load(ctx)
	var netErr error
	if ok && cred.RefreshToken != "" {
		netErr = a.client.authClient.Logout(ctx, cred.AccessToken, cred.RefreshToken)
	}
	if err := a.client.store.Clear(ctx); err != nil {
		return err
	}
	if netErr != nil {
		a.client.telemetry.log(ctx, LogLevelInfo, "logout_network_failed", map[string]any{
			"error": netErr.Error(),
		})
	}
	return nil
}

// ProfileResponse wraps the profile endpoint's {success, user} envelope.
type ProfileResponse struct {
	Success bool  `json:"success"`
	User    *User `json:"user"`
}

// Profile returns the authenticated user's profile.
func (a *AccountsClient) Profile(ctx context.Context) (User, error) {
	if err := a.ensureInitialized(); err != nil {
		return User{}, err
	}
	var resp ProfileResponse
	if err := a.client.sendAndDecode(ctx, http.MethodGet, routes.AccountsProfile, nil, &resp); err != nil {
		return User{}, err
	}
	if resp.User == nil {
		return User{}, fmt.Errorf("sdk: missing user in profile response")
	}
	return *resp.User, nil
}

// RefreshToken forces a refresh of the access token through the single-flight
// coordinator. Most callers never need this; the pipeline refreshes
// transparently on 401.
func (a *AccountsClient) RefreshToken(ctx context.Context) error {
	if err := a.ensureInitialized(); err != nil {
		return err
	}
	return a.client.refresher.refresh(ctx)
}

// ForgotPassword asks the backend to email a reset link. The response is
// intentionally identical whether or not the account exists.
func (a *AccountsClient) ForgotPassword(ctx context.Context, email string) (StatusResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return StatusResponse{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return StatusResponse{}, &ValidationError{Fields: map[string][]string{
			"email": {"Enter a valid email address."},
		}}
	}
	payload := struct {
		Email string `json:"email"`
	}{Email: email}
	var resp StatusResponse
	if err := a.client.sendAndDecode(ctx, http.MethodPost, routes.AccountsForgotPassword, payload, &resp); err != nil {
		return StatusResponse{}, err
	}
	return resp, nil
}

// VerifyOTPResponse carries the reset token unlocked by a correct OTP.
type VerifyOTPResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	ResetToken string `json:"reset_token,omitempty"`
}

// VerifyOTP checks the one-time password emailed during the reset flow and
// returns the token to present to ResetPassword.
func (a *AccountsClient) VerifyOTP(ctx context.Context, email, otp string) (VerifyOTPResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return VerifyOTPResponse{}, err
	}
	if strings.TrimSpace(otp) == "" {
		return VerifyOTPResponse{}, &ValidationError{Fields: map[string][]string{
			"otp": {"OTP is required."},
		}}
	}
	payload := struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}{Email: strings.ToLower(strings.TrimSpace(email)), OTP: strings.TrimSpace(otp)}
	var resp VerifyOTPResponse
	if err := a.client.sendAndDecode(ctx, http.MethodPost, routes.AccountsVerifyOTP, payload, &resp); err != nil {
		return VerifyOTPResponse{}, err
	}
	return resp, nil
}

// ResetPasswordRequest sets a new password using a reset token.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate applies the same password policy as registration.
func (r ResetPasswordRequest) Validate() error {
	fields := map[string][]string{}
	if strings.TrimSpace(r.Token) == "" {
		fields["token"] = append(fields["token"], "Reset token is required.")
	}
	validatePassword("new_password", r.NewPassword, fields)
	if r.NewPassword != r.ConfirmPassword {
		fields["confirm_password"] = append(fields["confirm_password"], "Passwords do not match.")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ResetPassword completes the reset flow. Tokens are single-use and expire
// an hour after issue.
func (a *AccountsClient) ResetPassword(ctx context.Context, req ResetPasswordRequest) (StatusResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return StatusResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return StatusResponse{}, err
	}
	var resp StatusResponse
	if err := a.client.sendAndDecode(ctx, http.MethodPost, routes.AccountsResetPassword, req, &resp); err != nil {
		return StatusResponse{}, err
	}
	return resp, nil
}

// VerifyEmail confirms a registration using the emailed token.
func (a *AccountsClient) VerifyEmail(ctx context.Context, token string) (StatusResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return StatusResponse{}, err
	}
	if strings.TrimSpace(token) == "" {
		return StatusResponse{}, ConfigError{Reason: "verification token is required"}
	}
	var resp StatusResponse
	path := routes.AccountsVerifyEmail + strings.TrimSpace(token) + "/"
	if err := a.client.sendAndDecode(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return StatusResponse{}, err
	}
	return resp, nil
}

// ResendVerification re-sends the verification email for an unverified
// account.
func (a *AccountsClient) ResendVerification(ctx context.Context, email string) (StatusResponse, error) {
	if err := a.ensureInitialized(); err != nil {
		return StatusResponse{}, err
	}
	payload := struct {
		Email string `json:"email"`
	}{Email: strings.ToLower(strings.TrimSpace(email))}
	var resp StatusResponse
	if err := a.client.sendAndDecode(ctx, http.MethodPost, routes.AccountsResendVerification, payload, &resp); err != nil {
		return StatusResponse{}, err
	}
	return resp, nil
}

// normalizeAuthError maps the standalone auth client's error type onto the
// SDK's APIError so callers handle one shape everywhere.
func normalizeAuthError(err error) error {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return &APIError{
			Status:  authErr.Status,
			Message: authErr.Message,
			Fields:  authErr.Fields,
		}
	}
	return err
}
