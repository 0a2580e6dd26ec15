package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pawwell/pawwell-go/routes"
	"github.com/pawwell/pawwell-go/testutil"
)

func TestRegisterRequestValidation(t *testing.T) {
	cases := []struct {
		name       string
		req        RegisterRequest
		wantFields []string
	}{
		{
			name: "valid",
			req: RegisterRequest{
				Email:           "mina@example.com",
				Password:        "passw0rd1",
				ConfirmPassword: "passw0rd1",
				FirstName:       "Mina",
				LastName:        "Park",
				PhoneNumber:     "+1 (555) 010-0199",
			},
		},
		{
			name: "bad email",
			req: RegisterRequest{
				Email:           "not-an-email",
				Password:        "passw0rd1",
				ConfirmPassword: "passw0rd1",
				FirstName:       "Mina",
				LastName:        "Park",
			},
			wantFields: []string{"email"},
		},
		{
			name: "weak password",
			req: RegisterRequest{
				Email:           "mina@example.com",
				Password:        "short",
				ConfirmPassword: "short",
				FirstName:       "Mina",
				LastName:        "Park",
			},
			wantFields: []string{"password"},
		},
		{
			name: "password without digits",
			req: RegisterRequest{
				Email:           "mina@example.com",
				Password:        "justletters",
				ConfirmPassword: "justletters",
				FirstName:       "Mina",
				LastName:        "Park",
			},
			wantFields: []string{"password"},
		},
		{
			name: "mismatched confirmation",
			req: RegisterRequest{
				Email:           "mina@example.com",
				Password:        "passw0rd1",
				ConfirmPassword: "passw0rd2",
				FirstName:       "Mina",
				LastName:        "Park",
			},
			wantFields: []string{"confirm_password"},
		},
		{
			name: "missing names",
			req: RegisterRequest{
				Email:           "mina@example.com",
				Password:        "passw0rd1",
				ConfirmPassword: "passw0rd1",
			},
			wantFields: []string{"first_name", "last_name"},
		},
		{
			name: "bad phone",
			req: RegisterRequest{
				Email:           "mina@example.com",
				Password:        "passw0rd1",
				ConfirmPassword: "passw0rd1",
				FirstName:       "Mina",
				LastName:        "Park",
				PhoneNumber:     "12345",
			},
			wantFields: []string{"phone_number"},
		},
		{
			name: "unknown role",
			req: RegisterRequest{
				Email:           "mina@example.com",
				Password:        "passw0rd1",
				ConfirmPassword: "passw0rd1",
				FirstName:       "Mina",
				LastName:        "Park",
				Role:            Role("janitor"),
			},
			wantFields: []string{"user_type"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if len(tc.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			for _, field := range tc.wantFields {
				if len(valErr.Fields[field]) == 0 {
					t.Errorf("expected messages for field %q, got %v", field, valErr.Fields)
				}
			}
		})
	}
}

func TestRegisterNormalizesAndDefaultsRole(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != routes.AccountsRegister {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		testutil.WriteJSON(w, http.StatusCreated, map[string]any{
			"success":    true,
			"message":    "Registration successful. Check your email.",
			"email":      body["email"],
			"email_sent": true,
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := client.Accounts.Register(context.Background(), RegisterRequest{
		Email:           "  Mina@Example.COM ",
		Password:        "passw0rd1",
		ConfirmPassword: "passw0rd1",
		FirstName:       "Mina",
		LastName:        "Park",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if body["email"] != "mina@example.com" {
		t.Fatalf("email sent as %v", body["email"])
	}
	if body["user_type"] != "pet_owner" {
		t.Fatalf("role defaulted to %v", body["user_type"])
	}
	if !resp.EmailSent {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestValidationFailureNeverReachesNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Accounts.Register(context.Background(), RegisterRequest{Email: "nope"})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = client.Accounts.ForgotPassword(context.Background(), "also-not-an-email")
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case routes.AccountsForgotPassword:
			testutil.WriteJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "If the account exists, a reset code has been sent.",
			})
		case routes.AccountsVerifyOTP:
			var body struct {
				Email string `json:"email"`
				OTP   string `json:"otp"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.OTP != "482913" {
				testutil.WriteError(w, http.StatusBadRequest, "Invalid or expired OTP.")
				return
			}
			testutil.WriteJSON(w, http.StatusOK, map[string]any{
				"success":     true,
				"reset_token": "reset-token-1",
			})
		case routes.AccountsResetPassword:
			var body ResetPasswordRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Token != "reset-token-1" {
				testutil.WriteError(w, http.StatusBadRequest, "Invalid or expired reset token.")
				return
			}
			testutil.WriteJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Password updated.",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	if _, err := client.Accounts.ForgotPassword(ctx, "mina@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	otpResp, err := client.Accounts.VerifyOTP(ctx, "mina@example.com", "482913")
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if otpResp.ResetToken != "reset-token-1" {
		t.Fatalf("reset token = %q", otpResp.ResetToken)
	}
	resp, err := client.Accounts.ResetPassword(ctx, ResetPasswordRequest{
		Token:           otpResp.ResetToken,
		NewPassword:     "n3wpassword",
		ConfirmPassword: "n3wpassword",
	})
	if err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if !resp.Success {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestVerifyEmailBuildsTokenPath(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Email verified.",
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Accounts.VerifyEmail(context.Background(), "tok-123"); err != nil {
		t.Fatalf("verify email: %v", err)
	}
	if path != routes.AccountsVerifyEmail+"tok-123/" {
		t.Fatalf("path = %q", path)
	}
	if _, err := client.Accounts.VerifyEmail(context.Background(), "  "); err == nil {
		t.Fatal("expected config error for blank token")
	}
}
