// Package auth provides authentication primitives for the PawWell SDK:
// the credential artifact persisted between runs, the user snapshot it
// carries, and a standalone client for the login/refresh endpoints.
package auth

import (
	"strings"
	"time"
)

// Role is the closed set of account types the backend issues.
type Role string

const (
	RolePetOwner     Role = "pet_owner"
	RoleVeterinarian Role = "veterinarian"
	RoleAdmin        Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePetOwner, RoleVeterinarian, RoleAdmin:
		return true
	}
	return false
}

// Satisfies reports whether a user holding r may act as required.
// Admins satisfy every requirement; an empty requirement means any
// authenticated user.
func (r Role) Satisfies(required Role) bool {
	if required == "" {
		return true
	}
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// User mirrors the profile payload returned by login and profile fetches.
type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	PhoneNumber    string     `json:"phone_number,omitempty"`
	Role           Role       `json:"user_type"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	EmailVerified  bool       `json:"email_verified"`
	IsActive       bool       `json:"is_active"`
	DateJoined     time.Time  `json:"date_joined"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// DisplayName returns the best human-readable name for the user.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return u.Email
}

// Credential is the artifact proving an authenticated session: a JWT
// access/refresh pair plus a cached user snapshot for offline-first
// session initialization. The snapshot is advisory; the profile endpoint
// remains the source of truth.
type Credential struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at,omitempty"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at,omitempty"`
	User             *User     `json:"user,omitempty"`
}

// Empty reports whether the credential carries no tokens at all.
func (c Credential) Empty() bool {
	return strings.TrimSpace(c.AccessToken) == "" && strings.TrimSpace(c.RefreshToken) == ""
}

// AccessExpired reports whether the access token is past (or within skew of)
// its known expiry. Unknown expiries are treated as not expired; the server's
// 401 remains the authoritative signal.
func (c Credential) AccessExpired(skew time.Duration) bool {
	if c.AccessExpiresAt.IsZero() {
		return false
	}
	return time.Until(c.AccessExpiresAt) <= skew
}

// RefreshExpired reports whether the refresh token is past its known expiry.
func (c Credential) RefreshExpired() bool {
	if c.RefreshExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(c.RefreshExpiresAt)
}

// WithAccess returns a copy of c carrying a rotated access token. An empty
// refresh token keeps the existing one (the server rotates refresh tokens
// only when blacklisting is enabled).
func (c Credential) WithAccess(access, refresh string, accessExpiry time.Time) Credential {
	out := c
	out.AccessToken = access
	if strings.TrimSpace(refresh) != "" {
		out.RefreshToken = refresh
	}
	out.AccessExpiresAt = accessExpiry
	return out
}
