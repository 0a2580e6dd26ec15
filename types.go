package sdk

import "github.com/pawwell/pawwell-go/auth"

// User is the profile payload returned by login and profile fetches.
type User = auth.User

// Role is the closed set of account types the backend issues.
type Role = auth.Role

// Credential is the persisted access/refresh token artifact.
type Credential = auth.Credential

// Role values accepted by the backend.
const (
	RolePetOwner     = auth.RolePetOwner
	RoleVeterinarian = auth.RoleVeterinarian
	RoleAdmin        = auth.RoleAdmin
)
