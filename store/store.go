// Package store persists credentials between runs. Implementations back the
// SDK's session and refresh plumbing; application code never mutates stored
// credentials directly, which is what keeps the single-flight refresh
// invariant intact.
package store

import (
	"context"

	"github.com/pawwell/pawwell-go/auth"
)

// TokenStore saves and restores the credential artifact.
//
// Load reports absence instead of failing on unreadable or corrupt data:
// a credential that cannot be deserialized is treated as logged-out.
type TokenStore interface {
	Save(ctx context.Context, cred auth.Credential) error
	Load(ctx context.Context) (auth.Credential, bool, error)
	Clear(ctx context.Context) error
}
