package sdk

// Version is the published SDK version.
// 0.3.0: Breaking - Centralize role gating in Guard (per-page checks removed);
// Guard redirects role mismatches to the user's own dashboard.
// 0.2.0: Breaking - Drop the cookie-session credential model; the token-pair
// store is the only supported model and the stubbed setTokens paths are gone.
// 0.1.0: Initial client: accounts, pets, bookings, activity logs, emergency,
// contact, admin moderation.
const Version = "0.3.0"
