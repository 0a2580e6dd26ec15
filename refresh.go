package sdk

import (
	"context"
	"sync"
)

// refreshCoordinator enforces the single-flight invariant: at most one
// refresh request is in flight process-wide. Requests that observe a 401
// while a refresh is running join an ordered queue and are released, in the
// order they arrived, with the outcome of that single refresh.
type refreshCoordinator struct {
	client *Client

	mu       sync.Mutex
	inFlight bool
	waiters  []chan error
}

func newRefreshCoordinator(client *Client) *refreshCoordinator {
	return &refreshCoordinator{client: client}
}

// refresh blocks until a fresh access token has been persisted, or fails
// with ErrSessionExpired once the credential is beyond saving. Concurrent
// callers share one network refresh.
func (r *refreshCoordinator) refresh(ctx context.Context) error {
	r.mu.Lock()
	if r.inFlight {
		ch := make(chan error, 1)
		r.waiters = append(r.waiters, ch)
		r.mu.Unlock()
		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.inFlight = true
	r.mu.Unlock()

	err := r.doRefresh(ctx)

	r.mu.Lock()
	r.inFlight = false
	waiters := r.waiters
	r.waiters = nil
	r.mu.Unlock()

	// FIFO drain: waiters are released in the order they queued. Channels
	// are buffered so a caller that gave up on its context cannot block the
	// drain.
	for _, ch := range waiters {
		ch <- err
	}
	return err
}

func (r *refreshCoordinator) doRefresh(ctx context.Context) error {
	cred, ok, err := r.client.store.Load(ctx)
	if err != nil {
		return err
	}
	// No refresh token means there is nothing to exchange: short-circuit to
	// logged-out without a network call.
	if !ok || cred.RefreshToken == "" || cred.RefreshExpired() {
		r.expire(ctx)
		return ErrSessionExpired
	}

	resp, err := r.client.authClient.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		r.client.telemetry.log(ctx, LogLevelError, "auth_refresh_failed", map[string]any{
			"error": err.Error(),
		})
		r.expire(ctx)
		return ErrSessionExpired
	}

	rotated := cred.WithAccess(resp.Access, resp.Refresh, resp.AccessTokenExpiry)
	if err := r.client.store.Save(ctx, rotated); err != nil {
		return err
	}
	r.client.telemetry.log(ctx, LogLevelInfo, "auth_refresh_succeeded", nil)
	return nil
}

// expire clears local credential state. Refresh failure is fatal to the
// session; the session context observes the cleared store on its next
// operation and the route guard redirects to login.
func (r *refreshCoordinator) expire(ctx context.Context) {
	//nolint:errcheck // clearing a store that is already gone is fine
	_ = r.client.store.Clear(ctx)
	r.client.notifySessionExpired()
}
