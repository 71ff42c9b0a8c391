package identity

import "context"

// Provider is the identity provider boundary. It is an external collaborator:
// sign-in, sign-up, and token issuance happen on the provider's side, and this
// interface only exposes the resulting authentication state transitions.
type Provider interface {
	// Subscribe registers a callback invoked on every authentication state
	// transition (sign-in completed, token refreshed-in, sign-out). A nil
	// payload means signed out. Events are delivered in emission order.
	// The returned function cancels the subscription.
	Subscribe(onChange func(*RawSession)) (unsubscribe func())

	// CompletePendingRedirectSignIn resolves a redirect-based sign-in flow that
	// was in flight before the process started. Checked once at startup; returns
	// nil when no redirect result is pending.
	CompletePendingRedirectSignIn(ctx context.Context) (*RawSession, error)

	// SignOut terminates the provider session.
	SignOut(ctx context.Context) error
}
