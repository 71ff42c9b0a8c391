package audit

import "time"

// EventName identifies a recorded action.
type EventName string

const (
	EventSignIn              EventName = "session_signed_in"
	EventSignOut             EventName = "session_signed_out"
	EventProfileCreated      EventName = "profile_created"
	EventRoleSubmitted       EventName = "role_submitted"
	EventProfileApproved     EventName = "profile_approved"
	EventProfileSuspended    EventName = "profile_suspended"
	EventRedirectIssued      EventName = "redirect_issued"
	EventRedirectSuppressed  EventName = "redirect_suppressed"
	EventStaleDecisionNoOp   EventName = "stale_decision_discarded"
	EventResolutionDiscarded EventName = "stale_resolution_discarded"
)

// Event is a single append-only audit record.
type Event struct {
	UserID    string    `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Path      string    `json:"path,omitempty"`
	Target    string    `json:"target,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
