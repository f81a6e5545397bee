package domain

import "fmt"

// ActorRole is supplied by the caller at decision time; the booking records it only as CancelledBy
type ActorRole string

const (
	RoleSeeker     ActorRole = "seeker"
	RoleConsultant ActorRole = "consultant"
)

// ParseActorRole validates a role string
func ParseActorRole(s string) (ActorRole, error) {
	switch ActorRole(s) {
	case RoleSeeker, RoleConsultant:
		return ActorRole(s), nil
	default:
		return "", fmt.Errorf("unknown actor role: %q", s)
	}
}

// Action is a user-facing affordance on a booking
type Action string

const (
	ActionViewDetails Action = "viewDetails"
	ActionConfirm     Action = "confirm"
	ActionComplete    Action = "complete"
	ActionCancel      Action = "cancel"
	ActionReschedule  Action = "reschedule"
	ActionReview      Action = "review"
)
