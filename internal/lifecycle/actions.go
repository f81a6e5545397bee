package lifecycle

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/eligibility"
)

// actionTargets status each mutating action moves a booking to
var actionTargets = map[domain.Action]domain.Status{
	domain.ActionConfirm:  domain.StatusConfirmed,
	domain.ActionComplete: domain.StatusCompleted,
	domain.ActionCancel:   domain.StatusCancelled,
}

// TargetStatus returns the status an action moves the booking to
func TargetStatus(action domain.Action) (domain.Status, bool) {
	s, ok := actionTargets[action]
	return s, ok
}

// ValidateAction checks whether role may perform action on b at now.
// rated tells whether the booking already has a review (tracked outside the booking).
func ValidateAction(b *domain.Booking, action domain.Action, role domain.ActorRole, now time.Time, rated bool) error {
	switch action {
	case domain.ActionViewDetails:
		return nil
	case domain.ActionConfirm, domain.ActionComplete, domain.ActionCancel:
		return Transition(b, actionTargets[action], role, now)
	case domain.ActionReschedule:
		return Reschedule(b, role, now)
	case domain.ActionReview:
		if role != domain.RoleSeeker {
			return fmt.Errorf("%w: only the seeker can review", ErrUnauthorized)
		}
		if b.Status != domain.StatusCompleted {
			return fmt.Errorf("%w: cannot review %s booking", ErrInvalidTransition, b.Status)
		}
		if rated {
			return ErrAlreadyReviewed
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// AvailableActions lists the affordances to offer role for b at now, in display order.
// viewDetails is always present.
func AvailableActions(b *domain.Booking, role domain.ActorRole, now time.Time, rated bool) []domain.Action {
	actions := []domain.Action{domain.ActionViewDetails}

	if role == domain.RoleConsultant && b.Status == domain.StatusPending {
		actions = append(actions, domain.ActionConfirm)
	}
	if role == domain.RoleConsultant && b.Status == domain.StatusConfirmed {
		actions = append(actions, domain.ActionComplete)
	}

	// cancel and reschedule share the 24h rule for both roles
	if b.Status.IsOpen() && eligibility.CanCancel(b, now) {
		actions = append(actions, domain.ActionCancel, domain.ActionReschedule)
	}

	if role == domain.RoleSeeker && b.Status == domain.StatusCompleted && !rated {
		actions = append(actions, domain.ActionReview)
	}

	return actions
}

// HasAction reports whether action is in actions
func HasAction(actions []domain.Action, action domain.Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}
