package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/eligibility"
)

type guard int

const (
	guardNone guard = iota
	guardDeadline
)

// edge maps each allowed role to the guard it must pass
type edge map[domain.ActorRole]guard

// transitions is the status graph. Terminal statuses have no entry.
var transitions = map[domain.Status]map[domain.Status]edge{
	domain.StatusPending: {
		domain.StatusConfirmed: {domain.RoleConsultant: guardNone},
		domain.StatusCancelled: {domain.RoleConsultant: guardNone, domain.RoleSeeker: guardDeadline},
	},
	domain.StatusConfirmed: {
		domain.StatusCompleted: {domain.RoleConsultant: guardNone},
		domain.StatusCancelled: {domain.RoleConsultant: guardDeadline, domain.RoleSeeker: guardDeadline},
	},
}

// rescheduleEdge keeps the status and is open to both parties under the deadline guard
var rescheduleEdge = edge{domain.RoleSeeker: guardDeadline, domain.RoleConsultant: guardDeadline}

// IsEdge reports whether from -> to exists in the graph, regardless of role
func IsEdge(from, to domain.Status) bool {
	_, ok := transitions[from][to]
	return ok
}

// Transition validates moving b to status `to` by role at now.
// Checks run in order: edge exists, role allowed, guard passes.
func Transition(b *domain.Booking, to domain.Status, role domain.ActorRole, now time.Time) error {
	e, ok := transitions[b.Status][to]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}
	return checkEdge(e, b, role, now, fmt.Sprintf("%s -> %s", b.Status, to))
}

// Reschedule validates moving the session of b to a different time. Status is unchanged.
func Reschedule(b *domain.Booking, role domain.ActorRole, now time.Time) error {
	if !b.Status.IsOpen() {
		return fmt.Errorf("%w: cannot reschedule %s booking", ErrInvalidTransition, b.Status)
	}
	return checkEdge(rescheduleEdge, b, role, now, "reschedule")
}

func checkEdge(e edge, b *domain.Booking, role domain.ActorRole, now time.Time, what string) error {
	g, ok := e[role]
	if !ok {
		return fmt.Errorf("%w: role %q, %s", ErrUnauthorized, role, what)
	}

	if g == guardNone {
		return nil
	}

	allowed, err := eligibility.Evaluate(b, now)
	if err != nil {
		if errors.Is(err, eligibility.ErrMalformedBooking) {
			return err
		}
		return fmt.Errorf("evaluate eligibility: %w", err)
	}
	if !allowed {
		return fmt.Errorf("%w: %s", ErrDeadlinePassed, what)
	}
	return nil
}
