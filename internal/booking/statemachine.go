package booking

import (
	"fmt"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/model"
)

// Role identifies who is driving a transition.
type Role string

const (
	RoleHost   Role = "host"
	RoleGuest  Role = "guest"
	RoleSystem Role = "system"
)

// Actor is the party requesting a transition.
type Actor struct {
	Role Role
	ID   int64
}

// SystemActor performs compensating transitions.
var SystemActor = Actor{Role: RoleSystem}

func (a Actor) String() string {
	if a.Role == RoleSystem {
		return string(RoleSystem)
	}
	return fmt.Sprintf("%s:%d", a.Role, a.ID)
}

// ReasonDatesNoLongerAvailable marks a request declined because its dates
// were reserved by another booking before the host approved it.
const ReasonDatesNoLongerAvailable = "dates_no_longer_available"

type edge struct {
	from, to model.BookingStatus
}

// transitions lists every legal edge and the roles allowed to take it.
var transitions = map[edge][]Role{
	{model.BookingPending, model.BookingConfirmed}:   {RoleHost},
	{model.BookingPending, model.BookingDeclined}:    {RoleHost, RoleSystem},
	{model.BookingConfirmed, model.BookingCancelled}: {RoleHost, RoleGuest},
}

// CanTransition reports whether from → to is an edge of the lifecycle.
func CanTransition(from, to model.BookingStatus) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// Terminal reports whether no transition leaves s.
func Terminal(s model.BookingStatus) bool {
	for e := range transitions {
		if e.from == s {
			return false
		}
	}
	return true
}

// checkTransition validates that actor may move b to target.
func checkTransition(b model.Booking, target model.BookingStatus, actor Actor) error {
	roles, ok := transitions[edge{b.Status, target}]
	if !ok {
		return fmt.Errorf("%w: booking %d cannot go from %s to %s", apperror.ErrInvalidTransition, b.ID, b.Status, target)
	}

	allowed := false
	for _, r := range roles {
		if r == actor.Role {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s may not move booking %d to %s", apperror.ErrPermissionDenied, actor.Role, b.ID, target)
	}

	switch actor.Role {
	case RoleHost:
		if actor.ID != b.HostID {
			return fmt.Errorf("%w: host %d does not own booking %d", apperror.ErrPermissionDenied, actor.ID, b.ID)
		}
	case RoleGuest:
		if actor.ID != b.GuestID {
			return fmt.Errorf("%w: guest %d did not make booking %d", apperror.ErrPermissionDenied, actor.ID, b.ID)
		}
	}
	return nil
}
