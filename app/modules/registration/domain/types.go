// Package registrationdomain holds the squad capacity and registration
// lifecycle rules. Squad counters are never mutated outside the application
// layer's transactional operations; the functions here only decide what those
// operations are allowed to do.
package registrationdomain

import (
	"time"

	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// RegistrationStatus is the lifecycle state of one shooter's registration.
type RegistrationStatus string

const (
	StatusRegistered RegistrationStatus = "registered"
	StatusWaitlist   RegistrationStatus = "waitlist"
	StatusCheckedIn  RegistrationStatus = "checked_in"
	StatusCompleted  RegistrationStatus = "completed"
	StatusCancelled  RegistrationStatus = "cancelled"
)

// IsActive reports whether the registration still claims a place in the
// tournament. One active registration per (shooter, tournament).
func (s RegistrationStatus) IsActive() bool {
	return s != StatusCancelled
}

// SquadStatus is the capacity state of a squad.
type SquadStatus string

const (
	SquadOpen   SquadStatus = "open"
	SquadFull   SquadStatus = "full"
	SquadClosed SquadStatus = "closed"
)

// TournamentStatus is the lifecycle state of a tournament.
type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "draft"
	TournamentPublished TournamentStatus = "published"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
)

// PaymentStatus tracks the match fee.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentWaived  PaymentStatus = "waived"
)

// DeriveSquadStatus recomputes a squad's status from its counters. A manually
// closed squad stays closed regardless of occupancy.
func DeriveSquadStatus(current, max int, manuallyClosed bool) SquadStatus {
	if manuallyClosed {
		return SquadClosed
	}
	if current >= max {
		return SquadFull
	}
	return SquadOpen
}

// RegistrationWindowOpen reports whether shooters may register: the
// tournament is published and now falls inside the registration window.
func RegistrationWindowOpen(status TournamentStatus, opensAt, closesAt, now time.Time) bool {
	if status != TournamentPublished {
		return false
	}
	if now.Before(opensAt) {
		return false
	}
	return now.Before(closesAt)
}

// Locked reports whether registrations may no longer be cancelled or
// transferred: shooting has started or the match is over.
func Locked(status TournamentStatus) bool {
	return status == TournamentActive || status == TournamentCompleted
}

// DivisionAllowed reports whether the tournament accepts the division.
func DivisionAllowed(allowed []sharedtypes.Division, division sharedtypes.Division) bool {
	for _, d := range allowed {
		if d == division {
			return true
		}
	}
	return false
}

// CategoriesKnown reports whether every requested custom award category id is
// one the tournament defined.
func CategoriesKnown(known []string, requested []string) bool {
	for _, r := range requested {
		found := false
		for _, k := range known {
			if k == r {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CanCheckIn reports whether a registration may transition to checked_in.
func CanCheckIn(status RegistrationStatus) bool {
	return status == StatusRegistered
}

// CanCancel reports whether a registration may transition to cancelled.
func CanCancel(status RegistrationStatus) bool {
	return status == StatusRegistered || status == StatusWaitlist || status == StatusCheckedIn
}

// CanTransfer reports whether a registration may move to another squad.
// Waitlisted shooters re-register instead of transferring.
func CanTransfer(status RegistrationStatus) bool {
	return status == StatusRegistered
}
