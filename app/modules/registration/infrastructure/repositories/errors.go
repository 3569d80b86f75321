package registrationdb

import "errors"

var (
	// ErrTournamentNotFound indicates the referenced tournament does not exist.
	ErrTournamentNotFound = errors.New("tournament not found")

	// ErrSquadNotFound indicates the referenced squad does not exist.
	ErrSquadNotFound = errors.New("squad not found")

	// ErrRegistrationNotFound indicates the referenced registration does not exist.
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrDuplicateRegistration indicates the shooter already holds an active
	// registration in the tournament. Raised by the partial unique index, so
	// it also covers writers racing on different squads.
	ErrDuplicateRegistration = errors.New("shooter already has an active registration")
)
