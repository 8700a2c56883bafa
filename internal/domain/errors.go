package domain

import "errors"

var (
	// ErrTeamNotFound is returned when a team id does not reference a stored team.
	ErrTeamNotFound = errors.New("team not found")
	// ErrMemberNotFound is returned when a member id does not reference a stored member.
	ErrMemberNotFound = errors.New("member not found")
)
