package domain

import "time"

// Team is a named group owning zero or more members.
type Team struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	// MemberCount is derived from the members table on read.
	MemberCount int
	Members     []Member
}
