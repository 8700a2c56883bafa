package domain

import "time"

// Member is a person record belonging to exactly one team.
type Member struct {
	ID       int64
	TeamID   int64
	Name     string
	Email    string
	Role     string
	JoinedAt time.Time
}
