package dto

import "time"

// MemberCreateRequest payload for POST /api/teams/:id/members.
type MemberCreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MemberUpdateRequest payload for PUT /api/members/:id. Absent fields are left unchanged.
type MemberUpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// MemberResponse represents a member.
type MemberResponse struct {
	ID       int64     `json:"id"`
	TeamID   int64     `json:"team_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}
