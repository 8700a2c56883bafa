package dto

import "time"

// TeamCreateRequest payload for POST /api/teams.
type TeamCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TeamUpdateRequest payload for PUT /api/teams/:id. Absent fields are left unchanged.
type TeamUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// TeamResponse is the list representation of a team.
type TeamResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int       `json:"member_count"`
}

// TeamDetailResponse embeds the team's members.
type TeamDetailResponse struct {
	TeamResponse
	Members []MemberResponse `json:"members"`
}

// StatusResponse acknowledges a deletion.
type StatusResponse struct {
	Status string `json:"status"`
}
