package ui

import "github.com/spec-kit/team-service/internal/api/dto"

// State is everything the front-end knows. It is replaced by refreshes, never patched.
type State struct {
	SelectedTeamID *int64
	Teams          []dto.TeamResponse
	Detail         *dto.TeamDetailResponse
}

// HasSelection reports whether a team is selected.
func (s State) HasSelection() bool {
	return s.SelectedTeamID != nil
}

func (s State) containsTeam(id int64) bool {
	for _, t := range s.Teams {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s State) member(id int64) (dto.MemberResponse, bool) {
	if s.Detail == nil {
		return dto.MemberResponse{}, false
	}
	for _, m := range s.Detail.Members {
		if m.ID == id {
			return m, true
		}
	}
	return dto.MemberResponse{}, false
}

func int64Ptr(v int64) *int64 {
	return &v
}
