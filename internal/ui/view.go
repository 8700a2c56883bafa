package ui

import (
	"sort"
	"strings"

	"github.com/spec-kit/team-service/internal/api/dto"
)

const (
	// EmptyPlaceholder is shown instead of the detail panel when nothing is selected.
	EmptyPlaceholder = "Select or create a team to manage its members."

	joinedLayout = "Jan 2, 2006"
)

// View is the rendered form of a State.
type View struct {
	Teams []TeamItem
	// Detail and Placeholder are mutually exclusive.
	Detail      *DetailPanel
	Placeholder string
	Notices     []Notice
}

// TeamItem is one entry of the team list.
type TeamItem struct {
	ID          int64
	Name        string
	MemberCount int
	Selected    bool
}

// DetailPanel shows the selected team.
type DetailPanel struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   string
	Form        TeamForm
	Members     []MemberRow
}

// MemberRow is one member of the selected team.
type MemberRow struct {
	ID     int64
	Name   string
	Email  string
	Role   string
	Joined string
}

// BuildView derives the view from state. It has no side effects.
func BuildView(s State, notices []Notice) View {
	view := View{
		Teams:   make([]TeamItem, 0, len(s.Teams)),
		Notices: notices,
	}
	for _, t := range s.Teams {
		view.Teams = append(view.Teams, TeamItem{
			ID:          t.ID,
			Name:        t.Name,
			MemberCount: t.MemberCount,
			Selected:    s.SelectedTeamID != nil && *s.SelectedTeamID == t.ID,
		})
	}

	if s.SelectedTeamID == nil || s.Detail == nil || s.Detail.ID != *s.SelectedTeamID {
		view.Placeholder = EmptyPlaceholder
		return view
	}

	view.Detail = &DetailPanel{
		ID:          s.Detail.ID,
		Name:        s.Detail.Name,
		Description: s.Detail.Description,
		CreatedAt:   s.Detail.CreatedAt.Format(joinedLayout),
		Form:        TeamForm{Name: s.Detail.Name, Description: s.Detail.Description},
		Members:     memberRows(s.Detail.Members),
	}
	return view
}

func memberRows(members []dto.MemberResponse) []MemberRow {
	sorted := make([]dto.MemberResponse, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := strings.ToLower(sorted[i].Name), strings.ToLower(sorted[j].Name)
		if a != b {
			return a < b
		}
		return sorted[i].ID < sorted[j].ID
	})

	rows := make([]MemberRow, 0, len(sorted))
	for _, m := range sorted {
		rows = append(rows, MemberRow{
			ID:     m.ID,
			Name:   m.Name,
			Email:  m.Email,
			Role:   m.Role,
			Joined: m.JoinedAt.Format(joinedLayout),
		})
	}
	return rows
}
