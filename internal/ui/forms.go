package ui

import (
	"strings"

	"github.com/spec-kit/team-service/internal/api/dto"
	"github.com/spec-kit/team-service/internal/client"
)

// TeamForm carries every editable team field at once.
type TeamForm struct {
	Name        string
	Description string
}

// Validate rejects a blank name.
func (f TeamForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return formError("team name is required")
	}
	return nil
}

func (f TeamForm) createRequest() dto.TeamCreateRequest {
	return dto.TeamCreateRequest{Name: f.Name, Description: f.Description}
}

func (f TeamForm) updateRequest() dto.TeamUpdateRequest {
	name, description := f.Name, f.Description
	return dto.TeamUpdateRequest{Name: &name, Description: &description}
}

// MemberForm carries every editable member field at once.
type MemberForm struct {
	Name  string
	Email string
	Role  string
}

// MemberFormFrom pre-fills a form with the member's current values.
func MemberFormFrom(m dto.MemberResponse) MemberForm {
	return MemberForm{Name: m.Name, Email: m.Email, Role: m.Role}
}

// Validate rejects a blank name or email.
func (f MemberForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Email) == "" {
		return formError("member name and email are required")
	}
	return nil
}

func (f MemberForm) createRequest() dto.MemberCreateRequest {
	return dto.MemberCreateRequest{Name: f.Name, Email: f.Email, Role: f.Role}
}

func (f MemberForm) updateRequest() dto.MemberUpdateRequest {
	name, email, role := f.Name, f.Email, f.Role
	return dto.MemberUpdateRequest{Name: &name, Email: &email, Role: &role}
}

// formError is reported like a server-side validation failure.
func formError(msg string) error {
	return &client.APIError{Kind: client.KindValidation, Message: msg}
}
