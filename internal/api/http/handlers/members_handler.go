package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/team-service/internal/api/dto"
	"github.com/spec-kit/team-service/internal/service"
)

// MembersHandler exposes member endpoints.
type MembersHandler struct {
	teams *service.TeamService
}

// NewMembersHandler constructs handler.
func NewMembersHandler(teams *service.TeamService) *MembersHandler {
	return &MembersHandler{teams: teams}
}

// ListByTeam handles GET /api/teams/:id/members.
func (h *MembersHandler) ListByTeam(c *fiber.Ctx) error {
	teamID, err := parseID(c, "team", "team_id")
	if err != nil {
		return err
	}
	members, err := h.teams.ListMembers(c.UserContext(), teamID)
	if err != nil {
		return err
	}
	resp := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, memberResponse(&members[i]))
	}
	return c.JSON(resp)
}

// Add handles POST /api/teams/:id/members.
func (h *MembersHandler) Add(c *fiber.Ctx) error {
	teamID, err := parseID(c, "team", "team_id")
	if err != nil {
		return err
	}
	var req dto.MemberCreateRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	member, err := h.teams.AddMember(c.UserContext(), teamID, service.AddMemberInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(memberResponse(member))
}

// Update handles PUT /api/members/:id.
func (h *MembersHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "member", "member_id")
	if err != nil {
		return err
	}
	var req dto.MemberUpdateRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	member, err := h.teams.UpdateMember(c.UserContext(), id, service.UpdateMemberInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(memberResponse(member))
}

// Delete handles DELETE /api/members/:id.
func (h *MembersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "member", "member_id")
	if err != nil {
		return err
	}
	if err := h.teams.DeleteMember(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.StatusResponse{Status: "deleted"})
}
