package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/team-service/internal/api/dto"
	"github.com/spec-kit/team-service/internal/service"
)

// TeamsHandler exposes team endpoints.
type TeamsHandler struct {
	teams *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teams *service.TeamService) *TeamsHandler {
	return &TeamsHandler{teams: teams}
}

// List handles GET /api/teams.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	teams, err := h.teams.ListTeams(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		resp = append(resp, teamResponse(&teams[i]))
	}
	return c.JSON(resp)
}

// Create handles POST /api/teams.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	var req dto.TeamCreateRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	team, err := h.teams.CreateTeam(c.UserContext(), service.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(teamResponse(team))
}

// Get handles GET /api/teams/:id.
func (h *TeamsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "team", "team_id")
	if err != nil {
		return err
	}
	team, err := h.teams.GetTeam(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(teamDetailResponse(team))
}

// Update handles PUT /api/teams/:id.
func (h *TeamsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "team", "team_id")
	if err != nil {
		return err
	}
	var req dto.TeamUpdateRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	team, err := h.teams.UpdateTeam(c.UserContext(), id, service.UpdateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(teamDetailResponse(team))
}

// Delete handles DELETE /api/teams/:id.
func (h *TeamsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "team", "team_id")
	if err != nil {
		return err
	}
	if err := h.teams.DeleteTeam(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.StatusResponse{Status: "deleted"})
}
