package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/team-service/internal/api/dto"
	"github.com/spec-kit/team-service/internal/domain"
	apperrors "github.com/spec-kit/team-service/pkg/util/errorutil"
)

// parseID reads a positive integer path parameter. Anything else cannot name a row,
// so it is reported as the resource being absent.
func parseID(c *fiber.Ctx, resource, key string) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound(resource, map[string]any{key: raw})
	}
	return id, nil
}

// decodeBody parses a JSON body; an empty body leaves v untouched.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, v); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func teamResponse(team *domain.Team) dto.TeamResponse {
	return dto.TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		CreatedAt:   team.CreatedAt,
		MemberCount: team.MemberCount,
	}
}

func teamDetailResponse(team *domain.Team) dto.TeamDetailResponse {
	members := make([]dto.MemberResponse, 0, len(team.Members))
	for i := range team.Members {
		members = append(members, memberResponse(&team.Members[i]))
	}
	return dto.TeamDetailResponse{
		TeamResponse: teamResponse(team),
		Members:      members,
	}
}

func memberResponse(member *domain.Member) dto.MemberResponse {
	return dto.MemberResponse{
		ID:       member.ID,
		TeamID:   member.TeamID,
		Name:     member.Name,
		Email:    member.Email,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}
