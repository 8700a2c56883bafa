package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/team-service/internal/cache"
	"github.com/spec-kit/team-service/internal/domain"
	"github.com/spec-kit/team-service/internal/events"
	"github.com/spec-kit/team-service/internal/observability"
	"github.com/spec-kit/team-service/internal/repository"
	apperrors "github.com/spec-kit/team-service/pkg/util/errorutil"
)

const (
	msgTeamNameRequired     = "team name is required"
	msgMemberFieldsRequired = "member name and email are required"
)

// TeamListCache is the read-through cache consulted by ListTeams.
// SetTeams takes the Generation read before the store was queried.
type TeamListCache interface {
	GetTeams(ctx context.Context) ([]domain.Team, error)
	Generation() uint64
	SetTeams(ctx context.Context, teams []domain.Team, gen uint64) error
	Invalidate(ctx context.Context) error
}

// TeamDependencies encapsulates collaborators of TeamService.
type TeamDependencies struct {
	TeamRepo   repository.TeamRepository
	MemberRepo repository.MemberRepository
	Cache      TeamListCache
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// TeamService implements team and member operations on top of the repositories.
type TeamService struct {
	teams      repository.TeamRepository
	members    repository.MemberRepository
	cache      TeamListCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// CreateTeamInput carries the fields accepted on team creation.
type CreateTeamInput struct {
	Name        string
	Description string
}

// UpdateTeamInput carries a partial team update; nil fields are left unchanged.
type UpdateTeamInput struct {
	Name        *string
	Description *string
}

// AddMemberInput carries the fields accepted when adding a member.
type AddMemberInput struct {
	Name  string
	Email string
	Role  string
}

// UpdateMemberInput carries a partial member update; nil fields are left unchanged.
type UpdateMemberInput struct {
	Name  *string
	Email *string
	Role  *string
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TeamService{
		teams:      deps.TeamRepo,
		members:    deps.MemberRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        now,
	}
}

// ListTeams returns every team with its member count, ordered by name.
func (s *TeamService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	var gen uint64
	if s.cache != nil {
		gen = s.cache.Generation()
		teams, err := s.cache.GetTeams(ctx)
		switch {
		case err == nil:
			s.metrics.RecordCacheLookup(true)
			return teams, nil
		case errors.Is(err, cache.ErrCacheMiss):
			s.metrics.RecordCacheLookup(false)
		default:
			s.logger.Warn("team cache read failed", zap.Error(err))
		}
	}

	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if s.cache != nil {
		if err := s.cache.SetTeams(ctx, teams, gen); err != nil && !errors.Is(err, cache.ErrStaleSnapshot) {
			s.logger.Warn("team cache write failed", zap.Error(err))
		}
	}
	return teams, nil
}

// CreateTeam validates and stores a new team.
func (s *TeamService) CreateTeam(ctx context.Context, in CreateTeamInput) (*domain.Team, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError(msgTeamNameRequired, map[string]any{"field": "name"})
	}

	team := &domain.Team{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.timestamp(),
		Members:     []domain.Member{},
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Debug("team created", zap.Int64("team_id", team.ID), zap.String("name", team.Name))
	s.publish(ctx, events.NewEvent(events.EventTeamCreated, team.ID, 0, events.TeamPayload{
		Name:        team.Name,
		Description: team.Description,
	}))
	return team, nil
}

// GetTeam returns the team with its members embedded.
func (s *TeamService) GetTeam(ctx context.Context, id int64) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, map[string]any{"team_id": id})
	}
	members, err := s.members.ListByTeam(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	team.Members = members
	team.MemberCount = len(members)
	return team, nil
}

// UpdateTeam applies a partial update and returns the team with members.
func (s *TeamService) UpdateTeam(ctx context.Context, id int64, in UpdateTeamInput) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, map[string]any{"team_id": id})
	}

	if in.Name != nil {
		team.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		team.Description = strings.TrimSpace(*in.Description)
	}
	if team.Name == "" {
		return nil, apperrors.NewValidationError(msgTeamNameRequired, map[string]any{"field": "name"})
	}

	if err := s.teams.Update(ctx, team); err != nil {
		return nil, mapStoreError(err, map[string]any{"team_id": id})
	}

	s.logger.Debug("team updated", zap.Int64("team_id", id))
	s.publish(ctx, events.NewEvent(events.EventTeamUpdated, id, 0, events.TeamPayload{
		Name:        team.Name,
		Description: team.Description,
	}))
	return s.GetTeam(ctx, id)
}

// DeleteTeam removes the team and, through the store cascade, all of its members.
func (s *TeamService) DeleteTeam(ctx context.Context, id int64) error {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return mapStoreError(err, map[string]any{"team_id": id})
	}
	if err := s.teams.Delete(ctx, id); err != nil {
		return mapStoreError(err, map[string]any{"team_id": id})
	}

	s.logger.Debug("team deleted", zap.Int64("team_id", id), zap.Int("members_removed", team.MemberCount))
	s.publish(ctx, events.NewEvent(events.EventTeamDeleted, id, 0, events.TeamDeletedPayload{
		Name:           team.Name,
		MembersRemoved: team.MemberCount,
	}))
	return nil
}

// ListMembers returns the members of an existing team in creation order.
func (s *TeamService) ListMembers(ctx context.Context, teamID int64) ([]domain.Member, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, mapStoreError(err, map[string]any{"team_id": teamID})
	}
	members, err := s.members.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return members, nil
}

// AddMember adds a member to an existing team, stamping joined_at with the current time.
func (s *TeamService) AddMember(ctx context.Context, teamID int64, in AddMemberInput) (*domain.Member, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, mapStoreError(err, map[string]any{"team_id": teamID})
	}

	member := &domain.Member{
		TeamID:   teamID,
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Role:     strings.TrimSpace(in.Role),
		JoinedAt: s.timestamp(),
	}
	if err := validateMember(member); err != nil {
		return nil, err
	}

	if err := s.members.Create(ctx, member); err != nil {
		return nil, mapStoreError(err, map[string]any{"team_id": teamID})
	}

	s.logger.Debug("member added", zap.Int64("team_id", teamID), zap.Int64("member_id", member.ID))
	s.publish(ctx, events.NewEvent(events.EventMemberAdded, teamID, member.ID, memberPayload(member)))
	return member, nil
}

// UpdateMember applies a partial update; id, team and joined_at never change.
func (s *TeamService) UpdateMember(ctx context.Context, id int64, in UpdateMemberInput) (*domain.Member, error) {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, map[string]any{"member_id": id})
	}

	if in.Name != nil {
		member.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		member.Email = strings.TrimSpace(*in.Email)
	}
	if in.Role != nil {
		member.Role = strings.TrimSpace(*in.Role)
	}
	if err := validateMember(member); err != nil {
		return nil, err
	}

	if err := s.members.Update(ctx, member); err != nil {
		return nil, mapStoreError(err, map[string]any{"member_id": id})
	}

	s.logger.Debug("member updated", zap.Int64("member_id", id))
	s.publish(ctx, events.NewEvent(events.EventMemberUpdated, member.TeamID, id, memberPayload(member)))
	return member, nil
}

// DeleteMember removes a single member.
func (s *TeamService) DeleteMember(ctx context.Context, id int64) error {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return mapStoreError(err, map[string]any{"member_id": id})
	}
	if err := s.members.Delete(ctx, id); err != nil {
		return mapStoreError(err, map[string]any{"member_id": id})
	}

	s.logger.Debug("member removed", zap.Int64("member_id", id))
	s.publish(ctx, events.NewEvent(events.EventMemberRemoved, member.TeamID, id, memberPayload(member)))
	return nil
}

func (s *TeamService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

// timestamp is truncated to the precision Postgres stores.
func (s *TeamService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func validateMember(member *domain.Member) error {
	var missing []string
	if member.Name == "" {
		missing = append(missing, "name")
	}
	if member.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(msgMemberFieldsRequired, map[string]any{"fields": missing})
	}
	return nil
}

func memberPayload(member *domain.Member) events.MemberPayload {
	return events.MemberPayload{Name: member.Name, Email: member.Email, Role: member.Role}
}

func mapStoreError(err error, details map[string]any) error {
	switch {
	case errors.Is(err, domain.ErrTeamNotFound):
		return apperrors.NewNotFound("team", details)
	case errors.Is(err, domain.ErrMemberNotFound):
		return apperrors.NewNotFound("member", details)
	default:
		return apperrors.NewInternalError(err)
	}
}
