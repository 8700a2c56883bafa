package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/team-service/internal/api/dto"
	"github.com/spec-kit/team-service/internal/client"
)

var errNoSelection = errors.New("no team selected")

// API is the subset of the team API the controller drives.
type API interface {
	ListTeams(ctx context.Context) ([]dto.TeamResponse, error)
	CreateTeam(ctx context.Context, req dto.TeamCreateRequest) (dto.TeamResponse, error)
	GetTeam(ctx context.Context, id int64) (dto.TeamDetailResponse, error)
	UpdateTeam(ctx context.Context, id int64, req dto.TeamUpdateRequest) (dto.TeamDetailResponse, error)
	DeleteTeam(ctx context.Context, id int64) error
	AddMember(ctx context.Context, teamID int64, req dto.MemberCreateRequest) (dto.MemberResponse, error)
	UpdateMember(ctx context.Context, id int64, req dto.MemberUpdateRequest) (dto.MemberResponse, error)
	DeleteMember(ctx context.Context, id int64) error
}

// Renderer displays a view.
type Renderer interface {
	Render(View)
}

// Confirmer asks the user before destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Option customises a Controller.
type Option func(*Controller)

// WithNoticeDuration sets how long notices stay visible.
func WithNoticeDuration(d time.Duration) Option {
	return func(c *Controller) {
		c.noticeTTL = d
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the front-end state and turns user intents into API calls.
// Every mutation is followed by a Refresh; failures become notices and leave
// the controller usable.
type Controller struct {
	api       API
	renderer  Renderer
	confirmer Confirmer
	logger    *zap.Logger
	noticeTTL time.Duration
	notices   *Notices

	mu    sync.Mutex
	state State
}

// NewController wires a controller. A nil confirmer refuses every destructive action.
func NewController(api API, renderer Renderer, confirmer Confirmer, opts ...Option) *Controller {
	c := &Controller{
		api:       api,
		renderer:  renderer,
		confirmer: confirmer,
		logger:    zap.NewNop(),
		noticeTTL: DefaultNoticeDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.notices = NewNotices(c.noticeTTL, c.rerender)
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BuildView(c.state, c.notices.Active())
}

// Load starts from an empty state, fetches the team list and selects the first team when there is one.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{}
	return c.fail(c.refreshLocked(ctx))
}

// Refresh re-reads the team list and the selected team.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fail(c.refreshLocked(ctx))
}

// SelectTeam selects a team and loads its detail.
func (c *Controller) SelectTeam(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	detail, err := c.api.GetTeam(ctx, id)
	if err != nil {
		return c.fail(err)
	}
	c.state.SelectedTeamID = int64Ptr(id)
	c.state.Detail = &detail
	c.renderLocked()
	return nil
}

// CreateTeam submits the form and selects the new team. A nil form is a cancelled dialog.
func (c *Controller) CreateTeam(ctx context.Context, form *TeamForm) error {
	if form == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := form.Validate(); err != nil {
		return c.fail(err)
	}
	team, err := c.api.CreateTeam(ctx, form.createRequest())
	if err != nil {
		return c.fail(err)
	}
	c.state.SelectedTeamID = int64Ptr(team.ID)
	return c.succeed(ctx, fmt.Sprintf("Team %q created", team.Name))
}

// SaveTeam writes the edit form of the selected team.
func (c *Controller) SaveTeam(ctx context.Context, form *TeamForm) error {
	if form == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.selectedLocked()
	if err != nil {
		return c.fail(err)
	}
	if err := form.Validate(); err != nil {
		return c.fail(err)
	}
	if _, err := c.api.UpdateTeam(ctx, id, form.updateRequest()); err != nil {
		return c.fail(err)
	}
	return c.succeed(ctx, "Team updated")
}

// DeleteTeam removes the selected team after confirmation.
func (c *Controller) DeleteTeam(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.selectedLocked()
	if err != nil {
		return c.fail(err)
	}
	name := fmt.Sprintf("#%d", id)
	if c.state.Detail != nil && c.state.Detail.ID == id {
		name = c.state.Detail.Name
	}
	if !c.confirm(fmt.Sprintf("Delete team %q and all of its members?", name)) {
		return nil
	}
	if err := c.api.DeleteTeam(ctx, id); err != nil {
		return c.fail(err)
	}
	c.state.SelectedTeamID = nil
	c.state.Detail = nil
	return c.succeed(ctx, "Team deleted")
}

// AddMember adds a member to the selected team.
func (c *Controller) AddMember(ctx context.Context, form *MemberForm) error {
	if form == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.selectedLocked()
	if err != nil {
		return c.fail(err)
	}
	if err := form.Validate(); err != nil {
		return c.fail(err)
	}
	member, err := c.api.AddMember(ctx, id, form.createRequest())
	if err != nil {
		return c.fail(err)
	}
	return c.succeed(ctx, fmt.Sprintf("Member %q added", member.Name))
}

// EditMember replaces all editable fields of a member with the form values.
func (c *Controller) EditMember(ctx context.Context, memberID int64, form *MemberForm) error {
	if form == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := form.Validate(); err != nil {
		return c.fail(err)
	}
	if _, err := c.api.UpdateMember(ctx, memberID, form.updateRequest()); err != nil {
		return c.fail(err)
	}
	return c.succeed(ctx, "Member updated")
}

// RemoveMember deletes a member after confirmation.
func (c *Controller) RemoveMember(ctx context.Context, memberID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prompt := "Remove this member?"
	if m, ok := c.state.member(memberID); ok {
		prompt = fmt.Sprintf("Remove %s from the team?", m.Name)
	}
	if !c.confirm(prompt) {
		return nil
	}
	if err := c.api.DeleteMember(ctx, memberID); err != nil {
		return c.fail(err)
	}
	return c.succeed(ctx, "Member removed")
}

// refreshLocked keeps the selection when the team still exists, otherwise falls
// back to the first team, or to no selection.
func (c *Controller) refreshLocked(ctx context.Context) error {
	teams, err := c.api.ListTeams(ctx)
	if err != nil {
		return err
	}
	next := State{Teams: teams}

	if c.state.SelectedTeamID != nil && next.containsTeam(*c.state.SelectedTeamID) {
		next.SelectedTeamID = int64Ptr(*c.state.SelectedTeamID)
	} else if len(teams) > 0 {
		next.SelectedTeamID = int64Ptr(teams[0].ID)
	}

	// a team can vanish between the list and the detail read; move on to the
	// first team not yet tried.
	tried := map[int64]bool{}
	for next.SelectedTeamID != nil {
		id := *next.SelectedTeamID
		detail, err := c.api.GetTeam(ctx, id)
		if err == nil {
			next.Detail = &detail
			break
		}
		if !client.IsNotFound(err) {
			return err
		}
		tried[id] = true
		next.SelectedTeamID = nil
		for _, t := range teams {
			if !tried[t.ID] {
				next.SelectedTeamID = int64Ptr(t.ID)
				break
			}
		}
	}

	c.state = next
	c.renderLocked()
	return nil
}

func (c *Controller) selectedLocked() (int64, error) {
	if c.state.SelectedTeamID == nil {
		return 0, errNoSelection
	}
	return *c.state.SelectedTeamID, nil
}

func (c *Controller) confirm(prompt string) bool {
	return c.confirmer != nil && c.confirmer.Confirm(prompt)
}

func (c *Controller) succeed(ctx context.Context, message string) error {
	c.notices.Post(LevelInfo, message)
	return c.fail(c.refreshLocked(ctx))
}

// fail posts err as a notice and renders; it returns err unchanged.
func (c *Controller) fail(err error) error {
	if err == nil {
		return nil
	}
	c.logger.Debug("action failed", zap.Error(err))
	c.notices.Post(LevelError, err.Error())
	c.renderLocked()
	return err
}

func (c *Controller) renderLocked() {
	if c.renderer == nil {
		return
	}
	c.renderer.Render(BuildView(c.state, c.notices.Active()))
}

func (c *Controller) rerender() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderLocked()
}
