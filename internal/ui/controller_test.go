package ui

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/team-service/internal/api/dto"
	"github.com/spec-kit/team-service/internal/client"
)

type fakeAPI struct {
	teams   map[int64]*dto.TeamResponse
	members map[int64]*dto.MemberResponse
	nextID  int64
	calls   []string
	failAll error
	// gone lists teams still returned by ListTeams whose detail reads are NotFound.
	gone    map[int64]bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{teams: map[int64]*dto.TeamResponse{}, members: map[int64]*dto.MemberResponse{}}
}

func (f *fakeAPI) id() int64 {
	f.nextID++
	return f.nextID
}

func notFound(resource string) error {
	return &client.APIError{Kind: client.KindNotFound, Status: 404, Message: resource + " not found"}
}

func (f *fakeAPI) ListTeams(context.Context) ([]dto.TeamResponse, error) {
	f.calls = append(f.calls, "ListTeams")
	if f.failAll != nil {
		return nil, f.failAll
	}
	out := []dto.TeamResponse{}
	for _, t := range f.teams {
		team := *t
		team.MemberCount = len(f.membersOf(t.ID))
		out = append(out, team)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeAPI) CreateTeam(_ context.Context, req dto.TeamCreateRequest) (dto.TeamResponse, error) {
	f.calls = append(f.calls, "CreateTeam")
	t := &dto.TeamResponse{ID: f.id(), Name: req.Name, Description: req.Description}
	f.teams[t.ID] = t
	return *t, nil
}

func (f *fakeAPI) GetTeam(_ context.Context, id int64) (dto.TeamDetailResponse, error) {
	f.calls = append(f.calls, "GetTeam")
	t, ok := f.teams[id]
	if !ok || f.gone[id] {
		return dto.TeamDetailResponse{}, notFound("team")
	}
	members := f.membersOf(id)
	team := *t
	team.MemberCount = len(members)
	return dto.TeamDetailResponse{TeamResponse: team, Members: members}, nil
}

func (f *fakeAPI) UpdateTeam(ctx context.Context, id int64, req dto.TeamUpdateRequest) (dto.TeamDetailResponse, error) {
	f.calls = append(f.calls, "UpdateTeam")
	t, ok := f.teams[id]
	if !ok {
		return dto.TeamDetailResponse{}, notFound("team")
	}
	t.Name, t.Description = *req.Name, *req.Description
	return f.GetTeam(ctx, id)
}

func (f *fakeAPI) DeleteTeam(_ context.Context, id int64) error {
	f.calls = append(f.calls, "DeleteTeam")
	if _, ok := f.teams[id]; !ok {
		return notFound("team")
	}
	delete(f.teams, id)
	for mid, m := range f.members {
		if m.TeamID == id {
			delete(f.members, mid)
		}
	}
	return nil
}

func (f *fakeAPI) AddMember(_ context.Context, teamID int64, req dto.MemberCreateRequest) (dto.MemberResponse, error) {
	f.calls = append(f.calls, "AddMember")
	if _, ok := f.teams[teamID]; !ok {
		return dto.MemberResponse{}, notFound("team")
	}
	m := &dto.MemberResponse{ID: f.id(), TeamID: teamID, Name: req.Name, Email: req.Email, Role: req.Role, JoinedAt: time.Now()}
	f.members[m.ID] = m
	return *m, nil
}

func (f *fakeAPI) UpdateMember(_ context.Context, id int64, req dto.MemberUpdateRequest) (dto.MemberResponse, error) {
	f.calls = append(f.calls, "UpdateMember")
	m, ok := f.members[id]
	if !ok {
		return dto.MemberResponse{}, notFound("member")
	}
	m.Name, m.Email, m.Role = *req.Name, *req.Email, *req.Role
	return *m, nil
}

func (f *fakeAPI) DeleteMember(_ context.Context, id int64) error {
	f.calls = append(f.calls, "DeleteMember")
	if _, ok := f.members[id]; !ok {
		return notFound("member")
	}
	delete(f.members, id)
	return nil
}

func (f *fakeAPI) membersOf(teamID int64) []dto.MemberResponse {
	out := []dto.MemberResponse{}
	for _, m := range f.members {
		if m.TeamID == teamID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeAPI) mutations() []string {
	var out []string
	for _, c := range f.calls {
		if c != "ListTeams" && c != "GetTeam" {
			out = append(out, c)
		}
	}
	return out
}

type recorder struct {
	views []View
}

func (r *recorder) Render(v View) { r.views = append(r.views, v) }

func (r *recorder) last() View { return r.views[len(r.views)-1] }

type answer bool

func (a answer) Confirm(string) bool { return bool(a) }

type timers struct {
	pending []func()
}

func (tm *timers) afterFunc(_ time.Duration, f func()) { tm.pending = append(tm.pending, f) }

func (tm *timers) fireAll() {
	pending := tm.pending
	tm.pending = nil
	for _, f := range pending {
		f()
	}
}

func newController(t *testing.T, api *fakeAPI, confirm Confirmer) (*Controller, *recorder, *timers) {
	t.Helper()
	rec := &recorder{}
	tm := &timers{}
	c := NewController(api, rec, confirm)
	c.notices.afterFunc = tm.afterFunc
	return c, rec, tm
}

func TestLoadSelectsFirstTeam(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	_, _ = api.CreateTeam(ctx, dto.TeamCreateRequest{Name: "Ops"})
	eng, _ := api.CreateTeam(ctx, dto.TeamCreateRequest{Name: "Eng"})

	c, rec, _ := newController(t, api, nil)
	require.NoError(t, c.Load(ctx))

	require.Equal(t, eng.ID, *c.State().SelectedTeamID)
	require.NotNil(t, rec.last().Detail)
	require.Equal(t, "Eng", rec.last().Detail.Name)
}

func TestLoadWithNoTeamsShowsPlaceholder(t *testing.T) {
	c, rec, _ := newController(t, newFakeAPI(), nil)
	require.NoError(t, c.Load(context.Background()))

	require.False(t, c.State().HasSelection())
	require.Equal(t, EmptyPlaceholder, rec.last().Placeholder)
}

func TestCreateTeamValidatesBeforeDispatch(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c, rec, _ := newController(t, api, nil)

	err := c.CreateTeam(ctx, &TeamForm{Name: " "})
	require.Equal(t, client.KindValidation, client.KindOf(err))
	require.Empty(t, api.mutations())
	require.Equal(t, LevelError, rec.last().Notices[0].Level)

	require.NoError(t, c.CreateTeam(ctx, nil))
	require.Empty(t, api.mutations())

	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Eng"}))
	require.Equal(t, []string{"CreateTeam"}, api.mutations())
	require.Equal(t, "Eng", c.View().Detail.Name)
	require.Len(t, c.View().Teams, 1)
}

func TestMemberLifecycleRefreshesAfterEachMutation(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c, _, _ := newController(t, api, answer(true))

	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Eng"}))
	require.NoError(t, c.AddMember(ctx, &MemberForm{Name: "zed", Email: "z@x.com"}))
	require.NoError(t, c.AddMember(ctx, &MemberForm{Name: "Bob", Email: "bob@x.com"}))

	v := c.View()
	require.Equal(t, 2, v.Teams[0].MemberCount)
	require.Equal(t, "Bob", v.Detail.Members[0].Name)
	bobID := v.Detail.Members[0].ID

	form := MemberFormFrom(c.State().Detail.Members[1])
	require.Equal(t, "Bob", form.Name)
	form.Role = "Lead"
	require.NoError(t, c.EditMember(ctx, bobID, &form))
	require.Equal(t, "Lead", c.View().Detail.Members[0].Role)

	require.NoError(t, c.RemoveMember(ctx, bobID))
	require.Len(t, c.View().Detail.Members, 1)
	require.Equal(t, 1, c.View().Teams[0].MemberCount)
}

func TestDestructiveActionsNeedConfirmation(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c, _, _ := newController(t, api, answer(false))

	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Eng"}))
	require.NoError(t, c.AddMember(ctx, &MemberForm{Name: "Bob", Email: "bob@x.com"}))
	memberID := c.State().Detail.Members[0].ID

	require.NoError(t, c.DeleteTeam(ctx))
	require.NoError(t, c.RemoveMember(ctx, memberID))
	require.Equal(t, []string{"CreateTeam", "AddMember"}, api.mutations())
	require.True(t, c.State().HasSelection())
}

func TestDeleteTeamSelectsNextOrClears(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c, rec, _ := newController(t, api, answer(true))

	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Ops"}))
	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Eng"}))
	require.Equal(t, "Eng", c.State().Detail.Name)

	require.NoError(t, c.DeleteTeam(ctx))
	require.Equal(t, "Ops", c.State().Detail.Name)

	require.NoError(t, c.DeleteTeam(ctx))
	require.False(t, c.State().HasSelection())
	require.Nil(t, rec.last().Detail)
	require.Equal(t, EmptyPlaceholder, rec.last().Placeholder)

	err := c.DeleteTeam(ctx)
	require.Error(t, err)
	require.Equal(t, "no team selected", rec.last().Notices[len(rec.last().Notices)-1].Message)
}

func TestRefreshDropsVanishedSelection(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c, _, _ := newController(t, api, nil)

	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Eng"}))
	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Ops"}))
	opsID := *c.State().SelectedTeamID

	require.NoError(t, api.DeleteTeam(ctx, opsID))
	require.NoError(t, c.Refresh(ctx))
	require.Equal(t, "Eng", c.State().Detail.Name)
}

func TestSelectTeam(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c, _, _ := newController(t, api, nil)

	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Eng"}))
	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Ops"}))
	engID := c.View().Teams[0].ID

	require.NoError(t, c.SelectTeam(ctx, engID))
	v := c.View()
	require.True(t, v.Teams[0].Selected)
	require.False(t, v.Teams[1].Selected)
	require.Equal(t, "Eng", v.Detail.Name)

	err := c.SelectTeam(ctx, 999)
	require.True(t, client.IsNotFound(err))
	require.Equal(t, engID, *c.State().SelectedTeamID)
}

func TestFailuresBecomeNoticesThatExpire(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c, rec, tm := newController(t, api, nil)

	api.failAll = &client.APIError{Kind: client.KindRequestFailure, Message: "Request failed"}
	err := c.Load(ctx)
	require.Error(t, err)
	require.Equal(t, []Notice{{ID: 1, Level: LevelError, Message: "Request failed"}}, rec.last().Notices)

	api.failAll = nil
	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Eng"}))
	require.Len(t, c.View().Notices, 2)

	renders := len(rec.views)
	tm.fireAll()
	require.Empty(t, c.View().Notices)
	require.Greater(t, len(rec.views), renders)
}

func TestNoticesDefaultDuration(t *testing.T) {
	n := NewNotices(0, nil)
	require.Equal(t, DefaultNoticeDuration, n.ttl)

	var got time.Duration
	n.afterFunc = func(d time.Duration, _ func()) { got = d }
	n.Post(LevelInfo, "saved")
	require.Equal(t, 3*time.Second, got)
	require.Len(t, n.Active(), 1)
}

func TestSaveTeamSendsWholeForm(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c, _, _ := newController(t, api, nil)

	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Eng", Description: "builders"}))
	form := c.View().Detail.Form
	form.Description = ""
	require.NoError(t, c.SaveTeam(ctx, &form))
	require.Empty(t, c.State().Detail.Description)
	require.Equal(t, "Eng", c.State().Detail.Name)

	err := c.SaveTeam(ctx, &TeamForm{})
	require.True(t, errors.As(err, new(*client.APIError)))
}

func TestRefreshFallsBackWhenSelectedDetailIsGone(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c, rec, _ := newController(t, api, nil)

	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Eng"}))
	require.NoError(t, c.CreateTeam(ctx, &TeamForm{Name: "Ops"}))
	engID := c.View().Teams[0].ID
	opsID := *c.State().SelectedTeamID

	api.gone = map[int64]bool{opsID: true}
	require.NoError(t, c.Refresh(ctx))
	require.Equal(t, engID, *c.State().SelectedTeamID)
	require.Equal(t, "Eng", rec.last().Detail.Name)

	api.gone[engID] = true
	require.NoError(t, c.Refresh(ctx))
	require.False(t, c.State().HasSelection())
	require.Equal(t, EmptyPlaceholder, rec.last().Placeholder)
}
