// Package memory provides an in-process store with the same semantics as the
// Postgres repositories. It backs the service when no DSN is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/team-service/internal/domain"
	"github.com/spec-kit/team-service/internal/repository"
)

// Store holds teams and members in memory.
type Store struct {
	mu           sync.RWMutex
	teams        map[int64]domain.Team
	members      map[int64]domain.Member
	nextTeamID   int64
	nextMemberID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		teams:   make(map[int64]domain.Team),
		members: make(map[int64]domain.Member),
	}
}

// Teams returns a TeamRepository view of the store.
func (s *Store) Teams() repository.TeamRepository {
	return teamRepo{s}
}

// Members returns a MemberRepository view of the store.
func (s *Store) Members() repository.MemberRepository {
	return memberRepo{s}
}

func (s *Store) countMembers(teamID int64) int {
	n := 0
	for _, m := range s.members {
		if m.TeamID == teamID {
			n++
		}
	}
	return n
}

type teamRepo struct{ s *Store }

func (r teamRepo) List(_ context.Context) ([]domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.Team, 0, len(r.s.teams))
	for _, t := range r.s.teams {
		t.MemberCount = r.s.countMembers(t.ID)
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if c := strings.Compare(strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)); c != 0 {
			return c < 0
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r teamRepo) Create(_ context.Context, team *domain.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextTeamID++
	team.ID = r.s.nextTeamID
	team.MemberCount = 0
	stored := *team
	stored.Members = nil
	r.s.teams[team.ID] = stored
	return nil
}

func (r teamRepo) GetByID(_ context.Context, id int64) (*domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.teams[id]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	t.MemberCount = r.s.countMembers(id)
	return &t, nil
}

func (r teamRepo) Update(_ context.Context, team *domain.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.teams[team.ID]
	if !ok {
		return domain.ErrTeamNotFound
	}
	t.Name = team.Name
	t.Description = team.Description
	r.s.teams[team.ID] = t
	return nil
}

func (r teamRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.teams[id]; !ok {
		return domain.ErrTeamNotFound
	}
	delete(r.s.teams, id)
	for memberID, m := range r.s.members {
		if m.TeamID == id {
			delete(r.s.members, memberID)
		}
	}
	return nil
}

type memberRepo struct{ s *Store }

func (r memberRepo) ListByTeam(_ context.Context, teamID int64) ([]domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.Member, 0)
	for _, m := range r.s.members {
		if m.TeamID == teamID {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r memberRepo) Create(_ context.Context, member *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.teams[member.TeamID]; !ok {
		return domain.ErrTeamNotFound
	}
	r.s.nextMemberID++
	member.ID = r.s.nextMemberID
	r.s.members[member.ID] = *member
	return nil
}

func (r memberRepo) GetByID(_ context.Context, id int64) (*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &m, nil
}

func (r memberRepo) Update(_ context.Context, member *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.members[member.ID]
	if !ok {
		return domain.ErrMemberNotFound
	}
	m.Name = member.Name
	m.Email = member.Email
	m.Role = member.Role
	r.s.members[member.ID] = m
	return nil
}

func (r memberRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(r.s.members, id)
	return nil
}
