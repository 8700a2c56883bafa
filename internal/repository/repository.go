package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/team-service/internal/domain"
)

// DBTX is the subset of pgxpool.Pool used by the Postgres repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TeamRepository manages persistence for teams.
type TeamRepository interface {
	List(ctx context.Context) ([]domain.Team, error)
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id int64) (*domain.Team, error)
	Update(ctx context.Context, team *domain.Team) error
	// Delete removes the team and every member it owns.
	Delete(ctx context.Context, id int64) error
}

// MemberRepository manages persistence for team members.
type MemberRepository interface {
	ListByTeam(ctx context.Context, teamID int64) ([]domain.Member, error)
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id int64) error
}

const pgForeignKeyViolation = "23503"
