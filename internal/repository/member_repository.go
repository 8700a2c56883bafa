package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/team-service/internal/domain"
)

type memberRepository struct {
	db DBTX
}

// NewMemberRepository constructs a Postgres-backed repository.
func NewMemberRepository(db DBTX) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) ListByTeam(ctx context.Context, teamID int64) ([]domain.Member, error) {
	const query = `
        SELECT id, team_id, name, email, role, joined_at
        FROM members WHERE team_id=$1
        ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Member, 0)
	for rows.Next() {
		var member domain.Member
		if err := scanMember(rows, &member); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	const query = `
        INSERT INTO members (team_id, name, email, role, joined_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	err := r.db.QueryRow(ctx, query,
		member.TeamID,
		member.Name,
		member.Email,
		member.Role,
		member.JoinedAt,
	).Scan(&member.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.ErrTeamNotFound
		}
		return err
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	const query = `
        SELECT id, team_id, name, email, role, joined_at
        FROM members WHERE id=$1`
	var member domain.Member
	if err := scanMember(r.db.QueryRow(ctx, query, id), &member); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// Update writes name, email and role; team_id and joined_at never change.
func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	const query = `UPDATE members SET name=$1, email=$2, role=$3 WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query, member.Name, member.Email, member.Role, member.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *memberRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func scanMember(row pgx.Row, member *domain.Member) error {
	return row.Scan(
		&member.ID,
		&member.TeamID,
		&member.Name,
		&member.Email,
		&member.Role,
		&member.JoinedAt,
	)
}
