package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/team-service/internal/domain"
)

type teamRepository struct {
	db DBTX
}

// NewTeamRepository constructs a Postgres-backed repository.
func NewTeamRepository(db DBTX) TeamRepository {
	return &teamRepository{db: db}
}

const teamColumns = `
        t.id, t.name, t.description, t.created_at,
        (SELECT COUNT(*) FROM members m WHERE m.team_id = t.id) AS member_count`

func (r *teamRepository) List(ctx context.Context) ([]domain.Team, error) {
	query := `SELECT` + teamColumns + `
        FROM teams t
        ORDER BY lower(t.name) ASC, t.id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Team, 0)
	for rows.Next() {
		var team domain.Team
		if err := scanTeam(rows, &team); err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	return result, rows.Err()
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (name, description, created_at)
        VALUES ($1,$2,$3)
        RETURNING id`
	if err := r.db.QueryRow(ctx, query,
		team.Name,
		team.Description,
		team.CreatedAt,
	).Scan(&team.ID); err != nil {
		return err
	}
	team.MemberCount = 0
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	query := `SELECT` + teamColumns + `
        FROM teams t WHERE t.id=$1`
	var team domain.Team
	if err := scanTeam(r.db.QueryRow(ctx, query, id), &team); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	const query = `UPDATE teams SET name=$1, description=$2 WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, team.Name, team.Description, team.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, id int64) error {
	// members go with the team through ON DELETE CASCADE.
	cmd, err := r.db.Exec(ctx, `DELETE FROM teams WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

func scanTeam(row pgx.Row, team *domain.Team) error {
	var count int64
	if err := row.Scan(&team.ID, &team.Name, &team.Description, &team.CreatedAt, &count); err != nil {
		return err
	}
	team.MemberCount = int(count)
	return nil
}
