package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

type TeamRepositoryInterface interface {
	GetTeams(ctx context.Context) ([]entities.Team, error)
	FindTeam(ctx context.Context, id uint64) (*entities.Team, error)
	CreateTeam(ctx context.Context, name string) (*entities.Team, error)
	GetTeamMembers(ctx context.Context, teamID uint64) ([]entities.User, error)
}

type TeamRepository struct {
	storage *pgxpool.Pool
}

func NewTeamRepository(storage *pgxpool.Pool) TeamRepositoryInterface {
	return &TeamRepository{storage: storage}
}

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var t entities.Team
	err := row.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования team: %w", err)
	}
	return &t, nil
}

func (r *TeamRepository) GetTeams(ctx context.Context) ([]entities.Team, error) {
	rows, err := r.storage.Query(ctx, "SELECT id, name, created_at, updated_at FROM teams ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []entities.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) FindTeam(ctx context.Context, id uint64) (*entities.Team, error) {
	return scanTeam(r.storage.QueryRow(ctx, "SELECT id, name, created_at, updated_at FROM teams WHERE id = $1", id))
}

func (r *TeamRepository) CreateTeam(ctx context.Context, name string) (*entities.Team, error) {
	query, args, err := psql.Insert("teams").
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanTeam(r.storage.QueryRow(ctx, query, args...))
}

func (r *TeamRepository) GetTeamMembers(ctx context.Context, teamID uint64) ([]entities.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.avatar_url, u.created_at, u.updated_at
		FROM team_members tm
			JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.created_at ASC`

	rows, err := r.storage.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []entities.User
	for rows.Next() {
		var u entities.User
		var role string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования участника команды: %w", err)
		}
		parsed, ok := authz.ParseRole(role)
		if !ok {
			return nil, fmt.Errorf("неизвестная роль в БД: %q (user %d)", role, u.ID)
		}
		u.Role = parsed
		members = append(members, u)
	}
	return members, rows.Err()
}
