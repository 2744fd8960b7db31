package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TeamMemberRepositoryInterface — отношение членства. Полезной нагрузки
// у записи нет: существование строки и есть ответ на вопрос
// «состоит ли пользователь в команде».
type TeamMemberRepositoryInterface interface {
	Exists(ctx context.Context, teamID, userID uint64) (bool, error)
	AddMember(ctx context.Context, teamID, userID uint64) error
	RemoveMember(ctx context.Context, teamID, userID uint64) error
}

type TeamMemberRepository struct {
	storage *pgxpool.Pool
}

func NewTeamMemberRepository(storage *pgxpool.Pool) TeamMemberRepositoryInterface {
	return &TeamMemberRepository{storage: storage}
}

func (r *TeamMemberRepository) Exists(ctx context.Context, teamID, userID uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)",
		teamID, userID,
	).Scan(&exists)
	return exists, err
}

// AddMember идемпотентен: повторное добавление не ошибка.
func (r *TeamMemberRepository) AddMember(ctx context.Context, teamID, userID uint64) error {
	_, err := r.storage.Exec(ctx,
		"INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT (team_id, user_id) DO NOTHING",
		teamID, userID,
	)
	return err
}

// RemoveMember идемпотентен: удаление отсутствующего членства не ошибка.
func (r *TeamMemberRepository) RemoveMember(ctx context.Context, teamID, userID uint64) error {
	_, err := r.storage.Exec(ctx,
		"DELETE FROM team_members WHERE team_id = $1 AND user_id = $2",
		teamID, userID,
	)
	return err
}
