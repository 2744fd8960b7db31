package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

const userFields = "id, name, email, password_hash, role, avatar_url, created_at, updated_at"

type UserRepositoryInterface interface {
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	FindPrincipalByID(ctx context.Context, id uint64) (*authz.Principal, error)
	GetUsers(ctx context.Context) ([]entities.User, error)
	CountUsers(ctx context.Context) (uint64, error)
	CreateUser(ctx context.Context, user *entities.User) (*entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования user: %w", err)
	}

	parsed, ok := authz.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("неизвестная роль в БД: %q (user %d)", role, u.ID)
	}
	u.Role = parsed
	return &u, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userFields)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userFields)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

// FindPrincipalByID — облегчённая выборка для auth-middleware.
func (r *UserRepository) FindPrincipalByID(ctx context.Context, id uint64) (*authz.Principal, error) {
	var role string
	var userID uint64
	err := r.storage.QueryRow(ctx, "SELECT id, role FROM users WHERE id = $1", id).Scan(&userID, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки principal: %w", err)
	}

	parsed, ok := authz.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("неизвестная роль в БД: %q (user %d)", role, userID)
	}
	return &authz.Principal{ID: userID, Role: parsed}, nil
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY id ASC", userFields)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entities.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) CountUsers(ctx context.Context) (uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	query, args, err := psql.Insert("users").
		Columns("name", "email", "password_hash", "role", "avatar_url").
		Values(user.Name, user.Email, user.PasswordHash, string(user.Role), user.AvatarURL).
		Suffix("RETURNING " + userFields).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}
