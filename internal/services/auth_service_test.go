package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
)

type fakeUserRepo struct {
	users  map[uint64]*entities.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*entities.User{}, nextID: 1}
}

func (f *fakeUserRepo) FindUserByID(_ context.Context, id uint64) (*entities.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) FindPrincipalByID(_ context.Context, id uint64) (*authz.Principal, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &authz.Principal{ID: u.ID, Role: u.Role}, nil
}

func (f *fakeUserRepo) GetUsers(_ context.Context) ([]entities.User, error) {
	var out []entities.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) CountUsers(_ context.Context) (uint64, error) {
	return uint64(len(f.users)), nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *entities.User) (*entities.User, error) {
	copied := *user
	copied.ID = f.nextID
	f.nextID++
	f.users[copied.ID] = &copied
	result := copied
	return &result, nil
}

func newAuthServiceFixture() (AuthServiceInterface, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtSvc := service.NewJWTService("test-secret", time.Hour)
	return NewAuthService(repo, jwtSvc, zap.NewNop()), repo
}

func TestAuthService_Register(t *testing.T) {
	t.Run("первый пользователь становится ADMIN", func(t *testing.T) {
		svc, _ := newAuthServiceFixture()

		res, err := svc.Register(context.Background(), dto.RegisterDTO{
			Name: "Основатель", Email: "first@test.local", Password: "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, string(authz.RoleAdmin), res.User.Role)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("последующие пользователи по умолчанию USER", func(t *testing.T) {
		svc, _ := newAuthServiceFixture()
		_, err := svc.Register(context.Background(), dto.RegisterDTO{
			Name: "Основатель", Email: "first@test.local", Password: "secret1",
		})
		require.NoError(t, err)

		res, err := svc.Register(context.Background(), dto.RegisterDTO{
			Name: "Второй", Email: "second@test.local", Password: "secret2",
		})
		require.NoError(t, err)
		assert.Equal(t, string(authz.RoleUser), res.User.Role)
	})

	t.Run("роль при регистрации задаёт только ADMIN", func(t *testing.T) {
		svc, repo := newAuthServiceFixture()
		_, err := svc.Register(context.Background(), dto.RegisterDTO{
			Name: "Основатель", Email: "first@test.local", Password: "secret1",
		})
		require.NoError(t, err)

		// Аноним с явной ролью — отказ.
		_, err = svc.Register(context.Background(), dto.RegisterDTO{
			Name: "Самозванец", Email: "x@test.local", Password: "secret2",
			Role: null.StringFrom("MANAGER"),
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		// ADMIN из контекста — роль применяется.
		adminCtx := ctxWithPrincipal(1, authz.RoleAdmin)
		res, err := svc.Register(adminCtx, dto.RegisterDTO{
			Name: "Менеджер", Email: "mgr@test.local", Password: "secret3",
			Role: null.StringFrom("MANAGER"),
		})
		require.NoError(t, err)
		assert.Equal(t, string(authz.RoleManager), res.User.Role)

		created, err := repo.FindUserByEmail(context.Background(), "mgr@test.local")
		require.NoError(t, err)
		assert.Equal(t, authz.RoleManager, created.Role)
	})

	t.Run("повторный email отклоняется", func(t *testing.T) {
		svc, _ := newAuthServiceFixture()
		_, err := svc.Register(context.Background(), dto.RegisterDTO{
			Name: "Основатель", Email: "dup@test.local", Password: "secret1",
		})
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), dto.RegisterDTO{
			Name: "Дубль", Email: "dup@test.local", Password: "secret2",
		})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 409, httpErr.Code)
	})
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthServiceFixture()
	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Name: "Основатель", Email: "login@test.local", Password: "secret1",
	})
	require.NoError(t, err)

	t.Run("верные учётные данные", func(t *testing.T) {
		res, err := svc.Login(context.Background(), dto.LoginDTO{Email: "login@test.local", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
	})

	// Неверный пароль и несуществующий email неразличимы для клиента.
	t.Run("неверный пароль", func(t *testing.T) {
		_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "login@test.local", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("несуществующий email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "ghost@test.local", Password: "secret1"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthService_Me(t *testing.T) {
	svc, _ := newAuthServiceFixture()
	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Name: "Основатель", Email: "me@test.local", Password: "secret1",
	})
	require.NoError(t, err)

	me, err := svc.Me(ctxWithPrincipal(1, authz.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, "me@test.local", me.Email)

	_, err = svc.Me(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
