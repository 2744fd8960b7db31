package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, data dto.RegisterDTO) (*dto.AuthResponseDTO, error)
	Login(ctx context.Context, data dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Me(ctx context.Context) (*dto.UserDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtService service.JWTService, logger *zap.Logger) AuthServiceInterface {
	return &AuthService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

// Register создаёт пользователя и сразу выдаёт токен.
// Первый зарегистрированный становится ADMIN; явно задать роль при
// регистрации может только администратор, остальным всегда ставится USER.
func (s *AuthService) Register(ctx context.Context, data dto.RegisterDTO) (*dto.AuthResponseDTO, error) {
	if _, err := s.userRepo.FindUserByEmail(ctx, data.Email); err == nil {
		return nil, apperrors.NewHttpError(409, "пользователь с таким email уже существует", nil, nil)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	total, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	role := authz.RoleUser
	if total == 0 {
		role = authz.RoleAdmin
	} else if data.Role.Valid {
		caller := utils.PrincipalFromCtxOrNil(ctx)
		if caller == nil || caller.Role != authz.RoleAdmin {
			return nil, apperrors.ErrForbidden
		}
		parsed, ok := authz.ParseRole(data.Role.String)
		if !ok {
			return nil, apperrors.NewValidationError("неизвестная роль: " + data.Role.String)
		}
		role = parsed
	}

	hash, err := utils.HashPassword(data.Password)
	if err != nil {
		s.logger.Error("AuthService: ошибка хеширования пароля", zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}

	user, err := s.userRepo.CreateUser(ctx, &entities.User{
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, data dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, data.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Не раскрываем, что именно неверно.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(data.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *AuthService) Me(ctx context.Context) (*dto.UserDTO, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindUserByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	userDTO := dto.NewUserDTO(user)
	return &userDTO, nil
}

func (s *AuthService) issueToken(user *entities.User) (*dto.AuthResponseDTO, error) {
	token, err := s.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		s.logger.Error("AuthService: ошибка генерации токена", zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}
	return &dto.AuthResponseDTO{
		Token: token,
		User:  dto.NewUserDTO(user),
	}, nil
}
