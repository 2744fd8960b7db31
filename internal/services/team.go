package services

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/utils"
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context) ([]dto.TeamDTO, error)
	FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error)
	CreateTeam(ctx context.Context, data dto.CreateTeamDTO) (*dto.TeamDTO, error)
	AddMember(ctx context.Context, teamID uint64, data dto.AddTeamMemberDTO) error
	RemoveMember(ctx context.Context, teamID, userID uint64) error
	CheckMembership(ctx context.Context, teamID, userID uint64) (*dto.MembershipDTO, error)
}

type TeamService struct {
	teamRepo       repositories.TeamRepositoryInterface
	teamMemberRepo repositories.TeamMemberRepositoryInterface
	userRepo       repositories.UserRepositoryInterface
	teamAccess     TeamAccessServiceInterface
	logger         *zap.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepositoryInterface,
	teamMemberRepo repositories.TeamMemberRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	teamAccess TeamAccessServiceInterface,
	logger *zap.Logger,
) TeamServiceInterface {
	return &TeamService{
		teamRepo:       teamRepo,
		teamMemberRepo: teamMemberRepo,
		userRepo:       userRepo,
		teamAccess:     teamAccess,
		logger:         logger,
	}
}

func (s *TeamService) GetTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	if _, err := utils.GetPrincipalFromCtx(ctx); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.GetTeams(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TeamDTO, 0, len(teams))
	for i := range teams {
		teamDTO, err := s.toDTO(ctx, &teams[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *teamDTO)
	}
	return out, nil
}

func (s *TeamService) FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error) {
	if _, err := utils.GetPrincipalFromCtx(ctx); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.FindTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, team)
}

func (s *TeamService) CreateTeam(ctx context.Context, data dto.CreateTeamDTO) (*dto.TeamDTO, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireRole(principal, authz.RoleAdmin, authz.RoleManager); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.CreateTeam(ctx, data.Name)
	if err != nil {
		return nil, err
	}
	return &dto.TeamDTO{ID: team.ID, Name: team.Name, Members: []dto.UserDTO{}}, nil
}

func (s *TeamService) AddMember(ctx context.Context, teamID uint64, data dto.AddTeamMemberDTO) error {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := authz.RequireRole(principal, authz.RoleAdmin, authz.RoleManager); err != nil {
		return err
	}

	if _, err := s.teamRepo.FindTeam(ctx, teamID); err != nil {
		return err
	}
	if _, err := s.userRepo.FindUserByID(ctx, data.UserID); err != nil {
		return err
	}

	return s.teamMemberRepo.AddMember(ctx, teamID, data.UserID)
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uint64) error {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := authz.RequireRole(principal, authz.RoleAdmin, authz.RoleManager); err != nil {
		return err
	}

	if err := s.teamMemberRepo.RemoveMember(ctx, teamID, userID); err != nil {
		return err
	}

	// Кэш членства инвалидируется сразу: исключённый не должен проходить
	// проверки до истечения TTL.
	s.teamAccess.InvalidateMembership(ctx, teamID, userID)
	return nil
}

func (s *TeamService) CheckMembership(ctx context.Context, teamID, userID uint64) (*dto.MembershipDTO, error) {
	if _, err := utils.GetPrincipalFromCtx(ctx); err != nil {
		return nil, err
	}

	allowed, err := s.teamAccess.IsMember(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}
	return &dto.MembershipDTO{Allowed: allowed}, nil
}

func (s *TeamService) toDTO(ctx context.Context, team *entities.Team) (*dto.TeamDTO, error) {
	members, err := s.teamRepo.GetTeamMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TeamDTO{ID: team.ID, Name: team.Name, Members: dto.NewUserDTOs(members)}, nil
}
