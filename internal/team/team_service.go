package team

import (
	"context"
	"errors"
	"time"

	teamerrors "hrportal/internal/team/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateTeamRequest) (TeamResponse, error)
	GetAll(ctx context.Context) ([]TeamResponse, error)
	GetByID(ctx context.Context, id string) (TeamResponse, error)
	AddMember(ctx context.Context, id string, req AddMemberRequest) (TeamResponse, error)
	RemoveMember(ctx context.Context, id, employeeID string) (TeamResponse, error)
	PromoteMember(ctx context.Context, id, employeeID string) (TeamResponse, error)
	UpdatePermissions(ctx context.Context, id string, req UpdatePermissionsRequest) (TeamResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("team.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("team.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateTeamRequest) (TeamResponse, error) {
	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		return TeamResponse{}, teamerrors.ErrInvalidManagerID
	}

	t := &Team{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Department:  req.Department,
		ManagerID:   managerID,
		Members:     Members{},
		Permissions: DefaultPermissions(),
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("create team persist failed", zap.Error(err))
		return TeamResponse{}, err
	}

	s.logger.Info("create team success", zap.String("team_id", t.ID.String()))
	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context) ([]TeamResponse, error) {
	teams, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]TeamResponse, len(teams))
	for i, t := range teams {
		resp[i] = mapToResponse(t)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (TeamResponse, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return TeamResponse{}, err
	}
	return mapToResponse(*t), nil
}

func (s *service) AddMember(ctx context.Context, id string, req AddMemberRequest) (TeamResponse, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return TeamResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = MemberRoleMember
	}
	if role != MemberRoleMember && role != MemberRoleCoLead {
		return TeamResponse{}, teamerrors.ErrInvalidMemberRole
	}

	// Reactivate a previously removed member instead of duplicating.
	for i, m := range t.Members {
		if m.EmployeeID == req.EmployeeID {
			if m.IsActive {
				return TeamResponse{}, teamerrors.ErrAlreadyMember
			}
			t.Members[i].IsActive = true
			t.Members[i].Role = role
			t.Members[i].JoinedAt = time.Now().UTC()
			t.Members[i].LeftAt = nil
			if err := s.repo.Update(ctx, t); err != nil {
				return TeamResponse{}, err
			}
			return mapToResponse(*t), nil
		}
	}

	t.Members = append(t.Members, TeamMember{
		EmployeeID: req.EmployeeID,
		Role:       role,
		JoinedAt:   time.Now().UTC(),
		IsActive:   true,
	})

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("add member persist failed", zap.String("team_id", id), zap.Error(err))
		return TeamResponse{}, err
	}

	s.logger.Info("member added",
		zap.String("team_id", id),
		zap.String("employee_id", req.EmployeeID),
		zap.String("member_role", role),
	)
	return mapToResponse(*t), nil
}

func (s *service) RemoveMember(ctx context.Context, id, employeeID string) (TeamResponse, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return TeamResponse{}, err
	}

	found := false
	for i, m := range t.Members {
		if m.EmployeeID == employeeID && m.IsActive {
			now := time.Now().UTC()
			t.Members[i].IsActive = false
			t.Members[i].LeftAt = &now
			found = true
			break
		}
	}
	if !found {
		return TeamResponse{}, teamerrors.ErrNotAMember
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return TeamResponse{}, err
	}

	s.logger.Info("member removed",
		zap.String("team_id", id),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*t), nil
}

func (s *service) PromoteMember(ctx context.Context, id, employeeID string) (TeamResponse, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return TeamResponse{}, err
	}

	found := false
	for i, m := range t.Members {
		if m.EmployeeID == employeeID && m.IsActive {
			if m.Role == MemberRoleCoLead {
				return TeamResponse{}, teamerrors.ErrAlreadyCoLead
			}
			t.Members[i].Role = MemberRoleCoLead
			found = true
			break
		}
	}
	if !found {
		return TeamResponse{}, teamerrors.ErrNotAMember
	}

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("promote member persist failed", zap.String("team_id", id), zap.Error(err))
		return TeamResponse{}, err
	}

	s.logger.Info("member promoted",
		zap.String("team_id", id),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*t), nil
}

func (s *service) UpdatePermissions(ctx context.Context, id string, req UpdatePermissionsRequest) (TeamResponse, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return TeamResponse{}, err
	}

	if req.CanApproveLeaves != nil {
		t.Permissions.CanApproveLeaves = *req.CanApproveLeaves
	}
	if req.CanViewTeamCalendar != nil {
		t.Permissions.CanViewTeamCalendar = *req.CanViewTeamCalendar
	}
	if req.CanManageMembers != nil {
		t.Permissions.CanManageMembers = *req.CanManageMembers
	}
	if req.MaxLeaveApprovalDays != nil {
		t.Permissions.MaxLeaveApprovalDays = *req.MaxLeaveApprovalDays
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return TeamResponse{}, err
	}
	return mapToResponse(*t), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return teamerrors.ErrInvalidTeamID
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) find(ctx context.Context, id string) (*Team, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, teamerrors.ErrInvalidTeamID
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamerrors.ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func mapToResponse(t Team) TeamResponse {
	members := t.Members
	if members == nil {
		members = Members{}
	}
	return TeamResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		Department:  t.Department,
		ManagerID:   t.ManagerID.String(),
		Members:     members,
		Permissions: t.Permissions,
		IsActive:    t.IsActive,
	}
}
