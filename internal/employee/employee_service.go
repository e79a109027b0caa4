package employee

import (
	"context"
	"database/sql"
	"errors"

	employeeerrors "hrportal/internal/employee/errors"
	"hrportal/internal/rbac"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, page, pageSize int) ([]EmployeeResponse, int64, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	SetBalance(ctx context.Context, id string, req SetBalanceRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func parseOptionalUUID(v *string, fieldErr error) (*uuid.UUID, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil, fieldErr
	}
	return &id, nil
}

func validRole(role string) bool {
	switch role {
	case rbac.RoleEmployee, rbac.RoleManager, rbac.RoleHR, rbac.RoleAdmin:
		return true
	}
	return false
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("create employee requested", zap.String("email", req.Email))

	if !validRole(req.Role) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	managerID, err := parseOptionalUUID(req.ManagerID, employeeerrors.ErrInvalidManagerID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	teamID, err := parseOptionalUUID(req.TeamID, employeeerrors.ErrInvalidEmployeeID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	e := &Employee{
		ID:         uuid.New(),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
		Position:   req.Position,
		ManagerID:  managerID,
		TeamID:     teamID,
		IsActive:   true,
		Balance: LeaveBalance{
			TotalLeaves:     25,
			UsedLeaves:      0,
			AvailableLeaves: 25,
			RTTBalance:      10,
			CPPBalance:      12,
		},
	}

	if err := s.repo.Create(ctx, e); err != nil {
		if isDuplicateKey(err) {
			s.logger.Warn("create employee duplicate email", zap.String("email", req.Email))
			return EmployeeResponse{}, employeeerrors.ErrDuplicateEmail
		}
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success", zap.String("employee_id", e.ID.String()))
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, page, pageSize int) ([]EmployeeResponse, int64, error) {
	employees, total, err := s.repo.FindAll(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if !validRole(req.Role) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	managerID, err := parseOptionalUUID(req.ManagerID, employeeerrors.ErrInvalidManagerID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	teamID, err := parseOptionalUUID(req.TeamID, employeeerrors.ErrInvalidEmployeeID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	e.FirstName = req.FirstName
	e.LastName = req.LastName
	e.Email = req.Email
	e.Role = req.Role
	e.Department = req.Department
	e.Position = req.Position
	e.ManagerID = managerID
	e.TeamID = teamID
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, e); err != nil {
		if isDuplicateKey(err) {
			return EmployeeResponse{}, employeeerrors.ErrDuplicateEmail
		}
		s.logger.Error("update employee persist failed",
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*e), nil
}

// SetBalance replaces the entitlement pools. AvailableLeaves is always
// derived, never taken from input.
func (s *service) SetBalance(ctx context.Context, id string, req SetBalanceRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if req.TotalLeaves < 0 || req.UsedLeaves < 0 || req.RTTBalance < 0 || req.CPPBalance < 0 {
		return EmployeeResponse{}, employeeerrors.ErrNegativeBalance
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	e.Balance = LeaveBalance{
		TotalLeaves:     req.TotalLeaves,
		UsedLeaves:      req.UsedLeaves,
		AvailableLeaves: req.TotalLeaves - req.UsedLeaves,
		RTTBalance:      req.RTTBalance,
		CPPBalance:      req.CPPBalance,
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("set balance persist failed",
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	s.logger.Info("set balance success",
		zap.String("employee_id", id),
		zap.Float64("total_leaves", req.TotalLeaves),
	)
	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}
	return s.repo.Delete(ctx, id)
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         e.ID.String(),
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Role:       e.Role,
		Department: e.Department,
		Position:   e.Position,
		IsActive:   e.IsActive,
		Balance: BalanceResponse{
			TotalLeaves:     e.Balance.TotalLeaves,
			UsedLeaves:      e.Balance.UsedLeaves,
			AvailableLeaves: e.Balance.AvailableLeaves,
			RTTBalance:      e.Balance.RTTBalance,
			CPPBalance:      e.Balance.CPPBalance,
		},
	}
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		resp.ManagerID = &v
	}
	if e.TeamID != nil {
		v := e.TeamID.String()
		resp.TeamID = &v
	}
	return resp
}
