package leave

import (
	"context"
	"errors"

	"hrportal/internal/catalog"
	"hrportal/internal/employee"
	leaveerrors "hrportal/internal/leave/errors"
	"hrportal/internal/rbac"
	"hrportal/internal/team"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeDirectory is the slice of the employee repository the resolver
// needs. Satisfied by employee.Repository.
type EmployeeDirectory interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
	FindNewestActiveByRoles(ctx context.Context, roles []string) (*employee.Employee, error)
}

// TeamDirectory is satisfied by team.Repository.
type TeamDirectory interface {
	FindByID(ctx context.Context, id string) (*team.Team, error)
}

// ApproverResolver routes a new leave request to the right approver.
// Resolution order: an explicitly designated approver, then HR for
// exceptional leave, then the direct manager, then the team's manager,
// then the newest active hr/manager/admin. A request may never exist
// without an approver.
type ApproverResolver struct {
	employees EmployeeDirectory
	teams     TeamDirectory
	logger    *zap.Logger
}

func NewApproverResolver(employees EmployeeDirectory, teams TeamDirectory, logger ...*zap.Logger) *ApproverResolver {
	l := zap.L().Named("leave.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.resolver")
	}
	return &ApproverResolver{employees: employees, teams: teams, logger: l}
}

func (r *ApproverResolver) Resolve(ctx context.Context, emp *employee.Employee, leaveType, designatedID string) (string, error) {
	// An explicit designation wins over every other rule.
	if designatedID != "" {
		designated, err := r.employees.FindByID(ctx, designatedID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", leaveerrors.ErrInvalidApproverID
			}
			return "", err
		}
		if !designated.IsActive || designated.ID == emp.ID {
			return "", leaveerrors.ErrInvalidApproverID
		}
		return designated.ID.String(), nil
	}

	// Exceptional leave goes to HR when one is available.
	if catalog.IsExceptional(leaveType) {
		hr, err := r.employees.FindNewestActiveByRoles(ctx, []string{rbac.RoleHR})
		if err == nil && hr.ID != emp.ID {
			return hr.ID.String(), nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
	}

	if emp.ManagerID != nil {
		return emp.ManagerID.String(), nil
	}

	if emp.TeamID != nil {
		t, err := r.teams.FindByID(ctx, emp.TeamID.String())
		if err == nil && t.ManagerID != emp.ID {
			return t.ManagerID.String(), nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
	}

	fallback, err := r.employees.FindNewestActiveByRoles(ctx, []string{rbac.RoleHR, rbac.RoleManager, rbac.RoleAdmin})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("no approver found",
				zap.String("employee_id", emp.ID.String()),
				zap.String("leave_type", leaveType),
			)
			return "", leaveerrors.ErrNoApproverFound
		}
		return "", err
	}
	if fallback.ID == emp.ID {
		return "", leaveerrors.ErrNoApproverFound
	}

	return fallback.ID.String(), nil
}

// CanCoApprove reports whether actorID may decide emp's regular leave
// through the employee's team, as its manager or as an active co-lead
// within the team's day ceiling.
func (r *ApproverResolver) CanCoApprove(ctx context.Context, emp *employee.Employee, actorID string, requestedDays float64) bool {
	if emp.TeamID == nil {
		return false
	}
	t, err := r.teams.FindByID(ctx, emp.TeamID.String())
	if err != nil {
		return false
	}
	return t.CanApproveLeave(actorID, requestedDays)
}

// Oversees reports whether actorID supervises emp, either as the direct
// manager or through the employee's team (manager or active co-lead).
func (r *ApproverResolver) Oversees(ctx context.Context, emp *employee.Employee, actorID string) bool {
	if emp.ManagerID != nil && emp.ManagerID.String() == actorID {
		return true
	}
	if emp.TeamID == nil {
		return false
	}
	t, err := r.teams.FindByID(ctx, emp.TeamID.String())
	if err != nil {
		return false
	}
	for _, id := range t.AvailableApprovers() {
		if id == actorID {
			return true
		}
	}
	return false
}
