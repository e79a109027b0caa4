package leave_test

import (
	"context"
	"testing"

	"hrportal/internal/catalog"
	"hrportal/internal/employee"
	"hrportal/internal/leave"
	leaveerrors "hrportal/internal/leave/errors"
	"hrportal/internal/rbac"
	"hrportal/internal/team"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeDirectory struct {
	findByIDFn                func(ctx context.Context, id string) (*employee.Employee, error)
	findNewestActiveByRolesFn func(ctx context.Context, roles []string) (*employee.Employee, error)
}

func (f *fakeEmployeeDirectory) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeDirectory) FindNewestActiveByRoles(ctx context.Context, roles []string) (*employee.Employee, error) {
	if f.findNewestActiveByRolesFn != nil {
		return f.findNewestActiveByRolesFn(ctx, roles)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeTeamDirectory struct {
	findByIDFn func(ctx context.Context, id string) (*team.Team, error)
}

func (f *fakeTeamDirectory) FindByID(ctx context.Context, id string) (*team.Team, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func TestApproverResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("success exceptional leave goes to hr", func(t *testing.T) {
		hrID := uuid.New()
		employees := &fakeEmployeeDirectory{
			findNewestActiveByRolesFn: func(ctx context.Context, roles []string) (*employee.Employee, error) {
				assert.Equal(t, []string{rbac.RoleHR}, roles)
				return &employee.Employee{ID: hrID, Role: rbac.RoleHR, IsActive: true}, nil
			},
		}
		resolver := leave.NewApproverResolver(employees, &fakeTeamDirectory{})

		managerID := uuid.New()
		emp := &employee.Employee{ID: uuid.New(), ManagerID: &managerID}

		approverID, err := resolver.Resolve(ctx, emp, catalog.SubFamille, "")
		assert.NoError(t, err)
		assert.Equal(t, hrID.String(), approverID)
	})

	t.Run("success explicit designation wins over every rule", func(t *testing.T) {
		designatedID := uuid.New()
		employees := &fakeEmployeeDirectory{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				assert.Equal(t, designatedID.String(), id)
				return &employee.Employee{ID: designatedID, Role: rbac.RoleManager, IsActive: true}, nil
			},
		}
		resolver := leave.NewApproverResolver(employees, &fakeTeamDirectory{})

		managerID := uuid.New()
		emp := &employee.Employee{ID: uuid.New(), ManagerID: &managerID}

		approverID, err := resolver.Resolve(ctx, emp, catalog.SubRTT, designatedID.String())
		assert.NoError(t, err)
		assert.Equal(t, designatedID.String(), approverID)
	})

	t.Run("negative unknown designated approver", func(t *testing.T) {
		resolver := leave.NewApproverResolver(&fakeEmployeeDirectory{}, &fakeTeamDirectory{})

		emp := &employee.Employee{ID: uuid.New()}

		_, err := resolver.Resolve(ctx, emp, catalog.SubRTT, uuid.NewString())
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidApproverID)
	})

	t.Run("negative inactive designated approver", func(t *testing.T) {
		designatedID := uuid.New()
		employees := &fakeEmployeeDirectory{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return &employee.Employee{ID: designatedID, Role: rbac.RoleManager, IsActive: false}, nil
			},
		}
		resolver := leave.NewApproverResolver(employees, &fakeTeamDirectory{})

		emp := &employee.Employee{ID: uuid.New()}

		_, err := resolver.Resolve(ctx, emp, catalog.SubRTT, designatedID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidApproverID)
	})

	t.Run("negative employee designated as their own approver", func(t *testing.T) {
		empID := uuid.New()
		employees := &fakeEmployeeDirectory{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return &employee.Employee{ID: empID, Role: rbac.RoleEmployee, IsActive: true}, nil
			},
		}
		resolver := leave.NewApproverResolver(employees, &fakeTeamDirectory{})

		emp := &employee.Employee{ID: empID}

		_, err := resolver.Resolve(ctx, emp, catalog.SubRTT, empID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidApproverID)
	})

	t.Run("success exceptional without hr falls back to direct manager", func(t *testing.T) {
		employees := &fakeEmployeeDirectory{}
		resolver := leave.NewApproverResolver(employees, &fakeTeamDirectory{})

		managerID := uuid.New()
		emp := &employee.Employee{ID: uuid.New(), ManagerID: &managerID}

		approverID, err := resolver.Resolve(ctx, emp, catalog.SubFamille, "")
		assert.NoError(t, err)
		assert.Equal(t, managerID.String(), approverID)
	})

	t.Run("success regular leave goes to direct manager", func(t *testing.T) {
		resolver := leave.NewApproverResolver(&fakeEmployeeDirectory{}, &fakeTeamDirectory{})

		managerID := uuid.New()
		emp := &employee.Employee{ID: uuid.New(), ManagerID: &managerID}

		approverID, err := resolver.Resolve(ctx, emp, catalog.SubRTT, "")
		assert.NoError(t, err)
		assert.Equal(t, managerID.String(), approverID)
	})

	t.Run("success team manager when no direct manager", func(t *testing.T) {
		teamID := uuid.New()
		teamManagerID := uuid.New()
		teams := &fakeTeamDirectory{
			findByIDFn: func(ctx context.Context, id string) (*team.Team, error) {
				assert.Equal(t, teamID.String(), id)
				return &team.Team{ID: teamID, ManagerID: teamManagerID}, nil
			},
		}
		resolver := leave.NewApproverResolver(&fakeEmployeeDirectory{}, teams)

		emp := &employee.Employee{ID: uuid.New(), TeamID: &teamID}

		approverID, err := resolver.Resolve(ctx, emp, catalog.SubRTT, "")
		assert.NoError(t, err)
		assert.Equal(t, teamManagerID.String(), approverID)
	})

	t.Run("success fallback to newest active supervisor", func(t *testing.T) {
		fallbackID := uuid.New()
		employees := &fakeEmployeeDirectory{
			findNewestActiveByRolesFn: func(ctx context.Context, roles []string) (*employee.Employee, error) {
				assert.Equal(t, []string{rbac.RoleHR, rbac.RoleManager, rbac.RoleAdmin}, roles)
				return &employee.Employee{ID: fallbackID, Role: rbac.RoleManager, IsActive: true}, nil
			},
		}
		resolver := leave.NewApproverResolver(employees, &fakeTeamDirectory{})

		emp := &employee.Employee{ID: uuid.New()}

		approverID, err := resolver.Resolve(ctx, emp, catalog.SubCPP, "")
		assert.NoError(t, err)
		assert.Equal(t, fallbackID.String(), approverID)
	})

	t.Run("negative nobody can approve", func(t *testing.T) {
		resolver := leave.NewApproverResolver(&fakeEmployeeDirectory{}, &fakeTeamDirectory{})

		emp := &employee.Employee{ID: uuid.New()}

		_, err := resolver.Resolve(ctx, emp, catalog.SubRTT, "")
		assert.ErrorIs(t, err, leaveerrors.ErrNoApproverFound)
	})

	t.Run("negative fallback resolves to requester", func(t *testing.T) {
		empID := uuid.New()
		employees := &fakeEmployeeDirectory{
			findNewestActiveByRolesFn: func(ctx context.Context, roles []string) (*employee.Employee, error) {
				return &employee.Employee{ID: empID, Role: rbac.RoleManager, IsActive: true}, nil
			},
		}
		resolver := leave.NewApproverResolver(employees, &fakeTeamDirectory{})

		emp := &employee.Employee{ID: empID}

		_, err := resolver.Resolve(ctx, emp, catalog.SubRTT, "")
		assert.ErrorIs(t, err, leaveerrors.ErrNoApproverFound)
	})
}
