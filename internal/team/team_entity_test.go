package team

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testTeam(managerID uuid.UUID) *Team {
	return &Team{
		ID:        uuid.New(),
		Name:      "Platform",
		ManagerID: managerID,
		Members: Members{
			{EmployeeID: "member-1", Role: MemberRoleMember, JoinedAt: time.Now(), IsActive: true},
			{EmployeeID: "colead-1", Role: MemberRoleCoLead, JoinedAt: time.Now(), IsActive: true},
			{EmployeeID: "colead-gone", Role: MemberRoleCoLead, JoinedAt: time.Now(), IsActive: false},
		},
		Permissions: DefaultPermissions(),
		IsActive:    true,
	}
}

func TestTeam_CanApproveLeave(t *testing.T) {
	managerID := uuid.New()
	tm := testTeam(managerID)

	t.Run("manager always approves", func(t *testing.T) {
		assert.True(t, tm.CanApproveLeave(managerID.String(), 100))
	})

	t.Run("co-lead approves within cap", func(t *testing.T) {
		assert.True(t, tm.CanApproveLeave("colead-1", 10))
	})

	t.Run("negative co-lead beyond cap", func(t *testing.T) {
		assert.False(t, tm.CanApproveLeave("colead-1", 10.5))
	})

	t.Run("negative plain member", func(t *testing.T) {
		assert.False(t, tm.CanApproveLeave("member-1", 1))
	})

	t.Run("negative inactive co-lead", func(t *testing.T) {
		assert.False(t, tm.CanApproveLeave("colead-gone", 1))
	})

	t.Run("negative team approvals disabled", func(t *testing.T) {
		tm2 := testTeam(managerID)
		tm2.Permissions.CanApproveLeaves = false
		assert.False(t, tm2.CanApproveLeave("colead-1", 1))
		// Manager is unaffected by the team switch
		assert.True(t, tm2.CanApproveLeave(managerID.String(), 1))
	})
}

func TestTeam_AvailableApprovers(t *testing.T) {
	managerID := uuid.New()
	tm := testTeam(managerID)

	approvers := tm.AvailableApprovers()
	assert.Equal(t, []string{managerID.String(), "colead-1"}, approvers)
}

func TestMembers_ScanValue(t *testing.T) {
	m := Members{{EmployeeID: "e1", Role: MemberRoleMember, IsActive: true}}

	v, err := m.Value()
	assert.NoError(t, err)

	var decoded Members
	assert.NoError(t, decoded.Scan(v))
	assert.Equal(t, m[0].EmployeeID, decoded[0].EmployeeID)

	var fromNil Members
	assert.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}
