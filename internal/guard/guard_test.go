package guard_test

import (
	"testing"

	"go-leave/internal/guard"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	t.Run("success known roles", func(t *testing.T) {
		for _, s := range []string{"admin", "employee", "manager"} {
			role, ok := guard.ParseRole(s)
			assert.True(t, ok)
			assert.Equal(t, s, string(role))
		}
	})

	t.Run("negative unknown role", func(t *testing.T) {
		_, ok := guard.ParseRole("superuser")
		assert.False(t, ok)

		_, ok = guard.ParseRole("")
		assert.False(t, ok)
	})
}

func TestAllowed(t *testing.T) {
	cases := []struct {
		name string
		role guard.Role
		cap  guard.Capability
		want bool
	}{
		{"admin manages employees", guard.RoleAdmin, guard.CapManageEmployees, true},
		{"admin allocates balance", guard.RoleAdmin, guard.CapAllocateBalance, true},
		{"admin reads any leave", guard.RoleAdmin, guard.CapReadAnyLeave, true},
		{"admin reads audit log", guard.RoleAdmin, guard.CapReadAuditLog, true},
		{"admin cannot submit leave", guard.RoleAdmin, guard.CapSubmitLeave, false},
		{"admin cannot decide leave", guard.RoleAdmin, guard.CapDecideLeave, false},

		{"employee submits leave", guard.RoleEmployee, guard.CapSubmitLeave, true},
		{"employee reads own leaves", guard.RoleEmployee, guard.CapReadOwnLeaves, true},
		{"employee reads own balance", guard.RoleEmployee, guard.CapReadOwnBalance, true},
		{"employee reads leave types", guard.RoleEmployee, guard.CapReadLeaveTypes, true},
		{"employee cannot decide leave", guard.RoleEmployee, guard.CapDecideLeave, false},
		{"employee cannot read any leave", guard.RoleEmployee, guard.CapReadAnyLeave, false},
		{"employee cannot allocate balance", guard.RoleEmployee, guard.CapAllocateBalance, false},
		{"employee cannot read audit log", guard.RoleEmployee, guard.CapReadAuditLog, false},

		{"manager lists pending", guard.RoleManager, guard.CapListPending, true},
		{"manager decides leave", guard.RoleManager, guard.CapDecideLeave, true},
		{"manager reads approvals", guard.RoleManager, guard.CapReadApprovals, true},
		{"manager cannot submit leave", guard.RoleManager, guard.CapSubmitLeave, false},
		{"manager cannot manage employees", guard.RoleManager, guard.CapManageEmployees, false},
		{"manager cannot allocate balance", guard.RoleManager, guard.CapAllocateBalance, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, guard.Allowed(tc.role, tc.cap))
		})
	}
}

func TestPrincipalOwns(t *testing.T) {
	t.Run("employee owns own id only", func(t *testing.T) {
		p := guard.Principal{ID: 7, Role: guard.RoleEmployee}
		assert.True(t, p.Owns(7))
		assert.False(t, p.Owns(8))
	})

	t.Run("negative non-employee never owns", func(t *testing.T) {
		admin := guard.Principal{ID: 7, Role: guard.RoleAdmin}
		manager := guard.Principal{ID: 7, Role: guard.RoleManager}
		assert.False(t, admin.Owns(7))
		assert.False(t, manager.Owns(7))
	})
}
