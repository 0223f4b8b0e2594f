package guard

// Role is the closed set of principal kinds. Each actor table (admins,
// employees, managers) maps to exactly one role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleEmployee, RoleManager:
		return Role(s), true
	default:
		return "", false
	}
}

type Capability string

const (
	CapManageAdmins     Capability = "admins:manage"
	CapManageEmployees  Capability = "employees:manage"
	CapManageManagers   Capability = "managers:manage"
	CapManageLeaveTypes Capability = "leave_types:manage"
	CapReadLeaveTypes   Capability = "leave_types:read"
	CapAllocateBalance  Capability = "balances:allocate"
	CapReadAnyBalance   Capability = "balances:read_any"
	CapReadOwnBalance   Capability = "balances:read_own"
	CapSubmitLeave      Capability = "leaves:submit"
	CapReadOwnLeaves    Capability = "leaves:read_own"
	CapReadAnyLeave     Capability = "leaves:read_any"
	CapListPending      Capability = "leaves:list_pending"
	CapDecideLeave      Capability = "leaves:decide"
	CapReadApprovals    Capability = "approvals:read"
	CapReadAuditLog     Capability = "audit_logs:read"
)

// capabilities is the single source of truth for role -> capability mapping.
// Any manager may decide any pending request; there is no reporting-line
// scoping in this model.
var capabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapManageAdmins:     true,
		CapManageEmployees:  true,
		CapManageManagers:   true,
		CapManageLeaveTypes: true,
		CapReadLeaveTypes:   true,
		CapAllocateBalance:  true,
		CapReadAnyBalance:   true,
		CapReadAnyLeave:     true,
		CapReadApprovals:    true,
		CapReadAuditLog:     true,
	},
	RoleEmployee: {
		CapReadLeaveTypes: true,
		CapSubmitLeave:    true,
		CapReadOwnLeaves:  true,
		CapReadOwnBalance: true,
	},
	RoleManager: {
		CapReadLeaveTypes: true,
		CapListPending:    true,
		CapDecideLeave:    true,
		CapReadApprovals:  true,
	},
}

// Allowed reports whether role carries the capability.
func Allowed(role Role, cap Capability) bool {
	return capabilities[role][cap]
}
