package enums

import "fmt"

// Role is the stable role-name vocabulary the authorization policy keys on.
// Roles are resolved by name at decision time, so these strings are a contract.
type Role string

const (
	RoleAdministrator  Role = "Administrator"
	RoleTechnician     Role = "Technician"
	RoleDepartmentHead Role = "Department Head"
)

var validRoles = []Role{
	RoleAdministrator,
	RoleTechnician,
	RoleDepartmentHead,
}

// IsValid reports whether the value matches a known role name.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
