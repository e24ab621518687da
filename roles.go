package identity

// UserRole is the user's global role
type UserRole = string

const (
	// RoleUser is the default role assigned at registration
	RoleUser UserRole = "user"
	// RoleAdmin can manage other accounts
	RoleAdmin UserRole = "admin"
)

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanManageUsers reports whether the role may call the administrative
// user endpoints (listing, activation toggling, aggregate counts).
func CanManageUsers(r UserRole) bool {
	return r == RoleAdmin
}

// ParseRole safely parses a string into a UserRole
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}
