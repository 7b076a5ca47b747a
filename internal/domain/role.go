package domain

import "fmt"

// Role is the closed set of account roles. Every state-mutating operation is
// gated by exactly one required role; new roles are a compile-time change.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleDCA      Role = "DCA"
	RoleExporter Role = "EXPORTER"
	RoleImporter Role = "IMPORTER"
)

// ParseRole validates a raw string against the closed role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDCA, RoleExporter, RoleImporter:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", s, ErrValidation)
	}
}

// IsTrader reports whether the role is a self-service trade account
// (EXPORTER or IMPORTER). Traders only ever see their own records.
func (r Role) IsTrader() bool {
	return r == RoleExporter || r == RoleImporter
}

// SeesAllApplications reports whether the role has portal-wide read scope.
func (r Role) SeesAllApplications() bool {
	return r == RoleDCA || r == RoleAdmin
}
