package auth

import "strings"

// RoleKind is the closed set of role classes the application distinguishes.
// Stored role names are free-form strings ('super_admin', 'Super Admin');
// they get parsed into a RoleKind exactly once, at the point they are read
// from storage, so nothing downstream compares strings.
type RoleKind int

const (
	RoleStandard RoleKind = iota
	RoleAdmin
	RoleSuperAdmin
)

// Modules is the closed list of application modules permissions can refer
// to. The admin bypass grants all of these.
var Modules = []string{
	"dashboard",
	"products",
	"categories",
	"vendors",
	"customers",
	"sales",
	"purchases",
	"reports",
	"users",
	"settings",
}

// ParseRoleKind normalizes a stored role name (case, spaces, underscores,
// dashes) and maps it to a RoleKind. Anything unrecognized is a standard
// role and gets no special treatment.
func ParseRoleKind(name string) RoleKind {
	n := strings.ToLower(name)
	n = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(n)
	switch n {
	case "superadmin":
		return RoleSuperAdmin
	case "admin":
		return RoleAdmin
	default:
		return RoleStandard
	}
}

func (k RoleKind) String() string {
	switch k {
	case RoleSuperAdmin:
		return "super_admin"
	case RoleAdmin:
		return "admin"
	default:
		return "standard"
	}
}

// BypassesPermissions reports whether this role class gets every module
// unconditionally, ignoring the permission table.
func (k RoleKind) BypassesPermissions() bool {
	return k == RoleAdmin || k == RoleSuperAdmin
}
