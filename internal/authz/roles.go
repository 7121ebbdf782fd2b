package authz

// Role identifies a principal's capability class. Values are stored in
// the database as plain strings; everything here works on the typed form.
type Role string

const (
	RoleStudent      Role = "student"
	RoleEmployee     Role = "employee"
	RoleGuest        Role = "guest"
	RoleCanteenAdmin Role = "canteen_admin"
	RoleFinanceAdmin Role = "finance_admin"
	RoleSAAdmin      Role = "sa_admin"
	RoleSuperAdmin   Role = "super_admin"

	// RoleAdmin is a legacy alias that must behave as super_admin for
	// every decision, with one extra property: it bypasses the module
	// permission table entirely.
	RoleAdmin Role = "admin"
)

// roleOrder is the total capability ordering. Index is the ordinal used
// for tier comparisons; unknown roles compare as -1.
var roleOrder = []Role{
	RoleStudent,
	RoleEmployee,
	RoleGuest,
	RoleCanteenAdmin,
	RoleFinanceAdmin,
	RoleSAAdmin,
	RoleSuperAdmin,
}

// canteen_admin is the lowest admin tier.
var firstAdminOrdinal = ordinal(RoleCanteenAdmin)

// Normalize maps the admin alias to super_admin. All other values pass
// through unchanged, including unknown ones.
func Normalize(role Role) Role {
	if role == RoleAdmin {
		return RoleSuperAdmin
	}
	return role
}

func ordinal(role Role) int {
	for i, r := range roleOrder {
		if r == role {
			return i
		}
	}
	return -1
}

// IsAdmin reports whether the role sits at or above the canteen_admin
// tier. Unknown roles are never admins.
func IsAdmin(role Role) bool {
	return ordinal(Normalize(role)) >= firstAdminOrdinal
}

// CanManageRole decides whether an actor holding manager may modify an
// account holding target (role changes, bans, point adjustments).
//
// super_admin manages every known tier except another super_admin, so
// super admins can never demote or lock each other out. Every other
// manager needs a strictly higher ordinal than the target; peers never
// manage peers. An unknown target role is rejected outright rather than
// treated as the lowest tier, so a mistyped role string cannot leave an
// account manageable by everyone.
func CanManageRole(manager, target Role) bool {
	m := Normalize(manager)
	t := Normalize(target)

	mo := ordinal(m)
	to := ordinal(t)
	if mo < 0 || to < 0 {
		return false
	}

	if m == RoleSuperAdmin {
		return t != RoleSuperAdmin
	}
	return mo > to
}
