package authz

// Module names a protected functional area of the admin panel.
type Module string

const (
	ModuleDashboard   Module = "dashboard"
	ModuleUsers       Module = "users"
	ModulePoints      Module = "points"
	ModuleRewards     Module = "rewards"
	ModuleRedemptions Module = "redemptions"
	ModulePromoCodes  Module = "promo_codes"
	ModuleDonations   Module = "donations"
	ModuleGcash       Module = "gcash"
	ModuleAuditLogs   Module = "audit_logs"
	ModuleSettings    Module = "settings"
)

// PermissionTable maps each module to the roles permitted to access it.
// The admin alias is implicit and never listed.
type PermissionTable map[Module][]Role

// DefaultPermissionTable returns the production access matrix.
func DefaultPermissionTable() PermissionTable {
	return PermissionTable{
		ModuleDashboard:   {RoleCanteenAdmin, RoleFinanceAdmin, RoleSAAdmin, RoleSuperAdmin},
		ModuleUsers:       {RoleSAAdmin, RoleSuperAdmin},
		ModulePoints:      {RoleSAAdmin, RoleSuperAdmin},
		ModuleRewards:     {RoleCanteenAdmin, RoleSAAdmin, RoleSuperAdmin},
		ModuleRedemptions: {RoleCanteenAdmin, RoleSAAdmin, RoleSuperAdmin},
		ModulePromoCodes:  {RoleSAAdmin, RoleSuperAdmin},
		ModuleDonations:   {RoleFinanceAdmin, RoleSAAdmin, RoleSuperAdmin},
		ModuleGcash:       {RoleFinanceAdmin, RoleSAAdmin, RoleSuperAdmin},
		ModuleAuditLogs:   {RoleSuperAdmin},
		ModuleSettings:    {RoleSuperAdmin},
	}
}

// Authority answers permission questions against an immutable table
// fixed at construction time. Methods are pure and safe for unbounded
// concurrent use.
type Authority struct {
	allowed map[Module]map[Role]struct{}
}

// NewAuthority builds an Authority from the given table. The table is
// copied; later mutation of the argument has no effect.
func NewAuthority(table PermissionTable) *Authority {
	allowed := make(map[Module]map[Role]struct{}, len(table))
	for module, roles := range table {
		set := make(map[Role]struct{}, len(roles))
		for _, role := range roles {
			set[Normalize(role)] = struct{}{}
		}
		allowed[module] = set
	}
	return &Authority{allowed: allowed}
}

// HasPermission reports whether role may access module. The literal
// admin alias bypasses the table unconditionally; everyone else needs a
// table entry. Unknown modules and unknown roles fail closed.
func (a *Authority) HasPermission(role Role, module Module) bool {
	if role == RoleAdmin {
		return true
	}
	set, ok := a.allowed[module]
	if !ok {
		return false
	}
	_, ok = set[Normalize(role)]
	return ok
}
