package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleStudent, false},
		{RoleEmployee, false},
		{RoleGuest, false},
		{RoleCanteenAdmin, true},
		{RoleFinanceAdmin, true},
		{RoleSAAdmin, true},
		{RoleSuperAdmin, true},
		{RoleAdmin, true},
		{Role("moderator"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsAdmin(tt.role), "IsAdmin(%q)", tt.role)
	}
}

func TestHasPermissionAdminBypass(t *testing.T) {
	authority := NewAuthority(DefaultPermissionTable())

	modules := []Module{
		ModuleDashboard, ModuleUsers, ModulePoints, ModuleRewards,
		ModuleRedemptions, ModulePromoCodes, ModuleDonations,
		ModuleGcash, ModuleAuditLogs, ModuleSettings,
		Module("no_such_module"),
	}
	for _, m := range modules {
		assert.True(t, authority.HasPermission(RoleAdmin, m), "admin must bypass %q", m)
	}

	// The alias is the only bypass: super_admin itself fails closed on
	// unknown modules like everyone else.
	for _, r := range []Role{RoleSuperAdmin, RoleSAAdmin, RoleStudent} {
		assert.False(t, authority.HasPermission(r, Module("no_such_module")), "unknown module must deny %q", r)
	}
}

func TestHasPermissionTable(t *testing.T) {
	authority := NewAuthority(DefaultPermissionTable())

	tests := []struct {
		role   Role
		module Module
		want   bool
	}{
		{RoleCanteenAdmin, ModuleDashboard, true},
		{RoleCanteenAdmin, ModuleRewards, true},
		{RoleCanteenAdmin, ModuleRedemptions, true},
		{RoleCanteenAdmin, ModuleUsers, false},
		{RoleCanteenAdmin, ModuleDonations, false},
		{RoleCanteenAdmin, ModuleAuditLogs, false},

		{RoleFinanceAdmin, ModuleDashboard, true},
		{RoleFinanceAdmin, ModuleDonations, true},
		{RoleFinanceAdmin, ModuleGcash, true},
		{RoleFinanceAdmin, ModuleRewards, false},
		{RoleFinanceAdmin, ModuleSettings, false},

		{RoleSAAdmin, ModuleUsers, true},
		{RoleSAAdmin, ModulePoints, true},
		{RoleSAAdmin, ModulePromoCodes, true},
		{RoleSAAdmin, ModuleGcash, true},
		{RoleSAAdmin, ModuleAuditLogs, false},
		{RoleSAAdmin, ModuleSettings, false},

		{RoleSuperAdmin, ModuleAuditLogs, true},
		{RoleSuperAdmin, ModuleSettings, true},
		{RoleSuperAdmin, ModuleUsers, true},

		{RoleStudent, ModuleDashboard, false},
		{RoleEmployee, ModuleRewards, false},
		{RoleGuest, ModuleDonations, false},
		{Role("typo_admin"), ModuleDashboard, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, authority.HasPermission(tt.role, tt.module), "HasPermission(%q, %q)", tt.role, tt.module)
	}
}

func TestHasPermissionCustomTable(t *testing.T) {
	authority := NewAuthority(PermissionTable{
		ModuleRewards: {RoleStudent, RoleAdmin},
	})

	assert.True(t, authority.HasPermission(RoleStudent, ModuleRewards))
	// The alias normalizes to super_admin inside the table, so listing
	// "admin" grants super_admin membership too.
	assert.True(t, authority.HasPermission(RoleSuperAdmin, ModuleRewards))
	assert.False(t, authority.HasPermission(RoleCanteenAdmin, ModuleRewards))
	assert.False(t, authority.HasPermission(RoleStudent, ModuleDashboard))
}

func TestCanManageRole(t *testing.T) {
	tests := []struct {
		manager Role
		target  Role
		want    bool
	}{
		{RoleSuperAdmin, RoleSuperAdmin, false},
		{RoleSuperAdmin, RoleSAAdmin, true},
		{RoleSuperAdmin, RoleStudent, true},
		{RoleAdmin, RoleSAAdmin, true},
		{RoleAdmin, RoleSuperAdmin, false},
		{RoleAdmin, RoleAdmin, false},

		{RoleSAAdmin, RoleCanteenAdmin, true},
		{RoleSAAdmin, RoleFinanceAdmin, true},
		{RoleSAAdmin, RoleStudent, true},
		{RoleSAAdmin, RoleSAAdmin, false},
		{RoleSAAdmin, RoleSuperAdmin, false},

		{RoleCanteenAdmin, RoleSAAdmin, false},
		{RoleCanteenAdmin, RoleCanteenAdmin, false},
		{RoleCanteenAdmin, RoleFinanceAdmin, false},
		{RoleCanteenAdmin, RoleStudent, true},
		{RoleFinanceAdmin, RoleCanteenAdmin, false},

		{RoleStudent, RoleStudent, false},
		{RoleGuest, RoleStudent, false},

		// Unknown roles are rejected on either side: a mistyped manager
		// can manage no one, and a mistyped target is not manageable.
		{Role("mystery"), RoleStudent, false},
		{RoleSuperAdmin, Role("mystery"), false},
		{RoleSAAdmin, Role("mystery"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanManageRole(tt.manager, tt.target), "CanManageRole(%q, %q)", tt.manager, tt.target)
	}
}

func TestNormalize(t *testing.T) {
	require.Equal(t, RoleSuperAdmin, Normalize(RoleAdmin))
	require.Equal(t, RoleStudent, Normalize(RoleStudent))
	require.Equal(t, Role("mystery"), Normalize(Role("mystery")))
}

func TestDefaultPermissionTableCoversAllModules(t *testing.T) {
	table := DefaultPermissionTable()
	for _, m := range []Module{
		ModuleDashboard, ModuleUsers, ModulePoints, ModuleRewards,
		ModuleRedemptions, ModulePromoCodes, ModuleDonations,
		ModuleGcash, ModuleAuditLogs, ModuleSettings,
	} {
		_, ok := table[m]
		require.True(t, ok, "module %q missing from default table", m)
	}
	require.Len(t, table, 10)
}
