package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-eco/ecopledge-service/internal/authz"
	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/events"
)

func newAdminFixture() (*AdminService, *stubUserRepo, *stubAuditRepo) {
	users := newStubUserRepo(
		&domain.User{ID: "student-1", Role: string(authz.RoleStudent), Points: 100, Status: domain.UserStatusActive},
		&domain.User{ID: "sa-1", Role: string(authz.RoleSAAdmin), Status: domain.UserStatusActive},
		&domain.User{ID: "super-1", Role: string(authz.RoleSuperAdmin), Status: domain.UserStatusActive},
	)
	audit := &stubAuditRepo{}
	leaderboard := NewLeaderboardService(nil, users, zap.NewNop())
	svc := NewAdminService(users, audit, leaderboard, events.NewInMemoryDispatcher())
	return svc, users, audit
}

func TestChangeRoleWithinTier(t *testing.T) {
	svc, _, audit := newAdminFixture()
	actor := Actor{ID: "sa-1", Role: authz.RoleSAAdmin}

	updated, err := svc.ChangeRole(context.Background(), actor, "student-1", string(authz.RoleCanteenAdmin))
	require.NoError(t, err)
	assert.Equal(t, string(authz.RoleCanteenAdmin), updated.Role)

	entries, err := audit.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user.change_role", entries[0].Action)
}

func TestChangeRoleCannotGrantOwnTier(t *testing.T) {
	svc, users, _ := newAdminFixture()
	actor := Actor{ID: "sa-1", Role: authz.RoleSAAdmin}

	_, err := svc.ChangeRole(context.Background(), actor, "student-1", string(authz.RoleSAAdmin))
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	target, err := users.GetByID(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, string(authz.RoleStudent), target.Role)
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newAdminFixture()
	actor := Actor{ID: "super-1", Role: authz.RoleSuperAdmin}

	_, err := svc.ChangeRole(context.Background(), actor, "student-1", "warlord")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestSetBannedRequiresHigherTier(t *testing.T) {
	svc, _, _ := newAdminFixture()

	// A superior cannot be banned by a lower tier.
	_, err := svc.SetBanned(context.Background(), Actor{ID: "sa-1", Role: authz.RoleSAAdmin}, "super-1", true)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	// Nor can super admins act on each other.
	_, err = svc.SetBanned(context.Background(), Actor{ID: "super-1", Role: authz.RoleSuperAdmin}, "super-1", true)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	banned, err := svc.SetBanned(context.Background(), Actor{ID: "super-1", Role: authz.RoleSuperAdmin}, "sa-1", true)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusBanned, banned.Status)
}

func TestAdjustPointsGuardsBalance(t *testing.T) {
	svc, users, _ := newAdminFixture()
	actor := Actor{ID: "super-1", Role: authz.RoleSuperAdmin}
	ctx := context.Background()

	balance, err := svc.AdjustPoints(ctx, actor, "student-1", 50, "cleanup drive bonus")
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance)

	_, err = svc.AdjustPoints(ctx, actor, "student-1", -10_000, "typo")
	assert.Equal(t, "INSUFFICIENT_POINTS", domainCode(t, err))

	target, err := users.GetByID(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), target.Points)
}
