package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-eco/ecopledge-service/internal/authz"
	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/events"
	"github.com/campus-eco/ecopledge-service/internal/qrtoken"
	apperrors "github.com/campus-eco/ecopledge-service/pkg/util"
)

type rewardFixture struct {
	service     *RewardService
	users       *stubUserRepo
	rewards     *stubRewardRepo
	redemptions *stubRedemptionRepo
	audit       *stubAuditRepo
}

func newRewardFixture(t *testing.T) *rewardFixture {
	t.Helper()

	users := newStubUserRepo(&domain.User{
		ID:     "student-1",
		Name:   "Dana",
		Role:   string(authz.RoleStudent),
		Points: 500,
		Status: domain.UserStatusActive,
	})
	rewards := newStubRewardRepo(&domain.Reward{
		ID:         "tumbler",
		Name:       "Campus Tumbler",
		PointsCost: 200,
		Stock:      2,
		Active:     true,
	})
	redemptions := newStubRedemptionRepo()
	audit := &stubAuditRepo{}

	svc := NewRewardService(RewardDependencies{
		RewardRepo:     rewards,
		RedemptionRepo: redemptions,
		UserRepo:       users,
		AuditRepo:      audit,
		QRAuthority:    qrtoken.NewAuthority("test-redeem-secret", 0, 0),
		Dispatcher:     events.NewInMemoryDispatcher(),
	})

	return &rewardFixture{
		service:     svc,
		users:       users,
		rewards:     rewards,
		redemptions: redemptions,
		audit:       audit,
	}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestRedeemIssuesPendingRedemptionWithToken(t *testing.T) {
	fx := newRewardFixture(t)
	ctx := context.Background()

	redemption, encoded, err := fx.service.Redeem(ctx, "student-1", "tumbler")
	require.NoError(t, err)
	require.NotNil(t, redemption)
	assert.Equal(t, domain.RedemptionStatusPending, redemption.Status)
	assert.NotEmpty(t, redemption.Code)
	assert.NotEmpty(t, encoded)

	user, err := fx.users.GetByID(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, int64(300), user.Points)

	reward, err := fx.rewards.GetByID(ctx, "tumbler")
	require.NoError(t, err)
	assert.Equal(t, 1, reward.Stock)
}

func TestRedeemInsufficientPoints(t *testing.T) {
	fx := newRewardFixture(t)
	fx.users.users["student-1"].Points = 50

	_, _, err := fx.service.Redeem(context.Background(), "student-1", "tumbler")
	assert.Equal(t, "INSUFFICIENT_POINTS", domainCode(t, err))
}

func TestRedeemOutOfStockRefundsPoints(t *testing.T) {
	fx := newRewardFixture(t)
	fx.rewards.rewards["tumbler"].Stock = 0
	ctx := context.Background()

	_, _, err := fx.service.Redeem(ctx, "student-1", "tumbler")
	assert.Equal(t, "OUT_OF_STOCK", domainCode(t, err))

	// The deduction is rolled back when stock runs out.
	user, err := fx.users.GetByID(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), user.Points)
}

func TestVerifyRedemptionHappyPath(t *testing.T) {
	fx := newRewardFixture(t)
	ctx := context.Background()
	verifier := Actor{ID: "canteen-1", Role: authz.RoleCanteenAdmin}

	redemption, encoded, err := fx.service.Redeem(ctx, "student-1", "tumbler")
	require.NoError(t, err)

	verified, err := fx.service.VerifyRedemption(ctx, verifier, encoded)
	require.NoError(t, err)
	assert.Equal(t, redemption.ID, verified.ID)
	assert.Equal(t, domain.RedemptionStatusVerified, verified.Status)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, "canteen-1", *verified.VerifiedBy)

	entries, err := fx.audit.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "redemption.verify", entries[0].Action)
}

func TestVerifyRedemptionReplayConflicts(t *testing.T) {
	fx := newRewardFixture(t)
	ctx := context.Background()
	verifier := Actor{ID: "canteen-1", Role: authz.RoleCanteenAdmin}

	_, encoded, err := fx.service.Redeem(ctx, "student-1", "tumbler")
	require.NoError(t, err)

	_, err = fx.service.VerifyRedemption(ctx, verifier, encoded)
	require.NoError(t, err)

	// Presenting the same token a second time must not double-dispense.
	_, err = fx.service.VerifyRedemption(ctx, verifier, encoded)
	assert.Equal(t, "CONFLICT", domainCode(t, err))
}

func TestVerifyRedemptionTamperedToken(t *testing.T) {
	fx := newRewardFixture(t)
	ctx := context.Background()
	verifier := Actor{ID: "canteen-1", Role: authz.RoleCanteenAdmin}

	_, encoded, err := fx.service.Redeem(ctx, "student-1", "tumbler")
	require.NoError(t, err)

	forged := qrtoken.NewAuthority("wrong-secret", 0, 0)
	token, verifyErr := forged.Verify(encoded)
	assert.Nil(t, token)
	require.Error(t, verifyErr)

	tampered := []byte(encoded)
	tampered[len(tampered)/2] ^= 0x01
	_, err = fx.service.VerifyRedemption(ctx, verifier, string(tampered))
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Contains(t, []string{"FORBIDDEN", "VALIDATION_FAILED"}, de.Code)
}

func TestRefreshTokenRequiresOwnership(t *testing.T) {
	fx := newRewardFixture(t)
	ctx := context.Background()

	redemption, _, err := fx.service.Redeem(ctx, "student-1", "tumbler")
	require.NoError(t, err)

	_, err = fx.service.RefreshToken(ctx, "someone-else", redemption.ID)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	encoded, err := fx.service.RefreshToken(ctx, "student-1", redemption.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)
}

func TestRefreshTokenRejectsResolvedRedemption(t *testing.T) {
	fx := newRewardFixture(t)
	ctx := context.Background()
	verifier := Actor{ID: "canteen-1", Role: authz.RoleCanteenAdmin}

	redemption, encoded, err := fx.service.Redeem(ctx, "student-1", "tumbler")
	require.NoError(t, err)
	_, err = fx.service.VerifyRedemption(ctx, verifier, encoded)
	require.NoError(t, err)

	_, err = fx.service.RefreshToken(ctx, "student-1", redemption.ID)
	assert.Equal(t, "CONFLICT", domainCode(t, err))
}
