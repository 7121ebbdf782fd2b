package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/events"
	"github.com/campus-eco/ecopledge-service/internal/qrtoken"
	"github.com/campus-eco/ecopledge-service/internal/repository"
	apperrors "github.com/campus-eco/ecopledge-service/pkg/util"
)

// RewardService coordinates the reward catalog and the redemption flow,
// including QR token issuance and in-person verification.
type RewardService struct {
	rewards     repository.RewardRepository
	redemptions repository.RedemptionRepository
	users       repository.UserRepository
	audit       repository.AuditLogRepository
	qr          *qrtoken.Authority
	dispatcher  events.Dispatcher
}

// RewardDependencies bundles repositories for the reward service.
type RewardDependencies struct {
	RewardRepo     repository.RewardRepository
	RedemptionRepo repository.RedemptionRepository
	UserRepo       repository.UserRepository
	AuditRepo      repository.AuditLogRepository
	QRAuthority    *qrtoken.Authority
	Dispatcher     events.Dispatcher
}

// NewRewardService builds the service.
func NewRewardService(deps RewardDependencies) *RewardService {
	return &RewardService{
		rewards:     deps.RewardRepo,
		redemptions: deps.RedemptionRepo,
		users:       deps.UserRepo,
		audit:       deps.AuditRepo,
		qr:          deps.QRAuthority,
		dispatcher:  deps.Dispatcher,
	}
}

// Catalog lists redeemable rewards.
func (s *RewardService) Catalog(ctx context.Context) ([]*domain.Reward, error) {
	rewards, err := s.rewards.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rewards, nil
}

// Redeem deducts the reward cost, creates a pending redemption and
// returns it together with the signed QR payload the holder presents at
// pickup.
func (s *RewardService) Redeem(ctx context.Context, userID, rewardID string) (*domain.Redemption, string, error) {
	reward, err := s.rewards.GetByID(ctx, rewardID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", apperrors.NewNotFound("reward", nil)
		}
		return nil, "", apperrors.MapError(err)
	}
	if !reward.Active {
		return nil, "", apperrors.NewUnprocessable("REWARD_INACTIVE", "reward is not available")
	}

	if _, err := s.users.AdjustPoints(ctx, userID, -reward.PointsCost); err != nil {
		if errors.Is(err, repository.ErrInsufficientPoints) {
			return nil, "", apperrors.NewUnprocessable("INSUFFICIENT_POINTS", "not enough points for this reward")
		}
		return nil, "", apperrors.MapError(err)
	}

	if err := s.rewards.DecrementStock(ctx, rewardID); err != nil {
		// Give the points back before reporting failure.
		_, _ = s.users.AdjustPoints(ctx, userID, reward.PointsCost)
		if errors.Is(err, repository.ErrOutOfStock) {
			return nil, "", apperrors.NewUnprocessable("OUT_OF_STOCK", "reward is out of stock")
		}
		return nil, "", apperrors.MapError(err)
	}

	redemption := &domain.Redemption{
		Code:       generateRedemptionCode(),
		UserID:     userID,
		RewardID:   rewardID,
		PointsCost: reward.PointsCost,
		Status:     domain.RedemptionStatusPending,
	}
	if err := s.redemptions.Create(ctx, redemption); err != nil {
		_, _ = s.users.AdjustPoints(ctx, userID, reward.PointsCost)
		_ = s.rewards.IncrementStock(ctx, rewardID)
		return nil, "", apperrors.MapError(err)
	}

	encoded, err := s.qr.Generate(redemption.ID, redemption.Code, userID, rewardID)
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}

	s.publish(ctx, events.EventRedemptionRequested, userID, events.RedemptionRequestedPayload{
		RedemptionID: redemption.ID,
		RewardID:     rewardID,
		PointsCost:   reward.PointsCost,
	})

	return redemption, encoded, nil
}

// RefreshToken issues a fresh QR payload for a still-pending redemption
// owned by the caller. Clients call this when NeedsRefresh trips.
func (s *RewardService) RefreshToken(ctx context.Context, userID, redemptionID string) (string, error) {
	redemption, err := s.redemptions.GetByID(ctx, redemptionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.NewNotFound("redemption", nil)
		}
		return "", apperrors.MapError(err)
	}
	if redemption.UserID != userID {
		return "", apperrors.NewForbidden("redemption belongs to another user")
	}
	if redemption.Status != domain.RedemptionStatusPending {
		return "", apperrors.NewConflict("redemption already resolved", nil)
	}

	encoded, err := s.qr.Generate(redemption.ID, redemption.Code, redemption.UserID, redemption.RewardID)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	return encoded, nil
}

// NeedsRefresh probes whether the presented payload should be
// regenerated. Never a security decision.
func (s *RewardService) NeedsRefresh(encoded string) bool {
	return s.qr.NeedsRefresh(encoded)
}

// VerifyRedemption is the in-person verification step. The token is
// cryptographically checked first, then matched against the persisted
// redemption, then the pending->verified flip consumes the record. A
// replayed token fails on that final flip.
func (s *RewardService) VerifyRedemption(ctx context.Context, actor Actor, encoded string) (*domain.Redemption, error) {
	token, err := s.qr.Verify(encoded)
	if err != nil {
		return nil, mapTokenError(err)
	}

	redemption, err := s.redemptions.GetByID(ctx, token.RedemptionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("redemption", nil)
		}
		return nil, apperrors.MapError(err)
	}

	// The signature already proves integrity; this guards against a
	// token signed for a different record that shares an ID prefix or a
	// regenerated code.
	if redemption.Code != token.RedemptionCode ||
		redemption.UserID != token.UserID ||
		redemption.RewardID != token.RewardID {
		return nil, apperrors.NewUnprocessable("QR_RECORD_MISMATCH", "code does not match the redemption record")
	}

	if err := s.redemptions.MarkVerified(ctx, redemption.ID, actor.ID); err != nil {
		if errors.Is(err, repository.ErrRedemptionNotPending) {
			return nil, apperrors.NewConflict("redemption already verified or cancelled", nil)
		}
		return nil, apperrors.MapError(err)
	}
	redemption.Status = domain.RedemptionStatusVerified
	redemption.VerifiedBy = &actor.ID

	s.recordAudit(ctx, actor, "redemption.verify", "redemption", redemption.ID, map[string]any{
		"user_id":   redemption.UserID,
		"reward_id": redemption.RewardID,
	})
	s.publish(ctx, events.EventRedemptionVerified, redemption.UserID, events.RedemptionVerifiedPayload{
		RedemptionID: redemption.ID,
		RewardID:     redemption.RewardID,
		VerifierID:   actor.ID,
	})

	return redemption, nil
}

// UserRedemptions lists the caller's redemption history.
func (s *RewardService) UserRedemptions(ctx context.Context, userID string, limit, offset int) ([]*domain.Redemption, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	redemptions, err := s.redemptions.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return redemptions, nil
}

// PendingRedemptions lists unverified claims for the admin panel.
func (s *RewardService) PendingRedemptions(ctx context.Context, limit, offset int) ([]*domain.Redemption, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	redemptions, err := s.redemptions.ListByStatus(ctx, domain.RedemptionStatusPending, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return redemptions, nil
}

// CreateReward adds a catalog item.
func (s *RewardService) CreateReward(ctx context.Context, actor Actor, reward *domain.Reward) error {
	if reward.Name == "" || reward.PointsCost <= 0 {
		return apperrors.NewValidationError("name and positive points_cost required", nil)
	}
	if err := s.rewards.Create(ctx, reward); err != nil {
		return apperrors.MapError(err)
	}
	s.recordAudit(ctx, actor, "reward.create", "reward", reward.ID, map[string]any{"name": reward.Name})
	return nil
}

// UpdateReward edits a catalog item.
func (s *RewardService) UpdateReward(ctx context.Context, actor Actor, reward *domain.Reward) error {
	if err := s.rewards.Update(ctx, reward); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("reward", nil)
		}
		return apperrors.MapError(err)
	}
	s.recordAudit(ctx, actor, "reward.update", "reward", reward.ID, map[string]any{"name": reward.Name})
	return nil
}

// AllRewards lists the full catalog for the admin panel.
func (s *RewardService) AllRewards(ctx context.Context, limit, offset int) ([]*domain.Reward, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rewards, err := s.rewards.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rewards, nil
}

// mapTokenError surfaces each verification failure kind distinctly so
// the client can tell "regenerate your code" apart from "code invalid".
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, qrtoken.ErrMalformedFormat):
		return apperrors.NewValidationError("QR code not readable", map[string]any{"kind": "malformed"})
	case errors.Is(err, qrtoken.ErrMissingFields):
		return apperrors.NewValidationError("QR code incomplete", map[string]any{"kind": "missing_fields"})
	case errors.Is(err, qrtoken.ErrUnsupportedVersion):
		return apperrors.NewValidationError("QR code format not supported", map[string]any{"kind": "unsupported_version"})
	case errors.Is(err, qrtoken.ErrExpired):
		return apperrors.NewUnprocessable("QR_EXPIRED", "QR code expired; ask the holder to regenerate it")
	case errors.Is(err, qrtoken.ErrClockSkew):
		return apperrors.NewUnprocessable("QR_CLOCK_SKEW", "QR code timestamp is in the future")
	case errors.Is(err, qrtoken.ErrInvalidSignature):
		return apperrors.NewForbidden("QR code signature invalid")
	default:
		return apperrors.MapError(err)
	}
}

func generateRedemptionCode() string {
	return "RDM-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *RewardService) recordAudit(ctx context.Context, actor Actor, action, entity, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, &domain.AuditLog{
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Meta:      meta,
	})
}

func (s *RewardService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
