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
	"github.com/campus-eco/ecopledge-service/internal/repository"
	apperrors "github.com/campus-eco/ecopledge-service/pkg/util"
)

// PromoService coordinates promo code administration and claims.
type PromoService struct {
	promos      repository.PromoCodeRepository
	users       repository.UserRepository
	audit       repository.AuditLogRepository
	leaderboard *LeaderboardService
	dispatcher  events.Dispatcher
}

// NewPromoService builds the service.
func NewPromoService(
	promos repository.PromoCodeRepository,
	users repository.UserRepository,
	audit repository.AuditLogRepository,
	leaderboard *LeaderboardService,
	dispatcher events.Dispatcher,
) *PromoService {
	return &PromoService{
		promos:      promos,
		users:       users,
		audit:       audit,
		leaderboard: leaderboard,
		dispatcher:  dispatcher,
	}
}

// Claim grants the code's points to the user. Each user may claim a
// given code once; the claims table enforces that.
func (s *PromoService) Claim(ctx context.Context, userID, code string) (int64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, apperrors.NewValidationError("promo code required", nil)
	}

	promo, err := s.promos.GetByCode(ctx, code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, apperrors.NewNotFound("promo code", nil)
		}
		return 0, apperrors.MapError(err)
	}
	if !promo.Claimable(time.Now()) {
		return 0, apperrors.NewUnprocessable("PROMO_UNAVAILABLE", "promo code is no longer claimable")
	}

	if err := s.promos.RecordClaim(ctx, promo.ID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrPromoAlreadyClaimed):
			return 0, apperrors.NewConflict("promo code already claimed", nil)
		case errors.Is(err, repository.ErrPromoDepleted):
			return 0, apperrors.NewUnprocessable("PROMO_UNAVAILABLE", "promo code is no longer claimable")
		default:
			return 0, apperrors.MapError(err)
		}
	}

	balance, err := s.users.AdjustPoints(ctx, userID, promo.Points)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.leaderboard.RecordPoints(ctx, userID, promo.Points)

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPromoClaimed,
			UserID:    userID,
			Timestamp: time.Now(),
			Payload: events.PromoClaimedPayload{
				PromoID: promo.ID,
				Code:    promo.Code,
				Points:  promo.Points,
			},
		})
	}

	return balance, nil
}

// Create adds a promo code.
func (s *PromoService) Create(ctx context.Context, actor Actor, promo *domain.PromoCode) error {
	promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
	if promo.Code == "" || promo.Points <= 0 {
		return apperrors.NewValidationError("code and positive points required", nil)
	}
	if err := s.promos.Create(ctx, promo); err != nil {
		return apperrors.MapError(err)
	}
	s.recordAudit(ctx, actor, "promo.create", promo.ID, map[string]any{"code": promo.Code, "points": promo.Points})
	return nil
}

// Update edits a promo code.
func (s *PromoService) Update(ctx context.Context, actor Actor, promo *domain.PromoCode) error {
	if err := s.promos.Update(ctx, promo); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("promo code", nil)
		}
		return apperrors.MapError(err)
	}
	s.recordAudit(ctx, actor, "promo.update", promo.ID, map[string]any{"active": promo.Active})
	return nil
}

// List returns codes for the admin panel.
func (s *PromoService) List(ctx context.Context, limit, offset int) ([]*domain.PromoCode, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	promos, err := s.promos.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return promos, nil
}

func (s *PromoService) recordAudit(ctx context.Context, actor Actor, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, &domain.AuditLog{
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Action:    action,
		Entity:    "promo_code",
		EntityID:  entityID,
		Meta:      meta,
	})
}
