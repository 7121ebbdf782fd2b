package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-eco/ecopledge-service/internal/authz"
	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/events"
	"github.com/campus-eco/ecopledge-service/internal/repository"
	apperrors "github.com/campus-eco/ecopledge-service/pkg/util"
)

// AdminService coordinates account administration: role changes, bans
// and point adjustments. Every mutation re-checks the tier rules against
// the target's current role and writes an audit entry after succeeding.
type AdminService struct {
	users       repository.UserRepository
	audit       repository.AuditLogRepository
	leaderboard *LeaderboardService
	dispatcher  events.Dispatcher
}

// NewAdminService builds the service.
func NewAdminService(
	users repository.UserRepository,
	audit repository.AuditLogRepository,
	leaderboard *LeaderboardService,
	dispatcher events.Dispatcher,
) *AdminService {
	return &AdminService{
		users:       users,
		audit:       audit,
		leaderboard: leaderboard,
		dispatcher:  dispatcher,
	}
}

// ListUsers returns accounts for the admin panel.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ChangeRole reassigns the target's role. The actor must outrank both
// the target's current role and the role being granted, so an admin can
// neither demote a superior nor promote someone past their own tier.
func (s *AdminService) ChangeRole(ctx context.Context, actor Actor, targetID, newRole string) (*domain.User, error) {
	target, err := s.loadManageableTarget(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageRole(actor.Role, authz.Role(newRole)) {
		return nil, apperrors.NewForbidden("cannot grant a role at or above your own tier")
	}

	if err := s.users.UpdateRole(ctx, targetID, newRole); err != nil {
		return nil, apperrors.MapError(err)
	}
	previous := target.Role
	target.Role = newRole

	s.recordAudit(ctx, actor, "user.change_role", targetID, map[string]any{
		"from": previous,
		"to":   newRole,
	})
	return target, nil
}

// SetBanned bans or reinstates the target account.
func (s *AdminService) SetBanned(ctx context.Context, actor Actor, targetID string, banned bool) (*domain.User, error) {
	target, err := s.loadManageableTarget(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	status := domain.UserStatusActive
	action := "user.unban"
	if banned {
		status = domain.UserStatusBanned
		action = "user.ban"
	}
	if err := s.users.UpdateStatus(ctx, targetID, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	target.Status = status

	s.recordAudit(ctx, actor, action, targetID, nil)
	return target, nil
}

// AdjustPoints applies a manual point correction to the target account.
func (s *AdminService) AdjustPoints(ctx context.Context, actor Actor, targetID string, delta int64, reason string) (int64, error) {
	if delta == 0 {
		return 0, apperrors.NewValidationError("delta must be non-zero", nil)
	}
	if _, err := s.loadManageableTarget(ctx, actor, targetID); err != nil {
		return 0, err
	}

	balance, err := s.users.AdjustPoints(ctx, targetID, delta)
	if err != nil {
		if err == repository.ErrInsufficientPoints {
			return 0, apperrors.NewUnprocessable("INSUFFICIENT_POINTS", "adjustment would make balance negative")
		}
		return 0, apperrors.MapError(err)
	}
	s.leaderboard.RecordPoints(ctx, targetID, delta)

	s.recordAudit(ctx, actor, "user.adjust_points", targetID, map[string]any{
		"delta":  delta,
		"reason": reason,
	})
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPointsAwarded,
			UserID:    targetID,
			Timestamp: time.Now(),
			Payload: events.PointsAwardedPayload{
				Delta:   delta,
				Balance: balance,
				Reason:  "admin_adjustment",
			},
		})
	}
	return balance, nil
}

// AuditTrail lists recorded admin actions, newest first.
func (s *AdminService) AuditTrail(ctx context.Context, limit, offset int) ([]*domain.AuditLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	entries, err := s.audit.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// loadManageableTarget fetches the target and applies the tier rule.
// The check runs against the role currently in the database, on every
// call, so a concurrent promotion is honored.
func (s *AdminService) loadManageableTarget(ctx context.Context, actor Actor, targetID string) (*domain.User, error) {
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !authz.CanManageRole(actor.Role, authz.Role(target.Role)) {
		return nil, apperrors.NewForbidden("target account is outside your management tier")
	}
	return target, nil
}

func (s *AdminService) recordAudit(ctx context.Context, actor Actor, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, &domain.AuditLog{
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Action:    action,
		Entity:    "user",
		EntityID:  entityID,
		Meta:      meta,
	})
}
