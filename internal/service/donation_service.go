package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/events"
	"github.com/campus-eco/ecopledge-service/internal/repository"
	apperrors "github.com/campus-eco/ecopledge-service/pkg/util"
)

// DonationService coordinates campaign donations and their finance
// verification.
type DonationService struct {
	donations  repository.DonationRepository
	users      repository.UserRepository
	audit      repository.AuditLogRepository
	dispatcher events.Dispatcher
}

// NewDonationService builds the service.
func NewDonationService(
	donations repository.DonationRepository,
	users repository.UserRepository,
	audit repository.AuditLogRepository,
	dispatcher events.Dispatcher,
) *DonationService {
	return &DonationService{
		donations:  donations,
		users:      users,
		audit:      audit,
		dispatcher: dispatcher,
	}
}

// DonateInput describes a donation request.
type DonateInput struct {
	CampaignID     string
	Kind           domain.DonationKind
	Points         int64
	AmountCentavos int64
	GcashReference string
}

// Donate records a pending donation. Points donations deduct from the
// balance immediately and are refunded if finance later rejects them;
// GCash donations just carry the external reference until verification.
func (s *DonationService) Donate(ctx context.Context, userID string, in DonateInput) (*domain.Donation, error) {
	if in.CampaignID == "" {
		return nil, apperrors.NewValidationError("campaign_id required", nil)
	}

	donation := &domain.Donation{
		UserID:     userID,
		CampaignID: in.CampaignID,
		Kind:       in.Kind,
		Status:     domain.DonationStatusPending,
	}

	switch in.Kind {
	case domain.DonationKindPoints:
		if in.Points <= 0 {
			return nil, apperrors.NewValidationError("positive points amount required", nil)
		}
		if _, err := s.users.AdjustPoints(ctx, userID, -in.Points); err != nil {
			if errors.Is(err, repository.ErrInsufficientPoints) {
				return nil, apperrors.NewUnprocessable("INSUFFICIENT_POINTS", "not enough points to donate")
			}
			return nil, apperrors.MapError(err)
		}
		donation.Points = in.Points
	case domain.DonationKindGcash:
		if in.AmountCentavos <= 0 || in.GcashReference == "" {
			return nil, apperrors.NewValidationError("amount and gcash reference required", nil)
		}
		donation.AmountCentavos = in.AmountCentavos
		donation.GcashReference = in.GcashReference
	default:
		return nil, apperrors.NewValidationError("unknown donation kind", nil)
	}

	if err := s.donations.Create(ctx, donation); err != nil {
		if donation.Kind == domain.DonationKindPoints {
			_, _ = s.users.AdjustPoints(ctx, userID, in.Points)
		}
		return nil, apperrors.MapError(err)
	}
	return donation, nil
}

// Resolve is the finance verification decision. Rejected points
// donations refund the balance.
func (s *DonationService) Resolve(ctx context.Context, actor Actor, donationID string, accept bool) (*domain.Donation, error) {
	donation, err := s.donations.GetByID(ctx, donationID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("donation", nil)
		}
		return nil, apperrors.MapError(err)
	}

	status := domain.DonationStatusVerified
	if !accept {
		status = domain.DonationStatusRejected
	}

	if err := s.donations.Resolve(ctx, donationID, actor.ID, status); err != nil {
		if errors.Is(err, repository.ErrDonationNotPending) {
			return nil, apperrors.NewConflict("donation already resolved", nil)
		}
		return nil, apperrors.MapError(err)
	}
	donation.Status = status
	donation.VerifiedBy = &actor.ID

	if !accept && donation.Kind == domain.DonationKindPoints {
		_, _ = s.users.AdjustPoints(ctx, donation.UserID, donation.Points)
	}

	s.recordAudit(ctx, actor, donation, accept)
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventDonationVerified,
			UserID:    donation.UserID,
			Timestamp: time.Now(),
			Payload: events.DonationVerifiedPayload{
				DonationID: donation.ID,
				CampaignID: donation.CampaignID,
				Accepted:   accept,
			},
		})
	}

	return donation, nil
}

// UserDonations lists the caller's donations.
func (s *DonationService) UserDonations(ctx context.Context, userID string, limit, offset int) ([]*domain.Donation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	donations, err := s.donations.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return donations, nil
}

// PendingDonations lists unresolved donations for the finance panel.
func (s *DonationService) PendingDonations(ctx context.Context, limit, offset int) ([]*domain.Donation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	donations, err := s.donations.ListByStatus(ctx, domain.DonationStatusPending, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return donations, nil
}

// PendingGcash filters the pending queue down to GCash donations for
// reference-number reconciliation.
func (s *DonationService) PendingGcash(ctx context.Context, limit, offset int) ([]*domain.Donation, error) {
	donations, err := s.PendingDonations(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	gcash := donations[:0]
	for _, d := range donations {
		if d.Kind == domain.DonationKindGcash {
			gcash = append(gcash, d)
		}
	}
	return gcash, nil
}

func (s *DonationService) recordAudit(ctx context.Context, actor Actor, donation *domain.Donation, accepted bool) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, &domain.AuditLog{
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Action:    "donation.resolve",
		Entity:    "donation",
		EntityID:  donation.ID,
		Meta: map[string]any{
			"accepted":    accepted,
			"kind":        string(donation.Kind),
			"campaign_id": donation.CampaignID,
		},
	})
}
