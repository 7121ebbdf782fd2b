package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-eco/ecopledge-service/internal/domain"
)

// ErrDonationNotPending signals a verification decision against a
// donation that was already resolved.
var ErrDonationNotPending = errors.New("donation is not pending")

// DonationRepository defines persistence access for campaign donations.
type DonationRepository interface {
	Create(ctx context.Context, donation *domain.Donation) error
	GetByID(ctx context.Context, id string) (*domain.Donation, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Donation, error)
	ListByStatus(ctx context.Context, status domain.DonationStatus, limit, offset int) ([]*domain.Donation, error)
	Resolve(ctx context.Context, id, verifierID string, status domain.DonationStatus) error
}

type donationRepository struct {
	pool *pgxpool.Pool
}

// NewDonationRepository returns a Postgres-backed implementation.
func NewDonationRepository(pool *pgxpool.Pool) DonationRepository {
	return &donationRepository{pool: pool}
}

const donationColumns = `id, user_id, campaign_id, kind, points, amount_centavos, gcash_reference, status, verified_by, verified_at, created_at, updated_at`

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var donation domain.Donation
	if err := row.Scan(
		&donation.ID,
		&donation.UserID,
		&donation.CampaignID,
		&donation.Kind,
		&donation.Points,
		&donation.AmountCentavos,
		&donation.GcashReference,
		&donation.Status,
		&donation.VerifiedBy,
		&donation.VerifiedAt,
		&donation.CreatedAt,
		&donation.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	const query = `
        INSERT INTO donations (user_id, campaign_id, kind, points, amount_centavos, gcash_reference, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		donation.UserID,
		donation.CampaignID,
		donation.Kind,
		donation.Points,
		donation.AmountCentavos,
		donation.GcashReference,
		donation.Status,
	).Scan(&donation.ID, &donation.CreatedAt, &donation.UpdatedAt)
}

func (r *donationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	const query = `SELECT ` + donationColumns + ` FROM donations WHERE id=$1`
	return scanDonation(r.pool.QueryRow(ctx, query, id))
}

func (r *donationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Donation, error) {
	const query = `SELECT ` + donationColumns + ` FROM donations
        WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryDonations(ctx, query, userID, limit, offset)
}

func (r *donationRepository) ListByStatus(ctx context.Context, status domain.DonationStatus, limit, offset int) ([]*domain.Donation, error) {
	const query = `SELECT ` + donationColumns + ` FROM donations
        WHERE status=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryDonations(ctx, query, status, limit, offset)
}

// Resolve moves a pending donation to verified or rejected exactly once.
func (r *donationRepository) Resolve(ctx context.Context, id, verifierID string, status domain.DonationStatus) error {
	const query = `
        UPDATE donations SET status=$1, verified_by=$2, verified_at=NOW(), updated_at=NOW()
        WHERE id=$3 AND status=$4`

	cmd, err := r.pool.Exec(ctx, query, status, verifierID, id, domain.DonationStatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDonationNotPending
	}
	return nil
}

func (r *donationRepository) queryDonations(ctx context.Context, query string, args ...any) ([]*domain.Donation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, donation)
	}
	return donations, rows.Err()
}
