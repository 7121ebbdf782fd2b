package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-eco/ecopledge-service/internal/domain"
)

// ErrRedemptionNotPending signals a verify or cancel against a
// redemption that has already been consumed. This is the replay guard
// for QR verification: the pending->verified flip is a single guarded
// UPDATE, so a second verify of the same record finds nothing to flip.
var ErrRedemptionNotPending = errors.New("redemption is not pending")

// RedemptionRepository defines persistence access for reward claims.
type RedemptionRepository interface {
	Create(ctx context.Context, redemption *domain.Redemption) error
	GetByID(ctx context.Context, id string) (*domain.Redemption, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Redemption, error)
	ListByStatus(ctx context.Context, status domain.RedemptionStatus, limit, offset int) ([]*domain.Redemption, error)
	MarkVerified(ctx context.Context, id, verifierID string) error
	MarkCancelled(ctx context.Context, id string) error
}

type redemptionRepository struct {
	pool *pgxpool.Pool
}

// NewRedemptionRepository returns a Postgres-backed implementation.
func NewRedemptionRepository(pool *pgxpool.Pool) RedemptionRepository {
	return &redemptionRepository{pool: pool}
}

const redemptionColumns = `id, code, user_id, reward_id, points_cost, status, verified_by, verified_at, created_at, updated_at`

func scanRedemption(row pgx.Row) (*domain.Redemption, error) {
	var redemption domain.Redemption
	if err := row.Scan(
		&redemption.ID,
		&redemption.Code,
		&redemption.UserID,
		&redemption.RewardID,
		&redemption.PointsCost,
		&redemption.Status,
		&redemption.VerifiedBy,
		&redemption.VerifiedAt,
		&redemption.CreatedAt,
		&redemption.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (r *redemptionRepository) Create(ctx context.Context, redemption *domain.Redemption) error {
	const query = `
        INSERT INTO redemptions (code, user_id, reward_id, points_cost, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		redemption.Code,
		redemption.UserID,
		redemption.RewardID,
		redemption.PointsCost,
		redemption.Status,
	).Scan(&redemption.ID, &redemption.CreatedAt, &redemption.UpdatedAt)
}

func (r *redemptionRepository) GetByID(ctx context.Context, id string) (*domain.Redemption, error) {
	const query = `SELECT ` + redemptionColumns + ` FROM redemptions WHERE id=$1`
	return scanRedemption(r.pool.QueryRow(ctx, query, id))
}

func (r *redemptionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Redemption, error) {
	const query = `SELECT ` + redemptionColumns + ` FROM redemptions
        WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryRedemptions(ctx, query, userID, limit, offset)
}

func (r *redemptionRepository) ListByStatus(ctx context.Context, status domain.RedemptionStatus, limit, offset int) ([]*domain.Redemption, error) {
	const query = `SELECT ` + redemptionColumns + ` FROM redemptions
        WHERE status=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryRedemptions(ctx, query, status, limit, offset)
}

// MarkVerified flips pending to verified exactly once.
func (r *redemptionRepository) MarkVerified(ctx context.Context, id, verifierID string) error {
	const query = `
        UPDATE redemptions SET status=$1, verified_by=$2, verified_at=NOW(), updated_at=NOW()
        WHERE id=$3 AND status=$4`

	cmd, err := r.pool.Exec(ctx, query,
		domain.RedemptionStatusVerified,
		verifierID,
		id,
		domain.RedemptionStatusPending,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRedemptionNotPending
	}
	return nil
}

func (r *redemptionRepository) MarkCancelled(ctx context.Context, id string) error {
	const query = `
        UPDATE redemptions SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3`

	cmd, err := r.pool.Exec(ctx, query,
		domain.RedemptionStatusCancelled,
		id,
		domain.RedemptionStatusPending,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRedemptionNotPending
	}
	return nil
}

func (r *redemptionRepository) queryRedemptions(ctx context.Context, query string, args ...any) ([]*domain.Redemption, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var redemptions []*domain.Redemption
	for rows.Next() {
		redemption, err := scanRedemption(rows)
		if err != nil {
			return nil, err
		}
		redemptions = append(redemptions, redemption)
	}
	return redemptions, rows.Err()
}
