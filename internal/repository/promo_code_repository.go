package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-eco/ecopledge-service/internal/domain"
)

var (
	// ErrPromoAlreadyClaimed signals a repeat claim by the same user.
	ErrPromoAlreadyClaimed = errors.New("promo code already claimed")
	// ErrPromoDepleted signals the usage limit was hit by a concurrent claim.
	ErrPromoDepleted = errors.New("promo code usage limit reached")
)

// PromoCodeRepository defines persistence access for promo codes.
type PromoCodeRepository interface {
	Create(ctx context.Context, promo *domain.PromoCode) error
	Update(ctx context.Context, promo *domain.PromoCode) error
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	List(ctx context.Context, limit, offset int) ([]*domain.PromoCode, error)
	RecordClaim(ctx context.Context, promoID, userID string) error
}

type promoCodeRepository struct {
	pool *pgxpool.Pool
}

// NewPromoCodeRepository returns a Postgres-backed implementation.
func NewPromoCodeRepository(pool *pgxpool.Pool) PromoCodeRepository {
	return &promoCodeRepository{pool: pool}
}

const promoColumns = `id, code, points, usage_limit, usage_count, active, expires_at, created_at, updated_at`

func scanPromo(row pgx.Row) (*domain.PromoCode, error) {
	var promo domain.PromoCode
	if err := row.Scan(
		&promo.ID,
		&promo.Code,
		&promo.Points,
		&promo.UsageLimit,
		&promo.UsageCount,
		&promo.Active,
		&promo.ExpiresAt,
		&promo.CreatedAt,
		&promo.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *promoCodeRepository) Create(ctx context.Context, promo *domain.PromoCode) error {
	const query = `
        INSERT INTO promo_codes (code, points, usage_limit, active, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, usage_count, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		promo.Code,
		promo.Points,
		promo.UsageLimit,
		promo.Active,
		promo.ExpiresAt,
	).Scan(&promo.ID, &promo.UsageCount, &promo.CreatedAt, &promo.UpdatedAt)
}

func (r *promoCodeRepository) Update(ctx context.Context, promo *domain.PromoCode) error {
	const query = `
        UPDATE promo_codes SET points=$1, usage_limit=$2, active=$3, expires_at=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		promo.Points,
		promo.UsageLimit,
		promo.Active,
		promo.ExpiresAt,
		promo.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *promoCodeRepository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	const query = `SELECT ` + promoColumns + ` FROM promo_codes WHERE code=$1`
	return scanPromo(r.pool.QueryRow(ctx, query, code))
}

func (r *promoCodeRepository) List(ctx context.Context, limit, offset int) ([]*domain.PromoCode, error) {
	const query = `SELECT ` + promoColumns + ` FROM promo_codes ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []*domain.PromoCode
	for rows.Next() {
		promo, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, promo)
	}
	return promos, rows.Err()
}

// RecordClaim inserts the per-user claim row and bumps usage_count in
// one transaction. The unique (promo_id, user_id) constraint rejects
// repeat claims; the usage_limit guard rejects oversubscription.
func (r *promoCodeRepository) RecordClaim(ctx context.Context, promoID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`INSERT INTO promo_claims (promo_id, user_id) VALUES ($1, $2)`,
		promoID, userID,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrPromoAlreadyClaimed
		}
		return err
	}

	cmd, err := tx.Exec(ctx,
		`UPDATE promo_codes SET usage_count = usage_count + 1, updated_at=NOW()
         WHERE id=$1 AND (usage_limit = 0 OR usage_count < usage_limit)`,
		promoID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPromoDepleted
	}

	return tx.Commit(ctx)
}
