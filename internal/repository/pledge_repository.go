package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-eco/ecopledge-service/internal/domain"
)

// ErrPledgeExists signals a second pledge on the same calendar day.
var ErrPledgeExists = errors.New("pledge already submitted today")

// PledgeRepository defines persistence access for daily pledges.
type PledgeRepository interface {
	Create(ctx context.Context, pledge *domain.Pledge) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Pledge, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type pledgeRepository struct {
	pool *pgxpool.Pool
}

// NewPledgeRepository returns a Postgres-backed implementation.
func NewPledgeRepository(pool *pgxpool.Pool) PledgeRepository {
	return &pledgeRepository{pool: pool}
}

func (r *pledgeRepository) Create(ctx context.Context, pledge *domain.Pledge) error {
	const query = `
        INSERT INTO pledges (user_id, category, description, points, pledge_date)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		pledge.UserID,
		pledge.Category,
		pledge.Description,
		pledge.Points,
		pledge.PledgeDate.Format("2006-01-02"),
	).Scan(&pledge.ID, &pledge.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on (user_id, pledge_date)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrPledgeExists
		}
		return err
	}
	return nil
}

func (r *pledgeRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Pledge, error) {
	const query = `
        SELECT id, user_id, category, description, points, pledge_date, created_at
        FROM pledges WHERE user_id=$1
        ORDER BY pledge_date DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pledges []*domain.Pledge
	for rows.Next() {
		var p domain.Pledge
		if err := rows.Scan(&p.ID, &p.UserID, &p.Category, &p.Description, &p.Points, &p.PledgeDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		pledges = append(pledges, &p)
	}
	return pledges, rows.Err()
}

func (r *pledgeRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM pledges WHERE user_id=$1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}
