package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-eco/ecopledge-service/internal/domain"
)

// ErrOutOfStock signals a redemption attempt against a depleted reward.
var ErrOutOfStock = errors.New("reward out of stock")

// RewardRepository defines persistence access for the reward catalog.
type RewardRepository interface {
	Create(ctx context.Context, reward *domain.Reward) error
	Update(ctx context.Context, reward *domain.Reward) error
	GetByID(ctx context.Context, id string) (*domain.Reward, error)
	ListActive(ctx context.Context) ([]*domain.Reward, error)
	ListAll(ctx context.Context, limit, offset int) ([]*domain.Reward, error)
	DecrementStock(ctx context.Context, id string) error
	IncrementStock(ctx context.Context, id string) error
}

type rewardRepository struct {
	pool *pgxpool.Pool
}

// NewRewardRepository returns a Postgres-backed implementation.
func NewRewardRepository(pool *pgxpool.Pool) RewardRepository {
	return &rewardRepository{pool: pool}
}

const rewardColumns = `id, name, description, points_cost, stock, active, created_at, updated_at`

func scanReward(row pgx.Row) (*domain.Reward, error) {
	var reward domain.Reward
	if err := row.Scan(
		&reward.ID,
		&reward.Name,
		&reward.Description,
		&reward.PointsCost,
		&reward.Stock,
		&reward.Active,
		&reward.CreatedAt,
		&reward.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *rewardRepository) Create(ctx context.Context, reward *domain.Reward) error {
	const query = `
        INSERT INTO rewards (name, description, points_cost, stock, active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		reward.Name,
		reward.Description,
		reward.PointsCost,
		reward.Stock,
		reward.Active,
	).Scan(&reward.ID, &reward.CreatedAt, &reward.UpdatedAt)
}

func (r *rewardRepository) Update(ctx context.Context, reward *domain.Reward) error {
	const query = `
        UPDATE rewards SET name=$1, description=$2, points_cost=$3, stock=$4, active=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		reward.Name,
		reward.Description,
		reward.PointsCost,
		reward.Stock,
		reward.Active,
		reward.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *rewardRepository) GetByID(ctx context.Context, id string) (*domain.Reward, error) {
	const query = `SELECT ` + rewardColumns + ` FROM rewards WHERE id=$1`
	return scanReward(r.pool.QueryRow(ctx, query, id))
}

func (r *rewardRepository) ListActive(ctx context.Context) ([]*domain.Reward, error) {
	const query = `SELECT ` + rewardColumns + ` FROM rewards WHERE active=TRUE ORDER BY points_cost ASC`
	return r.queryRewards(ctx, query)
}

func (r *rewardRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Reward, error) {
	const query = `SELECT ` + rewardColumns + ` FROM rewards ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryRewards(ctx, query, limit, offset)
}

// DecrementStock takes one unit if any remain; the guard lives in the
// UPDATE so concurrent redemptions cannot oversell.
func (r *rewardRepository) DecrementStock(ctx context.Context, id string) error {
	const query = `UPDATE rewards SET stock = stock - 1, updated_at=NOW() WHERE id=$1 AND stock > 0`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOutOfStock
	}
	return nil
}

func (r *rewardRepository) IncrementStock(ctx context.Context, id string) error {
	const query = `UPDATE rewards SET stock = stock + 1, updated_at=NOW() WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *rewardRepository) queryRewards(ctx context.Context, query string, args ...any) ([]*domain.Reward, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rewards []*domain.Reward
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	return rewards, rows.Err()
}
