package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-eco/ecopledge-service/internal/domain"
)

// AuditLogRepository defines persistence access for audit entries.
type AuditLogRepository interface {
	Record(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, limit, offset int) ([]*domain.AuditLog, error)
}

type auditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository returns a Postgres-backed implementation.
func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepository{pool: pool}
}

func (r *auditLogRepository) Record(ctx context.Context, entry *domain.AuditLog) error {
	const query = `
        INSERT INTO audit_logs (actor_id, actor_role, action, entity, entity_id, meta)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	metaJSON, err := json.Marshal(entry.Meta)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx, query,
		entry.ActorID,
		entry.ActorRole,
		entry.Action,
		entry.Entity,
		entry.EntityID,
		metaJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditLogRepository) List(ctx context.Context, limit, offset int) ([]*domain.AuditLog, error) {
	const query = `
        SELECT id, actor_id, actor_role, action, entity, entity_id, meta, created_at
        FROM audit_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		var metaJSON []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.ActorRole,
			&entry.Action,
			&entry.Entity,
			&entry.EntityID,
			&metaJSON,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &entry.Meta); err != nil {
				return nil, err
			}
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
