package dto

import "time"

// ChangeRoleRequest payload for role reassignment.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// SetBannedRequest payload for ban/unban.
type SetBannedRequest struct {
	Banned bool `json:"banned"`
}

// AdjustPointsRequest payload for manual point corrections.
type AdjustPointsRequest struct {
	Delta  int64  `json:"delta"`
	Reason string `json:"reason"`
}

// PromoUpsertRequest payload for promo code administration.
type PromoUpsertRequest struct {
	Code       string     `json:"code"`
	Points     int64      `json:"points"`
	UsageLimit int        `json:"usage_limit"`
	Active     bool       `json:"active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// ClaimPromoRequest payload for claiming a code.
type ClaimPromoRequest struct {
	Code string `json:"code"`
}

// AuditLogResponse is one audit trail entry.
type AuditLogResponse struct {
	ID        string         `json:"id"`
	ActorID   string         `json:"actor_id"`
	ActorRole string         `json:"actor_role"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
