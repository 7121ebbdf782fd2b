package dto

import "time"

// RewardUpsertRequest payload for catalog administration.
type RewardUpsertRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PointsCost  int64  `json:"points_cost"`
	Stock       int    `json:"stock"`
	Active      bool   `json:"active"`
}

// RewardResponse is one catalog entry.
type RewardResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PointsCost  int64  `json:"points_cost"`
	Stock       int    `json:"stock"`
	Active      bool   `json:"active"`
}

// RedemptionResponse is one redemption record.
type RedemptionResponse struct {
	ID         string     `json:"id"`
	Code       string     `json:"code"`
	RewardID   string     `json:"reward_id"`
	UserID     string     `json:"user_id"`
	PointsCost int64      `json:"points_cost"`
	Status     string     `json:"status"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RedeemResponse pairs the new redemption with its QR payload.
type RedeemResponse struct {
	Redemption RedemptionResponse `json:"redemption"`
	QRToken    string             `json:"qr_token"`
}

// VerifyRedemptionRequest carries the scanned QR payload.
type VerifyRedemptionRequest struct {
	Token string `json:"token"`
}

// RefreshCheckResponse answers the client staleness probe.
type RefreshCheckResponse struct {
	NeedsRefresh bool `json:"needs_refresh"`
}
