package domain

import "time"

// RedemptionStatus tracks the lifecycle of a reward claim.
type RedemptionStatus string

const (
	RedemptionStatusPending   RedemptionStatus = "PENDING"
	RedemptionStatusVerified  RedemptionStatus = "VERIFIED"
	RedemptionStatusCancelled RedemptionStatus = "CANCELLED"
)

// Redemption records a user's intent to claim a reward. The persisted
// status is what makes QR verification single-use: the pending->verified
// flip happens atomically in the database, so a replayed token finds no
// pending record to consume.
type Redemption struct {
	ID         string
	Code       string
	UserID     string
	RewardID   string
	PointsCost int64
	Status     RedemptionStatus
	VerifiedBy *string
	VerifiedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
