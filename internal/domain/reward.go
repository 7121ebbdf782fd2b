package domain

import "time"

// Reward is a redeemable catalog item managed by canteen admins.
type Reward struct {
	ID          string
	Name        string
	Description string
	PointsCost  int64
	Stock       int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
