package domain

import "time"

// PromoCode grants bonus points to users who claim it before expiry.
type PromoCode struct {
	ID         string
	Code       string
	Points     int64
	UsageLimit int
	UsageCount int
	Active     bool
	ExpiresAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Claimable reports whether the code can still be redeemed at the given
// moment.
func (p *PromoCode) Claimable(now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.UsageLimit > 0 && p.UsageCount >= p.UsageLimit {
		return false
	}
	if p.ExpiresAt != nil && !now.Before(*p.ExpiresAt) {
		return false
	}
	return true
}
