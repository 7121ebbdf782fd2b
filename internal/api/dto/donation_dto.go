package dto

import "time"

// DonateRequest payload for a donation.
type DonateRequest struct {
	CampaignID     string `json:"campaign_id"`
	Kind           string `json:"kind"`
	Points         int64  `json:"points,omitempty"`
	AmountCentavos int64  `json:"amount_centavos,omitempty"`
	GcashReference string `json:"gcash_reference,omitempty"`
}

// DonationResponse is one donation record.
type DonationResponse struct {
	ID             string     `json:"id"`
	CampaignID     string     `json:"campaign_id"`
	UserID         string     `json:"user_id"`
	Kind           string     `json:"kind"`
	Points         int64      `json:"points,omitempty"`
	AmountCentavos int64      `json:"amount_centavos,omitempty"`
	GcashReference string     `json:"gcash_reference,omitempty"`
	Status         string     `json:"status"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ResolveDonationRequest carries the finance decision.
type ResolveDonationRequest struct {
	Accept bool `json:"accept"`
}
