package domain

import "time"

// DonationKind distinguishes point transfers from cash (GCash) payments.
type DonationKind string

const (
	DonationKindPoints DonationKind = "POINTS"
	DonationKindGcash  DonationKind = "GCASH"
)

// DonationStatus tracks finance verification of a donation.
type DonationStatus string

const (
	DonationStatusPending  DonationStatus = "PENDING"
	DonationStatusVerified DonationStatus = "VERIFIED"
	DonationStatusRejected DonationStatus = "REJECTED"
)

// Donation records a contribution to a campaign. Points donations deduct
// from the user balance immediately; GCash donations carry an external
// reference number and wait for finance verification.
type Donation struct {
	ID             string
	UserID         string
	CampaignID     string
	Kind           DonationKind
	Points         int64
	AmountCentavos int64
	GcashReference string
	Status         DonationStatus
	VerifiedBy     *string
	VerifiedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
