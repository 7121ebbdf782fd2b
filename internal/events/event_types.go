package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPledgeSubmitted     EventType = "pledge_submitted"
	EventPointsAwarded       EventType = "points_awarded"
	EventRedemptionRequested EventType = "redemption_requested"
	EventRedemptionVerified  EventType = "redemption_verified"
	EventDonationVerified    EventType = "donation_verified"
	EventPromoClaimed        EventType = "promo_claimed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PledgeSubmittedPayload payload.
type PledgeSubmittedPayload struct {
	PledgeID string `json:"pledge_id"`
	Category string `json:"category"`
	Points   int64  `json:"points"`
}

// PointsAwardedPayload payload.
type PointsAwardedPayload struct {
	Delta   int64  `json:"delta"`
	Balance int64  `json:"balance"`
	Reason  string `json:"reason"`
}

// RedemptionRequestedPayload payload.
type RedemptionRequestedPayload struct {
	RedemptionID string `json:"redemption_id"`
	RewardID     string `json:"reward_id"`
	PointsCost   int64  `json:"points_cost"`
}

// RedemptionVerifiedPayload payload.
type RedemptionVerifiedPayload struct {
	RedemptionID string `json:"redemption_id"`
	RewardID     string `json:"reward_id"`
	VerifierID   string `json:"verifier_id"`
}

// DonationVerifiedPayload payload.
type DonationVerifiedPayload struct {
	DonationID string `json:"donation_id"`
	CampaignID string `json:"campaign_id"`
	Accepted   bool   `json:"accepted"`
}

// PromoClaimedPayload payload.
type PromoClaimedPayload struct {
	PromoID string `json:"promo_id"`
	Code    string `json:"code"`
	Points  int64  `json:"points"`
}
