package dto

import "time"

// PledgeSubmitRequest payload for a daily pledge.
type PledgeSubmitRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// PledgeResponse is one pledge entry.
type PledgeResponse struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Points      int64     `json:"points"`
	PledgeDate  string    `json:"pledge_date"`
	CreatedAt   time.Time `json:"created_at"`
}
