package domain

import "time"

// Pledge records one daily eco-pledge submission. At most one pledge per
// user per calendar day is accepted; the unique (user_id, pledge_date)
// constraint in Postgres is the source of truth.
type Pledge struct {
	ID          string
	UserID      string
	Category    string
	Description string
	Points      int64
	PledgeDate  time.Time
	CreatedAt   time.Time
}
