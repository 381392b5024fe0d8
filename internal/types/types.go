package types

import "time"

// Direction says which way the price has to cross the threshold.
type Direction string

const (
	Above Direction = "above"
	Below Direction = "below"
)

func (d Direction) Valid() bool {
	return d == Above || d == Below
}

// Alert is a stored price watch. Triggered flips to true exactly once, the
// first time the evaluator observes a crossing, and is never reset except by
// an edit that changes threshold or direction.
type Alert struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Asset     string    `json:"asset"`
	Direction Direction `json:"direction"`
	Threshold float64   `json:"threshold"`
	Triggered bool      `json:"triggered"`
	CreatedAt time.Time `json:"created_at"`
}

// Crossed reports whether price satisfies the alert. Both bounds are
// inclusive: price == threshold fires for either direction.
func (a Alert) Crossed(price float64) bool {
	switch a.Direction {
	case Above:
		return price >= a.Threshold
	case Below:
		return price <= a.Threshold
	}
	return false
}

// User is an account record. VIP lifts the free alert quota.
type User struct {
	ID         string    `json:"id"`
	VIP        bool      `json:"vip"`
	JoinedAt   time.Time `json:"joined_at"`
	UpgradedAt time.Time `json:"upgraded_at,omitempty"`
}

// Demo content collections served on the dashboard.
type Signal struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

type MemeCoin struct {
	Coin   string `json:"coin"`
	Volume string `json:"volume"`
}

type AlphaCall struct {
	Text string `json:"text"`
}

type Event struct {
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}
