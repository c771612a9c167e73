package domain

import "time"

type ActivityKind string

const (
	ActivityPurchase ActivityKind = "purchase"
	ActivityRedeem   ActivityKind = "redeem"
)

// Activity is one balance-changing event of the current session.
// Amount is signed: purchases are negative, redemptions positive.
type Activity struct {
	ID     string
	Kind   ActivityKind
	Item   string
	Amount int64
	At     time.Time
}
