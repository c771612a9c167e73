package domain

// DefaultStartingBalance is the balance a session starts with when nothing was persisted.
const DefaultStartingBalance int64 = 2500

type SessionState string

const (
	SessionUnauthenticated SessionState = "unauthenticated"
	SessionAuthenticated   SessionState = "authenticated"
)

type Session struct {
	Authenticated bool
	UserName      string
	Balance       int64
}

func (s Session) State() SessionState {
	if s.Authenticated {
		return SessionAuthenticated
	}

	return SessionUnauthenticated
}

// CanAfford reports whether the balance covers price.
func (s Session) CanAfford(price int64) bool {
	return s.Balance >= price
}

// Shortfall returns how many coins are missing to pay price, or zero.
func (s Session) Shortfall(price int64) int64 {
	if s.Balance >= price {
		return 0
	}

	return price - s.Balance
}
