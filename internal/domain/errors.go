package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidCode         = errors.New("invalid code")
	ErrAlreadyClaimed      = errors.New("code already claimed")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrNegativeBalance     = errors.New("balance cannot go negative")
	ErrInvalidPrice        = errors.New("price must be positive")
	ErrProductNotFound     = errors.New("product not found")
	ErrKeyNotFound         = errors.New("key not found")
)

// InsufficientBalanceError carries the numbers needed to tell the user how
// many coins they are short. It matches ErrInsufficientBalance.
type InsufficientBalanceError struct {
	Price   int64
	Balance int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: need %d more coins", ErrInsufficientBalance, e.Shortfall())
}

func (e *InsufficientBalanceError) Shortfall() int64 {
	return e.Price - e.Balance
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
