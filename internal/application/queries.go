package application

import "github.com/bnema/punini-cli/internal/domain"

type Profile struct {
	UserName     string
	Balance      int64
	ClaimedCodes int
	Activity     []domain.Activity
}

type ProductView struct {
	Product   domain.Product
	Balance   int64
	CanAfford bool
	Shortfall int64
}
