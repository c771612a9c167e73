package ports

import (
	"context"

	"github.com/bnema/punini-cli/internal/domain"
)

// CodeTable looks up normalized redemption codes. Unknown codes yield
// domain.ErrInvalidCode.
type CodeTable interface {
	Lookup(ctx context.Context, code string) (domain.RedemptionCode, error)
}
