package static

import (
	"context"

	"github.com/bnema/punini-cli/internal/domain"
	"github.com/bnema/punini-cli/internal/ports"
)

// Table is an immutable code table built at startup.
type Table struct {
	values map[string]int64
}

var _ ports.CodeTable = (*Table)(nil)

// DefaultCodes returns the daily codes shipped with the store.
func DefaultCodes() map[string]int64 {
	return map[string]int64{
		"PISANGHARIINI": 500,
		"PUNINIBONUS":   250,
		"LEGENDARYWEEK": 1000,
		"DAILYREWARD":   100,
	}
}

// NewTable copies codes, normalizing every key to upper case.
func NewTable(codes map[string]int64) *Table {
	values := make(map[string]int64, len(codes))
	for code, value := range codes {
		values[domain.NormalizeCode(code)] = value
	}

	return &Table{values: values}
}

func (t *Table) Lookup(ctx context.Context, code string) (domain.RedemptionCode, error) {
	if err := ctx.Err(); err != nil {
		return domain.RedemptionCode{}, err
	}

	value, ok := t.values[code]
	if !ok {
		return domain.RedemptionCode{}, domain.ErrInvalidCode
	}

	return domain.RedemptionCode{Code: code, Value: value}, nil
}
