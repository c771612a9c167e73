package domain

import "strings"

type RedemptionCode struct {
	Code  string
	Value int64
}

// NormalizeCode upper-cases a user supplied code before table lookup.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// RedemptionRecord holds the codes claimed during the current session.
type RedemptionRecord struct {
	claimed map[string]struct{}
}

func NewRedemptionRecord() *RedemptionRecord {
	return &RedemptionRecord{claimed: map[string]struct{}{}}
}

func (r *RedemptionRecord) Claimed(code string) bool {
	if r == nil {
		return false
	}

	_, ok := r.claimed[code]
	return ok
}

func (r *RedemptionRecord) Claim(code string) {
	r.claimed[code] = struct{}{}
}

func (r *RedemptionRecord) Len() int {
	if r == nil {
		return 0
	}

	return len(r.claimed)
}
