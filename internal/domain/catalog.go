package domain

import (
	"fmt"
	"strings"
)

type ProductID int

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// RarityAll is accepted by ParseRarity and means "no rarity filter".
const RarityAll = "all"

// Rarities lists every tier from lowest to highest.
func Rarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}
}

// Rank orders tiers common < rare < epic < legendary. Unknown tiers rank 0.
func (r Rarity) Rank() int {
	switch r {
	case RarityCommon:
		return 1
	case RarityRare:
		return 2
	case RarityEpic:
		return 3
	case RarityLegendary:
		return 4
	default:
		return 0
	}
}

func (r Rarity) Valid() bool {
	return r.Rank() > 0
}

// ParseRarity accepts a tier name in any case. "all" and the empty string
// yield the zero Rarity, which matches every product.
func ParseRarity(raw string) (Rarity, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" || normalized == RarityAll {
		return "", nil
	}

	rarity := Rarity(normalized)
	if !rarity.Valid() {
		return "", fmt.Errorf("unsupported rarity %q", raw)
	}

	return rarity, nil
}

type ProductSpecs struct {
	Height    string
	Weight    string
	BodyType  string
	HairColor string
	EyeColor  string
}

type Product struct {
	ID     ProductID
	Name   string
	Image  string
	Price  int64
	Rarity Rarity
	Specs  ProductSpecs
}

type ProductFilter struct {
	Query  string
	Rarity Rarity
}

// Matches is a case-insensitive substring match on the name combined with an
// exact rarity match. Zero-value fields match everything.
func (f ProductFilter) Matches(p Product) bool {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
		return false
	}

	return f.Rarity == "" || p.Rarity == f.Rarity
}

func FilterProducts(products []Product, filter ProductFilter) []Product {
	matched := make([]Product, 0, len(products))
	for _, product := range products {
		if filter.Matches(product) {
			matched = append(matched, product)
		}
	}

	return matched
}
