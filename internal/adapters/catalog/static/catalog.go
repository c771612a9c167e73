package static

import (
	"context"
	"fmt"

	"github.com/bnema/punini-cli/internal/domain"
	"github.com/bnema/punini-cli/internal/ports"
)

// Catalog serves a fixed product list in display order.
type Catalog struct {
	products []domain.Product
}

var _ ports.Catalog = (*Catalog)(nil)

func NewCatalog(products []domain.Product) *Catalog {
	copied := make([]domain.Product, len(products))
	copy(copied, products)

	return &Catalog{products: copied}
}

func NewDefaultCatalog() *Catalog {
	return NewCatalog(DefaultProducts())
}

func (c *Catalog) List(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	products := make([]domain.Product, len(c.products))
	copy(products, c.products)

	return products, nil
}

func (c *Catalog) GetByID(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	for _, product := range c.products {
		if product.ID == id {
			return product, nil
		}
	}

	return domain.Product{}, fmt.Errorf("%w: %d", domain.ErrProductNotFound, id)
}

func DefaultProducts() []domain.Product {
	return []domain.Product{
		{
			ID:     1,
			Name:   "Celestial Maiden Yuki",
			Image:  "https://images.unsplash.com/photo-1578632767115-351597cf2477?w=400&h=600&fit=crop",
			Price:  1500,
			Rarity: domain.RarityLegendary,
			Specs: domain.ProductSpecs{
				Height:    "165 cm",
				Weight:    "52 kg",
				BodyType:  "Slender",
				HairColor: "Silver White",
				EyeColor:  "Sapphire Blue",
			},
		},
		{
			ID:     2,
			Name:   "Shadow Priestess Akane",
			Image:  "https://images.unsplash.com/photo-1581833971358-2c8b550f87b3?w=400&h=600&fit=crop",
			Price:  1200,
			Rarity: domain.RarityEpic,
			Specs: domain.ProductSpecs{
				Height:    "170 cm",
				Weight:    "55 kg",
				BodyType:  "Athletic",
				HairColor: "Raven Black",
				EyeColor:  "Crimson Red",
			},
		},
		{
			ID:     3,
			Name:   "Forest Spirit Hana",
			Image:  "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=400&h=600&fit=crop",
			Price:  800,
			Rarity: domain.RarityRare,
			Specs: domain.ProductSpecs{
				Height:    "158 cm",
				Weight:    "48 kg",
				BodyType:  "Petite",
				HairColor: "Emerald Green",
				EyeColor:  "Amber Gold",
			},
		},
		{
			ID:     4,
			Name:   "Thunder Knight Rei",
			Image:  "https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=400&h=600&fit=crop",
			Price:  600,
			Rarity: domain.RarityRare,
			Specs: domain.ProductSpecs{
				Height:    "175 cm",
				Weight:    "60 kg",
				BodyType:  "Muscular",
				HairColor: "Electric Blue",
				EyeColor:  "Violet Purple",
			},
		},
		{
			ID:     5,
			Name:   "Sakura Dancer Miki",
			Image:  "https://images.unsplash.com/photo-1531746020798-e6953c6e8e04?w=400&h=600&fit=crop",
			Price:  400,
			Rarity: domain.RarityCommon,
			Specs: domain.ProductSpecs{
				Height:    "160 cm",
				Weight:    "50 kg",
				BodyType:  "Graceful",
				HairColor: "Cherry Pink",
				EyeColor:  "Hazel Brown",
			},
		},
		{
			ID:     6,
			Name:   "Ice Queen Setsuna",
			Image:  "https://images.unsplash.com/photo-1524504388940-b1c1722653e1?w=400&h=600&fit=crop",
			Price:  2000,
			Rarity: domain.RarityLegendary,
			Specs: domain.ProductSpecs{
				Height:    "172 cm",
				Weight:    "54 kg",
				BodyType:  "Elegant",
				HairColor: "Platinum Blonde",
				EyeColor:  "Ice Blue",
			},
		},
	}
}
