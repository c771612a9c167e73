package storefront

import (
	"testing"
	"time"

	catalogstatic "github.com/bnema/punini-cli/internal/adapters/catalog/static"
	"github.com/bnema/punini-cli/internal/application"
	"github.com/bnema/punini-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCatalogSignedIn(t *testing.T) {
	output, err := RenderCatalog(catalogstatic.DefaultProducts(), CatalogOptions{Balance: 1000, SignedIn: true})

	require.NoError(t, err)
	assert.Contains(t, output, "Punini Store")
	assert.Contains(t, output, "products: 6")
	assert.Contains(t, output, "balance: 1,000 coins")
	assert.Contains(t, output, "#1")
	assert.Contains(t, output, "Celestial Maiden Yuki")
	assert.Contains(t, output, "legendary ****")
	assert.Contains(t, output, "1,500 coins")
	assert.Contains(t, output, "(need 500 more)")
	assert.Contains(t, output, "(need 1,000 more)")
	assert.NotContains(t, output, "(need 0 more)")
}

func TestRenderCatalogSignedOutHidesAffordability(t *testing.T) {
	output, err := RenderCatalog(catalogstatic.DefaultProducts()[:1], CatalogOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "products: 1")
	assert.NotContains(t, output, "balance:")
	assert.NotContains(t, output, "need")
}

func TestRenderCatalogEmptyWithFilter(t *testing.T) {
	output, err := RenderCatalog(nil, CatalogOptions{
		Filter: domain.ProductFilter{Query: "dragon", Rarity: domain.RarityEpic},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "products: 0")
	assert.Contains(t, output, "rarity: epic")
	assert.Contains(t, output, `search: "dragon"`)
	assert.Contains(t, output, "No products match your search.")
}

func TestRenderProductShortfall(t *testing.T) {
	product := catalogstatic.DefaultProducts()[5]

	output, err := RenderProduct(application.ProductView{
		Product:   product,
		Balance:   500,
		CanAfford: false,
		Shortfall: 1500,
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Ice Queen Setsuna (#6)")
	assert.Contains(t, output, "2,000 coins")
	assert.Contains(t, output, "height: 172 cm")
	assert.Contains(t, output, "eye color: Ice Blue")
	assert.Contains(t, output, "your balance: 500 coins")
	assert.Contains(t, output, " 25% covered")
	assert.Contains(t, output, "You need 1,500 more coins")
	assert.NotContains(t, output, "Ready to purchase")
}

func TestRenderProductAffordable(t *testing.T) {
	output, err := RenderProduct(application.ProductView{
		Product:   catalogstatic.DefaultProducts()[4],
		Balance:   2500,
		CanAfford: true,
	})

	require.NoError(t, err)
	assert.Contains(t, output, "common *")
	assert.Contains(t, output, "100% covered")
	assert.Contains(t, output, "[========================]")
	assert.Contains(t, output, "Ready to purchase")
}

func TestRenderProfileWithActivity(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

	output, err := RenderProfile(application.Profile{
		UserName:     "traveler",
		Balance:      12500,
		ClaimedCodes: 1,
		Activity: []domain.Activity{
			{ID: "b", Kind: domain.ActivityRedeem, Item: "Daily Code: PUNINIBONUS", Amount: 250, At: now.Add(-30 * time.Second)},
			{ID: "a", Kind: domain.ActivityPurchase, Item: "Thunder Knight Rei", Amount: -600, At: now.Add(-2 * time.Hour)},
		},
	}, ProfileOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "traveler")
	assert.Contains(t, output, "balance: 12,500 coins")
	assert.Contains(t, output, "codes redeemed this session: 1")
	assert.Contains(t, output, "+250")
	assert.Contains(t, output, "Daily Code: PUNINIBONUS")
	assert.Contains(t, output, "(just now)")
	assert.Contains(t, output, "-600")
	assert.Contains(t, output, "(2 hours ago)")
	assert.NotContains(t, output, "No activity yet")
}

func TestRenderProfileWithoutActivity(t *testing.T) {
	output, err := RenderProfile(application.Profile{UserName: "owner", Balance: 2500}, ProfileOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Recent Activity")
	assert.Contains(t, output, "No activity yet")
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		2500:    "2,500",
		1234567: "1,234,567",
		-4200:   "-4,200",
	}

	for in, want := range tests {
		assert.Equal(t, want, formatNumber(in))
	}
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", formatAgo(now, now))
	assert.Equal(t, "1 minute ago", formatAgo(now.Add(-90*time.Second), now))
	assert.Equal(t, "5 hours ago", formatAgo(now.Add(-5*time.Hour), now))
	assert.Equal(t, "3 days ago", formatAgo(now.Add(-72*time.Hour), now))
	assert.Equal(t, "11:30 on 14 Feb", formatAgo(now.Add(-30*time.Minute), time.Time{}))
}
