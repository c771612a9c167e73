package storefront

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/punini-cli/internal/application"
	"github.com/bnema/punini-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type CatalogOptions struct {
	Filter domain.ProductFilter
	// Balance is only compared against prices when SignedIn is set.
	Balance  int64
	SignedIn bool
}

type ProfileOptions struct {
	Now time.Time
}

func renderCatalog(products []domain.Product, opts CatalogOptions, s styles) string {
	lines := []string{
		s.title.Render("Punini Store"),
		s.header.Render(catalogHeader(len(products), opts)),
	}

	if len(products) == 0 {
		lines = append(lines, s.empty.Render("No products match your search."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, product := range products {
		lines = append(lines, catalogLine(product, opts, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func catalogHeader(count int, opts CatalogOptions) string {
	header := fmt.Sprintf("products: %d", count)
	if opts.Filter.Rarity != "" {
		header += fmt.Sprintf("  rarity: %s", opts.Filter.Rarity)
	}
	if query := strings.TrimSpace(opts.Filter.Query); query != "" {
		header += fmt.Sprintf("  search: %q", query)
	}
	if opts.SignedIn {
		header += fmt.Sprintf("  balance: %s", FormatCoins(opts.Balance))
	}

	return header
}

func catalogLine(product domain.Product, opts CatalogOptions, s styles) string {
	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.meta.Render(fmt.Sprintf("#%d", product.ID)),
		" ",
		s.name.Render(product.Name),
		" ",
		s.rarityStyle(product.Rarity).Render(rarityLabel(product.Rarity)),
		" ",
		s.price.Render(FormatCoins(product.Price)),
	)

	if opts.SignedIn && opts.Balance < product.Price {
		line += " " + s.warning.Render(fmt.Sprintf("(need %s more)", formatNumber(product.Price-opts.Balance)))
	}

	return line
}

func renderProduct(view application.ProductView, s styles) string {
	product := view.Product
	lines := []string{
		s.name.Render(fmt.Sprintf("%s (#%d)", product.Name, product.ID)),
		s.rarityStyle(product.Rarity).Render(rarityLabel(product.Rarity)),
		s.price.Render(FormatCoins(product.Price)),
	}

	specs := []string{
		specLine("height", product.Specs.Height, s),
		specLine("weight", product.Specs.Weight, s),
		specLine("body type", product.Specs.BodyType, s),
		specLine("hair color", product.Specs.HairColor, s),
		specLine("eye color", product.Specs.EyeColor, s),
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, specs...)))

	purchase := []string{
		s.detail.Render(fmt.Sprintf("your balance: %s", FormatCoins(view.Balance))),
		coverageLine(view.Balance, product.Price, s),
	}
	if view.CanAfford {
		purchase = append(purchase, s.credit.Render("Ready to purchase"))
	} else {
		purchase = append(purchase, s.warning.Render(fmt.Sprintf("You need %s more coins", formatNumber(view.Shortfall))))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, purchase...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func specLine(key, value string, s styles) string {
	if strings.TrimSpace(value) == "" {
		value = "unknown"
	}

	return s.specKey.Render(key+":") + " " + s.detail.Render(value)
}

func coverageLine(balance, price int64, s styles) string {
	covered := 100.0
	if price > 0 {
		covered = clampPercent(float64(balance) / float64(price) * 100)
	}

	percentStyle := lipgloss.NewStyle().Foreground(interpolateColor(covered, 0, 100))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		renderProgressBar(covered, 24, s),
		" ",
		percentStyle.Render(fmt.Sprintf("%3.0f%% covered", covered)),
	)
}

func renderProfile(profile application.Profile, opts ProfileOptions, s styles) string {
	lines := []string{
		s.title.Render("Profile"),
		s.name.Render(profile.UserName),
		s.detail.Render(fmt.Sprintf("balance: %s", FormatCoins(profile.Balance))),
		s.header.Render(fmt.Sprintf("codes redeemed this session: %d", profile.ClaimedCodes)),
	}

	activity := []string{s.title.Render("Recent Activity")}
	if len(profile.Activity) == 0 {
		activity = append(activity, s.empty.Render("No activity yet"))
	}
	for _, entry := range profile.Activity {
		activity = append(activity, activityLine(entry, opts.Now, s))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, activity...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func activityLine(entry domain.Activity, now time.Time, s styles) string {
	amountStyle := s.credit
	amount := "+" + formatNumber(entry.Amount)
	if entry.Amount < 0 {
		amountStyle = s.debit
		amount = "-" + formatNumber(-entry.Amount)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		amountStyle.Render(fmt.Sprintf("%8s", amount)),
		" ",
		s.detail.Render(entry.Item),
		" ",
		s.meta.Render(fmt.Sprintf("(%s)", formatAgo(entry.At, now))),
	)
}

func rarityLabel(r domain.Rarity) string {
	return fmt.Sprintf("%s %s", r, strings.Repeat("*", r.Rank()))
}

func renderProgressBar(filledPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(filledPercent) / 100.0))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// FormatCoins renders an amount the way every storefront view shows it.
func FormatCoins(amount int64) string {
	return formatNumber(amount) + " coins"
}

// formatNumber groups digits by thousands: 12500 -> "12,500".
func formatNumber(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + b.String()
}

func formatAgo(at, now time.Time) string {
	if now.IsZero() {
		return at.Format("15:04 on 02 Jan")
	}

	elapsed := now.Sub(at)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute") + " ago"
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hour") + " ago"
	default:
		return plural(int(elapsed.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// greyscale ramp 240 (faded) to 255 (bright)
	colorCode := int(240.0 + 15.0*normalized)

	return lipgloss.Color(strconv.Itoa(colorCode))
}
