package storefront

import (
	"github.com/bnema/punini-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	name       lipgloss.Style
	detail     lipgloss.Style
	price      lipgloss.Style
	warning    lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	specKey    lipgloss.Style
	credit     lipgloss.Style
	debit      lipgloss.Style
	meta       lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	rarity     map[domain.Rarity]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		name:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		price:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		specKey:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		credit:     lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		debit:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		meta:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		rarity: map[domain.Rarity]lipgloss.Style{
			domain.RarityCommon:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			domain.RarityRare:      lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
			domain.RarityEpic:      lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
			domain.RarityLegendary: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		},
	}
}

func (s styles) rarityStyle(r domain.Rarity) lipgloss.Style {
	if style, ok := s.rarity[r]; ok {
		return style
	}

	return s.detail
}
