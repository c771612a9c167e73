package storefront

import (
	"errors"
	"io"

	"github.com/bnema/punini-cli/internal/application"
	"github.com/bnema/punini-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	render func(styles) string
	styles styles
	output string
}

func newModel(render func(styles) string) model {
	return model{
		render: render,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.render(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// RenderCatalog lays out products as a list with price and rarity, marking
// the ones the balance does not cover.
func RenderCatalog(products []domain.Product, opts CatalogOptions) (string, error) {
	return run(func(s styles) string {
		return renderCatalog(products, opts, s)
	})
}

func RenderProduct(view application.ProductView) (string, error) {
	return run(func(s styles) string {
		return renderProduct(view, s)
	})
}

func RenderProfile(profile application.Profile, opts ProfileOptions) (string, error) {
	return run(func(s styles) string {
		return renderProfile(profile, opts, s)
	})
}

func run(render func(styles) string) (string, error) {
	p := tea.NewProgram(
		newModel(render),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
