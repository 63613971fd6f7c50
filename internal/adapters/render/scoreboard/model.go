// Package scoreboard renders live match statuses and match history for the
// terminal.
package scoreboard

import (
	"errors"
	"io"

	"github.com/bnema/rally-cli/internal/application"
	"github.com/bnema/rally-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

// model is a one-shot program: it renders once and quits.
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

// Render draws one scoreboard per live match.
func Render(statuses []application.MatchStatus, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderLive(statuses, opts, s)
	})
}

// RenderHistory draws finalized matches, newest first as given.
func RenderHistory(summaries []domain.MatchSummary, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderHistory(summaries, opts, s)
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
