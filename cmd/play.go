package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/rally-cli/internal/application"
	"github.com/bnema/rally-cli/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type playScorer interface {
	Execute(ctx context.Context, session domain.LiveMatchSession, cmd application.ScoreCommand) (application.Outcome, error)
	Finalize(ctx context.Context, session domain.LiveMatchSession, allowUndetermined bool) (domain.MatchSummary, error)
	StatusOf(session domain.LiveMatchSession) application.MatchStatus
}

type playKeyMap struct {
	PointA   key.Binding
	PointB   key.Binding
	RemoveA  key.Binding
	RemoveB  key.Binding
	Advance  key.Binding
	Undo     key.Binding
	Pause    key.Binding
	Finalize key.Binding
	Quit     key.Binding
}

func newPlayKeyMap() playKeyMap {
	return playKeyMap{
		PointA:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "point A")),
		PointB:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "point B")),
		RemoveA:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "remove A")),
		RemoveB:  key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "remove B")),
		Advance:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next set")),
		Undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Pause:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Finalize: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finalize")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k playKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PointA, k.PointB, k.Advance, k.Undo, k.Pause, k.Finalize, k.Quit}
}

func (k playKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PointA, k.PointB, k.RemoveA, k.RemoveB},
		{k.Advance, k.Undo, k.Pause},
		{k.Finalize, k.Quit},
	}
}

type playTickMsg time.Time

type playModel struct {
	ctx     context.Context
	scorer  playScorer
	board   func(application.MatchStatus) string
	session domain.LiveMatchSession
	keys    playKeyMap
	help    help.Model

	message      string
	messageStyle lipgloss.Style
	// unsaved is set while the latest state failed to persist.
	unsaved             bool
	confirmUndetermined bool
	summary             *domain.MatchSummary
}

func newPlayModel(ctx context.Context, scorer playScorer, board func(application.MatchStatus) string, session domain.LiveMatchSession) playModel {
	return playModel{
		ctx:     ctx,
		scorer:  scorer,
		board:   board,
		session: session,
		keys:    newPlayKeyMap(),
		help:    help.New(),
	}
}

func playTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return playTickMsg(t)
	})
}

func (m playModel) Init() tea.Cmd {
	return playTick()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case playTickMsg:
		return m, playTick()
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m playModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Finalize) {
		m.confirmUndetermined = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.PointA):
		m = m.execute(application.ActionAddPoint, domain.SideA)
	case key.Matches(msg, m.keys.PointB):
		m = m.execute(application.ActionAddPoint, domain.SideB)
	case key.Matches(msg, m.keys.RemoveA):
		m = m.execute(application.ActionRemovePoint, domain.SideA)
	case key.Matches(msg, m.keys.RemoveB):
		m = m.execute(application.ActionRemovePoint, domain.SideB)
	case key.Matches(msg, m.keys.Advance):
		m = m.execute(application.ActionAdvanceSet, "")
	case key.Matches(msg, m.keys.Undo):
		m = m.execute(application.ActionUndo, "")
	case key.Matches(msg, m.keys.Pause):
		action := application.ActionPause
		if m.session.Clock.Paused {
			action = application.ActionResume
		}
		m = m.execute(action, "")
	case key.Matches(msg, m.keys.Finalize):
		m = m.finalize()
		if m.summary != nil {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m playModel) execute(action application.Action, side domain.Side) playModel {
	outcome, err := m.scorer.Execute(m.ctx, m.session, application.ScoreCommand{
		MatchID: m.session.MatchID,
		Action:  action,
		Side:    side,
	})
	if err != nil {
		return m.withError(err.Error())
	}

	m.session = outcome.Session
	if outcome.PersistErr != nil {
		m.unsaved = true
		return m.withError("not saved, scoring continues in memory: " + outcome.PersistErr.Error())
	}

	m.unsaved = false
	m.message = ""
	return m
}

func (m playModel) finalize() playModel {
	summary, err := m.scorer.Finalize(m.ctx, m.session, m.confirmUndetermined)
	if err != nil {
		if errors.Is(err, domain.ErrUndeterminedResult) && !m.confirmUndetermined {
			m.confirmUndetermined = true
			m.message = "no side leads on sets, press f again to record an undetermined result"
			m.messageStyle = playNoticeStyle
			return m
		}
		m.confirmUndetermined = false
		return m.withError(err.Error())
	}

	m.summary = &summary
	return m
}

func (m playModel) withError(message string) playModel {
	m.message = message
	m.messageStyle = playErrorStyle
	return m
}

var (
	playErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	playNoticeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

func (m playModel) View() string {
	if m.summary != nil {
		return fmt.Sprintf("match %s finalized: %s\n", m.summary.MatchID, m.summary.Result)
	}

	parts := []string{m.board(m.scorer.StatusOf(m.session))}
	if m.message != "" {
		parts = append(parts, m.messageStyle.Render(m.message))
	}
	parts = append(parts, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func newPlayCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play <match-id>",
		Short: "Score a live match interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := loadSession(cmd, app, args[0])
			if err != nil {
				return err
			}

			return runPlay(cmd, app.service, app.boardRenderer, session)
		},
	}
}

func runPlay(cmd *cobra.Command, scorer playScorer, board func(application.MatchStatus) string, session domain.LiveMatchSession) error {
	p := tea.NewProgram(
		newPlayModel(cmd.Context(), scorer, board, session),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(playModel)
	if !ok {
		return fmt.Errorf("unexpected final play model type %T", finalModel)
	}

	if result.unsaved && result.summary == nil {
		return fmt.Errorf("%w: the latest score of match %s only existed in memory", errNotSaved, result.session.MatchID)
	}

	return nil
}
