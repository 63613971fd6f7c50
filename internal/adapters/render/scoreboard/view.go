package scoreboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/rally-cli/internal/application"
	"github.com/bnema/rally-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
}

// Board renders a single match scoreboard without going through a bubbletea
// program, for embedding in an interactive view.
func Board(status application.MatchStatus) string {
	return renderBoard(status, newStyles())
}

func renderLive(statuses []application.MatchStatus, _ RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Live matches"),
		s.header.Render(fmt.Sprintf("matches: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No live matches."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderBoard(status, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderBoard(status application.MatchStatus, s styles) string {
	title := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.title.Render(matchTitle(status.Participants)),
		"  ",
		statusBadge(status.Status, s),
	)

	parts := []string{
		title,
		s.header.Render(rulesLine(status.Participants.Format, status.Rules)),
		s.header.Render("id: " + string(status.MatchID)),
		"",
		scoreTable(status, s),
		"",
		s.meta.Render(fmt.Sprintf("set %d | elapsed %s | undo %d", status.SetNumber, formatElapsed(status.Elapsed), status.UndoDepth)),
	}

	if notice := boardNotice(status); notice != "" {
		parts = append(parts, s.notice.Render(notice))
	}

	return s.board.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func scoreTable(status application.MatchStatus, s styles) string {
	nameA := status.Participants.Name(domain.SideA)
	nameB := status.Participants.Name(domain.SideB)
	nameWidth := max(lipgloss.Width(nameA), lipgloss.Width(nameB), 4)
	showCurrent := status.MatchWinner == ""

	header := []string{strings.Repeat(" ", nameWidth)}
	for i := range status.CompletedSets {
		header = append(header, s.header.Render(fmt.Sprintf("%4s", fmt.Sprintf("S%d", i+1))))
	}
	if showCurrent {
		header = append(header, s.header.Render(fmt.Sprintf("%5s", fmt.Sprintf("S%d*", status.SetNumber))))
	}
	header = append(header, s.header.Render(fmt.Sprintf("%6s", "sets")))

	rows := []string{strings.Join(header, "")}
	for _, side := range []domain.Side{domain.SideA, domain.SideB} {
		name := padRight(status.Participants.Name(side), nameWidth)
		nameStyle := s.player
		if status.MatchWinner == side {
			nameStyle = s.leader
		}

		cells := []string{nameStyle.Render(name)}
		for _, set := range status.CompletedSets {
			cellStyle := s.cell
			if leader, ok := set.Leader(); ok && leader == side {
				cellStyle = s.leader
			}
			cells = append(cells, cellStyle.Render(fmt.Sprintf("%4d", set.Points(side))))
		}
		if showCurrent {
			cells = append(cells, s.current.Render(fmt.Sprintf("%5d", status.CurrentSet.Points(side))))
		}
		cells = append(cells, s.setsWon.Render(fmt.Sprintf("%6d", setsWonBy(status, side))))

		rows = append(rows, strings.Join(cells, ""))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// padRight pads by display cells so wide or accented names keep columns aligned.
func padRight(text string, width int) string {
	if gap := width - lipgloss.Width(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}

func setsWonBy(status application.MatchStatus, side domain.Side) int {
	if side == domain.SideB {
		return status.SetsWonB
	}
	return status.SetsWonA
}

func boardNotice(status application.MatchStatus) string {
	if status.MatchWinner != "" {
		return fmt.Sprintf("match won by %s, finalize to record it", status.Participants.Name(status.MatchWinner))
	}
	if status.SetComplete && status.SetWinner != "" {
		return fmt.Sprintf("set %d won by %s, advance to continue", status.SetNumber, status.Participants.Name(status.SetWinner))
	}
	return ""
}

func statusBadge(status domain.SessionStatus, s styles) string {
	switch status {
	case domain.StatusPaused:
		return s.paused.Render("[paused]")
	case domain.StatusCompleted:
		return s.completed.Render("[completed]")
	default:
		return s.running.Render("[running]")
	}
}

func matchTitle(p domain.Participants) string {
	return fmt.Sprintf("%s vs %s", p.SideA, p.SideB)
}

func rulesLine(format domain.Format, rules domain.MatchRules) string {
	deuce := "deuce"
	if !rules.DeuceEnabled {
		deuce = "no deuce"
	}
	return fmt.Sprintf("%s, to %d, best of %d, %s", format, rules.TargetPoints, rules.BestOfSets, deuce)
}

func renderHistory(summaries []domain.MatchSummary, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Match history"),
		s.header.Render(fmt.Sprintf("matches: %d", len(summaries))),
	}

	if len(summaries) == 0 {
		lines = append(lines, s.empty.Render("No finalized matches."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, summary := range summaries {
		lines = append(lines, s.section.Render(historyEntry(summary, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func historyEntry(summary domain.MatchSummary, opts RenderOptions, s styles) string {
	sets := make([]string, 0, len(summary.CompletedSets))
	for _, set := range summary.CompletedSets {
		sets = append(sets, set.String())
	}
	score := strings.Join(sets, " ")
	if score == "" {
		score = "no sets"
	}

	headline := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.title.Render(resultLine(summary)),
		"  ",
		s.current.Render(score),
		"  ",
		s.meta.Render("("+formatElapsed(summary.Duration)+")"),
	)

	meta := fmt.Sprintf("%s | %s | finalized %s", summary.MatchID, summary.Participants.Format, formatFinalizedAt(summary.FinalizedAt, opts.Now))

	return lipgloss.JoinVertical(lipgloss.Left, headline, s.header.Render(meta))
}

func resultLine(summary domain.MatchSummary) string {
	p := summary.Participants
	switch summary.Result {
	case domain.ResultSideAWins:
		return fmt.Sprintf("%s def. %s", p.SideA, p.SideB)
	case domain.ResultSideBWins:
		return fmt.Sprintf("%s def. %s", p.SideB, p.SideA)
	default:
		return fmt.Sprintf("%s vs %s, undetermined", p.SideA, p.SideB)
	}
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func formatFinalizedAt(finalizedAt, now time.Time) string {
	if finalizedAt.IsZero() {
		return "unknown"
	}
	if now.IsZero() {
		return finalizedAt.Format(time.RFC3339)
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := finalizedAt.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return finalizedAt.Format("15:04")
	}

	return finalizedAt.Format("15:04 on 02 Jan")
}
