package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quizdrill/internal/domain"
)

// renderDrillView renders the active question screen.
func renderDrillView(state State, width int, noColor bool) string {
	header := renderHeader(state, noColor)
	question := renderQuestion(state, width, noColor)
	footer := renderFooter(state, drillHelp, noColor)
	return lipgloss.JoinVertical(lipgloss.Left, header, "", question, "", footer)
}

// renderSummaryView renders the end-of-run summary screen.
func renderSummaryView(state State, tableView string, noColor bool) string {
	summary := state.Summary
	header := stylize(fmt.Sprintf("Drill complete: %d%% (%d/%d correct)",
		summary.Percent, summary.Stats.Correct, summary.Stats.Total), noColor, colorHeader)
	body := stylize("All questions answered correctly.", noColor, colorDim)
	if len(summary.Incorrect) > 0 {
		body = tableView
	}
	footer := renderFooter(state, summaryHelp, noColor)
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer)
}

// renderHeader renders the title and progress line.
func renderHeader(state State, noColor bool) string {
	progress := state.Progress
	line := state.Title
	if line == "" {
		line = "Drill"
	}
	line += fmt.Sprintf(" | %d/%d answered", progress.Answered, progress.Total)
	if progress.Answered > 0 {
		line += fmt.Sprintf(" | %d%%", progress.Percent)
	}
	return stylize(line, noColor, colorHeader)
}

// renderQuestion renders the current question with its choices.
func renderQuestion(state State, width int, noColor bool) string {
	q, ok := CurrentQuestion(state)
	if !ok {
		return stylize("No questions loaded.", noColor, colorDim)
	}

	tag := "Single"
	if q.Type == domain.TypeMultiple {
		tag = "Multiple"
	}
	title := fmt.Sprintf("Q%d of %d [%s]", state.Current+1, len(state.Questions), tag)
	lines := []string{stylize(title, noColor, colorDim), truncate(q.Text, max(width-2, 40))}

	feedback, graded := state.Feedback[q.ID]
	for i, choice := range q.Choices {
		lines = append(lines, renderChoice(state, q, choice, i, feedback, graded, noColor))
	}
	if q.Status.Terminal() && q.Explanation != "" {
		lines = append(lines, "", stylize("Explanation: "+q.Explanation, noColor, colorDim))
	}
	return strings.Join(lines, "\n")
}

// renderChoice renders one choice row with cursor, check state, and any
// grading mark.
func renderChoice(state State, q domain.Question, choice domain.Choice, index int, feedback domain.Feedback, graded bool, noColor bool) string {
	cursor := "  "
	if index == state.Cursor && !q.Status.Terminal() {
		cursor = "> "
	}

	checked := containsKey(q.SelectedKeys, choice.Key)
	box := "( )"
	if q.Type == domain.TypeMultiple {
		box = "[ ]"
		if checked {
			box = "[x]"
		}
	} else if checked {
		box = "(x)"
	}

	line := fmt.Sprintf("%s%s %s. %s", cursor, box, choice.Key, choice.Text)
	if !graded {
		return line
	}
	for _, effect := range feedback.Marks {
		if effect.Key != choice.Key {
			continue
		}
		switch effect.Mark {
		case domain.MarkCorrect:
			return stylize(line+"  (correct)", noColor, colorCorrect)
		case domain.MarkIncorrect:
			return stylize(line+"  (incorrect)", noColor, colorIncorrect)
		case domain.MarkMissed:
			return stylize(line+"  (missed)", noColor, colorMissed)
		}
	}
	return line
}

// renderFooter renders the help line plus the last event, if any.
func renderFooter(state State, help string, noColor bool) string {
	footer := stylize(help, noColor, colorHelp)
	if state.LastEvent != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left,
			stylize(state.LastEvent, noColor, colorDim), footer)
	}
	return footer
}

const (
	drillHelp   = "space/enter toggle | j/k move | tab next question | r reset | q quit"
	summaryHelp = "e export incorrect | r retry | q quit"
)

const (
	colorHeader    = lipgloss.Color("33")
	colorDim       = lipgloss.Color("244")
	colorHelp      = lipgloss.Color("240")
	colorCorrect   = lipgloss.Color("10")
	colorIncorrect = lipgloss.Color("9")
	colorMissed    = lipgloss.Color("11")
)

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// containsKey reports whether keys holds key.
func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// truncate shortens text to at most limit runes.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if limit <= 3 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}
