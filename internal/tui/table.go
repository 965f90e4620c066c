package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"quizdrill/internal/domain"
)

// newSummaryTable builds the incorrect-question review table.
func newSummaryTable(summary domain.Summary, width int, noColor bool) table.Model {
	t := table.New(
		table.WithColumns(summaryColumns(width)),
		table.WithRows(rowsForSummary(summary)),
		table.WithFocused(false),
		table.WithHeight(len(summary.Incorrect)+1),
	)
	t.SetStyles(tableStyles(noColor))
	return t
}

// tableStyles returns table styles for the summary view.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// summaryColumns sizes the review columns for the terminal width.
func summaryColumns(width int) []table.Column {
	textWidth := width - 26
	if textWidth < 20 {
		textWidth = 40
	}
	return []table.Column{
		{Title: "Q", Width: 4},
		{Title: "Question", Width: textWidth},
		{Title: "Yours", Width: 9},
		{Title: "Correct", Width: 9},
	}
}

// rowsForSummary converts the incorrect review list into table rows.
func rowsForSummary(summary domain.Summary) []table.Row {
	rows := make([]table.Row, 0, len(summary.Incorrect))
	for _, item := range summary.Incorrect {
		rows = append(rows, table.Row{
			item.ID,
			truncate(item.Text, 80),
			strings.Join(item.UserSelected, ", "),
			strings.Join(item.Correct, ", "),
		})
	}
	return rows
}
