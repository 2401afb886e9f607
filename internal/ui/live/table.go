package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const nameColumn = 1

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// defaultColumns returns the columns used before the first resize.
func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 4},
		{Title: "시나리오", Width: 28},
		{Title: "분류", Width: 10},
		{Title: "상태", Width: 14},
		{Title: "감정", Width: 9},
		{Title: "점수", Width: 16},
		{Title: "경과", Width: 7},
	}
}

// columnsForWidth gives the name column whatever width is left.
func columnsForWidth(width int) []table.Column {
	columns := defaultColumns()
	fixed := 0
	for i, column := range columns {
		if i != nameColumn {
			fixed += column.Width + 2
		}
	}
	columns[nameColumn].Width = max(width-fixed-2, 12)
	return columns
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool, nameWidth int) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatScenarioID(row),
			formatName(row.Name, nameWidth),
			row.Category,
			formatStatus(row, noColor),
			row.Emotion,
			formatScore(row),
			formatRowDuration(row, now),
		})
	}
	return rows
}
