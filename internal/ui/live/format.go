package live

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"convcompare/internal/eval"
	"convcompare/internal/runner"
)

// formatScenarioID returns the display id for a scenario row.
func formatScenarioID(row ScenarioRow) string {
	id := row.ID
	if id == 0 {
		id = row.Index + 1
	}
	if id < 10 {
		return "S0" + strconv.Itoa(id)
	}
	return "S" + strconv.Itoa(id)
}

// formatName truncates a scenario name to limit runes.
func formatName(name string, limit int) string {
	normalized := strings.Join(strings.Fields(name), " ")
	runes := []rune(normalized)
	if limit <= 3 || len(runes) <= limit {
		return normalized
	}
	return string(runes[:limit-3]) + "..."
}

// statusLabel renders the status text for a row.
func statusLabel(row ScenarioRow) string {
	switch row.Status {
	case pending:
		return "대기"
	case runner.ScenarioStarted:
		return "시작"
	case runner.ScenarioProvisioned:
		return "계정 생성"
	case runner.ScenarioContextTurn:
		return fmt.Sprintf("컨텍스트 %d/%d", row.Turn, row.TurnTotal)
	case runner.ScenarioProbing:
		return "질문 전송"
	case runner.ScenarioCompleted:
		return "완료"
	case runner.ScenarioFailed:
		return "실패"
	default:
		return string(row.Status)
	}
}

// formatStatus renders a status cell, styled unless noColor.
func formatStatus(row ScenarioRow, noColor bool) string {
	label := statusLabel(row)
	if noColor {
		return label
	}
	return statusStyle(row.Status).Render(label)
}

// formatScore renders satisfied/max and stars for scored rows.
func formatScore(row ScenarioRow) string {
	if !row.Scored {
		return ""
	}
	return fmt.Sprintf("%d/%d %s", row.Satisfied, row.Max, eval.Stars(row.Rating))
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row ScenarioRow, now time.Time) string {
	if row.StartedAt.IsZero() {
		return ""
	}
	end := now
	if !row.FinishedAt.IsZero() {
		end = row.FinishedAt
	}
	return formatDuration(end.Sub(row.StartedAt))
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(100 * time.Millisecond).String()
}

// statusStyle selects a style for a given status.
func statusStyle(status runner.ScenarioEventType) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case runner.ScenarioCompleted:
		color = lipgloss.Color("42")
	case runner.ScenarioFailed:
		color = lipgloss.Color("196")
	case runner.ScenarioContextTurn:
		color = lipgloss.Color("39")
	case runner.ScenarioProbing:
		color = lipgloss.Color("33")
	case runner.ScenarioStarted, runner.ScenarioProvisioned:
		color = lipgloss.Color("201")
	}
	return lipgloss.NewStyle().Foreground(color)
}
