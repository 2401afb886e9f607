package live

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the run header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	line := "Run " + state.RunID
	if state.BaseURL != "" {
		line += " | " + state.BaseURL
	}
	if !state.StartedAt.IsZero() {
		line += " | 경과: " + now.Sub(state.StartedAt).Round(100*time.Millisecond).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderConfigLine renders the current configuration line.
func renderConfigLine(state State, noColor bool) string {
	if state.ConfigName == "" {
		return ""
	}
	line := fmt.Sprintf("설정 [%d/%d] %s", state.ConfigIndex+1, state.ConfigTotal, state.ConfigName)
	if state.ConfigDescription != "" {
		line += " | " + state.ConfigDescription
	}
	return stylize(line, noColor, lipgloss.Color("240"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := fmt.Sprintf("대기: %d 진행: %d 완료: %d 실패: %d", counts.Pending, counts.Active, counts.Completed, counts.Failed)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("최근: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
