package live

import (
	"fmt"
	"time"

	"convcompare/internal/runner"
)

// Reduce applies a scenario event to the UI state.
func Reduce(state State, event runner.ScenarioEvent) State {
	state = ensureRows(state, event)
	state = applyScenarioEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRows grows the rows to cover the catalog the event belongs to.
func ensureRows(state State, event runner.ScenarioEvent) State {
	if event.ScenarioIndex < 0 {
		return state
	}
	size := max(event.ScenarioIndex+1, event.ScenarioTotal)
	if size <= len(state.Rows) {
		return state
	}
	rows := make([]ScenarioRow, size)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = ScenarioRow{Index: i, Status: pending}
	}
	state.Rows = rows
	return state
}

// applyScenarioEvent updates a row with the given event.
func applyScenarioEvent(state State, event runner.ScenarioEvent) State {
	if event.ScenarioIndex < 0 || event.ScenarioIndex >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.ScenarioIndex]
	row.ID = event.Scenario.ID
	row.Name = event.Scenario.Name
	row.Category = event.Scenario.Category
	row.TurnTotal = len(event.Scenario.Context)
	row.Status = event.Type

	switch event.Type {
	case runner.ScenarioStarted:
		row.StartedAt = event.EmittedAt
		row.FinishedAt = time.Time{}
		row.Error = ""
	case runner.ScenarioContextTurn:
		row.Turn = event.Turn
	case runner.ScenarioCompleted:
		row.Emotion = event.Reply.UserEmotion
		row.Satisfied = event.Score.Satisfied
		row.Max = event.Score.Max
		row.Rating = event.Score.Rating
		row.Scored = true
		row.FinishedAt = event.EmittedAt
	case runner.ScenarioFailed:
		row.Error = event.Error
		row.FinishedAt = event.EmittedAt
	}
	state.Rows[event.ScenarioIndex] = row
	return state
}

// recount recomputes status counts for the current rows.
func recount(rows []ScenarioRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case pending:
			counts.Pending++
		case runner.ScenarioCompleted:
			counts.Completed++
		case runner.ScenarioFailed:
			counts.Failed++
		default:
			counts.Active++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event runner.ScenarioEvent) string {
	id := event.Scenario.ID
	switch event.Type {
	case runner.ScenarioProvisioned:
		return fmt.Sprintf("S%d 계정 생성 %s", id, event.LoginID)
	case runner.ScenarioContextTurn:
		if event.TurnSkipped {
			return fmt.Sprintf("S%d 컨텍스트 %d 건너뜀", id, event.Turn)
		}
		if event.Error != "" {
			return fmt.Sprintf("S%d 컨텍스트 %d 실패: %s", id, event.Turn, event.Error)
		}
		return fmt.Sprintf("S%d 컨텍스트 %d 전송", id, event.Turn)
	case runner.ScenarioCompleted:
		return fmt.Sprintf("S%d 완료 %d/%d", id, event.Score.Satisfied, event.Score.Max)
	case runner.ScenarioFailed:
		return fmt.Sprintf("S%d %s 실패: %s", id, event.Stage, event.Error)
	}
	return ""
}
