package live

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the Bubble Tea program for one configuration's scenario table.
type Model struct {
	state        State
	table        table.Model
	events       <-chan Event
	tickInterval time.Duration
	now          time.Time
	noColor      bool
	nameWidth    int
	interrupt    func()
}

// Options configures the live UI.
type Options struct {
	NoColor      bool
	TickInterval time.Duration
	// AltScreen renders in the terminal's alternate screen.
	AltScreen bool
	// Interrupt is called on ctrl+c, which the terminal no longer delivers
	// as a signal while the UI owns it.
	Interrupt func()
}

// NewModel builds a model fed by events; the rows appear at EventConfigStart.
func NewModel(events <-chan Event, opts Options) Model {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = 200 * time.Millisecond
	}
	columns := defaultColumns()
	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	return Model{
		table:        t,
		events:       events,
		tickInterval: tickInterval,
		now:          time.Now(),
		noColor:      opts.NoColor,
		nameWidth:    columns[nameColumn].Width,
		interrupt:    opts.Interrupt,
	}
}

func (m Model) State() State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(nextEvent(m.events), clockTick(m.tickInterval))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		m = applyEvent(m, msg.Event)
		return m, nextEvent(m.events)
	case clockMsg:
		m.now = time.Time(msg)
		m.refreshRows()
		return m, clockTick(m.tickInterval)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.state, m.now, m.noColor),
		renderConfigLine(m.state, m.noColor),
		renderSummary(m.state, m.noColor),
		m.table.View(),
		renderFooter(m.state, m.noColor),
	)
}

func (m *Model) resize(width, height int) {
	columns := columnsForWidth(width)
	m.nameWidth = columns[nameColumn].Width
	m.table.SetColumns(columns)
	m.table.SetWidth(width)
	// header, config line, summary, footer and a spacer
	m.table.SetHeight(max(height-5, 1))
	m.refreshRows()
}

func (m *Model) refreshRows() {
	m.table.SetRows(rowsForState(m.state, m.now, m.noColor, m.nameWidth))
}

// handleKey only reacts to ctrl+c; the scenario table is not interactive.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyCtrlC {
		return m, nil
	}
	if m.interrupt != nil {
		m.interrupt()
	}
	return m, tea.Quit
}

// EventMsg delivers a run event to the program.
type EventMsg struct {
	Event Event
}

type clockMsg time.Time

// nextEvent reads one event; a closed channel ends the program.
func nextEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		if event, ok := <-events; ok {
			return EventMsg{Event: event}
		}
		return tea.Quit()
	}
}

func clockTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func applyEvent(model Model, event Event) Model {
	switch event.Kind {
	case EventRunStart:
		model.state.RunID = event.Run.RunID
		model.state.BaseURL = event.Run.BaseURL
		model.state.StartedAt = event.Run.StartedAt
	case EventConfigStart:
		model.state.ConfigName = event.Config.Name
		model.state.ConfigDescription = event.Config.Description
		model.state.ConfigIndex = event.ConfigIndex
		model.state.ConfigTotal = event.ConfigTotal
		model.state.Rows = make([]ScenarioRow, event.Scenarios)
		for i := range model.state.Rows {
			model.state.Rows[i] = ScenarioRow{Index: i, Status: pending}
		}
		model.state.Counts = recount(model.state.Rows)
		model.state.LastEvent = ""
	case EventScenario:
		model.state = Reduce(model.state, event.Scenario)
	case EventConfigEnd:
		model.state.LastEvent = formatConfigEnd(event)
	}
	model.refreshRows()
	return model
}

func formatConfigEnd(event Event) string {
	return fmt.Sprintf("%s 완료: %d/%d 시나리오 성공", event.Result.ConfigName, len(event.Result.Scenarios), event.Scenarios)
}
