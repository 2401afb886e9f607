package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"convcompare/internal/results"
	"convcompare/internal/runner"
	"convcompare/internal/spec"
)

// Controller implements runner.RunObserver. It shows a live table while a
// configuration runs and falls back to plain console lines around it, so
// the reconfiguration prompt never competes with the UI for the terminal.
type Controller struct {
	stdout io.Writer
	opts   Options
	plain  *runner.Console
	info   runner.RunInfo

	mu      sync.Mutex
	session *session
}

// session is one running Bubble Tea program.
type session struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// NewController builds a controller writing to stdout. No program runs
// until the first configuration starts.
func NewController(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Controller{
		stdout: stdout,
		opts:   opts,
		plain:  runner.NewConsole(stdout, opts.NoColor),
	}
}

// start launches a program fed by a fresh event channel.
func start(stdout io.Writer, opts Options) *session {
	events := make(chan Event, 256)
	programOpts := []tea.ProgramOption{tea.WithOutput(stdout)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	s := &session{
		events:  events,
		program: tea.NewProgram(NewModel(events, opts), programOpts...),
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = s.program.Run()
		close(s.done)
	}()
	return s
}

// close signals the program to stop and waits for it to exit.
func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.events)
	})
	<-s.done
}

// send enqueues an event without blocking the caller.
func (s *session) send(event Event) {
	select {
	case s.events <- event:
	default:
	}
}

// Close stops any running program.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()
	if s != nil {
		s.close()
	}
}

func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s != nil {
		s.send(event)
	}
}

// OnRunStart prints the run banner and remembers run details for the header.
func (c *Controller) OnRunStart(info runner.RunInfo) {
	c.info = info
	c.plain.OnRunStart(info)
}

// OnConfigStart starts a program for the configuration.
func (c *Controller) OnConfigStart(index, total int, cfg spec.Configuration) {
	c.Close()
	s := start(c.stdout, c.opts)
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	s.send(Event{Kind: EventRunStart, Run: c.info})
	s.send(Event{Kind: EventConfigStart, ConfigIndex: index, ConfigTotal: total, Config: cfg, Scenarios: c.info.Scenarios})
}

// OnReconfigure prints the operator instructions once the UI is gone.
func (c *Controller) OnReconfigure(cfg spec.Configuration) {
	c.Close()
	c.plain.OnReconfigure(cfg)
}

// OnScenarioEvent forwards scenario updates to the UI.
func (c *Controller) OnScenarioEvent(event runner.ScenarioEvent) {
	c.send(Event{Kind: EventScenario, Scenario: event})
}

// OnConfigEnd stops the UI and prints the configuration summary.
func (c *Controller) OnConfigEnd(result results.ConfigurationResult, scenarios int) {
	c.send(Event{Kind: EventConfigEnd, Result: result, Scenarios: scenarios})
	c.Close()
	c.plain.OnConfigEnd(result, scenarios)
}

// OnRunEnd stops the UI and prints the closing line.
func (c *Controller) OnRunEnd(run results.RunResult) {
	c.Close()
	c.plain.OnRunEnd(run)
}

var _ runner.RunObserver = (*Controller)(nil)
