package runner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"convcompare/internal/eval"
	"convcompare/internal/results"
	"convcompare/internal/spec"
)

type consoleStyle int

const (
	styleDefault consoleStyle = iota
	styleHeading
	styleDim
	styleSuccess
	styleError
	styleNotice
)

// Console narrates a run as plain lines, styled when the writer is a terminal.
type Console struct {
	w       io.Writer
	palette consolePalette
}

// NewConsole builds a Console for w. noColor disables styling outright.
func NewConsole(w io.Writer, noColor bool) *Console {
	return &Console{w: w, palette: paletteFor(w, noColor)}
}

type consolePalette struct {
	enabled bool
	styles  map[consoleStyle]lipgloss.Style
}

func paletteFor(w io.Writer, noColor bool) consolePalette {
	if noColor || !ShouldUseStyling(w) {
		return consolePalette{}
	}
	r := lipgloss.NewRenderer(w)
	return consolePalette{
		enabled: true,
		styles: map[consoleStyle]lipgloss.Style{
			styleHeading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
			styleDim:     r.NewStyle().Foreground(lipgloss.Color("244")),
			styleSuccess: r.NewStyle().Bold(true).Foreground(lipgloss.Color("34")),
			styleError:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("160")),
			styleNotice:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		},
	}
}

func (p consolePalette) apply(style consoleStyle, text string) string {
	if !p.enabled {
		return text
	}
	s, ok := p.styles[style]
	if !ok {
		return text
	}
	return s.Render(text)
}

// ShouldUseStyling reports whether w is a terminal that accepts colour,
// honouring NO_COLOR, TERM=dumb and CLICOLOR=0.
func ShouldUseStyling(w io.Writer) bool {
	if w == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.EqualFold(os.Getenv("CLICOLOR"), "0") {
		return false
	}
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

func (c *Console) line(style consoleStyle, format string, args ...any) {
	fmt.Fprintln(c.w, c.palette.apply(style, fmt.Sprintf(format, args...)))
}

// OnRunStart prints the run banner.
func (c *Console) OnRunStart(info RunInfo) {
	c.line(styleHeading, "🚀 AI 응답 개선 비교 테스트 시작")
	c.line(styleDim, "   실행 ID: %s", info.RunID)
	c.line(styleDim, "   서버: %s", info.BaseURL)
	c.line(styleDim, "   설정 %d개 × 시나리오 %d개", len(info.Configurations), info.Scenarios)
}

// OnConfigStart prints the configuration header.
func (c *Console) OnConfigStart(index, total int, cfg spec.Configuration) {
	c.line(styleDefault, "")
	c.line(styleHeading, "%s", strings.Repeat("=", 60))
	c.line(styleHeading, "[%d/%d] 설정: %s", index+1, total, cfg.Name)
	if cfg.Description != "" {
		c.line(styleDefault, "   %s", cfg.Description)
	}
	c.line(styleHeading, "%s", strings.Repeat("=", 60))
}

// OnReconfigure prints what the operator must change before the next
// configuration.
func (c *Console) OnReconfigure(cfg spec.Configuration) {
	c.line(styleDefault, "")
	c.line(styleNotice, "⚙️  서버 설정을 '%s'(으)로 변경하세요", cfg.Name)
	if cfg.Description != "" {
		c.line(styleDefault, "   %s", cfg.Description)
	}
	if len(cfg.Changes) > 0 {
		if cfg.File != "" {
			c.line(styleDefault, "   %s 파일:", cfg.File)
		}
		for _, change := range cfg.Changes {
			c.line(styleDefault, "     - %s", change)
		}
	}
	for i, step := range cfg.Steps {
		c.line(styleDefault, "   %d. %s", i+1, step)
	}
}

// OnScenarioEvent narrates scenario progress.
func (c *Console) OnScenarioEvent(event ScenarioEvent) {
	switch event.Type {
	case ScenarioStarted:
		c.line(styleDefault, "")
		c.line(styleHeading, "📝 시나리오 %d: %s (%s)", event.Scenario.ID, event.Scenario.Name, event.Scenario.Category)
		if event.Scenario.Description != "" {
			c.line(styleDim, "   %s", event.Scenario.Description)
		}
	case ScenarioProvisioned:
		c.line(styleDim, "   계정 생성: %s", event.LoginID)
	case ScenarioContextTurn:
		switch {
		case event.TurnSkipped:
			c.line(styleDim, "   [컨텍스트 %d] 사용자 발화가 아니어서 건너뜀", event.Turn)
		case event.Error != "":
			c.line(styleError, "   [컨텍스트 %d] 실패: %s", event.Turn, event.Error)
		default:
			c.line(styleDim, "   [컨텍스트 %d] 👤 %s", event.Turn, event.Message)
			c.line(styleDim, "   [컨텍스트 %d] 🤖 %s", event.Turn, event.Reply.AIResponse)
		}
	case ScenarioProbing:
		c.line(styleDefault, "   👤 %s", event.Message)
	case ScenarioCompleted:
		c.line(styleDefault, "   🤖 %s", event.Reply.AIResponse)
		c.line(styleSuccess, "   감정: %s | 점수: %d/%d %s", event.Reply.UserEmotion, event.Score.Satisfied, event.Score.Max, eval.Stars(event.Score.Rating))
	case ScenarioFailed:
		c.line(styleError, "   ❌ 시나리오 %d 실패 (%s): %s", event.Scenario.ID, event.Stage, event.Error)
	}
}

// OnConfigEnd prints how many scenarios succeeded.
func (c *Console) OnConfigEnd(result results.ConfigurationResult, scenarios int) {
	style := styleSuccess
	if len(result.Scenarios) < scenarios {
		style = styleNotice
	}
	c.line(styleDefault, "")
	c.line(style, "✅ %s: %d/%d 시나리오 성공", result.ConfigName, len(result.Scenarios), scenarios)
}

// OnRunEnd prints the closing line.
func (c *Console) OnRunEnd(run results.RunResult) {
	c.line(styleDefault, "")
	if run.Aborted {
		c.line(styleNotice, "⚠️  테스트가 중단되었습니다 (설정 %d개 완료)", len(run.Configurations))
		return
	}
	c.line(styleSuccess, "🏁 모든 테스트 완료")
}
