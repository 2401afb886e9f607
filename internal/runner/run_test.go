package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convcompare/internal/config"
	"convcompare/internal/mockserver"
	"convcompare/internal/report"
	"convcompare/internal/results"
	"convcompare/internal/spec"
	"convcompare/internal/testutil"
)

type recordingObserver struct {
	NopObserver
	events      []ScenarioEvent
	reconfigure []string
	ended       *results.RunResult
	onEvent     func(ScenarioEvent)
}

func (r *recordingObserver) OnScenarioEvent(event ScenarioEvent) {
	r.events = append(r.events, event)
	if r.onEvent != nil {
		r.onEvent(event)
	}
}

func (r *recordingObserver) OnReconfigure(cfg spec.Configuration) {
	r.reconfigure = append(r.reconfigure, cfg.Name)
}

func (r *recordingObserver) OnRunEnd(run results.RunResult) {
	r.ended = &run
}

func (r *recordingObserver) ofType(kind ScenarioEventType) []ScenarioEvent {
	var out []ScenarioEvent
	for _, event := range r.events {
		if event.Type == kind {
			out = append(out, event)
		}
	}
	return out
}

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func startTarget(t *testing.T, opts mockserver.Options) (*mockserver.Server, spec.Config) {
	t.Helper()
	target := testutil.StartTarget(t, opts)
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Target.BaseURL = target.BaseURL
	return target.Server, cfg
}

func testParams(clock *testutil.FakeClock, observer RunObserver, selectors ...string) RunParams {
	return RunParams{
		Selectors: selectors,
		Deps: RunDependencies{
			Observer: observer,
			Sleep:    clock.Sleep,
			Now:      clock.Now,
			RunID:    func() (string, error) { return "run-1", nil },
		},
	}
}

func newClock() *testutil.FakeClock {
	return testutil.NewFakeClock(fixedNow)
}

func scenarioIDs(result results.ConfigurationResult) []int {
	ids := make([]int, 0, len(result.Scenarios))
	for _, scenario := range result.Scenarios {
		ids = append(ids, scenario.ScenarioID)
	}
	return ids
}

func TestRunCapturesCatalogPerConfiguration(t *testing.T) {
	server, cfg := startTarget(t, mockserver.Options{})
	sleep := newClock()
	observer := &recordingObserver{}
	var gated []string
	params := testParams(sleep, observer, "baseline", "improved_prompt")
	params.Deps.Gate = GateFunc(func(_ context.Context, next spec.Configuration) error {
		gated = append(gated, next.Name)
		return nil
	})

	run, err := Run(testutil.Context(t, 0), cfg, params)
	require.NoError(t, err)

	assert.Equal(t, "run-1", run.RunID)
	assert.False(t, run.Aborted)
	require.NotNil(t, run.FinishedAt)
	require.Len(t, run.Catalog, 5)
	assert.True(t, run.Catalog[3].HasContext)
	require.Len(t, run.Configurations, 2)
	assert.Equal(t, []string{"improved_prompt"}, gated)
	assert.Equal(t, []string{"improved_prompt"}, observer.reconfigure)

	for _, result := range run.Configurations {
		assert.Equal(t, []int{1, 2, 3, 4, 5}, scenarioIDs(result))
		assert.Empty(t, result.Failures)
		for _, scenario := range result.Scenarios {
			require.True(t, scenario.Recorded())
			assert.Equal(t, len(scenario.ExpectedElements), *scenario.MaxScore)
			assert.NotEmpty(t, scenario.AIResponse)
			assert.NotEmpty(t, scenario.UserEmotion)
		}
	}
	assert.Equal(t, "baseline", run.Configurations[0].ConfigName)
	require.NotNil(t, run.Configurations[1].Profile)
	assert.NotEmpty(t, run.Configurations[1].Profile.Changes)

	// One fresh account per scenario per configuration.
	assert.Equal(t, 10, server.Signups())
	// Three context turns and five scenario pauses per configuration.
	assert.Equal(t, 6, sleep.Count(cfg.Delays.ContextTurn))
	assert.Equal(t, 10, sleep.Count(cfg.Delays.Scenario))
	assert.Len(t, observer.ofType(ScenarioContextTurn), 6)
	require.NotNil(t, observer.ended)
}

func TestRunReplaysContextBeforeProbe(t *testing.T) {
	server, cfg := startTarget(t, mockserver.Options{})
	observer := &recordingObserver{}
	_, err := Run(testutil.Context(t, 0), cfg, testParams(newClock(), observer, "baseline"))
	require.NoError(t, err)

	var loginID string
	for _, event := range observer.ofType(ScenarioProvisioned) {
		if event.Scenario.ID == 4 {
			loginID = event.LoginID
		}
	}
	require.NotEmpty(t, loginID)
	assert.Equal(t, []string{
		"오늘 공원에 다녀왔어요",
		"날씨도 좋고 친구도 만났어요",
		"오늘도 공원 다녀올까 해요",
	}, server.History(loginID))
}

func TestRunRecordsProbeFailures(t *testing.T) {
	_, cfg := startTarget(t, mockserver.Options{FailOn: map[string]int{"무릎": 500}})
	sleep := newClock()
	observer := &recordingObserver{}

	run, err := Run(testutil.Context(t, 0), cfg, testParams(sleep, observer, "baseline"))
	require.NoError(t, err)

	result := run.Configurations[0]
	assert.Equal(t, []int{1, 2, 4, 5}, scenarioIDs(result))
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 3, result.Failures[0].ScenarioID)
	assert.Equal(t, results.StageProbe, result.Failures[0].Stage)
	assert.Contains(t, result.Failures[0].Error, "HTTP 500")
	assert.Equal(t, 4, sleep.Count(cfg.Delays.Scenario))
	require.Len(t, observer.ofType(ScenarioFailed), 1)
}

func TestRunRecordsProvisionFailures(t *testing.T) {
	// Signup replies carry no token, so signup_token mode cannot proceed.
	_, cfg := startTarget(t, mockserver.Options{RequireLogin: true})
	sleep := newClock()

	run, err := Run(testutil.Context(t, 0), cfg, testParams(sleep, NopObserver{}, "baseline"))
	require.NoError(t, err)

	result := run.Configurations[0]
	assert.NotNil(t, result.Scenarios)
	assert.Empty(t, result.Scenarios)
	require.Len(t, result.Failures, 5)
	for _, failure := range result.Failures {
		assert.Equal(t, results.StageProvision, failure.Stage)
	}
	assert.Zero(t, sleep.Count(cfg.Delays.Scenario))
}

func TestRunSignupLoginMode(t *testing.T) {
	_, cfg := startTarget(t, mockserver.Options{RequireLogin: true})
	cfg.Auth.Mode = spec.AuthModeSignupLogin

	run, err := Run(testutil.Context(t, 0), cfg, testParams(newClock(), nil, "baseline"))
	require.NoError(t, err)
	assert.Len(t, run.Configurations[0].Scenarios, 5)
}

func TestRunContinuesPastFailedContextTurn(t *testing.T) {
	_, cfg := startTarget(t, mockserver.Options{FailOn: map[string]int{"공원에 다녀왔어요": 503}})
	sleep := newClock()
	observer := &recordingObserver{}

	run, err := Run(testutil.Context(t, 0), cfg, testParams(sleep, observer, "baseline"))
	require.NoError(t, err)

	assert.Len(t, run.Configurations[0].Scenarios, 5)
	turns := observer.ofType(ScenarioContextTurn)
	require.Len(t, turns, 3)
	assert.Contains(t, turns[0].Error, "HTTP 503")
	assert.Empty(t, turns[1].Error)
	assert.Equal(t, 3, sleep.Count(cfg.Delays.ContextTurn))
}

func TestRunUsesVariantReplyField(t *testing.T) {
	_, cfg := startTarget(t, mockserver.Options{ReplyField: mockserver.ReplyFieldAIMessage})
	cfg.Contract.ReplyPath = "data.aiMessage.content"

	run, err := Run(testutil.Context(t, 0), cfg, testParams(newClock(), nil, "baseline"))
	require.NoError(t, err)
	assert.Len(t, run.Configurations[0].Scenarios, 5)
}

func TestRunAbortsWhenGateFails(t *testing.T) {
	_, cfg := startTarget(t, mockserver.Options{})
	params := testParams(newClock(), nil)
	params.Deps.Gate = GateFunc(func(context.Context, spec.Configuration) error {
		return errors.New("operator quit")
	})

	run, err := Run(testutil.Context(t, 0), cfg, params)
	require.NoError(t, err)
	assert.True(t, run.Aborted)
	require.Len(t, run.Configurations, 1)
	assert.Len(t, run.Configurations[0].Scenarios, 5)
}

func TestRunAbortsOnCancel(t *testing.T) {
	_, cfg := startTarget(t, mockserver.Options{})
	ctx, cancel := context.WithCancel(testutil.Context(t, 0))
	defer cancel()
	observer := &recordingObserver{onEvent: func(event ScenarioEvent) {
		if event.Type == ScenarioCompleted && event.Scenario.ID == 2 {
			cancel()
		}
	}}

	run, err := Run(ctx, cfg, testParams(newClock(), observer))
	require.NoError(t, err)
	assert.True(t, run.Aborted)
	require.Len(t, run.Configurations, 1)
	assert.Equal(t, []int{1, 2}, scenarioIDs(run.Configurations[0]))
	require.NotNil(t, observer.ended)
	assert.True(t, observer.ended.Aborted)
}

func TestRunTargetUnavailable(t *testing.T) {
	server, cfg := startTarget(t, mockserver.Options{Unhealthy: true})
	_, err := Run(testutil.Context(t, 0), cfg, testParams(newClock(), nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTargetUnavailable)
	assert.Zero(t, server.Signups())
}

func TestRunBaseURLOverride(t *testing.T) {
	_, cfg := startTarget(t, mockserver.Options{})
	params := testParams(newClock(), nil, "baseline")
	params.BaseURL = cfg.Target.BaseURL + "/"
	cfg.Target.BaseURL = "http://127.0.0.1:1"

	run, err := Run(testutil.Context(t, 0), cfg, params)
	require.NoError(t, err)
	assert.Equal(t, params.BaseURL[:len(params.BaseURL)-1], run.BaseURL)
}

func TestRunAndWriteProducesBothArtifacts(t *testing.T) {
	_, cfg := startTarget(t, mockserver.Options{})
	params := testParams(newClock(), nil, "baseline", "improved_combined")
	params.OutputDir = t.TempDir()

	run, paths, err := RunAndWrite(testutil.Context(t, 0), cfg, params)
	require.NoError(t, err)
	assert.Equal(t, "20250102_030405", paths.Stamp)

	loaded, err := report.LoadResults(paths.ResultsPath())
	require.NoError(t, err)
	assert.Equal(t, run.RunID, loaded.RunID)
	assert.Len(t, loaded.Configurations, 2)

	markdown, err := os.ReadFile(paths.ReportPath())
	require.NoError(t, err)
	assert.Contains(t, string(markdown), "# AI 응답 개선 비교 보고서")
	assert.Contains(t, string(markdown), "**최종 추천 설정**")
}

func TestSelectConfigurations(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	all, err := SelectConfigurations(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	picked, err := SelectConfigurations(cfg, ParseSelectors([]string{"improved_params, baseline", "baseline", " "}))
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "improved_params", picked[0].Name)
	assert.Equal(t, "baseline", picked[1].Name)

	_, err = SelectConfigurations(cfg, []string{"missing"})
	assert.ErrorContains(t, err, `unknown configuration "missing"`)
}

func TestOutputPaths(t *testing.T) {
	_, err := NewOutputPaths(" ", fixedNow)
	assert.Error(t, err)
	_, err = NewOutputPaths("out", time.Time{})
	assert.Error(t, err)

	paths, err := NewOutputPaths("out", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "out/responses_20250102_030405.json", paths.ResultsPath())
	assert.Equal(t, "out/comparison_report_20250102_030405.md", paths.ReportPath())
}

func TestConsoleNarratesRun(t *testing.T) {
	_, cfg := startTarget(t, mockserver.Options{FailOn: map[string]int{"무릎": 500}})
	var out bytes.Buffer
	params := testParams(newClock(), NewConsole(&out, false), "baseline", "improved_prompt")

	_, err := Run(testutil.Context(t, 0), cfg, params)
	require.NoError(t, err)

	text := out.String()
	for _, want := range []string{
		"🚀 AI 응답 개선 비교 테스트 시작",
		"실행 ID: run-1",
		"[1/2] 설정: baseline",
		"📝 시나리오 4: 멀티턴 대화 (이전 대화 기억) (multi_turn)",
		"[컨텍스트 1] 👤 오늘 공원에 다녀왔어요",
		"❌ 시나리오 3 실패 (probe)",
		"✅ baseline: 4/5 시나리오 성공",
		"⚙️  서버 설정을 'improved_prompt'(으)로 변경하세요",
		"[2/2] 설정: improved_prompt",
		"🏁 모든 테스트 완료",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "\x1b[")
}

func TestRunWaitsAtGateUntilReleased(t *testing.T) {
	_, cfg := startTarget(t, mockserver.Options{})
	release := make(chan struct{})
	var mu sync.Mutex
	waiting := ""
	params := testParams(newClock(), nil, "baseline", "improved_params")
	params.Deps.Gate = GateFunc(func(ctx context.Context, next spec.Configuration) error {
		mu.Lock()
		waiting = next.Name
		mu.Unlock()
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	ctx := testutil.Context(t, 0)
	done := make(chan results.RunResult, 1)
	go func() {
		run, err := Run(ctx, cfg, params)
		assert.NoError(t, err)
		done <- run
	}()

	testutil.Eventually(t, 2*time.Second, 5*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return waiting == "improved_params"
	}, "run never reached the gate")
	select {
	case <-done:
		t.Fatal("run finished while the gate was closed")
	default:
	}
	close(release)

	run := <-done
	assert.False(t, run.Aborted)
	require.Len(t, run.Configurations, 2)
	assert.Equal(t, "improved_params", run.Configurations[1].ConfigName)
}
