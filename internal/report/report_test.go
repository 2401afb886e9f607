package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convcompare/internal/eval"
	"convcompare/internal/results"
	"convcompare/internal/spec"
)

func testEvaluator() *eval.Evaluator {
	return eval.New(eval.Rules{
		Keywords: map[string][]string{
			"공감": {"네요", "그렇"},
			"질문": {"?"},
		},
		Inverted: map[string][]string{
			"의료조언 회피": {"병원"},
		},
	})
}

func intPtr(v int) *int { return &v }

func scenario(id int, response string, tags ...string) results.ScenarioResult {
	return results.ScenarioResult{
		ScenarioID:       id,
		ScenarioName:     "scenario " + string(rune('A'+id-1)),
		Category:         "cat",
		UserMessage:      "message",
		UserEmotion:      "NEUTRAL",
		AIResponse:       response,
		ExpectedElements: tags,
		Timestamp:        time.Date(2025, 1, 1, 0, 0, id, 0, time.UTC),
	}
}

func fixtureRun() results.RunResult {
	started := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return results.RunResult{
		RunID:    "20250101T000000Z-abc",
		TestDate: started,
		BaseURL:  "http://localhost:8080",
		Catalog: []results.CatalogEntry{
			{ID: 1, Name: "first", Category: "positive", UserMessage: "hi", ExpectedElements: []string{"공감", "질문"}},
			{ID: 2, Name: "second", Category: "health", UserMessage: "ouch", ExpectedElements: []string{"의료조언 회피"}, HasContext: true},
		},
		Configurations: []results.ConfigurationResult{
			{
				ConfigName:        "baseline",
				ConfigDescription: "current",
				TestTime:          started,
				Profile:           &results.Profile{Strengths: "fast", Weaknesses: "flat"},
				Scenarios: []results.ScenarioResult{
					scenario(1, "그렇네요", "공감", "질문"),
					scenario(2, "병원에 가세요", "의료조언 회피"),
				},
			},
			{
				ConfigName:        "improved",
				ConfigDescription: "better | prompt",
				TestTime:          started,
				Profile: &results.Profile{
					File:       "application-ai.yml",
					Changes:    []string{"temperature: 0.9"},
					Steps:      []string{"restart"},
					Highlights: []string{"warmer"},
				},
				Scenarios: []results.ScenarioResult{
					scenario(1, "그렇네요?\n두 줄", "공감", "질문"),
				},
				Failures: []results.Failure{{ScenarioID: 2, Stage: results.StageProbe, Error: "probe: HTTP 500"}},
			},
		},
	}
}

func TestRenderMarkdownIsIdempotent(t *testing.T) {
	run := fixtureRun()
	ev := testEvaluator()
	first := RenderMarkdown(run, ev, Options{})
	second := RenderMarkdown(run, ev, Options{})
	assert.Equal(t, first, second)

	payload, err := results.Marshal(run)
	require.NoError(t, err)
	reloaded, err := results.Unmarshal(payload)
	require.NoError(t, err)
	assert.Equal(t, first, RenderMarkdown(reloaded, ev, Options{}))
}

func TestRenderMarkdownSections(t *testing.T) {
	out := RenderMarkdown(fixtureRun(), testEvaluator(), Options{})

	for _, want := range []string{
		"# AI 응답 개선 비교 보고서\n\n**테스트 일시**: 2025-01-01T00:00:00Z",
		"**서버 URL**: http://localhost:8080",
		"| **improved** | better \\| prompt |",
		"- **시나리오 1**: first (positive)",
		"## 📋 시나리오 2: second",
		"**컨텍스트**: 있음 (이전 대화 포함)",
		"**컨텍스트**: 없음 (첫 대화)",
		"**평가 기준**: 공감, 질문",
		"| **baseline** | 그렇네요 | NEUTRAL | 1/2 | ⭐⭐⭐ |",
		"| **improved** | 그렇네요?<br>두 줄 | NEUTRAL | 2/2 | ⭐⭐⭐⭐⭐ |",
		"| **improved** | _(응답 없음)_ | - | - | - |",
		"| **baseline** | 1/3 (33.3%) | ⭐⭐ |",
		"| **improved** | 2/2 (100.0%) | ⭐⭐⭐⭐⭐ |",
		"| **baseline** | fast | flat |",
		"| **improved** | - | - |",
		"**최종 추천 설정**: `improved` (better | prompt)",
		"- ✅ warmer",
		"1. `application-ai.yml` 파일에서 다음 설정 적용:\n   - temperature: 0.9\n2. restart\n",
		"- **총 테스트 수**: 2 설정 × 2 시나리오 = 4회",
		"- **실패한 테스트**: 1회",
		"| **improved** | 2 | probe | probe: HTTP 500 |",
		"- **점수 출처**: 보고서 생성 시점에 재계산",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "## 📋 시나리오 1"), strings.Index(out, "## 📋 시나리오 2"))
}

func TestRecommendTieGoesToFirst(t *testing.T) {
	summaries := []ConfigSummary{
		{Name: "empty", Total: eval.Score{}},
		{Name: "a", Total: eval.Score{Satisfied: 2, Max: 4}},
		{Name: "b", Total: eval.Score{Satisfied: 3, Max: 6}},
	}
	rec, ok := Recommend(summaries)
	require.True(t, ok)
	assert.Equal(t, "a", rec.Summary.Name)
	assert.Equal(t, 1, rec.Index)

	summaries = append(summaries, ConfigSummary{Name: "c", Total: eval.Score{Satisfied: 4, Max: 6}})
	rec, ok = Recommend(summaries)
	require.True(t, ok)
	assert.Equal(t, "c", rec.Summary.Name)
}

func TestRecommendNoneScored(t *testing.T) {
	_, ok := Recommend([]ConfigSummary{{Name: "a"}})
	assert.False(t, ok)

	run := fixtureRun()
	for i := range run.Configurations {
		run.Configurations[i].Scenarios = []results.ScenarioResult{}
	}
	out := RenderMarkdown(run, testEvaluator(), Options{})
	assert.Contains(t, out, "평가된 응답이 없어 추천할 설정이 없습니다.")
}

func TestRecordedRuleUsesStoredScores(t *testing.T) {
	run := fixtureRun()
	stored := &run.Configurations[0].Scenarios[0]
	stored.Score = intPtr(2)
	stored.MaxScore = intPtr(2)

	recomputed := Summarize(run, testEvaluator(), Options{Rule: spec.RecommendRecompute})
	recorded := Summarize(run, testEvaluator(), Options{Rule: spec.RecommendRecorded})

	assert.Equal(t, 1, recomputed[0].Total.Satisfied)
	assert.Equal(t, 2, recorded[0].Total.Satisfied)
	assert.Equal(t, 3, recorded[0].Total.Max)
	assert.Contains(t, RenderMarkdown(run, testEvaluator(), Options{Rule: spec.RecommendRecorded}), "수집 시점에 기록된 점수")
}

func TestCatalogFallsBackToCaptureOrder(t *testing.T) {
	run := fixtureRun()
	run.Catalog = nil
	catalog := reportCatalog(run)
	require.Len(t, catalog, 2)
	assert.Equal(t, 1, catalog[0].ID)
	assert.Equal(t, "scenario A", catalog[0].Name)
	assert.Equal(t, []string{"공감", "질문"}, catalog[0].ExpectedElements)
}

func TestCellEscaping(t *testing.T) {
	assert.Equal(t, `a \| b<br>c<br>d`, cell("a | b\nc\r\nd"))
}

func TestSchemaValidatesRunOutput(t *testing.T) {
	payload, err := results.Marshal(fixtureRun())
	require.NoError(t, err)
	require.NoError(t, ValidateResults(payload))

	err = ValidateResults([]byte(`{"run_id":"x","test_date":"not a date","base_url":"u","configurations":[]}`))
	assert.Error(t, err)
	err = ValidateResults([]byte(`{"run_id":"x","test_date":"2025-01-01T00:00:00Z","base_url":"u"}`))
	assert.Error(t, err)
}

func TestLoadResultsValidates(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, results.Write(good, fixtureRun()))
	run, err := LoadResults(good)
	require.NoError(t, err)
	assert.Equal(t, "baseline", run.Configurations[0].ConfigName)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"configurations": 3}`), 0o644))
	_, err = LoadResults(bad)
	assert.Error(t, err)
}

func TestSchemaMentionsResultFields(t *testing.T) {
	schema, err := Schema()
	require.NoError(t, err)
	for _, field := range []string{"config_name", "ai_response", "expected_elements", "failures", "date-time"} {
		assert.Contains(t, string(schema), field)
	}
}
