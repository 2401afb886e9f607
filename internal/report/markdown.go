package report

import (
	"fmt"
	"strings"
	"time"

	"convcompare/internal/eval"
	"convcompare/internal/results"
	"convcompare/internal/spec"
)

const (
	dateLayout   = "2006-01-02T15:04:05Z07:00"
	sectionBreak = "---\n\n"
)

// RenderMarkdown renders the comparison report. The output depends only on
// the run, the evaluator tables, and opts.
func RenderMarkdown(run results.RunResult, ev *eval.Evaluator, opts Options) string {
	if opts.Rule == "" {
		opts.Rule = spec.RecommendRecompute
	}
	catalog := reportCatalog(run)
	summaries := Summarize(run, ev, opts)

	var b strings.Builder
	writeHeader(&b, run)
	writeOverview(&b, run, catalog)
	for _, entry := range catalog {
		writeScenarioSection(&b, run, entry, ev, opts)
	}
	writeAggregate(&b, summaries)
	writeRecommendation(&b, summaries)
	writeAppendix(&b, run, catalog, opts)
	return b.String()
}

func writeHeader(b *strings.Builder, run results.RunResult) {
	b.WriteString("# AI 응답 개선 비교 보고서\n\n")
	fmt.Fprintf(b, "**테스트 일시**: %s\n\n", formatTime(run.TestDate))
	fmt.Fprintf(b, "**서버 URL**: %s\n\n", run.BaseURL)
	if run.Aborted {
		b.WriteString("> ⚠️ 테스트가 중단되어 일부 설정만 포함되어 있습니다.\n\n")
	}
	b.WriteString(sectionBreak)
}

func writeOverview(b *strings.Builder, run results.RunResult, catalog []results.CatalogEntry) {
	b.WriteString("## 📊 테스트 개요\n\n")
	b.WriteString("### 테스트 설정\n\n")
	b.WriteString("| 설정 이름 | 설명 |\n")
	b.WriteString("|-----------|------|\n")
	for _, cfg := range run.Configurations {
		fmt.Fprintf(b, "| **%s** | %s |\n", cell(cfg.ConfigName), cell(cfg.ConfigDescription))
	}

	b.WriteString("\n### 테스트 시나리오\n\n")
	for _, entry := range catalog {
		fmt.Fprintf(b, "- **시나리오 %d**: %s (%s)\n", entry.ID, entry.Name, entry.Category)
	}
	b.WriteString("\n")
	b.WriteString(sectionBreak)
}

func writeScenarioSection(b *strings.Builder, run results.RunResult, entry results.CatalogEntry, ev *eval.Evaluator, opts Options) {
	fmt.Fprintf(b, "## 📋 시나리오 %d: %s\n\n", entry.ID, entry.Name)
	fmt.Fprintf(b, "**분류**: %s\n\n", entry.Category)
	fmt.Fprintf(b, "**사용자 메시지**: \"%s\"\n\n", entry.UserMessage)
	contextLabel := "없음 (첫 대화)"
	if entry.HasContext {
		contextLabel = "있음 (이전 대화 포함)"
	}
	fmt.Fprintf(b, "**컨텍스트**: %s\n\n", contextLabel)
	fmt.Fprintf(b, "**평가 기준**: %s\n\n", strings.Join(entry.ExpectedElements, ", "))

	b.WriteString("### 설정별 응답 비교\n\n")
	b.WriteString("| 설정 | AI 응답 | 감정 분석 | 평가 점수 | 별점 |\n")
	b.WriteString("|------|---------|-----------|-----------|------|\n")
	for _, cfg := range run.Configurations {
		scenario, ok := cfg.ScenarioByID(entry.ID)
		if !ok {
			fmt.Fprintf(b, "| **%s** | _(응답 없음)_ | - | - | - |\n", cell(cfg.ConfigName))
			continue
		}
		score := ScoreScenario(scenario, ev, opts)
		fmt.Fprintf(b, "| **%s** | %s | %s | %d/%d | %s |\n",
			cell(cfg.ConfigName),
			cell(scenario.AIResponse),
			cell(scenario.UserEmotion),
			score.Satisfied, score.Max,
			eval.Stars(score.Rating),
		)
	}
	b.WriteString("\n")
	b.WriteString(sectionBreak)
}

func writeAggregate(b *strings.Builder, summaries []ConfigSummary) {
	b.WriteString("## 🎯 종합 평가\n\n")
	b.WriteString("### 설정별 평균 점수\n\n")
	b.WriteString("| 설정 | 평균 점수 | 평균 별점 |\n")
	b.WriteString("|------|-----------|----------|\n")
	for _, summary := range summaries {
		fmt.Fprintf(b, "| **%s** | %s | %s |\n", cell(summary.Name), formatScore(summary.Total), eval.Stars(summary.Total.Rating))
	}

	b.WriteString("\n### 설정별 특징 분석\n\n")
	b.WriteString("| 설정 | 장점 | 단점 |\n")
	b.WriteString("|------|------|------|\n")
	for _, summary := range summaries {
		strengths, weaknesses := "-", "-"
		if summary.Profile != nil {
			strengths = orDash(summary.Profile.Strengths)
			weaknesses = orDash(summary.Profile.Weaknesses)
		}
		fmt.Fprintf(b, "| **%s** | %s | %s |\n", cell(summary.Name), cell(strengths), cell(weaknesses))
	}
	b.WriteString("\n")
}

func writeRecommendation(b *strings.Builder, summaries []ConfigSummary) {
	b.WriteString("### 💡 권장 사항\n\n")
	rec, ok := Recommend(summaries)
	if !ok {
		b.WriteString("평가된 응답이 없어 추천할 설정이 없습니다.\n\n")
		return
	}
	best := rec.Summary
	fmt.Fprintf(b, "**최종 추천 설정**: `%s` (%s)\n\n", best.Name, best.Description)
	fmt.Fprintf(b, "**종합 점수**: %s %s\n\n", formatScore(best.Total), eval.Stars(best.Total.Rating))

	b.WriteString("**선정 이유**:\n")
	b.WriteString("- ✅ 키워드 기반 평가에서 가장 높은 충족률\n")
	if best.Profile != nil {
		for _, highlight := range best.Profile.Highlights {
			fmt.Fprintf(b, "- ✅ %s\n", highlight)
		}
	}
	b.WriteString("\n")

	if best.Profile == nil || (len(best.Profile.Changes) == 0 && len(best.Profile.Steps) == 0) {
		return
	}
	b.WriteString("**적용 방법**:\n")
	step := 1
	if len(best.Profile.Changes) > 0 {
		if best.Profile.File != "" {
			fmt.Fprintf(b, "%d. `%s` 파일에서 다음 설정 적용:\n", step, best.Profile.File)
		} else {
			fmt.Fprintf(b, "%d. 다음 설정 적용:\n", step)
		}
		for _, change := range best.Profile.Changes {
			fmt.Fprintf(b, "   - %s\n", change)
		}
		step++
	}
	for _, item := range best.Profile.Steps {
		fmt.Fprintf(b, "%d. %s\n", step, item)
		step++
	}
	b.WriteString("\n")
}

func writeAppendix(b *strings.Builder, run results.RunResult, catalog []results.CatalogEntry, opts Options) {
	b.WriteString(sectionBreak)
	b.WriteString("## 📎 부록\n\n")
	b.WriteString("### 테스트 환경\n\n")
	fmt.Fprintf(b, "- **서버**: %s\n", run.BaseURL)
	fmt.Fprintf(b, "- **테스트 일시**: %s\n", formatTime(run.TestDate))
	if run.FinishedAt != nil {
		fmt.Fprintf(b, "- **종료 일시**: %s\n", formatTime(*run.FinishedAt))
	}
	if run.RunID != "" {
		fmt.Fprintf(b, "- **실행 ID**: %s\n", run.RunID)
	}
	configs, scenarios := len(run.Configurations), len(catalog)
	fmt.Fprintf(b, "- **총 테스트 수**: %d 설정 × %d 시나리오 = %d회\n", configs, scenarios, configs*scenarios)

	captured, failures := 0, 0
	for _, cfg := range run.Configurations {
		captured += len(cfg.Scenarios)
		failures += len(cfg.Failures)
	}
	fmt.Fprintf(b, "- **성공한 테스트**: %d회\n", captured)
	fmt.Fprintf(b, "- **실패한 테스트**: %d회\n\n", failures)

	if failures > 0 {
		b.WriteString("### 실패 내역\n\n")
		b.WriteString("| 설정 | 시나리오 | 단계 | 오류 |\n")
		b.WriteString("|------|----------|------|------|\n")
		for _, cfg := range run.Configurations {
			for _, failure := range cfg.Failures {
				fmt.Fprintf(b, "| **%s** | %d | %s | %s |\n", cell(cfg.ConfigName), failure.ScenarioID, failure.Stage, cell(failure.Error))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("### 평가 방법\n\n")
	b.WriteString("- **자동 평가**: 키워드 기반 휴리스틱 매칭\n")
	b.WriteString("- **평가 기준**: 각 시나리오별 기대 요소 충족 여부\n")
	b.WriteString("- **별점 산정**: 충족률에 따른 5단계 평가\n")
	if opts.Rule == spec.RecommendRecorded {
		b.WriteString("- **점수 출처**: 수집 시점에 기록된 점수 (없으면 재계산)\n")
	} else {
		b.WriteString("- **점수 출처**: 보고서 생성 시점에 재계산\n")
	}
}

// cell escapes text for a Markdown table cell.
func cell(text string) string {
	text = strings.ReplaceAll(text, "|", `\|`)
	text = strings.ReplaceAll(text, "\r\n", "<br>")
	text = strings.ReplaceAll(text, "\n", "<br>")
	return strings.ReplaceAll(text, "\r", "<br>")
}

func orDash(text string) string {
	if strings.TrimSpace(text) == "" {
		return "-"
	}
	return text
}

func formatScore(score eval.Score) string {
	return fmt.Sprintf("%d/%d (%.1f%%)", score.Satisfied, score.Max, score.Ratio()*100)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}
