// Package extract turns free-form chat text into a (task, deadline) pair
// by way of an LLM, and repairs the model's loosely formatted reply into
// something the rest of the system can trust.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Okano804/ChatTODO/internal/clock"
)

// ErrNoDeadline means the message carried no actionable deadline, or the
// model's reply could not be repaired into one. Callers ask the user to
// rephrase; they never retry automatically.
var ErrNoDeadline = errors.New("no actionable deadline")

// Result is a successfully extracted pair. Deadline is a wall-clock
// string in the operating timezone, not yet normalized.
type Result struct {
	Task     string
	Deadline string
}

// Generator is the LLM boundary. The production implementation is
// GeminiClient; tests substitute a canned one.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Extractor struct {
	gen  Generator
	zone clock.Zone
	clk  clock.Clock
}

func New(gen Generator, zone clock.Zone, clk clock.Clock) *Extractor {
	return &Extractor{gen: gen, zone: zone, clk: clk}
}

// Extract stamps the current wall-clock time into the prompt (so relative
// phrases resolve against the right "now"), calls the model and repairs
// its reply. A failed model call is a transient error; everything else
// that goes wrong maps to ErrNoDeadline.
func (e *Extractor) Extract(ctx context.Context, message string) (Result, error) {
	raw, err := e.gen.Generate(ctx, buildPrompt(message, e.zone.Stamp(e.clk.Now())))
	if err != nil {
		return Result{}, fmt.Errorf("llm generate: %w", err)
	}
	return Parse(raw)
}

func buildPrompt(message, nowStamp string) string {
	return fmt.Sprintf(`現在の日本時間: %s

以下のメッセージからTODOのタスク内容と期限（日本時間）を抽出してください。

メッセージ: "%s"

必ず以下のJSON形式のみで返してください（他の文章や説明は不要）:
{"task": "タスク内容", "deadline": "YYYY-MM-DD HH:MM:SS"}

例:
入力: "明日の15時までに報告書を提出"
出力: {"task": "報告書を提出", "deadline": "2025-12-14 15:00:00"}

入力: "来週の月曜日の午前中に会議資料を準備"
出力: {"task": "会議資料を準備", "deadline": "2025-12-16 12:00:00"}

期限が不明確な場合は null を返してください。
必ずJSON形式のみで返答してください。`, nowStamp, message)
}

// Parse repairs a raw model reply in two stages: pick the first balanced
// brace-delimited substring, then strictly parse and validate it. Failure
// at either stage is the same ErrNoDeadline. Prose around the JSON is
// fine, a missing or null deadline is not.
func Parse(raw string) (Result, error) {
	candidate, ok := jsonCandidate(raw)
	if !ok {
		return Result{}, ErrNoDeadline
	}
	var out struct {
		Task     string `json:"task"`
		Deadline string `json:"deadline"`
	}
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return Result{}, ErrNoDeadline
	}
	if strings.TrimSpace(out.Task) == "" || strings.TrimSpace(out.Deadline) == "" {
		return Result{}, ErrNoDeadline
	}
	return Result{Task: out.Task, Deadline: out.Deadline}, nil
}

// jsonCandidate returns the first brace-balanced substring of s, skipping
// braces inside JSON strings.
func jsonCandidate(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
