package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/Okano804/ChatTODO/internal/clock"
)

type cannedGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *cannedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}

func TestParseExtractsEmbeddedJSON(t *testing.T) {
	is := is.New(t)
	raw := "承知しました。抽出結果はこちらです:\n" +
		`{"task": "報告書を提出", "deadline": "2026-09-01 15:00:00"}` +
		"\n以上です。"
	got, err := Parse(raw)
	is.NoErr(err)
	is.Equal(got.Task, "報告書を提出")
	is.Equal(got.Deadline, "2026-09-01 15:00:00")
}

func TestParseIgnoresBracesInsideStrings(t *testing.T) {
	is := is.New(t)
	raw := `{"task": "使う記号は { と } です", "deadline": "2026-09-01 15:00:00"}`
	got, err := Parse(raw)
	is.NoErr(err)
	is.Equal(got.Task, "使う記号は { と } です")
}

func TestParseSentinelCases(t *testing.T) {
	for name, raw := range map[string]string{
		"no JSON at all":    "期限がわかりませんでした。",
		"bare null":         "null",
		"null deadline":     `{"task": "報告書を提出", "deadline": null}`,
		"empty deadline":    `{"task": "報告書を提出", "deadline": " "}`,
		"missing task":      `{"deadline": "2026-09-01 15:00:00"}`,
		"unbalanced braces": `{"task": "x", "deadline": "2026-09-01`,
		"not JSON inside":   "{こんにちは}",
	} {
		if _, err := Parse(raw); !errors.Is(err, ErrNoDeadline) {
			t.Fatalf("%s: want ErrNoDeadline, got %v", name, err)
		}
	}
}

func TestExtractStampsNowInPrompt(t *testing.T) {
	is := is.New(t)
	zone := clock.NewZone("JST", 9*time.Hour)
	// 2026-08-31 15:00 JST, a Monday.
	now := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)
	gen := &cannedGenerator{reply: `{"task": "報告書を提出", "deadline": "2026-09-01 15:00:00"}`}

	e := New(gen, zone, clock.Fixed(now))
	got, err := e.Extract(context.Background(), "明日の15時までに報告書を提出")
	is.NoErr(err)
	is.Equal(got.Task, "報告書を提出")
	is.Equal(got.Deadline, "2026-09-01 15:00:00")
	is.True(strings.Contains(gen.prompt, "2026-08-31 15:00（月曜日）"))
	is.True(strings.Contains(gen.prompt, "明日の15時までに報告書を提出"))
}

func TestExtractWrapsGeneratorFailure(t *testing.T) {
	zone := clock.NewZone("JST", 9*time.Hour)
	gen := &cannedGenerator{err: errors.New("quota exceeded")}

	e := New(gen, zone, clock.Fixed(time.Now()))
	_, err := e.Extract(context.Background(), "明日まで")
	if err == nil || errors.Is(err, ErrNoDeadline) {
		t.Fatalf("transient failure must not map to the sentinel, got %v", err)
	}
}
