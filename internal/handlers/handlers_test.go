package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"

	"github.com/Okano804/ChatTODO/internal/clock"
	dom "github.com/Okano804/ChatTODO/internal/domain"
	"github.com/Okano804/ChatTODO/internal/extract"
	"github.com/Okano804/ChatTODO/internal/notify"
	"github.com/Okano804/ChatTODO/internal/sweep"
)

var jst = clock.NewZone("JST", 9*time.Hour)

type cannedGenerator struct {
	reply string
}

func (g cannedGenerator) Generate(context.Context, string) (string, error) {
	return g.reply, nil
}

func chatRouter(reply string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	e := extract.New(cannedGenerator{reply: reply}, jst, clock.System())
	r.POST("/chat", NewChatHandler(e, jst).Chat)
	return r
}

func TestChatReturnsNormalizedPair(t *testing.T) {
	is := is.New(t)
	r := chatRouter("結果: " + `{"task": "報告書を提出", "deadline": "2026-09-01 15:00:00"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "明日の15時までに報告書を提出"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	is.Equal(w.Code, http.StatusOK)
	is.True(strings.Contains(w.Body.String(), `"task":"報告書を提出"`))
	is.True(strings.Contains(w.Body.String(), `"deadline":"2026-09-01 15:00:00"`))
	is.True(strings.Contains(w.Body.String(), `"deadline_at":"2026-09-01T15:00:00+09:00"`))
}

func TestChatAmbiguityAsksForClarification(t *testing.T) {
	is := is.New(t)
	r := chatRouter("期限がわかりませんでした。")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "がんばる"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	is.Equal(w.Code, http.StatusBadRequest)
	is.True(strings.Contains(w.Body.String(), "期限を含めて入力してください"))
}

func TestChatPassesRawDeadlineThroughWhenNotNormalizable(t *testing.T) {
	is := is.New(t)
	r := chatRouter(`{"task": "報告書を提出", "deadline": "なるはや"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "なるはやで報告書"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	is.Equal(w.Code, http.StatusOK)
	is.True(strings.Contains(w.Body.String(), `"deadline":"なるはや"`))
	is.True(!strings.Contains(w.Body.String(), "deadline_at"))
}

type noopStore struct{}

func (noopStore) DueInWindow(context.Context, dom.Threshold, time.Time, time.Time) ([]dom.Todo, error) {
	return nil, nil
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, string, dom.Threshold) notify.Outcome {
	return notify.Outcome{OK: true}
}

func (noopDispatcher) DispatchDigest(context.Context, []dom.Todo) notify.Outcome {
	return notify.Outcome{OK: true}
}

func notifyRouter(env string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	s := sweep.New(noopStore{}, noopDispatcher{}, clock.System(), time.Minute)
	r.GET("/notify", NewNotifyHandler(s, "s3cret", env).Trigger)
	return r
}

func TestNotifyRequiresBearerInProduction(t *testing.T) {
	is := is.New(t)
	r := notifyRouter("production")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notify", nil))
	is.Equal(w.Code, http.StatusUnauthorized)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notify", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	r.ServeHTTP(w, req)
	is.Equal(w.Code, http.StatusOK)
	is.True(strings.Contains(w.Body.String(), `"success":true`))
}

func TestNotifySkipsAuthOutsideProduction(t *testing.T) {
	is := is.New(t)
	r := notifyRouter("dev")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notify", nil))
	is.Equal(w.Code, http.StatusOK)
}
