package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expert-qa/server/internal/api/http/handlers"
	"github.com/expert-qa/server/internal/health"
	"github.com/expert-qa/server/internal/qa"
	qamodel "github.com/expert-qa/server/internal/qa/model"
	"github.com/expert-qa/server/internal/qa/repo"
)

type stubAsker struct {
	answer *qamodel.Answer
	err    error
	calls  []qamodel.Conversation
}

func (s *stubAsker) Ask(ctx context.Context, conv qamodel.Conversation) (*qamodel.Answer, error) {
	s.calls = append(s.calls, conv)
	return s.answer, s.err
}

type stubLedger struct {
	entries []repo.LedgerEntry
	limit   int
}

func (s *stubLedger) Recent(ctx context.Context, n int) ([]repo.LedgerEntry, error) {
	s.limit = n
	return s.entries, nil
}

func newTestApp(asker qamodel.Asker, ledger handlers.UsageReader) *fiber.App {
	app := fiber.New()
	ctrl := qa.NewController(asker, nil)
	routes := Routes{
		Form:   handlers.NewFormHandler(ctrl, "OpenAI"),
		Ask:    handlers.NewAskHandler(ctrl),
		Health: handlers.NewHealthHandler(health.NewService()),
	}
	if ledger != nil {
		routes.Usage = handlers.NewUsageHandler(ledger)
	}
	Register(app, routes)
	return app
}

func postForm(t *testing.T, app *fiber.App, persona, question string) string {
	t.Helper()
	form := url.Values{"persona": {persona}, "question": {question}}
	req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestShowForm(t *testing.T) {
	app := newTestApp(&stubAsker{}, nil)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")

	b, _ := io.ReadAll(resp.Body)
	body := string(b)
	assert.Contains(t, body, "LLM機能を搭載したWebアプリ")
	assert.Contains(t, body, "WEB開発の専門家")
	assert.Contains(t, body, "人事・採用の専門家")
	assert.Contains(t, body, "聞きたい分野を選択してください。")
	assert.Contains(t, body, "入力してください。")
	assert.Contains(t, body, "質問する")
	assert.Contains(t, body, "OpenAI APIに接続中...")
	assert.NotContains(t, body, "回答:")
}

func TestSubmitEmptyQuestionScenarios(t *testing.T) {
	tests := []struct {
		persona string
		want    string
	}{
		{"web-dev-expert", "WEB開発について質問したい内容を入力してから「質問する」ボタンを押してください。"},
		{"hr-recruiting-expert", "人事・採用について質問したい内容を入力してから「質問する」ボタンを押してください。"},
	}
	for _, tt := range tests {
		t.Run(tt.persona, func(t *testing.T) {
			asker := &stubAsker{}
			body := postForm(t, newTestApp(asker, nil), tt.persona, "")

			assert.Contains(t, body, `<div class="error" role="alert">`+tt.want+`</div>`)
			assert.Empty(t, asker.calls)
			assert.NotContains(t, body, "回答:")
		})
	}
}

func TestSubmitAnswerScenario(t *testing.T) {
	asker := &stubAsker{answer: &qamodel.Answer{
		Content: "CSSはスタイルシート言語です。",
		Model:   "gpt-4o-mini",
		Usage:   qamodel.Usage{TotalTokens: 10, PromptTokens: 6, CompletionTokens: 4, CostUSD: 0.000123},
	}}
	body := postForm(t, newTestApp(asker, nil), "web-dev-expert", "CSSとは何ですか？")

	require.Len(t, asker.calls, 1)
	assert.Equal(t, "CSSとは何ですか？", asker.calls[0].Question)
	assert.Equal(t, qamodel.WebDevExpert.SystemPrompt(), asker.calls[0].System)

	assert.Contains(t, body, "回答:")
	assert.Contains(t, body, "CSSはスタイルシート言語です。")
	assert.Contains(t, body, "リクエスト情報")
	assert.Contains(t, body, "モデル: gpt-4o-mini")
	assert.Contains(t, body, "トークン使用量: 10")
	assert.Contains(t, body, "プロンプトトークン: 6")
	assert.Contains(t, body, "完了トークン: 4")
	assert.Contains(t, body, "コスト (USD): $0.000123")
	assert.NotContains(t, body, `role="alert"`)
	assert.Contains(t, body, `value="CSSとは何ですか？"`)
}

func TestSubmitExternalErrorScenario(t *testing.T) {
	asker := &stubAsker{err: errors.New("rate limit exceeded")}
	body := postForm(t, newTestApp(asker, nil), "hr-recruiting-expert", "面接のコツは？")

	assert.Equal(t, 1, strings.Count(body, `role="alert"`))
	assert.Contains(t, body, "APIへの接続中に問題が発生しました: rate limit exceeded")
	assert.NotContains(t, body, "回答:")
	assert.NotContains(t, body, "トークン使用量")
	assert.Contains(t, body, `value="hr-recruiting-expert" checked`)
}

func TestAskJSON(t *testing.T) {
	asker := &stubAsker{answer: &qamodel.Answer{
		Content: "ok",
		Model:   "gpt-4o-mini",
		Usage:   qamodel.Usage{TotalTokens: 3, PromptTokens: 2, CompletionTokens: 1, CostUSD: 0.000001},
	}}
	app := newTestApp(asker, nil)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/ask", strings.NewReader(`{"persona":"web-dev-expert","question":"q"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Answer string        `json:"answer"`
		Usage  qamodel.Usage `json:"usage"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out.Answer)
	assert.Equal(t, 3, out.Usage.TotalTokens)
}

func TestAskJSONErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		asker  *stubAsker
		status int
		kind   string
	}{
		{name: "unknown persona", body: `{"persona":"chef","question":"q"}`, asker: &stubAsker{}, status: fiber.StatusBadRequest},
		{name: "empty question", body: `{"persona":"hr-recruiting-expert","question":""}`, asker: &stubAsker{}, status: fiber.StatusBadRequest, kind: "validation_error"},
		{name: "upstream failure", body: `{"persona":"web-dev-expert","question":"q"}`, asker: &stubAsker{err: errors.New("boom")}, status: fiber.StatusBadGateway, kind: "external_call_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, "/api/v1/ask", strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, err := newTestApp(tt.asker, nil).Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var out struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tt.kind, out.Kind)
			assert.NotEmpty(t, out.Message)
		})
	}
}

func TestHealthAndUsageRoutes(t *testing.T) {
	ledger := &stubLedger{entries: []repo.LedgerEntry{{ID: "1", Model: "gpt-4o-mini", TotalTokens: 10}}}
	app := newTestApp(&stubAsker{}, ledger)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/usage?limit=5", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var entries []repo.LedgerEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	assert.Len(t, entries, 1)
	assert.Equal(t, 5, ledger.limit)

	resp, err = newTestApp(&stubAsker{}, nil).Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/usage", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
