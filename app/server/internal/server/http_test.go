package server

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/agent"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/engine"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/llm"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
	"github.com/iWorld-y/cine_mind/app/server/internal/biz"
	"github.com/iWorld-y/cine_mind/app/server/internal/conf"
	"github.com/iWorld-y/cine_mind/app/server/internal/data"
	"github.com/iWorld-y/cine_mind/app/server/internal/service"
)

// cannedGenerator 按角色返回固定输出
func cannedGenerator(calls *int) llm.Generator {
	return llm.GeneratorFunc(func(ctx context.Context, role, prompt string) (string, error) {
		*calls++
		switch {
		case strings.Contains(role, "Planner Agent"):
			return `{"genre":"Sci-Fi","year":"2010","type":"Movie"}`, nil
		case strings.Contains(role, "Sentiment Analysis Agent"):
			return `{"overall":"Positive","analysis":"Loved it."}`, nil
		case strings.Contains(role, "Personalized Recommendation Agent"):
			return `[{"title":"Tenet","reason":"Same director"}]`, nil
		case strings.Contains(role, "Recommendation Agent"):
			return `[{"title":"Interstellar","reason":"Nolan"}]`, nil
		case strings.Contains(role, "Social Media Agent"):
			return `["Dream big 💭 #Inception"]`, nil
		}
		return "Plain prose.", nil
	})
}

func newTestServer(t *testing.T, analyzer biz.Analyzer) nethttp.Handler {
	t.Helper()
	logger := log.NewStdLogger(&strings.Builder{})
	d, cleanup, err := data.NewData(nil, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cleanup)

	svc := service.NewCineMindService(
		biz.NewAnalysisUseCase(analyzer, data.NewAnalysisRepo(d, logger), logger),
		biz.NewStatusUseCase(data.NewStatusRepo(d), logger),
		logger,
	)
	return NewHTTPServer(&conf.Server{}, svc, logger)
}

func do(t *testing.T, h nethttp.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newTestEngine(t *testing.T, calls *int) *engine.Engine {
	t.Helper()
	eng, err := engine.NewEngine(cannedGenerator(calls))
	if err != nil {
		t.Fatal(err)
	}
	return eng
}

func TestHTTP_Root(t *testing.T) {
	var calls int
	h := newTestServer(t, newTestEngine(t, &calls))
	rec := do(t, h, "GET", "/api/", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var out service.RootReply
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out.Message != service.WelcomeMessage {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestHTTP_AnalyzeThenList(t *testing.T) {
	var calls int
	h := newTestServer(t, newTestEngine(t, &calls))

	body := `{"movie_title":"Inception","preferences":{"favorite_genres":["Action"],"favorite_movies":["The Matrix"]}}`
	rec := do(t, h, "POST", "/api/analyze-movie", body)
	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var res model.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Title != "Inception" || res.Genre != "Sci-Fi" || res.ID == "" {
		t.Errorf("result = %+v", res)
	}
	if len(res.PersonalizedRecommendations) != 1 {
		t.Errorf("personalized = %+v", res.PersonalizedRecommendations)
	}
	if calls != 7 {
		t.Errorf("generator calls = %d, want 7", calls)
	}

	rec = do(t, h, "GET", "/api/analyses?limit=5", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var list []model.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != res.ID {
		t.Errorf("list = %+v", list)
	}
}

func TestHTTP_AnalyzeRejectsBlankTitle(t *testing.T) {
	var calls int
	h := newTestServer(t, newTestEngine(t, &calls))
	for _, body := range []string{`{"movie_title":""}`, `{"movie_title":"   "}`, `{}`} {
		rec := do(t, h, "POST", "/api/analyze-movie", body)
		if rec.Code != 400 {
			t.Errorf("%s: status = %d", body, rec.Code)
		}
	}
	if calls != 0 {
		t.Errorf("generator calls = %d", calls)
	}
	rec := do(t, h, "GET", "/api/analyses", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("analyses = %s", rec.Body)
	}
}

func TestHTTP_AnalyzeFailures(t *testing.T) {
	h := newTestServer(t, unconfiguredAnalyzer{})
	rec := do(t, h, "POST", "/api/analyze-movie", `{"movie_title":"Heat"}`)
	if rec.Code != 500 || !strings.Contains(rec.Body.String(), biz.ReasonLLMNotConfigured) {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body)
	}
	// 标题校验先于 LLM 配置检查
	for _, body := range []string{`{"movie_title":"   "}`, `{"movie_title":"\t\n"}`} {
		rec = do(t, h, "POST", "/api/analyze-movie", body)
		if rec.Code != 400 || !strings.Contains(rec.Body.String(), biz.ReasonInvalidInput) {
			t.Errorf("%s: status = %d, body = %s", body, rec.Code, rec.Body)
		}
	}

	eng, _ := engine.NewEngine(llm.GeneratorFunc(func(ctx context.Context, role, prompt string) (string, error) {
		if strings.Contains(role, "Summary Agent") {
			return "", errors.New("upstream 503")
		}
		return "{}", nil
	}))
	h = newTestServer(t, eng)
	rec = do(t, h, "POST", "/api/analyze-movie", `{"movie_title":"Heat"}`)
	if rec.Code != 500 || !strings.Contains(rec.Body.String(), "Analysis failed: "+agent.Summary+" agent failed: upstream 503") {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body)
	}
	rec = do(t, h, "GET", "/api/analyses", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("failed analysis was persisted: %s", rec.Body)
	}
}

func TestHTTP_StatusChecks(t *testing.T) {
	var calls int
	h := newTestServer(t, newTestEngine(t, &calls))
	for _, name := range []string{"web", "ios"} {
		rec := do(t, h, "POST", "/api/status", `{"client_name":"`+name+`"}`)
		if rec.Code != 200 {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
	}
	rec := do(t, h, "GET", "/api/status", "")
	var checks []model.StatusCheck
	if err := json.Unmarshal(rec.Body.Bytes(), &checks); err != nil {
		t.Fatal(err)
	}
	if len(checks) != 2 || checks[0].ClientName != "web" || checks[1].ClientName != "ios" {
		t.Errorf("checks = %+v", checks)
	}
	if time.Since(checks[0].Timestamp) > time.Minute {
		t.Errorf("timestamp = %v", checks[0].Timestamp)
	}

	rec = do(t, h, "POST", "/api/status", `{}`)
	if rec.Code != 400 {
		t.Errorf("missing client_name: status = %d", rec.Code)
	}
}

func TestHTTP_InvalidLimit(t *testing.T) {
	var calls int
	h := newTestServer(t, newTestEngine(t, &calls))
	if rec := do(t, h, "GET", "/api/analyses?limit=ten", ""); rec.Code != 400 {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHTTP_CORSAndMetrics(t *testing.T) {
	var calls int
	h := newTestServer(t, newTestEngine(t, &calls))

	req := httptest.NewRequest("OPTIONS", "/api/analyze-movie", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Errorf("missing Access-Control-Allow-Origin, headers = %v", rec.Header())
	}

	do(t, h, "POST", "/api/analyze-movie", `{"movie_title":"  "}`)
	rec = do(t, h, "GET", "/metrics", "")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), "cinemind_analyses_total") {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

func TestToEngineConfig(t *testing.T) {
	cfg := toEngineConfig(&conf.Analyzer{
		Llm:         &conf.LLM{Provider: "gemini", ApiKey: "k", Model: "gemini-2.0-flash", Timeout: "30s"},
		Concurrency: &conf.Concurrency{Qps: 2, Rpm: 30},
		Engine:      &conf.Engine{ParallelFacets: true},
	})
	if cfg.LLM.Provider != "gemini" || cfg.LLM.Timeout != 30*time.Second || cfg.Concurrency.RPM != 30 || !cfg.Engine.ParallelFacets {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level default = %q", cfg.Log.Level)
	}

	cfg = toEngineConfig(nil)
	if cfg.LLM.Provider != "openai" {
		t.Errorf("provider default = %q", cfg.LLM.Provider)
	}
}

func TestHTTP_BlankTitleWithoutAPIKey(t *testing.T) {
	t.Setenv("CINEMIND_LLM_API_KEY", "")
	analyzer, cleanup, err := NewAnalyzer(&conf.Analyzer{Llm: &conf.LLM{Provider: "openai"}}, log.NewStdLogger(&strings.Builder{}))
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	defer cleanup()

	h := newTestServer(t, analyzer)
	rec := do(t, h, "POST", "/api/analyze-movie", `{"movie_title":"   "}`)
	if rec.Code != 400 {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body)
	}
	rec = do(t, h, "POST", "/api/analyze-movie", `{"movie_title":"Heat"}`)
	if rec.Code != 500 || !strings.Contains(rec.Body.String(), biz.ReasonLLMNotConfigured) {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body)
	}
}
