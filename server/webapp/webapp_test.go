package webapp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/qjs/studyhelper/server/export"
	"github.com/qjs/studyhelper/server/llm"
	"github.com/qjs/studyhelper/server/prompts"
	studypipeline "github.com/qjs/studyhelper/server/study_pipeline"
)

type stubClient struct {
	replies []string
	failAt  int
	calls   int
}

func (s *stubClient) Generate(_ context.Context, _ llm.Prompt) (string, error) {
	s.calls++
	if s.failAt != 0 && s.calls == s.failAt {
		return "", errors.New("quota exceeded")
	}
	return s.replies[s.calls-1], nil
}

func (s *stubClient) ProviderName() string { return "stub" }

func newTestApp(stub *stubClient) *WebApp {
	gin.SetMode(gin.TestMode)
	orch := studypipeline.New(stub, prompts.Builder{Style: prompts.StyleStudy})
	return NewWebApp(orch, Options{
		TemplateGlob: "template/*",
		Provider:     "stub",
	})
}

func postForm(app *WebApp, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func TestIndexPage(t *testing.T) {
	app := newTestApp(&stubClient{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Study Helper") {
		t.Error("form page missing title")
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	stub := &stubClient{replies: []string{"key points", "plain words", "three questions"}}
	app := newTestApp(stub)

	w := postForm(app, "/analyze", url.Values{"text": {"Photosynthesis converts light into chemical energy."}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, payload := range stub.replies {
		if !strings.Contains(body, payload) {
			t.Errorf("results page missing payload %q", payload)
		}
	}
	if !strings.Contains(body, "/download/") {
		t.Error("results page missing download links")
	}
	if stub.calls != 3 {
		t.Errorf("expected 3 model calls, got %d", stub.calls)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	stub := &stubClient{}
	app := newTestApp(stub)

	w := postForm(app, "/analyze", url.Values{"text": {"   \n "}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if stub.calls != 0 {
		t.Errorf("model called %d times for empty input", stub.calls)
	}
	if !strings.Contains(w.Body.String(), "Please enter some text") {
		t.Error("missing usage error message")
	}
}

func TestAnalyzeStageFailure(t *testing.T) {
	stub := &stubClient{replies: []string{"key points", "", ""}, failAt: 2}
	app := newTestApp(stub)

	w := postForm(app, "/analyze", url.Values{"text": {"some text"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "explainer stage") {
		t.Error("failure report does not name the failing stage")
	}
	if !strings.Contains(body, "key points") {
		t.Error("successful reader payload was dropped from the page")
	}
	if strings.Contains(body, "/download/") {
		t.Error("failed run must not offer downloads")
	}
	if stub.calls != 2 {
		t.Errorf("expected 2 model calls, got %d", stub.calls)
	}
}

func completeResult() *studypipeline.Result {
	return &studypipeline.Result{
		RunID: "run-123",
		State: studypipeline.StateComplete,
		Stages: []studypipeline.StageResult{
			{Stage: prompts.StageReader, Output: "R"},
			{Stage: prompts.StageExplainer, Output: "E"},
			{Stage: prompts.StageQuiz, Output: "Q"},
		},
	}
}

func TestDownloadText(t *testing.T) {
	app := newTestApp(&stubClient{})
	res := completeResult()
	app.store(res)

	req := httptest.NewRequest(http.MethodGet, "/download/run-123", nil)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "attachment") {
		t.Error("missing attachment disposition")
	}
	want, err := export.Text(res)
	if err != nil {
		t.Fatal(err)
	}
	if w.Body.String() != want {
		t.Error("downloaded document differs from the export layout")
	}
}

func TestDownloadPDF(t *testing.T) {
	app := newTestApp(&stubClient{})
	app.store(completeResult())

	req := httptest.NewRequest(http.MethodGet, "/download/run-123/pdf", nil)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Error("response is not a PDF document")
	}
}

func TestDownloadUnknownRun(t *testing.T) {
	app := newTestApp(&stubClient{})
	req := httptest.NewRequest(http.MethodGet, "/download/nope", nil)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCacheEviction(t *testing.T) {
	app := newTestApp(&stubClient{})
	var first string
	for i := 0; i < maxCachedResults+1; i++ {
		res := completeResult()
		res.RunID = res.RunID + "-" + strings.Repeat("x", i+1)
		if i == 0 {
			first = res.RunID
		}
		app.store(res)
	}
	if _, ok := app.lookup(first); ok {
		t.Error("oldest run should have been evicted")
	}
	if len(app.results) != maxCachedResults {
		t.Errorf("cache size = %d, want %d", len(app.results), maxCachedResults)
	}
}
