package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"quiz-ladders/internal/app"
	"quiz-ladders/internal/domain"
	"quiz-ladders/internal/infra/memory"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStaticTestStore(domain.Test{
		ID:    "ladder",
		Title: "Ladder",
		Questions: []domain.Question{
			{ID: 1, Type: domain.QuestionSingle, Prompt: "First", Options: []domain.Option{
				{ID: "a", Text: "right", Points: 10, IsCorrect: true},
				{ID: "b", Text: "wrong", Points: 3},
			}},
			{ID: 2, Type: domain.QuestionMulti, Prompt: "Second", Options: []domain.Option{
				{ID: "a", Text: "right", Points: 2, IsCorrect: true},
				{ID: "b", Text: "trap", Points: -4},
			}},
		},
	})
	service := app.NewCatalogService(memory.NewTestRepository(store, time.Minute))
	return NewRouter(NewHandler(service), nil)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListTests(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/api/tests", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got []domain.TestSummary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ladder" || got[0].NumQuestions != 2 {
		t.Fatalf("unexpected listing %+v", got)
	}
	if !strings.Contains(w.Body.String(), `"num_questions":2`) {
		t.Fatalf("expected snake_case field, got %s", w.Body.String())
	}
}

func TestGetQuiz(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/quiz/ladder", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "is_correct") {
		t.Fatalf("play document must not reveal correctness: %s", w.Body.String())
	}
	var quiz domain.Quiz
	_ = json.Unmarshal(w.Body.Bytes(), &quiz)
	if quiz.Golden != 13 || len(quiz.Questions) != 2 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}

	w = do(r, http.MethodGet, "/api/quiz/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "test not found" || body["id"] != "nope" {
		t.Fatalf("unexpected 404 body %v", body)
	}
}

func TestSaveTest(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"missing id", `{"title":"T","questions":[]}`, http.StatusBadRequest, "Missing 'id' (filename without .json)"},
		{"missing title", `{"id":"x","title":"  ","questions":[]}`, http.StatusBadRequest, "Missing 'title'"},
		{"no questions", `{"id":"x","title":"T","questions":[]}`, http.StatusBadRequest, "Questions must be a non-empty list"},
		{"zero points", `{"id":"x","title":"T","questions":[{"type":"single","prompt":"p","options":[{"id":"a","text":"a","points":0,"is_correct":true},{"id":"b","text":"b","points":1}]}]}`,
			http.StatusBadRequest, "Question 1 option a: 'points' must be non-zero number"},
		{"not json", `{`, http.StatusBadRequest, ""},
	}
	r := newTestRouter(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/tests", tc.body)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			var body map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if tc.want != "" && body["error"] != tc.want {
				t.Fatalf("expected error %q, got %v", tc.want, body["error"])
			}
		})
	}
}

func TestSaveThenPlay(t *testing.T) {
	r := newTestRouter(t)
	doc := `{"id":" fresh ","title":"Fresh","questions":[{"id":1,"type":"multi","prompt":"p","options":[
		{"id":"a","text":"a","points":4,"is_correct":true},
		{"id":"b","text":"b","points":-1}]}]}`

	w := do(r, http.MethodPost, "/api/tests", doc)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["ok"] != true || body["saved"] != "memory:fresh" {
		t.Fatalf("unexpected save body %v", body)
	}

	w = do(r, http.MethodGet, "/api/quiz/fresh", "")
	var quiz domain.Quiz
	_ = json.Unmarshal(w.Body.Bytes(), &quiz)
	if w.Code != http.StatusOK || quiz.Golden != 5 {
		t.Fatalf("expected new test playable with golden 5, got %d %+v", w.Code, quiz)
	}

	w = do(r, http.MethodGet, "/api/tests", "")
	if !strings.Contains(w.Body.String(), `"id":"fresh"`) {
		t.Fatalf("expected listing to include the new test, got %s", w.Body.String())
	}
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/tests", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS headers, got %v", w.Header())
	}
}
