package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-ladders/internal/domain"
)

func TestListAndGetQuiz(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tests", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]domain.TestSummary{{ID: "ladder", Title: "Ladder", NumQuestions: 2}})
	})
	mux.HandleFunc("/api/quiz/ladder", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"ladder","title":"Ladder","golden":13,"questions":[{"id":1,"type":"single","prompt":"p","options":[{"id":"a","text":"x","points":10}]}]}`))
	})
	mux.HandleFunc("/api/quiz/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"test not found","id":"missing"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := New(server.URL+"/", time.Second)
	ctx := context.Background()

	tests, err := client.ListTests(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tests) != 1 || tests[0].NumQuestions != 2 {
		t.Fatalf("unexpected listing %+v", tests)
	}

	quiz, err := client.GetQuiz(ctx, "ladder")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if quiz.Golden != 13 || len(quiz.Questions) != 1 || quiz.Questions[0].Options[0].Points != 10 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}

	if _, err := client.GetQuiz(ctx, "missing"); !errors.Is(err, domain.ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}
}

func TestSaveTestSurfacesServerError(t *testing.T) {
	var received domain.Test
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Missing 'title'"}`))
	}))
	defer server.Close()

	err := New(server.URL, time.Second).SaveTest(context.Background(), domain.Test{ID: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Missing 'title'" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if received.ID != "x" {
		t.Fatalf("expected body to reach server, got %+v", received)
	}
}

func TestSaveTestSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"saved":"tests/x.json"}`))
	}))
	defer server.Close()

	if err := New(server.URL, time.Second).SaveTest(context.Background(), domain.Test{ID: "x"}); err != nil {
		t.Fatalf("save: %v", err)
	}
}
