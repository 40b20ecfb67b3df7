package http

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"quiz-ladders/internal/apiclient"
	"quiz-ladders/internal/app"
	"quiz-ladders/internal/domain"
	"quiz-ladders/internal/infra/memory"
	"quiz-ladders/internal/transport/api"
	"quiz-ladders/internal/ui"
)

type testEnv struct {
	server *httptest.Server
	client *http.Client

	mu     sync.Mutex
	stores []*ui.Store
}

// newTestEnv runs the tests API and the web UI against an in-memory catalog.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog := app.NewCatalogService(memory.NewTestRepository(memory.NewStaticTestStore(ladderTest()), time.Minute))
	apiServer := httptest.NewServer(api.NewRouter(api.NewHandler(catalog), nil))
	t.Cleanup(apiServer.Close)

	env := &testEnv{}
	apiClient := apiclient.New(apiServer.URL, 5*time.Second)
	registry := memory.NewStoreRegistry(func(id string) *ui.Store {
		s := ui.NewStore(id, apiClient, ui.Options{FrameInterval: 2 * time.Millisecond})
		env.mu.Lock()
		env.stores = append(env.stores, s)
		env.mu.Unlock()
		return s
	}, time.Hour)

	pages, err := NewUIHandler(registry, []byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("new ui handler: %v", err)
	}
	env.server = httptest.NewServer(NewMux(pages, NewWSHandler(pages)))
	t.Cleanup(env.server.Close)

	jar, _ := cookiejar.New(nil)
	env.client = &http.Client{Jar: jar, Timeout: 5 * time.Second}
	t.Cleanup(func() {
		env.mu.Lock()
		defer env.mu.Unlock()
		for _, s := range env.stores {
			s.Close()
		}
	})
	return env
}

// store returns the only client store created so far, after its fetches settle.
func (e *testEnv) store(t *testing.T) *ui.Store {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.stores) != 1 {
		t.Fatalf("expected exactly one client store, got %d", len(e.stores))
	}
	e.stores[0].Wait()
	return e.stores[0]
}

func ladderTest() domain.Test {
	return domain.Test{
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
	}
}
