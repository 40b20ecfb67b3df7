package http

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func (e *testEnv) get(t *testing.T) string {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	return string(body)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) string {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post %s: expected redirect to a 200 page, got %d: %s", path, resp.StatusCode, body)
	}
	return string(body)
}

func mustContain(t *testing.T, page string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(page, p) {
			t.Fatalf("expected page to contain %q", p)
		}
	}
}

func TestHomeListsTests(t *testing.T) {
	env := newTestEnv(t)
	env.get(t)
	env.store(t)

	page := env.get(t)
	mustContain(t, page, "Available Tests", "Ladder", "2 questions", `action="/tests/ladder/start"`)
}

func TestPlayToPerfectFinish(t *testing.T) {
	env := newTestEnv(t)
	env.get(t)
	store := env.store(t)

	env.post(t, "/tests/ladder/start", nil)
	store.Wait()
	page := env.get(t)
	mustContain(t, page, "Target (Golden): <strong>13</strong>", "Q1/2: First", "10 pts", "★")

	env.post(t, "/play/submit", nil)
	mustContain(t, env.get(t), "Select at least one option.")

	env.post(t, "/play/select", url.Values{"option": {"a"}})
	page = env.post(t, "/play/submit", nil)
	mustContain(t, page, "Q2/2: Second", "Square: 11", "(undershoot by 2)")

	env.post(t, "/play/select", url.Values{"option": {"a"}})
	page = env.post(t, "/play/submit", nil)
	mustContain(t, page, "Results", "Final square: 13 / Golden: 13", "You hit the Golden Number!")

	page = env.post(t, "/play/restart", nil)
	mustContain(t, page, "Q1/2: First", "Square: 1\n")
	if strings.Contains(page, "You hit the Golden Number!") {
		t.Fatalf("restart must clear the win")
	}
}

func TestStartUnknownTestShowsLoading(t *testing.T) {
	env := newTestEnv(t)
	env.get(t)
	store := env.store(t)

	page := env.post(t, "/tests/nope/start", nil)
	store.Wait()
	mustContain(t, page, "Loading…")
	mustContain(t, env.get(t), "Loading…")
}

func TestCreateAndSaveTest(t *testing.T) {
	env := newTestEnv(t)
	env.get(t)
	store := env.store(t)

	page := env.post(t, "/nav", url.Values{"view": {"create"}})
	mustContain(t, page, "Create Test", "New Question", "No questions yet.")

	draft := url.Values{
		"test_id":          {"fresh"},
		"title":            {"Fresh Test"},
		"prompt":           {"Pick one"},
		"type":             {"single"},
		"option_count":     {"2"},
		"option_text_0":    {"yes"},
		"option_points_0":  {"4"},
		"option_correct_0": {"on"},
		"option_text_1":    {"no"},
		"option_points_1":  {"abc"},
		"action":           {"save-question"},
	}
	page = env.post(t, "/create/draft", draft)
	mustContain(t, page, "Points must be non-zero numbers.")

	draft.Set("option_points_1", "-1")
	page = env.post(t, "/create/draft", draft)
	mustContain(t, page, "Question saved.", "Q1: Pick one", "Type: single")

	page = env.post(t, "/create/questions/0/edit", url.Values{"test_id": {"fresh"}, "title": {"Fresh Test"}, "option_count": {"0"}})
	mustContain(t, page, "Edit Question #1", `value="Pick one"`)

	env.post(t, "/create/draft", url.Values{"test_id": {"fresh"}, "title": {"Fresh Test"}, "action": {"save-test"}})
	store.Wait()
	page = env.get(t)
	mustContain(t, page, "Available Tests", "Fresh Test", "1 questions")
}

func TestCreateRemoveOption(t *testing.T) {
	env := newTestEnv(t)
	env.get(t)
	env.store(t)
	env.post(t, "/nav", url.Values{"view": {"create"}})

	page := env.post(t, "/create/draft", url.Values{"option_count": {"2"}, "action": {"add-option"}})
	mustContain(t, page, `name="option_text_2"`, "Option C")

	page = env.post(t, "/create/draft", url.Values{"option_count": {"3"}, "option_text_2": {"third"}, "remove": {"0"}})
	mustContain(t, page, `value="third"`)
	if strings.Contains(page, `name="option_text_2"`) {
		t.Fatalf("expected the option to be removed")
	}
}

func TestCookieBindsOneStorePerBrowser(t *testing.T) {
	env := newTestEnv(t)
	env.get(t)
	env.get(t)
	env.post(t, "/nav", url.Values{"view": {"create"}})
	env.store(t)
}
