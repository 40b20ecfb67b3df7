package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"quiz-ladders/internal/domain"
)

func TestSaveListLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tests.db")
	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, err := store.LoadTest(ctx, "ladder"); !errors.Is(err, domain.ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}

	location, err := store.SaveTest(ctx, sampleTest("ladder", "Ladder"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if location != path+"#ladder" {
		t.Fatalf("unexpected location %q", location)
	}
	_, _ = store.SaveTest(ctx, sampleTest("alpha", "Alpha"))
	if _, err := store.SaveTest(ctx, sampleTest("ladder", "Ladder v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	list, err := store.ListTests(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "alpha" || list[1].Title != "Ladder v2" || list[1].NumQuestions != 1 {
		t.Fatalf("unexpected listing %+v", list)
	}

	got, err := store.LoadTest(ctx, "ladder")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Title != "Ladder v2" || len(got.Questions) != 1 || !got.Questions[0].Options[0].IsCorrect {
		t.Fatalf("unexpected document %+v", got)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tests.db")
	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, _ = store.SaveTest(ctx, sampleTest("kept", "Kept"))
	store.Close()

	again, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	if _, err := again.LoadTest(ctx, "kept"); err != nil {
		t.Fatalf("expected data to survive reopen: %v", err)
	}
}

func sampleTest(id, title string) domain.Test {
	return domain.Test{
		ID:    id,
		Title: title,
		Questions: []domain.Question{
			{ID: 1, Type: domain.QuestionMulti, Prompt: "p", Options: []domain.Option{
				{ID: "a", Text: "yes", Points: 5, IsCorrect: true},
				{ID: "b", Text: "no", Points: -2},
			}},
		},
	}
}
