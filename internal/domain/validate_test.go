package domain

import (
	"errors"
	"testing"
)

func sampleTest() Test {
	return Test{
		ID:    "ladder",
		Title: "Ladder",
		Questions: []Question{
			{
				ID:     1,
				Type:   QuestionSingle,
				Prompt: "Pick",
				Options: []Option{
					{ID: "a", Text: "ten", Points: 10, IsCorrect: true},
					{ID: "b", Text: "three", Points: 3},
				},
			},
			{
				ID:     2,
				Type:   QuestionSingle,
				Prompt: "Pick again",
				Options: []Option{
					{ID: "a", Text: "five", Points: 5},
					{ID: "b", Text: "two", Points: 2, IsCorrect: true},
				},
			},
		},
	}
}

func TestValidateTest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Test)
		want   string
	}{
		{"valid", func(*Test) {}, ""},
		{"missing id", func(t *Test) { t.ID = "" }, "Missing 'id' (filename without .json)"},
		{"unsafe id", func(t *Test) { t.ID = "../etc" }, "'id' may only contain letters, digits, '_' and '-'"},
		{"missing title", func(t *Test) { t.Title = "" }, "Missing 'title'"},
		{"no questions", func(t *Test) { t.Questions = nil }, "Questions must be a non-empty list"},
		{"bad type", func(t *Test) { t.Questions[1].Type = "essay" }, "Question 2: 'type' must be 'single' or 'multi'"},
		{"one option", func(t *Test) { t.Questions[0].Options = t.Questions[0].Options[:1] }, "Question 1: needs at least 2 options"},
		{"zero points", func(t *Test) { t.Questions[0].Options[1].Points = 0 }, "Question 1 option b: 'points' must be non-zero number"},
		{"no correct", func(t *Test) { t.Questions[1].Options[1].IsCorrect = false }, "Question 2: at least one option must be marked is_correct"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := sampleTest()
			tc.mutate(&doc)
			err := ValidateTest(doc)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrInvalidTest) {
				t.Fatalf("expected ErrInvalidTest in chain, got %v", err)
			}
		})
	}
}

func TestPlayQuizStripsCorrectnessAndComputesGolden(t *testing.T) {
	doc := sampleTest()
	quiz := PlayQuiz(doc)

	if quiz.Golden != 13 {
		t.Fatalf("expected golden 13, got %d", quiz.Golden)
	}
	for _, q := range quiz.Questions {
		for _, o := range q.Options {
			if o.IsCorrect {
				t.Fatalf("expected correctness stripped, got %+v", o)
			}
		}
	}
	if !doc.Questions[0].Options[0].IsCorrect {
		t.Fatalf("expected source document untouched")
	}
}

func TestOptionID(t *testing.T) {
	if OptionID(0) != "a" || OptionID(2) != "c" || OptionID(25) != "z" {
		t.Fatalf("unexpected option ids: %s %s %s", OptionID(0), OptionID(2), OptionID(25))
	}
}
