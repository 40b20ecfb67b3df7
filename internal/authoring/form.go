// Package authoring implements the test editor: a draft question, the committed question
// list and saving the finished test.
package authoring

import (
	"context"
	"errors"
	"strings"

	"quiz-ladders/internal/apiclient"
	"quiz-ladders/internal/domain"
)

// User-facing messages.
const (
	MsgPromptRequired  = "Please enter a question prompt."
	MsgTwoOptions      = "Add at least 2 options."
	MsgOneCorrect      = "Mark at least one correct option."
	MsgOptionText      = "Every option needs text."
	MsgNonZeroPoints   = "Points must be non-zero numbers."
	MsgTestIDRequired  = "Please enter a Test ID (filename)."
	MsgTitleRequired   = "Please enter a Title."
	MsgOneQuestion     = "Add at least one question."
	MsgQuestionSaved   = "Question saved."
	MsgTestSaved       = "✅ Test saved."
	MsgSaveFailedMark  = "❌ "
	defaultFailMessage = "Failed to save"
)

// TestSaver persists a finished test document.
type TestSaver interface {
	SaveTest(ctx context.Context, t domain.Test) error
}

// OptionPatch updates the non-nil fields of a draft option.
type OptionPatch struct {
	Text      *string
	Points    *int
	IsCorrect *bool
}

// Form is the editor state. It is not safe for concurrent use.
type Form struct {
	testID    string
	title     string
	questions []domain.Question
	draft     domain.Question
	editing   int
	message   string
}

// NewForm returns an empty editor with a fresh two-option draft.
func NewForm() *Form {
	f := &Form{}
	f.ResetEditor()
	return f
}

func emptyDraft() domain.Question {
	return domain.Question{
		Type: domain.QuestionSingle,
		Options: []domain.Option{
			{ID: domain.OptionID(0), Points: 1},
			{ID: domain.OptionID(1), Points: 1},
		},
	}
}

// TestID returns the raw test identifier field.
func (f *Form) TestID() string { return f.testID }

// Title returns the raw title field.
func (f *Form) Title() string { return f.title }

// SetMeta updates the test identifier and title fields.
func (f *Form) SetMeta(testID, title string) {
	f.testID = testID
	f.title = title
}

// Message is the last inline status or error.
func (f *Form) Message() string { return f.message }

// Draft returns a copy of the question being edited.
func (f *Form) Draft() domain.Question { return f.draft.Clone() }

// EditingIndex is the index of the committed question being edited, or -1 for a new one.
func (f *Form) EditingIndex() int { return f.editing }

// Questions returns a copy of the committed questions.
func (f *Form) Questions() []domain.Question {
	out := make([]domain.Question, 0, len(f.questions))
	for _, q := range f.questions {
		out = append(out, q.Clone())
	}
	return out
}

// SetPrompt updates the draft prompt.
func (f *Form) SetPrompt(prompt string) {
	f.draft.Prompt = prompt
}

// SetType updates the draft question type.
func (f *Form) SetType(t domain.QuestionType) error {
	if !t.Valid() {
		return domain.ErrInvalidTest
	}
	f.draft.Type = t
	return nil
}

// AddOption appends an empty option with the next letter.
func (f *Form) AddOption() {
	f.draft.Options = append(f.draft.Options, domain.Option{
		ID:     domain.OptionID(len(f.draft.Options)),
		Points: 1,
	})
}

// RemoveOption drops the option at idx and re-letters the rest.
func (f *Form) RemoveOption(idx int) error {
	if idx < 0 || idx >= len(f.draft.Options) {
		return domain.ErrOptionNotFound
	}
	f.draft.Options = append(f.draft.Options[:idx], f.draft.Options[idx+1:]...)
	for i := range f.draft.Options {
		f.draft.Options[i].ID = domain.OptionID(i)
	}
	return nil
}

// UpdateOption applies patch to the option at idx.
func (f *Form) UpdateOption(idx int, patch OptionPatch) error {
	if idx < 0 || idx >= len(f.draft.Options) {
		return domain.ErrOptionNotFound
	}
	o := &f.draft.Options[idx]
	if patch.Text != nil {
		o.Text = *patch.Text
	}
	if patch.Points != nil {
		o.Points = *patch.Points
	}
	if patch.IsCorrect != nil {
		o.IsCorrect = *patch.IsCorrect
	}
	return nil
}

// EditQuestion loads committed question i into the draft.
func (f *Form) EditQuestion(i int) error {
	if i < 0 || i >= len(f.questions) {
		return domain.ErrQuestionNotFound
	}
	f.draft = f.questions[i].Clone()
	f.editing = i
	f.message = ""
	return nil
}

// ResetEditor discards the draft and switches to new-question mode.
func (f *Form) ResetEditor() {
	f.draft = emptyDraft()
	f.editing = -1
}

// ValidateDraft checks the draft question.
func ValidateDraft(q domain.Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return &domain.ValidationError{Message: MsgPromptRequired}
	}
	if len(q.Options) < 2 {
		return &domain.ValidationError{Message: MsgTwoOptions}
	}
	anyCorrect := false
	for _, o := range q.Options {
		if o.IsCorrect {
			anyCorrect = true
			break
		}
	}
	if !anyCorrect {
		return &domain.ValidationError{Message: MsgOneCorrect}
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o.Text) == "" {
			return &domain.ValidationError{Message: MsgOptionText}
		}
	}
	for _, o := range q.Options {
		if o.Points == 0 {
			return &domain.ValidationError{Message: MsgNonZeroPoints}
		}
	}
	return nil
}

// SaveQuestion validates the draft and commits it, appending or replacing.
// On failure the draft is left untouched.
func (f *Form) SaveQuestion() error {
	if err := ValidateDraft(f.draft); err != nil {
		f.message = err.Error()
		return err
	}

	q := f.draft.Clone()
	if f.editing == -1 {
		q.ID = len(f.questions) + 1
		f.questions = append(f.questions, q)
	} else {
		f.questions[f.editing] = q
	}
	f.ResetEditor()
	f.message = MsgQuestionSaved
	return nil
}

// Test builds the document that would be submitted.
func (f *Form) Test() domain.Test {
	return domain.Test{
		ID:        strings.TrimSpace(f.testID),
		Title:     strings.TrimSpace(f.title),
		Questions: f.Questions(),
	}
}

// ValidateTest checks the test-level fields.
func (f *Form) ValidateTest() error {
	switch {
	case strings.TrimSpace(f.testID) == "":
		return &domain.ValidationError{Message: MsgTestIDRequired}
	case strings.TrimSpace(f.title) == "":
		return &domain.ValidationError{Message: MsgTitleRequired}
	case len(f.questions) == 0:
		return &domain.ValidationError{Message: MsgOneQuestion}
	}
	return nil
}

// Save validates and submits the test. Validation failures never reach the saver.
// A successful save clears the form; a failed one keeps everything for another attempt.
func (f *Form) Save(ctx context.Context, saver TestSaver) error {
	t, err := f.PrepareSave()
	if err != nil {
		return err
	}
	return f.ApplySaveResult(saver.SaveTest(ctx, t))
}

// PrepareSave validates the test-level fields and returns the document to submit.
// Callers holding a lock around the form release it while the document is in flight.
func (f *Form) PrepareSave() (domain.Test, error) {
	f.message = ""
	if err := f.ValidateTest(); err != nil {
		f.message = err.Error()
		return domain.Test{}, err
	}
	return f.Test(), nil
}

// ApplySaveResult records the outcome of submitting the document from PrepareSave
// and returns err unchanged.
func (f *Form) ApplySaveResult(err error) error {
	if err != nil {
		f.message = MsgSaveFailedMark + failureText(err)
		return err
	}
	*f = Form{}
	f.ResetEditor()
	f.message = MsgTestSaved
	return nil
}

func failureText(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return defaultFailMessage
	}
	return err.Error()
}
