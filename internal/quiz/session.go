// Package quiz holds the play-through state machine and the scoring of answer sets.
package quiz

import (
	"quiz-ladders/internal/domain"
)

// State is the phase of a quiz session.
type State int

const (
	// StateLoading means the test was chosen but its questions have not arrived.
	StateLoading State = iota
	// StateAnswering means a question is on screen.
	StateAnswering
	// StateFinished means every question has a recorded answer and results are shown.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnswering:
		return "answering"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Answers maps a question ID to the selected option IDs, in option order.
type Answers map[int][]string

func (a Answers) clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (a Answers) answered(questionID int) bool {
	return len(a[questionID]) > 0
}

// Session is a single play-through of one test. It is not safe for concurrent use;
// the owning store serializes access.
type Session struct {
	testID   string
	title    string
	quiz     *domain.Quiz
	index    int
	pending  map[string]struct{}
	answers  Answers
	finished bool
}

// NewSession starts a session in the loading state.
func NewSession(testID, title string) *Session {
	return &Session{
		testID:  testID,
		title:   title,
		pending: make(map[string]struct{}),
		answers: make(Answers),
	}
}

// Load attaches the fetched quiz and moves to answering, preloading any recorded
// selection for the first question.
func (s *Session) Load(q domain.Quiz) {
	s.quiz = &q
	if q.Title != "" {
		s.title = q.Title
	}
	s.index = 0
	s.finished = false
	s.loadPending()
}

// TestID returns the ID of the test being played.
func (s *Session) TestID() string { return s.testID }

// Title returns the test title.
func (s *Session) Title() string { return s.title }

// State reports the current phase.
func (s *Session) State() State {
	switch {
	case s.quiz == nil:
		return StateLoading
	case s.finished:
		return StateFinished
	default:
		return StateAnswering
	}
}

// Golden returns the target square, or 0 while loading.
func (s *Session) Golden() int {
	if s.quiz == nil {
		return 0
	}
	return s.quiz.Golden
}

// Questions returns the loaded questions.
func (s *Session) Questions() []domain.Question {
	if s.quiz == nil {
		return nil
	}
	return s.quiz.Questions
}

// Index returns the zero-based index of the current question.
func (s *Session) Index() int { return s.index }

// Current returns the question on screen.
func (s *Session) Current() (domain.Question, bool) {
	qs := s.Questions()
	if s.index < 0 || s.index >= len(qs) {
		return domain.Question{}, false
	}
	return qs[s.index], true
}

// IsSelected reports whether optionID is in the pending selection.
func (s *Session) IsSelected(optionID string) bool {
	_, ok := s.pending[optionID]
	return ok
}

// Selected returns the pending selection in option order.
func (s *Session) Selected() []string {
	q, ok := s.Current()
	if !ok {
		return nil
	}
	return s.orderedPending(q)
}

// Answers returns a copy of the recorded answer set.
func (s *Session) Answers() Answers {
	return s.answers.clone()
}

// HasRecordedAnswer reports whether the current question has a recorded answer.
func (s *Session) HasRecordedAnswer() bool {
	q, ok := s.Current()
	return ok && s.answers.answered(q.ID)
}

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool {
	return s.index == len(s.Questions())-1
}

// Select replaces the selection on single questions and toggles membership on multi questions.
func (s *Session) Select(optionID string) error {
	q, err := s.current()
	if err != nil {
		return err
	}
	if _, ok := q.Option(optionID); !ok {
		return domain.ErrOptionNotFound
	}

	if q.Type == domain.QuestionMulti {
		if _, ok := s.pending[optionID]; ok {
			delete(s.pending, optionID)
		} else {
			s.pending[optionID] = struct{}{}
		}
		return nil
	}
	s.pending = map[string]struct{}{optionID: {}}
	return nil
}

// ClearSelection drops the pending selection without touching recorded answers.
func (s *Session) ClearSelection() {
	s.pending = make(map[string]struct{})
}

// SubmitCurrent records the pending selection and advances, or finishes on the last question.
func (s *Session) SubmitCurrent() error {
	q, err := s.current()
	if err != nil {
		return err
	}
	if len(s.pending) == 0 {
		return domain.ErrEmptySelection
	}
	s.answers[q.ID] = s.orderedPending(q)

	if s.index+1 < len(s.quiz.Questions) {
		s.index++
		s.finished = false
		s.loadPending()
		return nil
	}
	s.finished = s.allAnswered()
	return nil
}

// GoPrev steps back one question, keeping a non-empty pending selection.
func (s *Session) GoPrev() error {
	if _, err := s.current(); err != nil {
		return err
	}
	if s.index == 0 {
		return domain.ErrQuestionNotFound
	}
	s.keepPending()
	s.index--
	s.finished = false
	s.loadPending()
	return nil
}

// GoNext steps forward without a fresh submit. It needs a recorded answer for the current
// question; on the last question it checks whether the quiz is complete instead.
func (s *Session) GoNext() error {
	if _, err := s.current(); err != nil {
		return err
	}
	if s.index+1 < len(s.quiz.Questions) {
		if !s.HasRecordedAnswer() {
			return domain.ErrNoAnswer
		}
		s.keepPending()
		s.index++
		s.finished = false
		s.loadPending()
		return nil
	}

	s.keepPending()
	s.finished = s.allAnswered()
	if !s.finished {
		return domain.ErrIncomplete
	}
	return nil
}

// BackToEdit leaves the results screen and returns to the question that was on screen.
func (s *Session) BackToEdit() {
	if s.quiz == nil {
		return
	}
	s.finished = false
	s.loadPending()
}

// ReviewFromStart returns to the first question keeping every recorded answer.
func (s *Session) ReviewFromStart() {
	if s.quiz == nil {
		return
	}
	s.index = 0
	s.finished = false
	s.loadPending()
}

// Restart clears every recorded answer and returns to the first question.
func (s *Session) Restart() {
	s.answers = make(Answers)
	s.pending = make(map[string]struct{})
	s.index = 0
	s.finished = false
}

func (s *Session) current() (domain.Question, error) {
	if s.quiz == nil {
		return domain.Question{}, domain.ErrNotLoaded
	}
	q, ok := s.Current()
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *Session) keepPending() {
	q, ok := s.Current()
	if !ok || len(s.pending) == 0 {
		return
	}
	s.answers[q.ID] = s.orderedPending(q)
}

func (s *Session) loadPending() {
	s.pending = make(map[string]struct{})
	q, ok := s.Current()
	if !ok {
		return
	}
	for _, id := range s.answers[q.ID] {
		s.pending[id] = struct{}{}
	}
}

func (s *Session) orderedPending(q domain.Question) []string {
	out := make([]string, 0, len(s.pending))
	for _, o := range q.Options {
		if _, ok := s.pending[o.ID]; ok {
			out = append(out, o.ID)
		}
	}
	return out
}

func (s *Session) allAnswered() bool {
	for _, q := range s.Questions() {
		if !s.answers.answered(q.ID) {
			return false
		}
	}
	return true
}
