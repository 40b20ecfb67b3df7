package ui

import (
	"quiz-ladders/internal/board"
	"quiz-ladders/internal/domain"
	"quiz-ladders/internal/quiz"
)

// Snapshot is an immutable copy of everything a renderer needs.
type Snapshot struct {
	ClientID string
	View     View
	Tests    []domain.TestSummary
	Play     *PlaySnapshot
	Create   *CreateSnapshot
}

// PlaySnapshot is the Play view.
type PlaySnapshot struct {
	TestID   string
	Title    string
	State    quiz.State
	Golden   int
	Position int
	Result   quiz.Result
	Win      bool
	Notice   string

	Index    int
	Total    int
	Question domain.Question
	Selected map[string]bool
	Recorded bool
	IsLast   bool

	Board  []Square
	Marker Frame
}

// Loading reports whether the questions are still being fetched.
func (p *PlaySnapshot) Loading() bool { return p.State == quiz.StateLoading }

// Finished reports whether the results screen is shown.
func (p *PlaySnapshot) Finished() bool { return p.State == quiz.StateFinished }

// Multi reports whether the current question allows several selections.
func (p *PlaySnapshot) Multi() bool { return p.Question.Type == domain.QuestionMulti }

// Number is the 1-based number of the current question.
func (p *PlaySnapshot) Number() int { return p.Index + 1 }

// Square is one board cell as drawn.
type Square struct {
	Number  int
	Golden  bool
	Current bool
}

// CreateSnapshot is the Create view.
type CreateSnapshot struct {
	TestID    string
	Title     string
	Draft     domain.Question
	Editing   int
	Questions []domain.Question
	Message   string
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ClientID: s.id,
		View:     s.view,
		Tests:    append([]domain.TestSummary(nil), s.tests...),
	}
	switch s.view {
	case ViewPlay:
		if s.session != nil {
			snap.Play = s.playSnapshotLocked()
		}
	case ViewCreate:
		snap.Create = &CreateSnapshot{
			TestID:    s.form.TestID(),
			Title:     s.form.Title(),
			Draft:     s.form.Draft(),
			Editing:   s.form.EditingIndex(),
			Questions: s.form.Questions(),
			Message:   s.form.Message(),
		}
	}
	return snap
}

func (s *Store) playSnapshotLocked() *PlaySnapshot {
	qs := s.session
	p := &PlaySnapshot{
		TestID: qs.TestID(),
		Title:  qs.Title(),
		State:  qs.State(),
		Golden: qs.Golden(),
		Notice: s.notice,
		Index:  qs.Index(),
		Total:  len(qs.Questions()),
		IsLast: qs.IsLast(),
	}
	if p.State != quiz.StateLoading {
		p.Position = qs.Position()
		p.Result = qs.Result()
		p.Win = qs.Win()
		p.Recorded = qs.HasRecordedAnswer()
	}
	if q, ok := qs.Current(); ok {
		p.Question = q.Clone()
		p.Selected = make(map[string]bool, len(q.Options))
		for _, id := range qs.Selected() {
			p.Selected[id] = true
		}
	}

	p.Marker = frameAt(s.anim.Position(), s.Geometry())
	for _, n := range board.Build().Cells() {
		p.Board = append(p.Board, Square{
			Number:  n,
			Golden:  n == p.Golden,
			Current: n == p.Marker.Cell,
		})
	}
	return p
}
