package quiz

import (
	"fmt"

	"quiz-ladders/internal/domain"
)

// AnsweredPrefix counts the questions, from the first, that have a recorded answer,
// stopping at the first gap.
func (s *Session) AnsweredPrefix() int {
	count := 0
	for _, q := range s.Questions() {
		if !s.answers.answered(q.ID) {
			break
		}
		count++
	}
	return count
}

// Progress returns the square reached after the first upto questions.
func (s *Session) Progress(upto int) int {
	qs := s.Questions()
	if upto > len(qs) {
		upto = len(qs)
	}
	position := domain.StartSquare
	for i := 0; i < upto; i++ {
		position += pointsFor(qs[i], s.answers[qs[i].ID])
	}
	if position < domain.StartSquare {
		return domain.StartSquare
	}
	return position
}

// Position is the square the player currently stands on: the answered prefix while
// playing, every question once finished.
func (s *Session) Position() int {
	if s.finished {
		return s.Progress(len(s.Questions()))
	}
	return s.Progress(s.AnsweredPrefix())
}

func pointsFor(q domain.Question, selected []string) int {
	points := 0
	for _, id := range selected {
		if o, ok := q.Option(id); ok {
			points += o.Points
		}
	}
	return points
}

// Outcome compares the position with the golden number.
type Outcome string

const (
	OutcomePerfect    Outcome = "perfect"
	OutcomeUndershoot Outcome = "undershoot"
	OutcomeOvershoot  Outcome = "overshoot"
)

// Result is the position relative to the golden number.
type Result struct {
	Position int
	Golden   int
	Outcome  Outcome
	Delta    int
}

// Evaluate classifies a position against the target.
func Evaluate(position, golden int) Result {
	r := Result{Position: position, Golden: golden}
	switch {
	case position == golden:
		r.Outcome = OutcomePerfect
	case position < golden:
		r.Outcome = OutcomeUndershoot
		r.Delta = golden - position
	default:
		r.Outcome = OutcomeOvershoot
		r.Delta = position - golden
	}
	return r
}

// Perfect reports whether the golden number was hit exactly.
func (r Result) Perfect() bool {
	return r.Outcome == OutcomePerfect
}

func (r Result) String() string {
	if r.Perfect() {
		return string(OutcomePerfect)
	}
	return fmt.Sprintf("%s by %d", r.Outcome, r.Delta)
}

// Result evaluates the current position against the session's golden number.
func (s *Session) Result() Result {
	return Evaluate(s.Position(), s.Golden())
}

// Win reports whether the finished session landed exactly on the golden number.
func (s *Session) Win() bool {
	return s.State() == StateFinished && s.Result().Perfect()
}
