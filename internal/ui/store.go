// Package ui holds the application state of one browser: the current view, the test list,
// the quiz being played, the authoring form and the animated marker. Every change goes
// through a Store action; renderers read immutable snapshots.
package ui

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"quiz-ladders/internal/animator"
	"quiz-ladders/internal/authoring"
	"quiz-ladders/internal/board"
	"quiz-ladders/internal/domain"
	"quiz-ladders/internal/quiz"
)

// View is a top-level screen.
type View string

const (
	ViewHome   View = "home"
	ViewCreate View = "create"
	ViewPlay   View = "play"
)

// API is the tests API as the UI consumes it.
type API interface {
	ListTests(ctx context.Context) ([]domain.TestSummary, error)
	GetQuiz(ctx context.Context, testID string) (domain.Quiz, error)
	SaveTest(ctx context.Context, t domain.Test) error
}

// Options tunes a Store.
type Options struct {
	FrameInterval time.Duration
	Now           func() time.Time
}

// Store is the state of one browser. Methods are safe for concurrent use.
type Store struct {
	id   string
	api  API
	now  func() time.Time
	anim *animator.Animator
	wg   sync.WaitGroup

	mu       sync.Mutex
	view     View
	tests    []domain.TestSummary
	session  *quiz.Session
	form     *authoring.Form
	notice   string
	seq      uint64
	lastSeen time.Time
	closed   bool

	pubMu       sync.Mutex
	pubClosed   bool
	geometry    board.Geometry
	subscribers map[chan Event]struct{}
}

// NewStore creates the state for client id and starts loading the test list.
func NewStore(id string, api API, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Store{
		id:          id,
		api:         api,
		now:         now,
		view:        ViewHome,
		form:        authoring.NewForm(),
		lastSeen:    now(),
		subscribers: make(map[chan Event]struct{}),
	}
	s.anim = animator.New(s.publishFrame, opts.FrameInterval)
	s.RefreshTests(false)
	return s
}

// ID returns the client identifier.
func (s *Store) ID() string { return s.id }

// Touch records activity from the browser.
func (s *Store) Touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

// LastSeen returns the time of the last recorded activity.
func (s *Store) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Idle reports whether nothing is subscribed and no activity happened since cutoff.
func (s *Store) Idle(cutoff time.Time) bool {
	s.pubMu.Lock()
	listeners := len(s.subscribers)
	s.pubMu.Unlock()
	return listeners == 0 && s.LastSeen().Before(cutoff)
}

// Close stops the animation and releases every subscriber.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.anim.Stop()

	s.pubMu.Lock()
	s.pubClosed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.pubMu.Unlock()
}

// Wait blocks until in-flight API fetches have been applied or dropped.
func (s *Store) Wait() {
	s.wg.Wait()
}

// View returns the current screen.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Navigate switches between Home and Create. Play is entered only through StartTest.
func (s *Store) Navigate(v View) {
	if v != ViewHome && v != ViewCreate {
		return
	}
	s.mu.Lock()
	s.setViewLocked(v)
	s.mu.Unlock()
	s.publishState(v)
}

func (s *Store) setViewLocked(v View) {
	if s.view == ViewPlay && v != ViewPlay {
		s.anim.Stop()
	}
	s.view = v
}

// RefreshTests reloads the test list in the background. When home is set the store moves
// to the Home view once the list arrives. Failures are logged and change nothing.
func (s *Store) RefreshTests(home bool) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		tests, err := s.api.ListTests(context.Background())
		if err != nil {
			log.Printf("client %s: refresh tests: %v", s.id, err)
			return
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.tests = tests
		if home {
			s.setViewLocked(ViewHome)
		}
		v := s.view
		s.mu.Unlock()
		s.publishState(v)
	}()
}

// StartTest opens the Play view for testID and fetches its questions in the background.
// A response that arrives after another test was started, or after leaving Play, is dropped.
func (s *Store) StartTest(testID string) {
	s.mu.Lock()
	title := testID
	for _, t := range s.tests {
		if t.ID == testID {
			title = t.Title
			break
		}
	}
	s.session = quiz.NewSession(testID, title)
	s.notice = ""
	s.view = ViewPlay
	s.seq++
	token := s.seq
	s.anim.Jump(domain.StartSquare)
	s.mu.Unlock()
	s.publishState(ViewPlay)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		q, err := s.api.GetQuiz(context.Background(), testID)
		if err != nil {
			log.Printf("client %s: start test %s: %v", s.id, testID, err)
			return
		}
		s.applyQuiz(token, q)
	}()
}

func (s *Store) applyQuiz(token uint64, q domain.Quiz) {
	s.mu.Lock()
	if s.closed || token != s.seq || s.view != ViewPlay || s.session == nil {
		s.mu.Unlock()
		log.Printf("client %s: dropping stale quiz response for %s", s.id, q.ID)
		return
	}
	s.session.Load(q)
	s.retargetLocked()
	s.mu.Unlock()
	s.publishState(ViewPlay)
}

// PlayAction is a button on the Play view.
type PlayAction string

const (
	ActionSubmit  PlayAction = "submit"
	ActionPrev    PlayAction = "prev"
	ActionNext    PlayAction = "next"
	ActionClear   PlayAction = "clear"
	ActionBack    PlayAction = "back"
	ActionReview  PlayAction = "review"
	ActionRestart PlayAction = "restart"
)

// Select toggles or replaces the pending selection on the current question.
func (s *Store) Select(optionID string) error {
	return s.play(func(qs *quiz.Session) error {
		return qs.Select(optionID)
	})
}

// Play runs a Play view button.
func (s *Store) Play(action PlayAction) error {
	return s.play(func(qs *quiz.Session) error {
		switch action {
		case ActionSubmit:
			return qs.SubmitCurrent()
		case ActionPrev:
			return qs.GoPrev()
		case ActionNext:
			return qs.GoNext()
		case ActionClear:
			qs.ClearSelection()
		case ActionBack:
			qs.BackToEdit()
		case ActionReview:
			qs.ReviewFromStart()
		case ActionRestart:
			qs.Restart()
			s.anim.Jump(domain.StartSquare)
		default:
			return errUnknownAction
		}
		return nil
	})
}

var errUnknownAction = errors.New("unknown action")

func (s *Store) play(fn func(*quiz.Session) error) error {
	s.mu.Lock()
	if s.view != ViewPlay || s.session == nil {
		s.mu.Unlock()
		return domain.ErrNotLoaded
	}
	err := fn(s.session)
	s.notice = noticeFor(err)
	s.retargetLocked()
	s.mu.Unlock()
	s.publishState(ViewPlay)
	return err
}

func noticeFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrEmptySelection):
		return "Select at least one option."
	case errors.Is(err, domain.ErrNoAnswer):
		return "Save an answer before moving on."
	case errors.Is(err, domain.ErrIncomplete):
		return "Answer every question to see the results."
	default:
		return err.Error()
	}
}

func (s *Store) retargetLocked() {
	if s.view != ViewPlay || s.session == nil || s.session.State() == quiz.StateLoading {
		return
	}
	s.anim.Animate(s.session.Position())
}

// DraftInput is the full content of the authoring form as submitted by the browser.
type DraftInput struct {
	TestID  string
	Title   string
	Prompt  string
	Type    domain.QuestionType
	Options []OptionInput
}

// OptionInput is one option row of the authoring form.
type OptionInput struct {
	Text      string
	Points    int
	IsCorrect bool
}

// DraftAction is a button on the Create view.
type DraftAction string

const (
	DraftUpdate       DraftAction = "update"
	DraftAddOption    DraftAction = "add-option"
	DraftRemoveOption DraftAction = "remove-option"
	DraftSaveQuestion DraftAction = "save-question"
	DraftReset        DraftAction = "reset"
	DraftSaveTest     DraftAction = "save-test"
)

// ErrStaleDraft reports a submitted form carrying more option rows than the draft has,
// typically a resubmitted page from before an option was removed. Nothing is applied.
var ErrStaleDraft = errors.New("draft form is out of date")

// EditDraft applies the submitted form fields and then runs action. index selects the
// option for DraftRemoveOption. A successful DraftSaveTest refreshes the list and returns Home.
// The save request runs without holding the store lock.
func (s *Store) EditDraft(ctx context.Context, in DraftInput, action DraftAction, index int) error {
	s.mu.Lock()
	f := s.form
	if have := len(f.Draft().Options); len(in.Options) > have {
		s.mu.Unlock()
		log.Printf("client %s: draft form has %d options, editor has %d", s.id, len(in.Options), have)
		return ErrStaleDraft
	}
	f.SetMeta(in.TestID, in.Title)
	f.SetPrompt(in.Prompt)
	if in.Type.Valid() {
		_ = f.SetType(in.Type)
	}
	for i, o := range in.Options {
		o := o
		_ = f.UpdateOption(i, authoring.OptionPatch{Text: &o.Text, Points: &o.Points, IsCorrect: &o.IsCorrect})
	}

	var (
		err     error
		pending *domain.Test
	)
	switch action {
	case DraftUpdate:
	case DraftAddOption:
		f.AddOption()
	case DraftRemoveOption:
		err = f.RemoveOption(index)
	case DraftSaveQuestion:
		err = f.SaveQuestion()
	case DraftReset:
		f.ResetEditor()
	case DraftSaveTest:
		var t domain.Test
		if t, err = f.PrepareSave(); err == nil {
			pending = &t
		}
	default:
		err = errUnknownAction
	}
	v := s.view
	s.mu.Unlock()

	if pending != nil {
		s.publishState(v)
		saveErr := s.api.SaveTest(ctx, *pending)

		s.mu.Lock()
		err = s.form.ApplySaveResult(saveErr)
		v = s.view
		s.mu.Unlock()

		if err == nil {
			s.RefreshTests(true)
		}
	}
	s.publishState(v)
	return err
}

// EditQuestion loads a committed question into the draft editor.
func (s *Store) EditQuestion(i int) error {
	s.mu.Lock()
	err := s.form.EditQuestion(i)
	v := s.view
	s.mu.Unlock()
	s.publishState(v)
	return err
}

// SetGeometry records the board cell size measured by the browser and re-sends the marker.
func (s *Store) SetGeometry(g board.Geometry) {
	s.pubMu.Lock()
	s.geometry = g
	s.pubMu.Unlock()
	s.publishFrame(s.anim.Position())
}

// Geometry returns the last measured board geometry.
func (s *Store) Geometry() board.Geometry {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	return s.geometry
}

// AnimatedPosition returns the displayed marker position.
func (s *Store) AnimatedPosition() float64 {
	return s.anim.Position()
}

// WaitAnimation blocks until the marker stops moving.
func (s *Store) WaitAnimation() {
	s.anim.Wait()
}
