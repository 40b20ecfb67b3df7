package domain

// QuestionType controls how selections on a question behave.
type QuestionType string

const (
	// QuestionSingle allows exactly one selected option.
	QuestionSingle QuestionType = "single"
	// QuestionMulti allows any number of selected options.
	QuestionMulti QuestionType = "multi"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	return t == QuestionSingle || t == QuestionMulti
}

// Option represents a possible answer for a question.
// IsCorrect is omitted from play payloads.
type Option struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Points    int    `json:"points" yaml:"points"`
	IsCorrect bool   `json:"is_correct,omitempty" yaml:"is_correct"`
}

// Question models a single or multi choice question.
type Question struct {
	ID      int          `json:"id" yaml:"id"`
	Type    QuestionType `json:"type" yaml:"type"`
	Prompt  string       `json:"prompt" yaml:"prompt"`
	Options []Option     `json:"options" yaml:"options"`
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	out := q
	out.Options = append([]Option(nil), q.Options...)
	return out
}

// Option looks up an option by ID.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Test is the persisted document an author creates.
type Test struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// TestSummary is a row of the test listing.
type TestSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	NumQuestions int    `json:"num_questions"`
}

// Summary builds the listing row for t.
func (t Test) Summary() TestSummary {
	return TestSummary{ID: t.ID, Title: t.Title, NumQuestions: len(t.Questions)}
}

// Quiz is the play view of a test: correctness flags stripped, golden number attached.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Golden    int        `json:"golden"`
	Questions []Question `json:"questions"`
}

// PlayQuiz derives the play document for t.
func PlayQuiz(t Test) Quiz {
	questions := make([]Question, 0, len(t.Questions))
	for _, q := range t.Questions {
		pq := q.Clone()
		for i := range pq.Options {
			pq.Options[i].IsCorrect = false
		}
		questions = append(questions, pq)
	}
	return Quiz{
		ID:        t.ID,
		Title:     t.Title,
		Golden:    GoldenNumber(t),
		Questions: questions,
	}
}

// StartSquare is the board square a player stands on before answering anything.
const StartSquare = 1

// GoldenNumber is the square a fully correct answer set lands on: the start square plus the
// points of every option marked correct.
func GoldenNumber(t Test) int {
	total := StartSquare
	for _, q := range t.Questions {
		for _, o := range q.Options {
			if o.IsCorrect {
				total += o.Points
			}
		}
	}
	return total
}

// OptionID returns the letter identifier for the option at index i (a, b, c, ...).
func OptionID(i int) string {
	return string(rune('a' + i))
}
