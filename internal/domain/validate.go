package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var testIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidTestID reports whether id is safe to use as a file name and storage key.
func ValidTestID(id string) bool {
	return testIDPattern.MatchString(id)
}

// Normalize trims the identifying fields of a test document.
func (t Test) Normalize() Test {
	t.ID = strings.TrimSpace(t.ID)
	t.Title = strings.TrimSpace(t.Title)
	return t
}

// ValidateTest applies the checks the tests API enforces before persisting a document.
// The first failing check is reported.
func ValidateTest(t Test) error {
	if t.ID == "" {
		return invalid("Missing 'id' (filename without .json)")
	}
	if !ValidTestID(t.ID) {
		return invalid("'id' may only contain letters, digits, '_' and '-'")
	}
	if t.Title == "" {
		return invalid("Missing 'title'")
	}
	if len(t.Questions) == 0 {
		return invalid("Questions must be a non-empty list")
	}

	for i, q := range t.Questions {
		n := i + 1
		if !q.Type.Valid() {
			return invalid(fmt.Sprintf("Question %d: 'type' must be 'single' or 'multi'", n))
		}
		if len(q.Options) < 2 {
			return invalid(fmt.Sprintf("Question %d: needs at least 2 options", n))
		}
		anyCorrect := false
		for _, o := range q.Options {
			if o.Points == 0 {
				return invalid(fmt.Sprintf("Question %d option %s: 'points' must be non-zero number", n, o.ID))
			}
			if o.IsCorrect {
				anyCorrect = true
			}
		}
		if !anyCorrect {
			return invalid(fmt.Sprintf("Question %d: at least one option must be marked is_correct", n))
		}
	}
	return nil
}
