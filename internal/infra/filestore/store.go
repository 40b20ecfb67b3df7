// Package filestore keeps each test as a pretty-printed JSON document <dir>/<id>.json.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quiz-ladders/internal/domain"
)

// document is the on-disk shape; the ID is the file name.
type document struct {
	Title     string            `json:"title"`
	Questions []domain.Question `json:"questions"`
}

// Store is safe for concurrent use as long as writers do not race on the same ID.
type Store struct {
	dir string
}

// New creates dir if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create tests dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding the documents.
func (s *Store) Dir() string { return s.dir }

// ListTests returns one row per *.json file, sorted by ID. Files that do not parse are
// listed with an "(invalid json)" title and no questions.
func (s *Store) ListTests(_ context.Context) ([]domain.TestSummary, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	out := make([]domain.TestSummary, 0, len(matches))
	for _, path := range matches {
		id := strings.TrimSuffix(filepath.Base(path), ".json")
		doc, err := readDocument(path)
		if err != nil {
			out = append(out, domain.TestSummary{ID: id, Title: id + " (invalid json)"})
			continue
		}
		title := doc.Title
		if title == "" {
			title = id
		}
		out = append(out, domain.TestSummary{ID: id, Title: title, NumQuestions: len(doc.Questions)})
	}
	return out, nil
}

func (s *Store) LoadTest(_ context.Context, testID string) (domain.Test, error) {
	if !domain.ValidTestID(testID) {
		return domain.Test{}, domain.ErrTestNotFound
	}
	doc, err := readDocument(s.path(testID))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Test{}, domain.ErrTestNotFound
	}
	if err != nil {
		return domain.Test{}, fmt.Errorf("read test %s: %w", testID, err)
	}
	title := doc.Title
	if title == "" {
		title = testID
	}
	return domain.Test{ID: testID, Title: title, Questions: doc.Questions}, nil
}

// SaveTest overwrites <dir>/<id>.json and returns its path.
func (s *Store) SaveTest(_ context.Context, t domain.Test) (string, error) {
	if !domain.ValidTestID(t.ID) {
		return "", domain.ErrInvalidTest
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Title: t.Title, Questions: t.Questions}); err != nil {
		return "", err
	}

	path := s.path(t.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return path, nil
}

func (s *Store) path(testID string) string {
	return filepath.Join(s.dir, testID+".json")
}

func readDocument(path string) (document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return document{}, err
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return document{}, err
	}
	return doc, nil
}
