// Package planstore persists scan-remediation plans as a single JSON
// document on disk. The file stays a plain readable {"plans": [...]}
// document so operators can inspect it directly.
package planstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goedr/console/internal/console/domain"
)

type document struct {
	Plans []domain.Plan `json:"plans"`
}

// Store serializes all access through a mutex; writes go to a temp file and
// are renamed into place so a crash never leaves a half-written document.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open ensures the document file exists (creating an empty one if needed)
// and returns a Store over it.
func Open(path string) (*Store, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		s := &Store{path: path}
		if err := s.write(document{Plans: []domain.Plan{}}); err != nil {
			return nil, err
		}
		return s, nil
	} else if err != nil {
		return nil, err
	}

	s := &Store{path: path}

	// Validate the existing document up front so a corrupt file fails at
	// startup rather than on the first request.
	if _, err := s.read(); err != nil {
		return nil, fmt.Errorf("planstore: corrupt document %s: %w", path, err)
	}

	return s, nil
}

// Add appends a plan, assigning its id and creation time, and returns the
// stored plan plus the new total count.
func (s *Store) Add(ctx context.Context, p domain.Plan) (domain.Plan, int, error) {
	if err := ctx.Err(); err != nil {
		return domain.Plan{}, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return domain.Plan{}, 0, err
	}

	p.ID = len(doc.Plans) + 1
	p.CreatedAt = time.Now().UTC()
	doc.Plans = append(doc.Plans, p)

	if err := s.write(doc); err != nil {
		return domain.Plan{}, 0, err
	}
	return p, len(doc.Plans), nil
}

// List returns all stored plans.
func (s *Store) List(ctx context.Context) ([]domain.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Plans, nil
}

// Reset drops every plan. Destructive; backs the administrative clear.
func (s *Store) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(document{Plans: []domain.Plan{}})
}

func (s *Store) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return document{}, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, err
	}
	if doc.Plans == nil {
		doc.Plans = []domain.Plan{}
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
