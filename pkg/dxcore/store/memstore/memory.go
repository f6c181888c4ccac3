// Package memstore is an in-memory store.Store for tests and for
// running without a database file.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu          sync.RWMutex
	assessments map[string]store.Assessment
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		assessments: make(map[string]store.Assessment),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error { return nil }

// UpsertAssessment inserts or replaces an assessment, keyed by ID.
func (s *Store) UpsertAssessment(ctx context.Context, a store.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		return nil
	}
	s.assessments[a.ID] = copyAssessment(a)
	return nil
}

// GetAssessment returns an assessment by ID.
func (s *Store) GetAssessment(ctx context.Context, id string) (store.Assessment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.assessments[id]; ok {
		return copyAssessment(a), true, nil
	}
	return store.Assessment{}, false, nil
}

// ListAssessments returns matching assessments, newest first.
func (s *Store) ListAssessments(ctx context.Context, q store.Query) ([]store.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var results []store.Assessment
	for _, a := range s.assessments {
		if q.Disease != "" && a.Disease != q.Disease {
			continue
		}
		if !q.Since.IsZero() && a.CreatedAt.Before(q.Since) {
			continue
		}
		results = append(results, copyAssessment(a))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].ID > results[j].ID
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CountAssessments returns the number of stored assessments.
func (s *Store) CountAssessments(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.assessments)), nil
}

// DeleteAssessmentsBefore removes assessments created before the
// cutoff.
func (s *Store) DeleteAssessmentsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, a := range s.assessments {
		if a.CreatedAt.Before(cutoff) {
			delete(s.assessments, id)
			deleted++
		}
	}
	return deleted, nil
}

// copyAssessment deep-copies slices so callers can't mutate stored
// state through a returned value.
func copyAssessment(a store.Assessment) store.Assessment {
	out := a
	if a.Checklist != nil {
		out.Checklist = append([]string(nil), a.Checklist...)
	}
	if a.Candidates != nil {
		out.Candidates = append([]store.Candidate(nil), a.Candidates...)
	}
	if a.Comorbid != nil {
		out.Comorbid = append([]string(nil), a.Comorbid...)
	}
	if a.Factors != nil {
		out.Factors = append([]store.Factor(nil), a.Factors...)
	}
	return out
}
