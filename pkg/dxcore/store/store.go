// Package store defines the persistence surface for assessment
// history. Backends exist for SQLite, Postgres and memory; all of
// them serve the same interface so callers never branch on engine.
package store

import (
	"context"
	"time"
)

// Store persists and queries completed assessments.
type Store interface {
	Close() error

	// Assessments
	UpsertAssessment(ctx context.Context, a Assessment) error
	GetAssessment(ctx context.Context, id string) (Assessment, bool, error)
	ListAssessments(ctx context.Context, q Query) ([]Assessment, error)
	CountAssessments(ctx context.Context) (int64, error)

	// DeleteAssessmentsBefore removes records created before the
	// cutoff and reports how many went.
	DeleteAssessmentsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// Assessment is one stored diagnosis run, denormalized to plain
// strings so backends never depend on analysis packages.
type Assessment struct {
	ID            string
	CreatedAt     time.Time
	Input         string
	Checklist     []string
	Disease       string
	Display       string
	Confidence    float64
	Source        string
	SeverityScore int
	SeverityLevel string
	Emergency     bool
	Guidance      string
	Volume        int
	Candidates    []Candidate
	Comorbid      []string
	Factors       []Factor
}

// Candidate is one ranked differential entry on a stored assessment.
// Rank starts at 1 for the primary.
type Candidate struct {
	Rank       int
	Disease    string
	Confidence float64
}

// Factor is one applied severity signal.
type Factor struct {
	Category string
	Phrase   string
	Weight   int
}

// Query filters ListAssessments. Zero values mean no filter; a Limit
// of zero falls back to the backend default. Results always order
// newest first.
type Query struct {
	Disease string
	Since   time.Time
	Limit   int
}
