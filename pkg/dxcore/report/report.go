// Package report flattens one pipeline run into a persistable record,
// stamping it with a lexically sortable ULID.
package report

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/dxcore/pkg/dxcore/detect"
	"github.com/cognicore/dxcore/pkg/dxcore/gate"
	"github.com/cognicore/dxcore/pkg/dxcore/severity"
	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

// Builder mints record IDs and assembles store records. The mutex
// guards the monotonic entropy source, which is not goroutine safe.
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a builder with monotonic ULID entropy.
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Input carries everything one stored record needs.
type Input struct {
	Text      string
	Checklist []string
	Display   string
	Verdict   gate.Verdict
	Detection detect.Result
	Severity  severity.Assessment
	Guidance  gate.Guidance
	Volume    int
}

// NewID mints one ULID. IDs from the same builder are strictly
// increasing even within a single millisecond.
func (b *Builder) NewID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(b.now()), b.entropy).String()
}

// Build assembles a store record from one run.
func (b *Builder) Build(in Input) store.Assessment {
	a := store.Assessment{
		ID:            b.NewID(),
		CreatedAt:     b.now(),
		Input:         in.Text,
		Checklist:     append([]string(nil), in.Checklist...),
		Disease:       string(in.Verdict.Disease),
		Display:       in.Display,
		Confidence:    in.Verdict.Confidence,
		Source:        string(in.Verdict.Source),
		SeverityScore: in.Severity.Score,
		SeverityLevel: string(in.Severity.Level),
		Emergency:     in.Severity.Emergency,
		Guidance:      string(in.Guidance),
		Volume:        in.Volume,
	}

	for i, c := range in.Detection.Ranked {
		a.Candidates = append(a.Candidates, store.Candidate{
			Rank:       i + 1,
			Disease:    string(c.Disease),
			Confidence: c.Confidence,
		})
	}
	for _, cm := range in.Detection.Comorbid {
		a.Comorbid = append(a.Comorbid, string(cm.Candidate.Disease))
	}
	for _, f := range in.Severity.Factors {
		a.Factors = append(a.Factors, store.Factor{
			Category: f.Category,
			Phrase:   f.Phrase,
			Weight:   f.Weight,
		})
	}

	return a
}
