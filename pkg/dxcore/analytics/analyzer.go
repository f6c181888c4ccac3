// Package analytics aggregates stored assessments into summary
// statistics: disease frequency, confidence means and the severity,
// source and guidance distributions.
package analytics

import (
	"context"
	"sort"

	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

// Analyzer accumulates per-assessment aggregates.
type Analyzer struct {
	total        int64
	undetermined int64
	emergencies  int64
	comorbid     int64
	confSum      float64
	byDisease    map[string]*diseaseAgg
	byLevel      map[string]int64
	bySource     map[string]int64
	byGuidance   map[string]int64
}

type diseaseAgg struct {
	count   int64
	confSum float64
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		byDisease:  make(map[string]*diseaseAgg),
		byLevel:    make(map[string]int64),
		bySource:   make(map[string]int64),
		byGuidance: make(map[string]int64),
	}
}

// Process consumes one stored assessment.
func (a *Analyzer) Process(rec store.Assessment) {
	a.total++
	a.confSum += rec.Confidence

	if rec.Disease == "" {
		a.undetermined++
	} else {
		agg := a.byDisease[rec.Disease]
		if agg == nil {
			agg = &diseaseAgg{}
			a.byDisease[rec.Disease] = agg
		}
		agg.count++
		agg.confSum += rec.Confidence
	}

	if rec.SeverityLevel != "" {
		a.byLevel[rec.SeverityLevel]++
	}
	if rec.Source != "" {
		a.bySource[rec.Source]++
	}
	if rec.Guidance != "" {
		a.byGuidance[rec.Guidance]++
	}
	if rec.Emergency {
		a.emergencies++
	}
	if len(rec.Comorbid) > 0 {
		a.comorbid++
	}
}

// DiseaseStats summarizes one disease's history.
type DiseaseStats struct {
	Count          int64
	MeanConfidence float64
}

// Stats exposes the aggregated counts.
type Stats struct {
	Total           int64
	Undetermined    int64
	Emergencies     int64
	WithComorbidity int64
	MeanConfidence  float64
	Diseases        map[string]DiseaseStats
	Levels          map[string]int64
	Sources         map[string]int64
	Guidance        map[string]int64
}

// Snapshot returns a copy of the accumulated statistics.
func (a *Analyzer) Snapshot() Stats {
	diseases := make(map[string]DiseaseStats, len(a.byDisease))
	for d, agg := range a.byDisease {
		stats := DiseaseStats{Count: agg.count}
		if agg.count > 0 {
			stats.MeanConfidence = agg.confSum / float64(agg.count)
		}
		diseases[d] = stats
	}

	var mean float64
	if a.total > 0 {
		mean = a.confSum / float64(a.total)
	}

	return Stats{
		Total:           a.total,
		Undetermined:    a.undetermined,
		Emergencies:     a.emergencies,
		WithComorbidity: a.comorbid,
		MeanConfidence:  mean,
		Diseases:        diseases,
		Levels:          copyCounts(a.byLevel),
		Sources:         copyCounts(a.bySource),
		Guidance:        copyCounts(a.byGuidance),
	}
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// DiseaseCount pairs a disease with its frequency for ranking.
type DiseaseCount struct {
	Disease        string
	Count          int64
	MeanConfidence float64
}

// TopDiseases ranks diseases by frequency, ties broken by name, and
// keeps at most limit entries. A non-positive limit keeps all.
func (s Stats) TopDiseases(limit int) []DiseaseCount {
	out := make([]DiseaseCount, 0, len(s.Diseases))
	for d, stats := range s.Diseases {
		out = append(out, DiseaseCount{
			Disease:        d,
			Count:          stats.Count,
			MeanConfidence: stats.MeanConfidence,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Disease < out[j].Disease
		}
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Lister is the read surface Collect needs from a store.
type Lister interface {
	ListAssessments(ctx context.Context, q store.Query) ([]store.Assessment, error)
}

// Collect runs the analyzer over everything the query matches.
func Collect(ctx context.Context, src Lister, q store.Query) (Stats, error) {
	recs, err := src.ListAssessments(ctx, q)
	if err != nil {
		return Stats{}, err
	}
	a := NewAnalyzer()
	for _, rec := range recs {
		a.Process(rec)
	}
	return a.Snapshot(), nil
}
