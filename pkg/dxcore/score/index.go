package score

import (
	"sort"

	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/symptom"
)

// IndexEntry ties a keyword back to one disease that scores it.
type IndexEntry struct {
	Disease    disease.ID
	Weight     float64
	Diagnostic bool
}

// Index answers the reverse question: given a keyword, which diseases
// weight it and how heavily. Built once from a table and read-only
// afterwards.
type Index struct {
	byKeyword map[string][]IndexEntry
}

// NewIndex builds the reverse index for a table.
func NewIndex(table Table) *Index {
	ix := &Index{byKeyword: make(map[string][]IndexEntry)}
	for id, kw := range table {
		for keyword, weight := range kw.Diagnostic {
			ix.add(keyword, IndexEntry{Disease: id, Weight: weight, Diagnostic: true})
		}
		for keyword, weight := range kw.Generic {
			ix.add(keyword, IndexEntry{Disease: id, Weight: weight})
		}
	}
	for _, entries := range ix.byKeyword {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Weight != entries[j].Weight {
				return entries[i].Weight > entries[j].Weight
			}
			return entries[i].Disease < entries[j].Disease
		})
	}
	return ix
}

func (ix *Index) add(keyword string, e IndexEntry) {
	key := symptom.CleanText(keyword)
	if key == "" {
		return
	}
	ix.byKeyword[key] = append(ix.byKeyword[key], e)
}

// Lookup returns the diseases weighting the keyword, heaviest first.
// The query is cleaned the same way report text is.
func (ix *Index) Lookup(keyword string) []IndexEntry {
	entries := ix.byKeyword[symptom.CleanText(keyword)]
	out := make([]IndexEntry, len(entries))
	copy(out, entries)
	return out
}

// Keywords lists every indexed keyword, sorted.
func (ix *Index) Keywords() []string {
	out := make([]string, 0, len(ix.byKeyword))
	for k := range ix.byKeyword {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len reports how many distinct keywords are indexed.
func (ix *Index) Len() int { return len(ix.byKeyword) }
