// Package intake cleans externally submitted symptom text before it
// reaches the analysis pipeline: HTML from web forms is flattened to
// plain text, whitespace is collapsed and overlong input is capped.
// It also loads bulk report files for seeding.
package intake

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/dxcore/pkg/dxcore/internalerr"
)

// MaxTextLen caps a single symptom report in runes. Anything longer
// is truncated rather than rejected so a pasted document still yields
// an assessment of its head.
const MaxTextLen = 4096

// Report is one symptom submission in a seed file. Profile fields are
// plain values; condition labels resolve to disease IDs at the caller.
type Report struct {
	Text       string   `json:"text"`
	Checklist  []string `json:"checklist,omitempty"`
	Age        int      `json:"age,omitempty"`
	Pregnant   bool     `json:"pregnant,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
}

// Sanitize turns raw submission text into analyzer-ready plain text:
// HTML markup is stripped, entities decode, whitespace runs collapse
// to single spaces and the result is capped at MaxTextLen runes.
func Sanitize(raw string) string {
	text := StripHTML(raw)
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > MaxTextLen {
		text = strings.TrimSpace(string(runes[:MaxTextLen]))
	}
	return text
}

// StripHTML extracts the visible text of an HTML fragment. Script and
// style subtrees are dropped entirely. A space follows every text
// node so words never fuse across adjacent tags.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}

// CleanList trims checklist items and drops empties, preserving the
// submitted order.
func CleanList(items []string) []string {
	var out []string
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

// LoadFromJSONL loads reports from a JSONL file. Malformed lines and
// reports whose text sanitizes to nothing are skipped with a warning;
// a file with no usable reports is an error.
func LoadFromJSONL(path string) ([]Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var reports []Report
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var r Report
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		r.Text = Sanitize(r.Text)
		if r.Text == "" {
			log.Printf("Warning: skipping empty report at line %d in %s", i+1, path)
			continue
		}
		r.Checklist = CleanList(r.Checklist)
		reports = append(reports, r)
	}

	if len(reports) == 0 {
		return nil, fmt.Errorf("%w: no usable reports in %s", internalerr.ErrInvalidInput, path)
	}

	return reports, nil
}
