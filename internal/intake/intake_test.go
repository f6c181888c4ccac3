package intake

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/dxcore/pkg/dxcore/internalerr"
)

// TestStripHTML tests HTML tag removal on submitted symptom text
func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple paragraph",
			input: "<p>fever and headache</p>",
			want:  "fever and headache",
		},
		{
			name:  "adjacent tags keep word boundaries",
			input: "<div><p>bleeding gums</p><p>pain behind eyes</p></div>",
			want:  "bleeding gums pain behind eyes",
		},
		{
			name:  "with attributes",
			input: `<span class="symptom">high fever</span>`,
			want:  "high fever",
		},
		{
			name:  "nested tags",
			input: "<p><strong>severe</strong> and <em>worsening</em></p>",
			want:  "severe  and  worsening",
		},
		{
			name:  "script dropped",
			input: "<p>rash</p><script>alert('x')</script>",
			want:  "rash",
		},
		{
			name:  "style dropped",
			input: "<style>p{color:red}</style><p>chills</p>",
			want:  "chills",
		},
		{
			name:  "entities decode",
			input: "fever &amp; chills",
			want:  "fever & chills",
		},
		{
			name:  "plain text",
			input: "no markup here",
			want:  "no markup here",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripHTML(tt.input)
			if got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize tests the full cleanup applied to web submissions
func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses whitespace",
			input: "fever\n\n  and\t chills ",
			want:  "fever and chills",
		},
		{
			name:  "strips markup and collapses",
			input: "<div><p>bleeding gums</p>\n<p>pain behind eyes</p></div>",
			want:  "bleeding gums pain behind eyes",
		},
		{
			name:  "entities become plain text",
			input: "<p>fever &amp; chills</p>",
			want:  "fever & chills",
		},
		{
			name:  "only markup yields empty",
			input: "<div><script>x()</script></div>",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitizeCapsLength tests the rune cap on oversized submissions
func TestSanitizeCapsLength(t *testing.T) {
	long := strings.Repeat("fever chills rash ", 1000)
	got := Sanitize(long)
	if n := len([]rune(got)); n > MaxTextLen {
		t.Errorf("Sanitize length = %d runes, want <= %d", n, MaxTextLen)
	}
	if !strings.HasPrefix(got, "fever chills rash") {
		t.Errorf("Sanitize should keep the head of the input, got %q...", got[:40])
	}
}

// TestCleanList tests checklist normalization
func TestCleanList(t *testing.T) {
	got := CleanList([]string{" fever ", "", "  ", "rash"})
	want := []string{"fever", "rash"}
	if len(got) != len(want) {
		t.Fatalf("CleanList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CleanList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestLoadFromJSONL tests bulk report loading with malformed lines
func TestLoadFromJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports.jsonl")

	content := `{"text":"<p>high fever and rash</p>","checklist":[" fever ",""]}
not json at all
{"text":"  "}
{"text":"bleeding gums for three days","age":70}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	reports, err := LoadFromJSONL(path)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("loaded %d reports, want 2: %+v", len(reports), reports)
	}
	if reports[0].Text != "high fever and rash" {
		t.Errorf("first text = %q, want sanitized plain text", reports[0].Text)
	}
	if len(reports[0].Checklist) != 1 || reports[0].Checklist[0] != "fever" {
		t.Errorf("first checklist = %v, want [fever]", reports[0].Checklist)
	}
	if reports[1].Age != 70 {
		t.Errorf("second age = %d, want 70", reports[1].Age)
	}
}

// TestLoadFromJSONLEmptyFile tests that a file with no usable reports errors
func TestLoadFromJSONLEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.jsonl")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadFromJSONL(path); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("error should wrap ErrInvalidInput, got %v", err)
	}
	if _, err := LoadFromJSONL(filepath.Join(dir, "missing.jsonl")); err == nil {
		t.Error("expected error for missing file")
	}
}
