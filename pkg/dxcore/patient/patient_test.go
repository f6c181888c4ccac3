package patient

import (
	"testing"

	"github.com/cognicore/dxcore/pkg/dxcore/disease"
)

func TestHighRiskBoundaries(t *testing.T) {
	tests := []struct {
		name string
		prof Profile
		want bool
	}{
		{"zero value", Profile{}, false},
		{"adult", Profile{Age: 40}, false},
		{"sixty-four", Profile{Age: 64}, false},
		{"sixty-five", Profile{Age: 65}, true},
		{"infant", Profile{Age: 1}, true},
		{"two-year-old", Profile{Age: 2}, false},
		{"unknown age reads adult", Profile{Age: 0}, false},
		{"pregnant", Profile{Age: 30, Pregnant: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prof.HighRisk(); got != tt.want {
				t.Errorf("HighRisk(%+v) = %v, want %v", tt.prof, got, tt.want)
			}
		})
	}
}

func TestRiskNotePicksFirstAttribute(t *testing.T) {
	if got := (Profile{Age: 70, Pregnant: true}).RiskNote(); got != "age 65 or over" {
		t.Errorf("RiskNote = %q, want the age attribute to win", got)
	}
	if got := (Profile{Pregnant: true}).RiskNote(); got != "pregnant" {
		t.Errorf("RiskNote = %q, want %q", got, "pregnant")
	}
	if got := (Profile{Age: 33}).RiskNote(); got != "" {
		t.Errorf("RiskNote = %q, want empty for a low-risk profile", got)
	}
}

func TestKnows(t *testing.T) {
	p := Profile{KnownConditions: []disease.ID{"diabetes", "hypertension"}}

	if !p.Knows("diabetes") {
		t.Error("Knows(diabetes) = false, want true")
	}
	if p.Knows("dengue") {
		t.Error("Knows(dengue) = true, want false")
	}
}
