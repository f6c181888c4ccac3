package template

import (
	"context"
	"strings"
	"testing"

	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/gate"
	"github.com/cognicore/dxcore/pkg/dxcore/guidance"
	"github.com/cognicore/dxcore/pkg/dxcore/severity"
)

func TestAdviseDengueListsEveryNSAID(t *testing.T) {
	p := New()

	adv, err := p.Advise(context.Background(), guidance.Request{
		Disease: "dengue",
		Display: "Dengue",
		Class:   gate.GuidanceSpecific,
	})
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}

	joined := strings.Join(adv.Avoid, " ")
	for _, drug := range NSAIDs {
		if !strings.Contains(joined, drug) {
			t.Errorf("dengue avoid list is missing %q: %v", drug, adv.Avoid)
		}
	}
	if !adv.Deterministic {
		t.Error("template advice must be marked deterministic")
	}
}

func TestAdviseGenericClassIgnoresDisease(t *testing.T) {
	p := New()

	adv, err := p.Advise(context.Background(), guidance.Request{
		Disease: "dengue",
		Display: "Dengue",
		Class:   gate.GuidanceGeneric,
	})
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}

	if strings.Contains(adv.Summary, "dengue") || strings.Contains(adv.Summary, "Dengue") {
		t.Errorf("generic-gated advice must not name the disease: %q", adv.Summary)
	}
	for _, line := range adv.Avoid {
		if strings.Contains(line, "NSAID") {
			t.Errorf("generic advice must not carry dengue contraindications: %q", line)
		}
	}
}

func TestAdviseUnlistedDiseaseFallsBackWithDisplay(t *testing.T) {
	p := New()

	adv, err := p.Advise(context.Background(), guidance.Request{
		Disease: "flu",
		Display: "Influenza (Flu)",
		Class:   gate.GuidanceSpecific,
	})
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}

	if !strings.Contains(adv.Summary, "Influenza (Flu)") {
		t.Errorf("fallback summary should name the display label: %q", adv.Summary)
	}
	if len(adv.Care) == 0 {
		t.Error("fallback must still carry generic care steps")
	}
}

func TestAdviseEmergencyOverridesSeekLine(t *testing.T) {
	p := New()

	adv, err := p.Advise(context.Background(), guidance.Request{
		Disease:  "covid",
		Display:  "COVID-19",
		Class:    gate.GuidanceSpecific,
		Severity: severity.Assessment{Score: 100, Level: severity.LevelEmergency, Emergency: true},
	})
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}

	if !strings.Contains(adv.Seek, "emergency") {
		t.Errorf("emergency reports must escalate the seek line: %q", adv.Seek)
	}
}

func TestEntryCoversHighRiskDiseases(t *testing.T) {
	p := New()

	for _, id := range []disease.ID{"dengue", "malaria", "covid", "diabetes", "hypertension", "asthma"} {
		if _, ok := p.Entry(id); !ok {
			t.Errorf("missing builtin entry for %q", id)
		}
	}
}
