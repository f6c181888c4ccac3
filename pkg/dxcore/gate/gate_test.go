package gate

import (
	"testing"

	"github.com/cognicore/dxcore/pkg/dxcore/detect"
)

func TestArbitrateAdvancedWinsStrictly(t *testing.T) {
	basic := Estimate{Disease: "flu", Confidence: 0.40}
	advanced := &detect.Candidate{Disease: "dengue", Confidence: 0.55}

	got := Arbitrate(basic, advanced)

	if got.Source != SourceAdvanced {
		t.Fatalf("Source = %q, want %q", got.Source, SourceAdvanced)
	}
	if got.Disease != "dengue" || got.Confidence != 0.55 {
		t.Errorf("substitution must be total: got %+v", got)
	}
}

func TestArbitrateTieKeepsBasic(t *testing.T) {
	basic := Estimate{Disease: "flu", Confidence: 0.55}
	advanced := &detect.Candidate{Disease: "dengue", Confidence: 0.55}

	got := Arbitrate(basic, advanced)

	if got.Source != SourceBasic {
		t.Fatalf("equal confidence must keep the baseline, got %q", got.Source)
	}
	if got.Disease != "flu" || got.Confidence != 0.55 {
		t.Errorf("baseline values must survive a tie: got %+v", got)
	}
}

func TestArbitrateNoAdvancedCandidate(t *testing.T) {
	basic := Estimate{Disease: "migraine", Confidence: 0.62}

	got := Arbitrate(basic, nil)

	if got.Source != SourceBasic || got.Disease != "migraine" || got.Confidence != 0.62 {
		t.Errorf("missing advanced candidate must keep the baseline: got %+v", got)
	}
}

func TestRouteSafetyFloorBoundary(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.Route("dengue", 0.39); got != GuidanceGeneric {
		t.Errorf("Route(0.39) = %q, want %q", got, GuidanceGeneric)
	}
	if got := cfg.Route("dengue", 0.40); got != GuidanceSpecific {
		t.Errorf("Route(0.40) = %q, want %q", got, GuidanceSpecific)
	}
}

func TestRouteUnknownDiseaseStaysGeneric(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.Route("", 0.95); got != GuidanceGeneric {
		t.Errorf("Route without a disease = %q, want %q", got, GuidanceGeneric)
	}
}

func TestVolumeSharesSafetyFloor(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		confidence float64
		want       int
	}{
		{0.39, 3},
		{0.40, 5},
		{0.95, 5},
		{InsufficientConfidence, 3},
	}
	for _, tc := range cases {
		if got := cfg.Volume(tc.confidence); got != tc.want {
			t.Errorf("Volume(%.2f) = %d, want %d", tc.confidence, got, tc.want)
		}
	}
}
