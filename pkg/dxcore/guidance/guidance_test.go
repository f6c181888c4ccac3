package guidance

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/dxcore/pkg/dxcore/gate"
)

type stubProvider struct {
	name string
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) Advise(context.Context, Request) (Advice, error) {
	return Advice{Source: s.name}, nil
}

func TestTrimCapsCareListOnly(t *testing.T) {
	adv := Advice{
		Care:  []string{"a", "b", "c", "d", "e"},
		Avoid: []string{"x", "y"},
	}

	got := adv.Trim(3)

	if diff := cmp.Diff([]string{"a", "b", "c"}, got.Care); diff != "" {
		t.Errorf("Care mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, got.Avoid); diff != "" {
		t.Errorf("Avoid must never trim (-want +got):\n%s", diff)
	}
	// The original stays untouched.
	if len(adv.Care) != 5 {
		t.Errorf("Trim mutated the receiver: %v", adv.Care)
	}
}

func TestTrimNoopWhenUnderCap(t *testing.T) {
	adv := Advice{Care: []string{"a", "b"}}
	if got := adv.Trim(5); len(got.Care) != 2 {
		t.Errorf("Care = %v, want unchanged", got.Care)
	}
	if got := adv.Trim(0); len(got.Care) != 2 {
		t.Errorf("Trim(0) must keep everything, got %v", got.Care)
	}
}

func TestRouterGenericClassStaysDeterministic(t *testing.T) {
	r := NewRouter(stubProvider{"template"}, stubProvider{"generative"}, nil)

	req := Request{Disease: "migraine", Class: gate.GuidanceGeneric}
	if got := r.Pick(req).Name(); got != "template" {
		t.Errorf("generic class routed to %q, want template", got)
	}
}

func TestRouterHighRiskStaysDeterministic(t *testing.T) {
	r := NewRouter(stubProvider{"template"}, stubProvider{"generative"}, nil)

	// Dengue carries a hemorrhagic risk class; its wording must come
	// from the reviewed templates even with a backend configured.
	req := Request{Disease: "dengue", Class: gate.GuidanceSpecific, Confidence: 0.9}
	if got := r.Pick(req).Name(); got != "template" {
		t.Errorf("high-risk disease routed to %q, want template", got)
	}
}

func TestRouterRoutesSafeDiseasesToGenerative(t *testing.T) {
	r := NewRouter(stubProvider{"template"}, stubProvider{"generative"}, nil)

	req := Request{Disease: "migraine", Class: gate.GuidanceSpecific, Confidence: 0.7}
	if got := r.Pick(req).Name(); got != "generative" {
		t.Errorf("risk-free disease routed to %q, want generative", got)
	}
}

func TestRouterWithoutGenerativeAlwaysDeterministic(t *testing.T) {
	r := NewRouter(stubProvider{"template"}, nil, nil)

	req := Request{Disease: "migraine", Class: gate.GuidanceSpecific, Confidence: 0.7}
	adv, err := r.Advise(context.Background(), req)
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if adv.Source != "template" {
		t.Errorf("Source = %q, want template", adv.Source)
	}
}
