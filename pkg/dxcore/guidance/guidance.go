// Package guidance turns an arbitrated diagnosis into care advice.
// Providers are swappable behind a single interface so pre-verified
// templates and a generative backend can coexist; routing between
// them is a pure function of the result's disease and confidence.
package guidance

import (
	"context"

	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/gate"
	"github.com/cognicore/dxcore/pkg/dxcore/patient"
	"github.com/cognicore/dxcore/pkg/dxcore/severity"
)

// Request asks for guidance on one arbitrated result.
type Request struct {
	Disease    disease.ID
	Display    string
	Confidence float64
	Class      gate.Guidance
	Severity   severity.Assessment
	Symptoms   []string
	Profile    patient.Profile
}

// Advice is rendered guidance. Care entries are positive steps and may
// be trimmed by volume rules; Avoid entries are contraindications and
// always surface in full.
type Advice struct {
	Summary       string
	Care          []string
	Avoid         []string
	Seek          string
	Source        string
	Deterministic bool
}

// Trim returns a copy with the care list capped at n entries. A
// non-positive n keeps everything. Contraindications never trim.
func (a Advice) Trim(n int) Advice {
	if n <= 0 || len(a.Care) <= n {
		return a
	}
	out := a
	out.Care = make([]string, n)
	copy(out.Care, a.Care[:n])
	return out
}

// Provider renders advice for one request. Implementations must be
// safe for concurrent use.
type Provider interface {
	Name() string
	Advise(ctx context.Context, req Request) (Advice, error)
}

// Router picks the provider for each request: pre-verified templates
// for generic-class results and for diseases carrying a risk class,
// the generative provider for everything else when one is configured.
type Router struct {
	deterministic Provider
	generative    Provider
	registry      *disease.Registry
}

// NewRouter wires the routing rule. The deterministic provider is
// required; the generative provider may be nil.
func NewRouter(deterministic, generative Provider, reg *disease.Registry) *Router {
	if reg == nil {
		reg = disease.Default()
	}
	return &Router{
		deterministic: deterministic,
		generative:    generative,
		registry:      reg,
	}
}

// Pick resolves the provider for a request without invoking it.
func (r *Router) Pick(req Request) Provider {
	if r.generative == nil || req.Class == gate.GuidanceGeneric {
		return r.deterministic
	}
	if info, ok := r.registry.Info(req.Disease); ok && info.Risk != disease.RiskNone {
		return r.deterministic
	}
	return r.generative
}

// Name identifies the router by its current deterministic provider.
func (r *Router) Name() string { return "router" }

// Advise routes the request and renders advice.
func (r *Router) Advise(ctx context.Context, req Request) (Advice, error) {
	return r.Pick(req).Advise(ctx, req)
}
