// Package generative renders guidance through a chat-completion
// backend. It degrades to a deterministic fallback provider whenever
// the backend is unconfigured or fails, so advice is always served.
package generative

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/dxcore/pkg/dxcore/guidance"
)

const systemPrompt = `You are a cautious medical self-care assistant.
Given a suspected condition and reported symptoms, reply with short,
practical self-care steps. Never prescribe prescription drugs, never
contradict the stated contraindications, and always end with when to
see a doctor. Keep it under 120 words.`

// ChatClient is the completion surface the provider needs. Satisfied
// by internal/llm.Client.
type ChatClient interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// Provider generates advice with a chat backend.
type Provider struct {
	client   ChatClient
	fallback guidance.Provider
}

// New wires a generative provider. A nil client is allowed and routes
// every request to the fallback; the fallback itself is required.
func New(client ChatClient, fallback guidance.Provider) *Provider {
	return &Provider{client: client, fallback: fallback}
}

// Name implements guidance.Provider.
func (p *Provider) Name() string { return "generative" }

// Advise implements guidance.Provider. Backend errors are absorbed by
// falling back; the only errors returned are the fallback's own.
func (p *Provider) Advise(ctx context.Context, req guidance.Request) (guidance.Advice, error) {
	if p.client == nil {
		return p.fallback.Advise(ctx, req)
	}

	base, err := p.fallback.Advise(ctx, req)
	if err != nil {
		return guidance.Advice{}, err
	}

	out, err := p.client.Chat(ctx, systemPrompt, userPrompt(req, base))
	if err != nil || strings.TrimSpace(out) == "" {
		return base, nil
	}

	adv := base
	adv.Summary = strings.TrimSpace(out)
	adv.Source = "generative"
	adv.Deterministic = false
	return adv, nil
}

// userPrompt folds the request and the deterministic contraindications
// into a single instruction. The fallback's avoid list rides along so
// the backend cannot contradict it.
func userPrompt(req guidance.Request, base guidance.Advice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suspected condition: %s (confidence %.0f%%).\n", req.Display, req.Confidence*100)
	if len(req.Symptoms) > 0 {
		fmt.Fprintf(&b, "Reported symptoms: %s.\n", strings.Join(req.Symptoms, ", "))
	}
	if req.Severity.Level != "" {
		fmt.Fprintf(&b, "Severity: %s (%d/100).\n", req.Severity.Level, req.Severity.Score)
	}
	if note := req.Profile.RiskNote(); note != "" {
		fmt.Fprintf(&b, "Patient note: %s.\n", note)
	}
	if len(base.Avoid) > 0 {
		fmt.Fprintf(&b, "Hard contraindications to repeat verbatim: %s\n", strings.Join(base.Avoid, " "))
	}
	b.WriteString("Write the self-care guidance.")
	return b.String()
}
