package generative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/dxcore/pkg/dxcore/guidance"
)

type fakeChat struct {
	reply string
	err   error
	seen  string
}

func (f *fakeChat) Chat(_ context.Context, _, user string) (string, error) {
	f.seen = user
	return f.reply, f.err
}

type fixedFallback struct {
	adv guidance.Advice
}

func (f fixedFallback) Name() string { return "template" }

func (f fixedFallback) Advise(context.Context, guidance.Request) (guidance.Advice, error) {
	return f.adv, nil
}

func baseAdvice() guidance.Advice {
	return guidance.Advice{
		Summary:       "template summary",
		Care:          []string{"rest"},
		Avoid:         []string{"Avoid NSAIDs."},
		Seek:          "see a doctor",
		Source:        "template",
		Deterministic: true,
	}
}

func TestAdviseWithoutClientFallsBack(t *testing.T) {
	p := New(nil, fixedFallback{baseAdvice()})

	adv, err := p.Advise(context.Background(), guidance.Request{Display: "Migraine"})
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if adv.Source != "template" || !adv.Deterministic {
		t.Errorf("nil client must serve the fallback, got %+v", adv)
	}
}

func TestAdviseBackendErrorFallsBack(t *testing.T) {
	client := &fakeChat{err: errors.New("upstream 500")}
	p := New(client, fixedFallback{baseAdvice()})

	adv, err := p.Advise(context.Background(), guidance.Request{Display: "Migraine"})
	if err != nil {
		t.Fatalf("backend errors must be absorbed, got %v", err)
	}
	if adv.Source != "template" {
		t.Errorf("Source = %q, want template fallback", adv.Source)
	}
}

func TestAdviseRewritesSummaryKeepsContraindications(t *testing.T) {
	client := &fakeChat{reply: "Drink fluids and rest. See a doctor if it persists."}
	p := New(client, fixedFallback{baseAdvice()})

	adv, err := p.Advise(context.Background(), guidance.Request{
		Display:    "Migraine",
		Confidence: 0.7,
		Symptoms:   []string{"headache", "nausea"},
	})
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}

	if adv.Summary != "Drink fluids and rest. See a doctor if it persists." {
		t.Errorf("Summary = %q, want backend reply", adv.Summary)
	}
	if adv.Source != "generative" || adv.Deterministic {
		t.Errorf("rewritten advice must be marked generative: %+v", adv)
	}
	if len(adv.Avoid) != 1 || adv.Avoid[0] != "Avoid NSAIDs." {
		t.Errorf("contraindications must survive the rewrite: %v", adv.Avoid)
	}

	// The prompt carries the symptoms and the hard contraindications.
	if !strings.Contains(client.seen, "headache, nausea") {
		t.Errorf("prompt missing symptoms: %q", client.seen)
	}
	if !strings.Contains(client.seen, "Avoid NSAIDs.") {
		t.Errorf("prompt missing contraindications: %q", client.seen)
	}
}

func TestAdviseBlankReplyFallsBack(t *testing.T) {
	client := &fakeChat{reply: "   \n"}
	p := New(client, fixedFallback{baseAdvice()})

	adv, err := p.Advise(context.Background(), guidance.Request{Display: "Migraine"})
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if adv.Source != "template" {
		t.Errorf("blank backend reply must fall back, got %+v", adv)
	}
}
