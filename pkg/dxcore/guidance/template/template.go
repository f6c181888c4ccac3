// Package template serves pre-verified guidance texts. Every entry is
// static and reviewed wording; nothing here is generated at runtime,
// which is why high-risk diseases are always routed through it.
package template

import (
	"context"
	"fmt"

	"github.com/cognicore/dxcore/pkg/dxcore/disease"
	"github.com/cognicore/dxcore/pkg/dxcore/gate"
	"github.com/cognicore/dxcore/pkg/dxcore/guidance"
	"github.com/cognicore/dxcore/pkg/dxcore/severity"
)

// NSAIDs lists the non-steroidal anti-inflammatories contraindicated
// for suspected hemorrhagic fevers. The dengue entry surfaces the full
// list; never trim it.
var NSAIDs = []string{
	"aspirin",
	"ibuprofen",
	"diclofenac",
	"naproxen",
	"ketoprofen",
	"indomethacin",
}

const emergencySeek = "Emergency signs are present in this report. Call emergency services or go to the nearest emergency department now."

// Provider renders advice from builtin per-disease entries, falling
// back to generic wording when no entry matches or the request is
// gated generic. Immutable and safe for concurrent use.
type Provider struct {
	entries map[disease.ID]guidance.Advice
	generic guidance.Advice
}

// New builds a provider with the builtin entries.
func New() *Provider {
	return &Provider{
		entries: builtinEntries(),
		generic: genericAdvice(),
	}
}

// Name implements guidance.Provider.
func (p *Provider) Name() string { return "template" }

// Advise implements guidance.Provider. It never fails; the generic
// entry is the universal fallback.
func (p *Provider) Advise(_ context.Context, req guidance.Request) (guidance.Advice, error) {
	adv := p.generic
	if req.Class == gate.GuidanceSpecific {
		if e, ok := p.entries[req.Disease]; ok {
			adv = e
		} else if req.Display != "" {
			adv = p.generic
			adv.Summary = fmt.Sprintf("Findings are consistent with %s. General supportive care applies until a clinician confirms.", req.Display)
		}
	}
	if req.Severity.Emergency || req.Severity.Level == severity.LevelEmergency {
		adv.Seek = emergencySeek
	}
	return adv, nil
}

// Entry exposes the builtin advice for a disease, mainly for table
// export and tests.
func (p *Provider) Entry(id disease.ID) (guidance.Advice, bool) {
	e, ok := p.entries[id]
	return e, ok
}

// Generic exposes the fallback advice.
func (p *Provider) Generic() guidance.Advice { return p.generic }

func genericAdvice() guidance.Advice {
	return guidance.Advice{
		Summary: "No single condition stands out with enough confidence for targeted advice. General supportive care applies.",
		Care: []string{
			"Rest and avoid strenuous activity until symptoms settle.",
			"Drink fluids regularly; aim for pale-colored urine.",
			"Paracetamol per pack directions may ease fever and aches.",
			"Eat light, regular meals even with a reduced appetite.",
			"Keep a simple symptom diary: what, when, how strong.",
		},
		Avoid: []string{
			"Do not start antibiotics without a prescription.",
		},
		Seek:          "See a clinician if symptoms last beyond three days, return after improving, or steadily worsen.",
		Source:        "template",
		Deterministic: true,
	}
}

func builtinEntries() map[disease.ID]guidance.Advice {
	avoidNSAIDs := fmt.Sprintf(
		"Avoid NSAIDs (%s, %s, %s, %s, %s, %s): they raise bleeding risk when platelets drop.",
		NSAIDs[0], NSAIDs[1], NSAIDs[2], NSAIDs[3], NSAIDs[4], NSAIDs[5])

	return map[disease.ID]guidance.Advice{
		"dengue": {
			Summary: "Findings are consistent with dengue fever. Platelet-safe symptom control matters most in the first week.",
			Care: []string{
				"Use paracetamol only for fever and body pain.",
				"Push oral fluids: water, oral rehydration solution, coconut water.",
				"Rest fully; avoid exertion until the fever has been gone two days.",
				"Get a complete blood count and repeat it daily while febrile.",
				"Watch the platelet trend with your clinician, not a single reading.",
			},
			Avoid: []string{
				avoidNSAIDs,
				"Avoid intramuscular injections unless a clinician insists.",
			},
			Seek:          "Bleeding gums, black stools, severe abdominal pain, persistent vomiting or sudden lethargy need emergency care at once.",
			Source:        "template",
			Deterministic: true,
		},
		"malaria": {
			Summary: "Findings are consistent with malaria. Confirmation by blood test should not wait.",
			Care: []string{
				"Get a malaria smear or rapid antigen test today.",
				"Start the prescribed antimalarial promptly and finish the full course.",
				"Take paracetamol for fever spikes and sponge with tepid water.",
				"Drink fluids through the fever cycles to replace sweat losses.",
				"Sleep under a treated net to stop onward transmission.",
			},
			Avoid: []string{
				"Do not self-treat with leftover or shared antimalarials.",
			},
			Seek:          "Confusion, dark urine, yellowing eyes, breathing difficulty or inability to keep fluids down are danger signs; go to a hospital.",
			Source:        "template",
			Deterministic: true,
		},
		"covid": {
			Summary: "Findings are consistent with COVID-19. Isolate first, confirm with a test, and track oxygen at home.",
			Care: []string{
				"Isolate from household members and wear a mask around others.",
				"Confirm with a rapid antigen or RT-PCR test.",
				"Check oxygen saturation with a pulse oximeter twice a day.",
				"Rest, fluids, and paracetamol for fever and body ache.",
				"Prone positioning (lying on the stomach) can ease breathing.",
			},
			Avoid: []string{
				"Do not take antibiotics or steroids without a prescription.",
			},
			Seek:          "Oxygen saturation below 94%, breathlessness at rest, chest pain or bluish lips mean emergency care now.",
			Source:        "template",
			Deterministic: true,
		},
		"diabetes": {
			Summary: "Findings fit poorly controlled blood sugar. Measured numbers beat guesswork here.",
			Care: []string{
				"Check fasting and post-meal glucose and write the numbers down.",
				"Keep meal times regular; pair carbohydrates with protein and fiber.",
				"Drink water steadily; thirst often lags behind fluid loss.",
				"Take prescribed diabetes medication exactly as directed.",
				"Inspect feet daily for cuts or numb patches.",
			},
			Avoid: []string{
				"Avoid sugary drinks and fruit juices while readings run high.",
				"Never skip insulin doses to compensate for a missed meal.",
			},
			Seek:          "Glucose persistently above 300 mg/dL, fruity-smelling breath, deep rapid breathing or confusion need urgent care.",
			Source:        "template",
			Deterministic: true,
		},
		"hypertension": {
			Summary: "Findings fit elevated blood pressure. Home readings over several days tell the real story.",
			Care: []string{
				"Measure blood pressure seated, after five minutes of rest, twice daily.",
				"Cut added salt; target under 5 grams total per day.",
				"Take prescribed antihypertensives at the same time every day.",
				"Walk thirty minutes most days if your clinician agrees.",
				"Limit alcohol and stop smoking; both push readings up.",
			},
			Avoid: []string{
				"Avoid decongestant cold remedies containing pseudoephedrine.",
				"Avoid regular NSAID painkillers; they blunt blood pressure control.",
			},
			Seek:          "Readings above 180/120, chest pain, one-sided weakness, vision changes or a sudden severe headache are emergencies.",
			Source:        "template",
			Deterministic: true,
		},
		"asthma": {
			Summary: "Findings are consistent with an asthma flare. The reliever inhaler and early escalation are the plan.",
			Care: []string{
				"Use the reliever inhaler as prescribed at the first sign of tightness.",
				"Sit upright and take slow, steady breaths until it eases.",
				"Use a spacer with the inhaler for better delivery.",
				"Identify and move away from the trigger: smoke, dust, cold air.",
				"Keep the preventer inhaler going even when you feel fine.",
			},
			Avoid: []string{
				"Avoid aspirin and other NSAIDs if they have ever worsened your breathing.",
				"Avoid smoking and secondhand smoke entirely.",
			},
			Seek:          "No relief after the reliever, speaking in single words, or bluish lips means call emergency services immediately.",
			Source:        "template",
			Deterministic: true,
		},
	}
}
