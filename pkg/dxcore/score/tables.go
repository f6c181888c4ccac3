package score

import "github.com/cognicore/dxcore/pkg/dxcore/disease"

// Weights maps a canonical keyword or phrase to its scoring weight.
type Weights map[string]float64

// Keywords holds the two weight bands for one disease. Diagnostic
// keywords carry weight MinDiagnosticWeight or more and count toward
// the existence gate; generic keywords carry MaxGenericWeight or less
// and only add to the raw score. Nothing lives between the bands.
type Keywords struct {
	Diagnostic Weights
	Generic    Weights
}

// Table maps each known disease to its keyword bands. Keys must be in
// canonical lexicon form so they match normalized symptom sets.
type Table map[disease.ID]Keywords

// Weight band boundaries. Config validation rejects tables that break
// the bimodal split.
const (
	MinDiagnosticWeight = 2.5
	MaxGenericWeight    = 1.0
)

// DefaultTable returns the builtin keyword table covering the default
// disease registry.
func DefaultTable() Table {
	t := Table{}

	t["dengue"] = Keywords{
		Diagnostic: Weights{
			"breakbone":        4.0,
			"pain behind eyes": 3.5,
			"petechiae":        3.5,
			"bleeding gums":    3.0,
			"low platelets":    3.0,
			"mosquito":         2.5,
		},
		Generic: Weights{
			"fever":     1.0,
			"rash":      1.0,
			"headache":  0.8,
			"body ache": 0.5,
			"nausea":    0.5,
			"chills":    0.5,
		},
	}

	t["malaria"] = Keywords{
		Diagnostic: Weights{
			"cyclical fever":   3.5,
			"splenomegaly":     3.5,
			"rigors":           3.0,
			"mosquito":         2.5,
			"profuse sweating": 2.5,
		},
		Generic: Weights{
			"fever":     1.0,
			"chills":    1.0,
			"headache":  0.5,
			"fatigue":   0.5,
			"vomiting":  0.5,
			"body ache": 0.5,
		},
	}

	t["covid"] = Keywords{
		Diagnostic: Weights{
			"loss of smell": 4.0,
			"loss of taste": 3.5,
			"dry cough":     2.5,
		},
		Generic: Weights{
			"fever":               1.0,
			"cough":               1.0,
			"shortness of breath": 1.0,
			"fatigue":             0.8,
			"sore throat":         0.8,
			"headache":            0.5,
			"body ache":           0.5,
		},
	}

	t["typhoid"] = Keywords{
		Diagnostic: Weights{
			"rose spots":         4.0,
			"step ladder fever":  3.5,
			"prolonged fever":    2.5,
			"contaminated water": 2.5,
		},
		Generic: Weights{
			"fever":          1.0,
			"abdominal pain": 1.0,
			"constipation":   0.8,
			"diarrhea":       0.8,
			"headache":       0.5,
			"fatigue":        0.5,
		},
	}

	t["uti"] = Keywords{
		Diagnostic: Weights{
			"burning urination":   4.0,
			"cloudy urine":        3.5,
			"foul smelling urine": 3.5,
			"frequent urination":  3.0,
			"blood in urine":      2.5,
		},
		Generic: Weights{
			"fever":          0.8,
			"abdominal pain": 0.8,
			"chills":         0.5,
		},
	}

	t["pneumonia"] = Keywords{
		Diagnostic: Weights{
			"rusty sputum":        4.0,
			"pain when breathing": 3.5,
			"productive cough":    3.0,
			"phlegm":              2.5,
		},
		Generic: Weights{
			"fever":               1.0,
			"cough":               1.0,
			"shortness of breath": 1.0,
			"chills":              0.8,
			"fatigue":             0.5,
		},
	}

	t["migraine"] = Keywords{
		Diagnostic: Weights{
			"aura":               3.5,
			"light sensitivity":  3.5,
			"one sided headache": 3.5,
			"sound sensitivity":  3.0,
			"throbbing headache": 3.0,
		},
		Generic: Weights{
			"headache":  1.0,
			"nausea":    0.8,
			"vomiting":  0.5,
			"dizziness": 0.5,
		},
	}

	t["appendicitis"] = Keywords{
		Diagnostic: Weights{
			"right lower abdominal pain": 4.0,
			"rebound tenderness":         4.0,
			"pain around navel":          2.5,
		},
		Generic: Weights{
			"abdominal pain":   1.0,
			"nausea":           0.8,
			"vomiting":         0.8,
			"fever":            0.8,
			"loss of appetite": 0.8,
		},
	}

	t["strep throat"] = Keywords{
		Diagnostic: Weights{
			"white patches":       3.5,
			"swollen tonsils":     3.0,
			"painful swallowing":  2.5,
			"swollen lymph nodes": 2.5,
		},
		Generic: Weights{
			"sore throat": 1.0,
			"fever":       1.0,
			"headache":    0.5,
		},
	}

	t["flu"] = Keywords{
		Diagnostic: Weights{
			"sudden fever": 2.5,
			"dry cough":    2.5,
		},
		Generic: Weights{
			"fever":       1.0,
			"chills":      1.0,
			"body ache":   1.0,
			"headache":    0.8,
			"sore throat": 0.8,
			"fatigue":     0.8,
			"cough":       0.8,
			"rhinorrhea":  0.8,
		},
	}

	t["gerd"] = Keywords{
		Diagnostic: Weights{
			"heartburn":             3.5,
			"sour taste":            3.0,
			"regurgitation":         3.0,
			"worse when lying down": 2.5,
		},
		Generic: Weights{
			"chest pain":  0.8,
			"nausea":      0.5,
			"cough":       0.5,
			"sore throat": 0.5,
		},
	}

	t["peptic ulcer"] = Keywords{
		Diagnostic: Weights{
			"black stools":          4.0,
			"burning stomach pain":  3.5,
			"pain on empty stomach": 3.5,
			"better after eating":   3.0,
		},
		Generic: Weights{
			"abdominal pain": 1.0,
			"nausea":         0.8,
			"bloating":       0.8,
			"vomiting":       0.5,
		},
	}

	t["asthma"] = Keywords{
		Diagnostic: Weights{
			"wheezing":        3.5,
			"inhaler":         3.0,
			"chest tightness": 2.5,
			"worse at night":  2.5,
		},
		Generic: Weights{
			"cough":               1.0,
			"shortness of breath": 1.0,
		},
	}

	t["allergic reaction"] = Keywords{
		Diagnostic: Weights{
			"hives":        3.5,
			"lip swelling": 3.5,
			"itching":      2.5,
			"sneezing":     2.5,
		},
		Generic: Weights{
			"rash":        1.0,
			"watery eyes": 1.0,
			"swelling":    1.0,
			"rhinorrhea":  0.8,
		},
	}

	t["hypertension"] = Keywords{
		Diagnostic: Weights{
			"nosebleed":        2.5,
			"pounding in ears": 2.5,
			"blurred vision":   2.5,
		},
		Generic: Weights{
			"headache":     1.0,
			"dizziness":    1.0,
			"palpitations": 0.8,
		},
	}

	t["diabetes"] = Keywords{
		Diagnostic: Weights{
			"excessive thirst":   3.5,
			"slow healing":       3.5,
			"frequent urination": 3.0,
			"blurred vision":     2.5,
			"tingling":           2.5,
		},
		Generic: Weights{
			"fatigue":     1.0,
			"weight loss": 1.0,
			"itching":     0.5,
			"dizziness":   0.5,
		},
	}

	t["heart disease"] = Keywords{
		Diagnostic: Weights{
			"pain radiating to arm": 4.0,
			"pain on exertion":      3.5,
			"pressure in chest":     3.0,
			"left arm pain":         3.0,
		},
		Generic: Weights{
			"shortness of breath": 1.0,
			"palpitations":        1.0,
			"fatigue":             0.8,
			"swelling":            0.8,
			"dizziness":           0.5,
		},
	}

	t["arthritis"] = Keywords{
		Diagnostic: Weights{
			"morning stiffness": 3.5,
			"stiff joints":      3.0,
			"swollen joints":    3.0,
			"creaking joints":   2.5,
		},
		Generic: Weights{
			"joint pain": 1.0,
			"swelling":   0.8,
			"fatigue":    0.5,
			"body ache":  0.5,
		},
	}

	t["copd"] = Keywords{
		Diagnostic: Weights{
			"barrel chest":   4.0,
			"chronic cough":  3.0,
			"smoker":         3.0,
			"chronic phlegm": 2.5,
		},
		Generic: Weights{
			"shortness of breath": 1.0,
			"wheezing":            1.0,
			"cough":               1.0,
			"chest tightness":     0.8,
			"fatigue":             0.5,
		},
	}

	t["chronic kidney disease"] = Keywords{
		Diagnostic: Weights{
			"foamy urine":         4.0,
			"decreased urination": 3.0,
			"swollen ankles":      2.5,
			"metallic taste":      2.5,
			"puffy eyes":          2.5,
		},
		Generic: Weights{
			"fatigue":     1.0,
			"swelling":    1.0,
			"nausea":      0.8,
			"itching":     0.8,
			"weight loss": 0.5,
		},
	}

	t["gastroenteritis"] = Keywords{
		Diagnostic: Weights{
			"food poisoning":  3.5,
			"watery diarrhea": 3.0,
			"stomach cramps":  2.5,
		},
		Generic: Weights{
			"diarrhea":       1.0,
			"vomiting":       1.0,
			"nausea":         1.0,
			"abdominal pain": 1.0,
			"fever":          0.8,
			"chills":         0.5,
		},
	}

	t["cold"] = Keywords{
		Diagnostic: Weights{
			"sneezing":     2.5,
			"blocked nose": 2.5,
		},
		Generic: Weights{
			"rhinorrhea":  1.0,
			"sore throat": 0.8,
			"cough":       0.8,
			"headache":    0.5,
			"fever":       0.3,
		},
	}

	t["hypothyroidism"] = Keywords{
		Diagnostic: Weights{
			"cold intolerance": 3.5,
			"weight gain":      2.5,
			"dry skin":         2.5,
			"hair loss":        2.5,
			"puffy face":       2.5,
		},
		Generic: Weights{
			"fatigue":      1.0,
			"constipation": 0.8,
			"body ache":    0.5,
		},
	}

	t["hyperthyroidism"] = Keywords{
		Diagnostic: Weights{
			"bulging eyes":               4.0,
			"heat intolerance":           3.5,
			"weight loss despite eating": 3.5,
			"tremor":                     3.0,
		},
		Generic: Weights{
			"palpitations": 1.0,
			"weight loss":  1.0,
			"sweating":     0.8,
			"fatigue":      0.5,
			"diarrhea":     0.5,
		},
	}

	t["rheumatoid arthritis"] = Keywords{
		Diagnostic: Weights{
			"symmetric joint pain": 4.0,
			"joint deformity":      3.5,
			"morning stiffness":    3.0,
			"knuckle pain":         3.0,
		},
		Generic: Weights{
			"joint pain": 1.0,
			"fatigue":    0.8,
			"swelling":   0.8,
			"fever":      0.3,
		},
	}

	t["osteoarthritis"] = Keywords{
		Diagnostic: Weights{
			"grinding in joints":   3.5,
			"pain climbing stairs": 3.5,
			"worse after activity": 3.0,
			"improves with rest":   2.5,
		},
		Generic: Weights{
			"joint pain": 1.0,
			"knee pain":  1.0,
			"swelling":   0.5,
		},
	}

	t["anemia"] = Keywords{
		Diagnostic: Weights{
			"craving ice":         4.0,
			"pale skin":           3.0,
			"brittle nails":       3.0,
			"cold hands and feet": 2.5,
		},
		Generic: Weights{
			"fatigue":             1.0,
			"dizziness":           1.0,
			"weakness":            1.0,
			"shortness of breath": 0.8,
			"palpitations":        0.8,
			"headache":            0.5,
		},
	}

	return t
}
