package disease

// Default returns the builtin disease registry. The chronic flag marks
// the closed set used by the chronic-disease filter; the risk class
// drives deterministic guidance routing.
func Default() *Registry {
	r := NewRegistry()

	r.Add(Info{ID: "dengue", Display: "Dengue", Category: "infectious", Risk: RiskHemorrhagic},
		"dengue fever", "breakbone fever", "dengue hemorrhagic fever")
	r.Add(Info{ID: "malaria", Display: "Malaria", Category: "infectious", Risk: RiskVectorBorne},
		"malarial fever")
	r.Add(Info{ID: "typhoid", Display: "Typhoid", Category: "infectious"},
		"typhoid fever", "enteric fever")
	r.Add(Info{ID: "covid", Display: "COVID-19", Category: "respiratory", Risk: RiskEpidemicRespiratory},
		"covid-19", "coronavirus", "sars-cov-2", "corona")
	r.Add(Info{ID: "flu", Display: "Influenza", Category: "respiratory"},
		"influenza", "seasonal flu")
	r.Add(Info{ID: "cold", Display: "Common Cold", Category: "respiratory"},
		"common cold", "head cold")
	r.Add(Info{ID: "pneumonia", Display: "Pneumonia", Category: "respiratory"},
		"chest infection", "lung infection")
	r.Add(Info{ID: "uti", Display: "Urinary Tract Infection", Category: "urinary"},
		"urinary tract infection", "bladder infection", "urine infection", "cystitis")
	r.Add(Info{ID: "migraine", Display: "Migraine", Category: "neurological"},
		"migraine headache")
	r.Add(Info{ID: "appendicitis", Display: "Appendicitis", Category: "digestive"})
	r.Add(Info{ID: "strep throat", Display: "Strep Throat", Category: "respiratory"},
		"streptococcal pharyngitis", "pharyngitis")
	r.Add(Info{ID: "gastroenteritis", Display: "Gastroenteritis", Category: "digestive"},
		"stomach flu", "stomach bug", "food poisoning")
	r.Add(Info{ID: "gerd", Display: "GERD", Category: "digestive"},
		"acid reflux disease", "gastroesophageal reflux", "reflux")
	r.Add(Info{ID: "peptic ulcer", Display: "Peptic Ulcer", Category: "digestive"},
		"stomach ulcer", "gastric ulcer", "duodenal ulcer")
	r.Add(Info{ID: "allergic reaction", Display: "Allergic Reaction", Category: "immune"},
		"allergy", "allergies", "allergic rhinitis")

	// Chronic set: the closed list consumed by the chronic-disease filter.
	r.Add(Info{ID: "hypertension", Display: "Hypertension", Category: "cardiovascular",
		Chronic: true, Risk: RiskChronicManagement},
		"high blood pressure", "high bp")
	r.Add(Info{ID: "diabetes", Display: "Diabetes", Category: "metabolic",
		Chronic: true, Risk: RiskChronicManagement},
		"diabetes mellitus", "type 2 diabetes", "type 1 diabetes", "high blood sugar")
	r.Add(Info{ID: "chronic kidney disease", Display: "Chronic Kidney Disease", Category: "renal",
		Chronic: true},
		"ckd", "kidney disease", "renal failure")
	r.Add(Info{ID: "heart disease", Display: "Heart Disease", Category: "cardiovascular",
		Chronic: true},
		"coronary artery disease", "cad", "ischemic heart disease", "angina")
	r.Add(Info{ID: "arthritis", Display: "Arthritis", Category: "musculoskeletal",
		Chronic: true},
		"joint inflammation")
	r.Add(Info{ID: "copd", Display: "COPD", Category: "respiratory",
		Chronic: true},
		"chronic obstructive pulmonary disease", "chronic bronchitis", "emphysema")
	r.Add(Info{ID: "asthma", Display: "Asthma", Category: "respiratory",
		Chronic: true, Risk: RiskChronicManagement},
		"bronchial asthma")

	// Non-chronic long-term conditions kept for comorbidity patterns.
	r.Add(Info{ID: "rheumatoid arthritis", Display: "Rheumatoid Arthritis", Category: "musculoskeletal"},
		"ra")
	r.Add(Info{ID: "osteoarthritis", Display: "Osteoarthritis", Category: "musculoskeletal"},
		"oa", "degenerative joint disease")
	r.Add(Info{ID: "hypothyroidism", Display: "Hypothyroidism", Category: "endocrine"},
		"underactive thyroid", "low thyroid")
	r.Add(Info{ID: "hyperthyroidism", Display: "Hyperthyroidism", Category: "endocrine"},
		"overactive thyroid", "graves disease")
	r.Add(Info{ID: "anemia", Display: "Anemia", Category: "hematologic"},
		"iron deficiency", "low hemoglobin")

	return r
}
