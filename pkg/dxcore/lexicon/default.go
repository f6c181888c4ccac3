package lexicon

// Default returns the builtin symptom synonym table. Canonicals match
// the phrases used in the keyword tables so informal reports score the
// same as clinical phrasing.
func Default() *Lexicon {
	l := New()

	groups := map[string][]string{
		"fever":               {"temp", "temperature", "febrile", "high temp", "running a temperature"},
		"headache":            {"head pain", "head ache", "my head hurts"},
		"abdominal pain":      {"tummy ache", "tummy pain", "stomach ache", "stomach pain", "belly pain", "belly ache"},
		"vomiting":            {"throw up", "throwing up", "threw up", "puking", "puke", "emesis"},
		"nausea":              {"feeling sick", "queasy", "nauseous", "nauseated"},
		"diarrhea":            {"loose motion", "loose motions", "loose stools", "diarrhoea"},
		"rhinorrhea":          {"runny nose", "running nose", "nose running"},
		"fatigue":             {"tired", "tiredness", "exhausted", "exhaustion", "worn out", "no energy"},
		"dizziness":           {"dizzy", "lightheaded", "light headed", "giddy"},
		"shortness of breath": {"breathless", "breathlessness", "short of breath", "hard to breathe", "dyspnea"},
		"chest tightness":     {"tight chest", "chest feels tight"},
		"sore throat":         {"throat pain", "throat hurts", "scratchy throat"},
		"cough":               {"coughing"},
		"chills":              {"shivers", "feeling cold"},
		"rash":                {"skin rash", "red spots", "skin eruption"},
		"joint pain":          {"aching joints", "joints hurt", "arthralgia"},
		"body ache":           {"body pain", "body aches", "aching all over", "myalgia"},
		"loss of smell":       {"anosmia", "cant smell", "no sense of smell"},
		"loss of taste":       {"ageusia", "cant taste", "no sense of taste"},
		"pain behind eyes":    {"retro-orbital pain", "retro orbital pain", "eye socket pain", "pain behind the eyes", "pain behind my eyes"},
		"chest pain":          {"pain in chest", "pain in my chest", "chest hurts"},
		"blocked nose":        {"stuffy nose", "nasal congestion", "nose blocked"},
		"loss of appetite":    {"no appetite", "appetite loss", "not hungry"},
		"weakness":            {"weak", "feeling weak"},
		"sweating":            {"sweaty", "sweats", "perspiring"},
		"knee pain":           {"knees hurt", "pain in the knees"},
		"burning urination":   {"burning pee", "burning when urinating", "burning while urinating", "painful urination", "dysuria", "pain when urinating"},
		"frequent urination":  {"peeing a lot", "urinating frequently", "going to the bathroom a lot", "polyuria"},
		"excessive thirst":    {"always thirsty", "very thirsty", "polydipsia"},
		"palpitations":        {"racing heart", "heart racing", "pounding heart", "heart pounding"},
		"constipation":        {"cant poop", "hard stools"},
		"swelling":            {"swollen", "puffiness", "edema"},
		"itching":             {"itchy", "itchiness", "pruritus"},
		"wheezing":            {"whistling breath", "wheezy"},
		"weight loss":         {"losing weight", "lost weight"},
		"weight gain":         {"gaining weight", "gained weight"},
	}

	for canonical, variants := range groups {
		l.AddSynonymGroup(canonical, append([]string{canonical}, variants...))
	}

	return l
}
