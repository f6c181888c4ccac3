package disease

import (
	"sort"
	"strings"
)

// ID is the canonical identifier of a disease. All internal computation
// operates on IDs; free-form labels are resolved through the registry's
// alias table before any scoring or filtering happens, so two textual
// variants of the same disease can never surface as separate candidates.
type ID string

// RiskClass groups diseases whose safety guidance must come from
// pre-verified deterministic text rather than a generative source.
type RiskClass int

const (
	RiskNone RiskClass = iota
	RiskHemorrhagic
	RiskVectorBorne
	RiskEpidemicRespiratory
	RiskChronicManagement
)

// String returns the risk class label used in reports and YAML tables.
func (r RiskClass) String() string {
	switch r {
	case RiskHemorrhagic:
		return "hemorrhagic"
	case RiskVectorBorne:
		return "vector-borne"
	case RiskEpidemicRespiratory:
		return "epidemic-respiratory"
	case RiskChronicManagement:
		return "chronic-management"
	default:
		return "none"
	}
}

// ParseRiskClass maps a label back to its RiskClass. Unknown labels map
// to RiskNone.
func ParseRiskClass(s string) RiskClass {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hemorrhagic":
		return RiskHemorrhagic
	case "vector-borne":
		return RiskVectorBorne
	case "epidemic-respiratory":
		return RiskEpidemicRespiratory
	case "chronic-management":
		return RiskChronicManagement
	default:
		return RiskNone
	}
}

// Info describes one disease known to the registry.
type Info struct {
	ID       ID
	Display  string
	Category string // body system / etiology group, annotation only
	Chronic  bool   // member of the chronic-disease filter set
	Risk     RiskClass
}

// Registry maps canonical IDs to disease info and free-form labels to
// canonical IDs. Populated once at startup and read-only afterwards.
type Registry struct {
	infos   map[ID]Info
	aliases map[string]ID // lowercase label → canonical
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		infos:   make(map[ID]Info),
		aliases: make(map[string]ID),
	}
}

// Add registers a disease and its aliases. The canonical ID and the
// display name always resolve to the disease; extra aliases are optional.
// Re-adding an ID replaces its info and removes stale alias entries.
func (r *Registry) Add(info Info, aliases ...string) {
	info.ID = ID(normalizeLabel(string(info.ID)))
	if info.ID == "" {
		return
	}
	if info.Display == "" {
		info.Display = string(info.ID)
	}

	if _, exists := r.infos[info.ID]; exists {
		for label, id := range r.aliases {
			if id == info.ID {
				delete(r.aliases, label)
			}
		}
	}

	r.infos[info.ID] = info
	r.aliases[string(info.ID)] = info.ID
	r.aliases[normalizeLabel(info.Display)] = info.ID
	for _, a := range aliases {
		if key := normalizeLabel(a); key != "" {
			r.aliases[key] = info.ID
		}
	}
}

// Resolve maps a free-form label to its canonical ID. Unknown labels
// degrade gracefully: the normalized label becomes its own ID so the
// value still works as a map key downstream.
func (r *Registry) Resolve(label string) ID {
	key := normalizeLabel(label)
	if key == "" {
		return ""
	}
	if id, ok := r.aliases[key]; ok {
		return id
	}
	return ID(key)
}

// Known reports whether the ID belongs to a registered disease.
func (r *Registry) Known(id ID) bool {
	_, ok := r.infos[id]
	return ok
}

// Info returns the registered info for an ID. For unknown IDs the second
// return is false and the Info carries the ID itself as display text.
func (r *Registry) Info(id ID) (Info, bool) {
	if info, ok := r.infos[id]; ok {
		return info, true
	}
	return Info{ID: id, Display: string(id)}, false
}

// Chronic reports whether the ID is in the chronic-disease filter set.
func (r *Registry) Chronic(id ID) bool {
	info, ok := r.infos[id]
	return ok && info.Chronic
}

// Aliases returns every label that resolves to the given ID, sorted.
func (r *Registry) Aliases(id ID) []string {
	var out []string
	for label, target := range r.aliases {
		if target == id {
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}

// All returns every registered disease sorted by ID.
func (r *Registry) All() []Info {
	out := make([]Info, 0, len(r.infos))
	for _, info := range r.infos {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered diseases.
func (r *Registry) Len() int {
	return len(r.infos)
}

// normalizeLabel lowercases a label, strips punctuation that commonly
// decorates disease names ("COVID-19!", "flu.") and collapses whitespace.
// Hyphens inside names are kept ("covid-19").
func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	var b strings.Builder
	lastSpace := false
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t':
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}
