// Package symptoms provides the symptom picklist collaborator: a categorized symptom
// catalog and the structured input it produces for the conversation prefill.
package symptoms

import (
	"strings"

	"github.com/bytebender77/healthguide/internal/models"
)

// Symptom is a single selectable symptom. Emergency symptoms set the emergency flag
// on the structured input when picked.
type Symptom struct {
	Label     string
	Emergency bool
}

// Category groups related symptoms under one label.
type Category struct {
	ID       string
	Label    string
	Symptoms []Symptom
}

// Catalog returns the fever-oriented symptom categories offered by the picklist.
func Catalog() []Category {
	return []Category{
		{
			ID:    "general",
			Label: "General",
			Symptoms: []Symptom{
				{Label: "high fever"},
				{Label: "chills"},
				{Label: "sweating"},
				{Label: "fatigue"},
				{Label: "loss of appetite"},
			},
		},
		{
			ID:    "respiratory",
			Label: "Respiratory",
			Symptoms: []Symptom{
				{Label: "cough"},
				{Label: "sore throat"},
				{Label: "runny nose"},
				{Label: "shortness of breath"},
				{Label: "difficulty breathing", Emergency: true},
			},
		},
		{
			ID:    "gastrointestinal",
			Label: "Gastrointestinal",
			Symptoms: []Symptom{
				{Label: "nausea"},
				{Label: "vomiting"},
				{Label: "diarrhea"},
				{Label: "abdominal pain"},
			},
		},
		{
			ID:    "pain",
			Label: "Pain",
			Symptoms: []Symptom{
				{Label: "headache"},
				{Label: "body ache"},
				{Label: "joint pain"},
				{Label: "pain behind eyes"},
				{Label: "severe chest pain", Emergency: true},
			},
		},
		{
			ID:    "skin",
			Label: "Skin",
			Symptoms: []Symptom{
				{Label: "rash"},
				{Label: "petechiae"},
				{Label: "bleeding gums", Emergency: true},
			},
		},
		{
			ID:    "neurological",
			Label: "Neurological",
			Symptoms: []Symptom{
				{Label: "confusion", Emergency: true},
				{Label: "seizure", Emergency: true},
				{Label: "stiff neck", Emergency: true},
			},
		},
	}
}

// Pick is one selected symptom together with the category it came from.
type Pick struct {
	CategoryID string
	Symptom    Symptom
}

// Find locates a symptom by label in the catalog.
func Find(label string) (Pick, bool) {
	for _, cat := range Catalog() {
		for _, sym := range cat.Symptoms {
			if sym.Label == label {
				return Pick{CategoryID: cat.ID, Symptom: sym}, true
			}
		}
	}
	return Pick{}, false
}

// Input assembles the structured symptom block from a selection. Picks keep their
// selection order in the flat list; the category grouping is derived from the
// catalog. Any picked emergency symptom sets the emergency flag.
func Input(picks []Pick, language string) models.StructuredSymptomInput {
	input := models.StructuredSymptomInput{
		Symptoms:   make([]string, 0, len(picks)),
		ByCategory: make(map[string][]string),
		Language:   language,
	}
	for _, p := range picks {
		input.Symptoms = append(input.Symptoms, p.Symptom.Label)
		input.ByCategory[p.CategoryID] = append(input.ByCategory[p.CategoryID], p.Symptom.Label)
		if p.Symptom.Emergency {
			input.EmergencyDetected = true
		}
	}
	input.TotalSelected = len(picks)
	if len(input.ByCategory) == 0 {
		input.ByCategory = nil
	}
	return input
}

// PrefillText composes the conversation prefill message for a selection.
// Returns "" for an empty selection, which the controller will never submit.
func PrefillText(input models.StructuredSymptomInput) string {
	if len(input.Symptoms) == 0 {
		return ""
	}
	return "I have the following symptoms: " + strings.Join(input.Symptoms, ", ")
}
