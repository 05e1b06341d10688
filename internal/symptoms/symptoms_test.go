package symptoms

import (
	"strings"
	"testing"
)

func TestCatalogLabelsAreUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, cat := range Catalog() {
		for _, sym := range cat.Symptoms {
			if prev, ok := seen[sym.Label]; ok {
				t.Errorf("symptom %q appears in both %q and %q", sym.Label, prev, cat.ID)
			}
			seen[sym.Label] = cat.ID
		}
	}
}

func TestFind(t *testing.T) {
	pick, ok := Find("difficulty breathing")
	if !ok {
		t.Fatal("expected to find symptom")
	}
	if pick.CategoryID != "respiratory" {
		t.Errorf("category = %q, want respiratory", pick.CategoryID)
	}
	if !pick.Symptom.Emergency {
		t.Error("expected emergency symptom")
	}
	if _, ok := Find("sore elbow"); ok {
		t.Error("expected no match for unknown label")
	}
}

func TestInputGroupsByCategory(t *testing.T) {
	picks := []Pick{
		mustFind(t, "high fever"),
		mustFind(t, "cough"),
		mustFind(t, "chills"),
	}
	input := Input(picks, "en")

	want := []string{"high fever", "cough", "chills"}
	if len(input.Symptoms) != len(want) {
		t.Fatalf("symptoms = %v, want %v", input.Symptoms, want)
	}
	for i, label := range want {
		if input.Symptoms[i] != label {
			t.Errorf("symptoms[%d] = %q, want %q", i, input.Symptoms[i], label)
		}
	}
	if got := input.ByCategory["general"]; len(got) != 2 {
		t.Errorf("general category = %v, want 2 entries", got)
	}
	if input.TotalSelected != 3 {
		t.Errorf("total selected = %d, want 3", input.TotalSelected)
	}
	if input.EmergencyDetected {
		t.Error("no emergency symptoms picked, flag should be false")
	}
	if input.Language != "en" {
		t.Errorf("language = %q, want en", input.Language)
	}
}

func TestInputDetectsEmergency(t *testing.T) {
	input := Input([]Pick{mustFind(t, "seizure")}, "en")
	if !input.EmergencyDetected {
		t.Error("expected emergency flag for seizure")
	}
}

func TestInputEmptySelection(t *testing.T) {
	input := Input(nil, "en")
	if input.TotalSelected != 0 || len(input.Symptoms) != 0 {
		t.Errorf("expected empty input, got %+v", input)
	}
	if input.ByCategory != nil {
		t.Errorf("expected nil category map, got %v", input.ByCategory)
	}
}

func TestPrefillText(t *testing.T) {
	input := Input([]Pick{mustFind(t, "high fever"), mustFind(t, "headache")}, "en")
	text := PrefillText(input)
	if !strings.HasPrefix(text, "I have the following symptoms: ") {
		t.Errorf("unexpected prefix: %q", text)
	}
	if !strings.Contains(text, "high fever, headache") {
		t.Errorf("expected ordered symptom list, got %q", text)
	}
	if got := PrefillText(Input(nil, "en")); got != "" {
		t.Errorf("empty selection should produce empty text, got %q", got)
	}
}

func mustFind(t *testing.T, label string) Pick {
	t.Helper()
	pick, ok := Find(label)
	if !ok {
		t.Fatalf("symptom %q not in catalog", label)
	}
	return pick
}
