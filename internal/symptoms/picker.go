package symptoms

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/bytebender77/healthguide/internal/models"
)

// PickInteractive runs the terminal symptom picklist and returns the structured
// input for the selection. Returns nil when the user selects nothing.
func PickInteractive(language string) (*models.StructuredSymptomInput, error) {
	options := make([]string, 0, 32)
	for _, cat := range Catalog() {
		for _, sym := range cat.Symptoms {
			options = append(options, sym.Label)
		}
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message:  "Select the symptoms you are experiencing:",
		Options:  options,
		Help:     "Use space to select, enter to confirm. Leave empty to skip the picklist.",
		PageSize: 12,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, fmt.Errorf("failed to read symptom selection: %w", err)
	}
	if len(selected) == 0 {
		return nil, nil
	}

	picks := make([]Pick, 0, len(selected))
	for _, label := range selected {
		pick, ok := Find(label)
		if !ok {
			return nil, fmt.Errorf("unknown symptom selected: %s", label)
		}
		picks = append(picks, pick)
	}

	input := Input(picks, language)
	return &input, nil
}
