package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bytebender77/healthguide/internal/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1).
			MarginBottom(1)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#3B82F6"))

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	escalationStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#EF4444")).
			Padding(1, 2)

	resultStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F59E0B")).
			Padding(1, 2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))
)

// DisplayBanner shows the chat welcome banner.
func DisplayBanner() {
	fmt.Println(titleStyle.Render("HealthGuide — Fever Helpline"))
	fmt.Println(infoStyle.Render("Type your symptoms and press Enter. Type /quit to leave."))
	fmt.Println()
}

// DisplayMessage renders one conversation message with a role label.
func DisplayMessage(msg models.Message) {
	switch msg.Role {
	case models.RoleUser:
		fmt.Printf("%s %s\n", userLabelStyle.Render("You:"), msg.Content)
	default:
		fmt.Printf("%s %s\n", assistantLabelStyle.Render("HealthGuide:"), assistantStyle.Render(msg.Content))
	}
}

// DisplayTriageResult renders the assessment panel once a result is available.
func DisplayTriageResult(result *models.TriageResult) {
	if result == nil {
		return
	}
	var content strings.Builder
	content.WriteString(fmt.Sprintf("Triage level: %s\n", strings.ToUpper(result.TriageLevel)))
	if result.Summary != "" {
		content.WriteString(fmt.Sprintf("Summary: %s\n", result.Summary))
	}
	if len(result.RecommendedNextSteps) > 0 {
		content.WriteString("Recommended next steps:\n")
		for _, step := range result.RecommendedNextSteps {
			content.WriteString(fmt.Sprintf("  - %s\n", step))
		}
	}
	fmt.Println(resultStyle.Render(strings.TrimRight(content.String(), "\n")))
}

// DisplayEscalation renders the red flag banner.
func DisplayEscalation(result *models.TriageResult) {
	msg := "Emergency warning signs detected. Please seek medical care immediately."
	if result != nil && result.RedFlagSymptom != "" {
		msg = fmt.Sprintf("Emergency warning sign detected: %s\nPlease seek medical care immediately.", result.RedFlagSymptom)
	}
	fmt.Println(escalationStyle.Render(msg))
}

// DisplayProviders renders a care provider list from a provider search.
func DisplayProviders(providers []models.Provider) {
	if len(providers) == 0 {
		fmt.Println(infoStyle.Render("No providers found nearby."))
		return
	}
	var content strings.Builder
	content.WriteString("Nearby care providers:\n")
	for _, p := range providers {
		content.WriteString(fmt.Sprintf("  - %s (%s)", p.Name, p.Type))
		if p.Address != "" {
			content.WriteString(" — " + p.Address)
		}
		if p.Phone != "" {
			content.WriteString(", " + p.Phone)
		}
		content.WriteString("\n")
	}
	fmt.Print(resultStyle.Render(strings.TrimRight(content.String(), "\n")))
	fmt.Println()
}

// DisplayError shows an error message.
func DisplayError(err error) {
	fmt.Println(errorStyle.Render("Error: " + err.Error()))
}

// DisplayInfo shows a dim informational line.
func DisplayInfo(message string) {
	fmt.Println(infoStyle.Render(message))
}
