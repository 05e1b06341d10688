// Package cli implements the healthguide command line interface: the interactive
// triage chat plus the provider, temperature, and summary subcommands.
package cli

import (
	"github.com/bytebender77/healthguide/internal/models"
	"github.com/bytebender77/healthguide/internal/triage"
	"github.com/bytebender77/healthguide/internal/util"
)

// Config carries the runtime settings resolved from environment variables and flags.
type Config struct {
	// APIBaseURL is the triage service base URL.
	APIBaseURL string
	// Provider selects the assessment provider sent with each turn.
	Provider string
	// Language is the conversation language code.
	Language string
	// DSN selects the local transcript store; empty disables persistence.
	DSN string
	// Debug enables debug-level logging.
	Debug bool
}

// LoadConfig resolves configuration from the environment. Flag values layer on top
// of this in the command wiring.
func LoadConfig() *Config {
	return &Config{
		APIBaseURL: util.EnvOrDefault("HEALTHGUIDE_API_URL", triage.DefaultBaseURL),
		Provider:   util.EnvOrDefault("HEALTHGUIDE_PROVIDER", models.DefaultProvider),
		Language:   util.EnvOrDefault("HEALTHGUIDE_LANGUAGE", models.DefaultLanguage),
		DSN:        util.EnvOrDefault("HEALTHGUIDE_DSN", ""),
		Debug:      util.ParseBoolEnv("HEALTHGUIDE_DEBUG", false),
	}
}
