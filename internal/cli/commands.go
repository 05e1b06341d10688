package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bytebender77/healthguide/internal/models"
	"github.com/bytebender77/healthguide/internal/store"
	"github.com/bytebender77/healthguide/internal/triage"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// NewRootCmd creates the root command. Running healthguide with no subcommand
// starts the interactive triage chat.
func NewRootCmd() *cobra.Command {
	cfg := LoadConfig()

	rootCmd := &cobra.Command{
		Use:   "healthguide",
		Short: "HealthGuide - fever helpline triage assistant",
		Long: `HealthGuide is a conversational triage assistant for fever symptoms.
It walks you through a short symptom conversation, assesses urgency, and points
you at nearby care when emergency warning signs appear.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), cfg, chatOptions{})
		},
	}

	rootCmd.AddCommand(newChatCmd(cfg))
	rootCmd.AddCommand(newProvidersCmd(cfg))
	rootCmd.AddCommand(newTemperatureCmd(cfg))
	rootCmd.AddCommand(newSummaryCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&cfg.APIBaseURL, "api-url", cfg.APIBaseURL, "Triage service base URL")
	rootCmd.PersistentFlags().StringVar(&cfg.Provider, "provider", cfg.Provider, "Assessment provider to request")
	rootCmd.PersistentFlags().StringVar(&cfg.Language, "language", cfg.Language, "Conversation language code")
	rootCmd.PersistentFlags().StringVar(&cfg.DSN, "dsn", cfg.DSN, "Transcript store DSN (sqlite path or postgres URL)")

	return rootCmd
}

// newChatCmd creates the chat command, the explicit form of the default action.
func newChatCmd(cfg *Config) *cobra.Command {
	var opts chatOptions

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive triage conversation",
		Long: `Start an interactive triage conversation with the fever helpline.
Use --symptoms to pick initial symptoms from a checklist before the chat begins,
or --resume to continue a previously saved conversation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.PickSymptoms, "symptoms", false, "Pick initial symptoms from a checklist")
	cmd.Flags().StringVar(&opts.ResumeSessionID, "resume", "", "Resume a saved conversation by session id")

	return cmd
}

// newProvidersCmd lists the assessment providers the service advertises.
func newProvidersCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List available assessment providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := triage.NewClient(triage.WithBaseURL(cfg.APIBaseURL))
			list, err := client.ListLLMProviders(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list providers: %w", err)
			}
			for _, p := range list.Providers {
				marker := " "
				if p.ID == list.Default {
					marker = "*"
				}
				status := "available"
				if !p.Available {
					status = "unavailable"
				}
				fmt.Printf("%s %-12s %-24s %s\n", marker, p.ID, p.Name, status)
			}
			return nil
		},
	}
}

// newTemperatureCmd groups the temperature log and history subcommands.
func newTemperatureCmd(cfg *Config) *cobra.Command {
	tempCmd := &cobra.Command{
		Use:   "temperature",
		Short: "Log and review temperature readings",
	}

	var unit, notes string
	logCmd := &cobra.Command{
		Use:   "log SESSION_ID VALUE",
		Short: "Log a temperature reading for a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid temperature value %q: %w", args[1], err)
			}
			client := triage.NewClient(triage.WithBaseURL(cfg.APIBaseURL))
			reading, err := client.LogTemperature(cmd.Context(), models.TemperatureReading{
				SessionID:   args[0],
				Temperature: value,
				Unit:        unit,
				Notes:       notes,
			})
			if err != nil {
				return fmt.Errorf("failed to log temperature: %w", err)
			}
			fmt.Printf("Logged %.1f°%s for session %s\n", reading.Temperature, reading.Unit, reading.SessionID)
			return nil
		},
	}
	logCmd.Flags().StringVar(&unit, "unit", "F", "Temperature unit (F or C)")
	logCmd.Flags().StringVar(&notes, "notes", "", "Optional notes for the reading")
	tempCmd.AddCommand(logCmd)

	tempCmd.AddCommand(&cobra.Command{
		Use:   "history SESSION_ID",
		Short: "Show logged temperature readings for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := triage.NewClient(triage.WithBaseURL(cfg.APIBaseURL))
			readings, err := client.TemperatureHistory(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch temperature history: %w", err)
			}
			if len(readings) == 0 {
				DisplayInfo("No temperature readings logged for this session.")
				return nil
			}
			for _, r := range readings {
				line := fmt.Sprintf("%s  %.1f°%s", r.RecordedAt.Format(time.RFC3339), r.Temperature, r.Unit)
				if r.Notes != "" {
					line += "  " + r.Notes
				}
				fmt.Println(line)
			}
			return nil
		},
	})

	return tempCmd
}

// newSummaryCmd fetches the conversation summary for a session.
func newSummaryCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "summary SESSION_ID",
		Short: "Show the triage summary for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := triage.NewClient(triage.WithBaseURL(cfg.APIBaseURL))
			summary, err := client.Summary(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch summary: %w", err)
			}
			fmt.Printf("Session:      %s\n", summary.SessionID)
			if summary.TriageLevel != "" {
				fmt.Printf("Triage level: %s\n", summary.TriageLevel)
			}
			fmt.Printf("Messages:     %d\n", summary.ConversationCount)
			if summary.Summary != "" {
				fmt.Printf("Summary:      %s\n", summary.Summary)
			}
			for _, step := range summary.RecommendedNextSteps {
				fmt.Printf("  - %s\n", step)
			}
			return nil
		},
	}
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("healthguide %s\n", Version)
		},
	}
}

// openStore opens the transcript store selected by the DSN, or nil when
// persistence is disabled.
func openStore(dsn string) (store.Store, error) {
	if dsn == "" {
		return nil, nil
	}
	switch store.DetectDSNType(dsn) {
	case "postgres":
		slog.Debug("cli.openStore: opening postgres store")
		return store.NewPostgresStore(store.WithPostgresDSN(dsn))
	default:
		slog.Debug("cli.openStore: opening sqlite store", "dsn", dsn)
		return store.NewSQLiteStore(store.WithSQLiteDSN(dsn))
	}
}
