package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/bytebender77/healthguide/internal/conversation"
	"github.com/bytebender77/healthguide/internal/models"
	"github.com/bytebender77/healthguide/internal/session"
	"github.com/bytebender77/healthguide/internal/symptoms"
	"github.com/bytebender77/healthguide/internal/triage"
)

// chatOptions carries the chat command flags.
type chatOptions struct {
	// PickSymptoms runs the symptom checklist before the conversation starts.
	PickSymptoms bool
	// ResumeSessionID continues a saved conversation instead of starting fresh.
	ResumeSessionID string
}

// runChat drives the interactive triage conversation.
func runChat(ctx context.Context, cfg *Config, opts chatOptions) error {
	client := triage.NewClient(triage.WithBaseURL(cfg.APIBaseURL))
	sessions := session.NewManager(client)

	transcripts, err := openStore(cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open transcript store: %w", err)
	}
	if transcripts != nil {
		defer transcripts.Close()
	}

	ctrlOpts := []conversation.Option{
		conversation.WithProvider(cfg.Provider),
		conversation.WithLanguage(cfg.Language),
	}
	if transcripts != nil {
		ctrlOpts = append(ctrlOpts, conversation.WithTranscripts(transcripts))
	}
	ctrl := conversation.NewController(sessions, client, ctrlOpts...)

	if opts.ResumeSessionID != "" {
		if transcripts == nil {
			return fmt.Errorf("cannot resume: no transcript store configured, set --dsn or HEALTHGUIDE_DSN")
		}
		rec, err := transcripts.GetConversation(opts.ResumeSessionID)
		if err != nil {
			return fmt.Errorf("failed to load conversation %s: %w", opts.ResumeSessionID, err)
		}
		if rec == nil {
			return fmt.Errorf("no saved conversation for session %s", opts.ResumeSessionID)
		}
		if err := ctrl.Resume(*rec); err != nil {
			return fmt.Errorf("failed to resume conversation: %w", err)
		}
		slog.Info("cli.runChat: resumed conversation", "sessionID", opts.ResumeSessionID, "messages", len(rec.Messages))
	}

	if opts.PickSymptoms && opts.ResumeSessionID == "" {
		input, err := symptoms.PickInteractive(cfg.Language)
		if err != nil {
			return err
		}
		if input != nil {
			ctrl.SetPrefill(ctx, symptoms.PrefillText(*input), input)
		}
	}

	DisplayBanner()
	ctrl.Start(ctx)

	sess := ctrl.Session()
	if !sess.Remote() {
		DisplayInfo("Service unreachable for session setup; continuing with a local session.")
	}
	slog.Debug("cli.runChat: conversation started", "sessionID", sess.ID, "origin", sess.Origin)

	rendered := renderNewMessages(ctrl, 0)
	escalationShown := renderOutcome(ctx, ctrl, client, false)

	reader := bufio.NewReader(os.Stdin)
	for {
		snap := ctrl.Snapshot()
		if snap.Complete {
			break
		}

		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			break
		}
		line = strings.TrimSpace(line)
		if line == "/quit" || line == "/exit" {
			break
		}
		if line == "" {
			continue
		}

		if err := ctrl.Send(ctx, line); err != nil {
			switch {
			case errors.Is(err, models.ErrAwaitingResponse):
				DisplayInfo("Still waiting for the previous reply.")
			case errors.Is(err, models.ErrMessageTooLong):
				DisplayInfo("That message is too long. Please shorten it.")
			default:
				DisplayError(err)
			}
			continue
		}

		rendered = renderNewMessages(ctrl, rendered)
		escalationShown = renderOutcome(ctx, ctrl, client, escalationShown)
	}

	if sess := ctrl.Session(); sess.Remote() {
		DisplayInfo("Session " + sess.ID + " — use 'healthguide summary " + sess.ID + "' to review this conversation.")
	}
	return nil
}

// renderNewMessages prints conversation messages past the rendered watermark and
// returns the new watermark.
func renderNewMessages(ctrl *conversation.Controller, rendered int) int {
	snap := ctrl.Snapshot()
	for _, msg := range snap.Messages[rendered:] {
		DisplayMessage(msg)
	}
	return len(snap.Messages)
}

// renderOutcome surfaces the assessment panel and, on escalation, the red flag
// banner plus the provider lookup. The banner is shown once per conversation.
func renderOutcome(ctx context.Context, ctrl *conversation.Controller, client *triage.Client, escalationShown bool) bool {
	snap := ctrl.Snapshot()
	if snap.Complete && snap.Result != nil {
		DisplayTriageResult(snap.Result)
	}
	if snap.ShowProviders && !escalationShown {
		DisplayEscalation(snap.Result)
		offerProviderSearch(ctx, client)
		escalationShown = true
	}
	return escalationShown
}

// offerProviderSearch asks for a location and lists nearby care providers.
// Declining or failing the lookup never interrupts the conversation flow.
func offerProviderSearch(ctx context.Context, client *triage.Client) {
	var location string
	prompt := &survey.Input{
		Message: "Enter your location to find nearby care providers (or press Enter to skip):",
	}
	if err := survey.AskOne(prompt, &location); err != nil {
		slog.Debug("cli.offerProviderSearch: prompt aborted", "error", err)
		return
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return
	}

	providers, err := client.SearchProviders(ctx, triage.ProviderSearchRequest{Location: location})
	if err != nil {
		slog.Warn("cli.offerProviderSearch: provider search failed", "error", err)
		DisplayInfo("Could not fetch nearby providers right now.")
		return
	}
	DisplayProviders(providers)
}
