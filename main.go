package main

import (
	"context"
	"os"
	"strings"
	"time"

	"interview_hosting/internal/app"
	"interview_hosting/internal/compose"
	"interview_hosting/internal/config"
	"interview_hosting/internal/engine"
	"interview_hosting/internal/mail"
	"interview_hosting/internal/progress"
	"interview_hosting/internal/records"
	"interview_hosting/internal/retry"
	"interview_hosting/internal/templates"
	"interview_hosting/internal/workflow"

	"github.com/rs/zerolog/log"
)

func main() {
	log.Debug().Msg("Starting application")
	app.SetupEnvironment()

	ctx := context.Background()
	sheetsClient, settings := app.InitializeClients(ctx)

	intakeSheet := app.GetEnvWithDefault("INTAKE_SHEET", engine.DefaultIntakeSheet)
	trackedSheet := app.GetEnvWithDefault("TRACKED_SHEET", engine.DefaultTrackedSheet)

	eng := engine.New(sheetsClient, engine.WithSheets(intakeSheet, trackedSheet))
	wf := workflow.New(sheetsClient, trackedSheet)
	resilience := config.DefaultResilienceConfig
	if app.GetEnvWithDefault("RETRY_FOREVER", "false") == "true" {
		resilience = config.InfiniteResilienceConfig
	}

	mode := "watch"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "watch":
		runWatchLoop(ctx, eng, resilience)
	case "receipts":
		runBatch(ctx, records.KindReceipt, eng, wf, settings, resilience)
	case "pairings":
		runBatch(ctx, records.KindPairing, eng, wf, settings, resilience)
	case "plea":
		runPlea(ctx, eng, settings, resilience)
	default:
		log.Fatal().Str("mode", mode).Msg("Unknown mode; expected watch, receipts, pairings or plea")
	}
}

// runWatchLoop refreshes immediately and then once a minute, logging a
// summary of each projection after every successful refresh.
func runWatchLoop(ctx context.Context, eng *engine.Engine, resilience config.ResilienceConfig) {
	log.Info().Msg("Starting interview hosting monitor. Running immediately and then every minute...")

	eng.Subscribe(func() { logProjectionSummary(eng) })

	refresh(ctx, eng, resilience)

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		refresh(ctx, eng, resilience)
	}
}

func refresh(ctx context.Context, eng *engine.Engine, resilience config.ResilienceConfig) {
	_, err := retry.WithRetry(ctx, resilience.RefreshLoop, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, eng.Refresh(ctx, warnUnparseableDate)
	})
	if err != nil {
		log.Error().Err(err).Msg("Refresh failed; keeping previous snapshot")
	}
}

func warnUnparseableDate(value string) {
	log.Warn().Str("value", value).Msg("Hosting date is not in MM/DD/YYYY format; row excluded from date ordering")
}

func logProjectionSummary(eng *engine.Engine) {
	kinds := []records.Kind{records.KindReceipt, records.KindPairing, records.KindDone, records.KindIgnored}
	ev := log.Info()
	for _, kind := range kinds {
		ev = ev.Int(kind.String(), len(eng.Projection(kind).Candidates))
	}
	ev.Msg("Refresh complete")
}

// runBatch refreshes once, then sends the receipt or pairing email for every
// candidate in that projection, advancing each candidate's status as sends
// complete. Send failures are reported and leave the status untouched.
func runBatch(ctx context.Context, kind records.Kind, eng *engine.Engine, wf *workflow.Workflow, settings templates.Settings, resilience config.ResilienceConfig) {
	refresh(ctx, eng, resilience)

	transport := initMail(ctx)

	template := settings.ReceiptBody
	subject := app.GetEnvWithDefault("RECEIPT_SUBJECT", "Interview Hosting Request Received")
	if kind == records.KindPairing {
		template = settings.PairingBody
		subject = app.GetEnvWithDefault("PAIRING_SUBJECT", "Your Interview Host Pairing")
	}

	projection := eng.Projection(kind)
	if len(projection.Candidates) == 0 {
		log.Info().Str("projection", kind.String()).Msg("No candidates to notify")
		return
	}

	tracker := progress.NewTracker()
	batch, err := compose.NewBatch(kind, projection.Candidates, template, subject, settings.PleaSignature, transport, wf, tracker)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build notification batch")
	}

	outcome := batch.Run(ctx, compose.LaunchAll)

	sent, failed := transport.Metrics()
	log.Info().
		Int("attempted", outcome.Attempted).
		Int("cancelled", outcome.Cancelled).
		Int64("sent", sent).
		Int64("failed", failed).
		Int("progress", tracker.Progress()).
		Msg("Notification batch complete")
	for _, name := range outcome.Skipped {
		log.Warn().Str("candidate", name).Msg("Email failed; status left unchanged")
	}
}

// runPlea sends a single hosts-needed email listing every candidate still
// waiting on a receipt confirmation or a host pairing.
func runPlea(ctx context.Context, eng *engine.Engine, settings templates.Settings, resilience config.ResilienceConfig) {
	refresh(ctx, eng, resilience)

	transport := initMail(ctx)

	recipients := splitRecipients(app.GetRequiredEnv("PLEA_RECIPIENTS"))

	waiting := len(eng.Projection(records.KindReceipt).Candidates) +
		len(eng.Projection(records.KindPairing).Candidates)
	if waiting == 0 {
		log.Info().Msg("No candidates awaiting hosts; plea not sent")
		return
	}

	body := compose.Render(settings.PleaBody, map[string]string{
		compose.TagPleaTable:     compose.PleaTable(eng.Snapshot()),
		compose.TagPleaSignature: settings.PleaSignature,
	})
	msg := mail.Message{
		Subject:  app.GetEnvWithDefault("PLEA_SUBJECT", "Hosts Needed for Upcoming Interviews"),
		To:       recipients,
		HTMLBody: body,
	}
	if err := transport.Send(ctx, msg); err != nil {
		log.Fatal().Err(err).Msg("Failed to send plea email")
	}
	log.Info().Strs("recipients", recipients).Msg("Plea email sent")
}

func initMail(ctx context.Context) *mail.SMTPClient {
	transport := app.InitializeMailClient()
	if err := transport.VerifyLogin(ctx); err != nil {
		log.Fatal().Err(err).Msg("SMTP login check failed")
	}
	return transport
}

func splitRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
