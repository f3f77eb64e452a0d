package main

import (
	"fmt"
	"os"
	"time"

	"mkaplan/eventdigest/config"
	"mkaplan/eventdigest/internal/notify"
	"mkaplan/eventdigest/logger"

	"github.com/joho/godotenv"
)

// Sends a fixed test message through the configured SMTP account so the
// credentials can be verified without running the whole pipeline.
func main() {
	godotenv.Load()
	logger.Init()
	defer logger.Close()
	log := logger.Default

	cfg := config.LoadConfig()
	if cfg.SMTPHost == "" || cfg.SMTPUsername == "" || cfg.SMTPPassword == "" || cfg.EmailRecipient == "" {
		log.Error().Msg("SMTP_SERVER, SMTP_USERNAME, SMTP_PASSWORD and EMAIL_RECIPIENT must be set")
		os.Exit(1)
	}

	now := time.Now().Format("Jan 2, 2006 3:04:05 PM")
	digest := notify.NewDigest(
		fmt.Sprintf("Test email %s", now),
		cfg.EmailRecipient,
		fmt.Sprintf(`<div class="event"><div class="title">SMTP test</div><div class="datetime">%s</div></div>`, now),
	)

	n := notify.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := n.Notify(digest); err != nil {
		log.Error().Err(err).Msg("Test email failed")
		os.Exit(1)
	}

	log.Info().Str("recipient", cfg.EmailRecipient).Msg("Test email sent")
}
