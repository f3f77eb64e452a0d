package main

import (
	"context"
	"errors"
	"os"

	"mkaplan/eventdigest/config"
	"mkaplan/eventdigest/internal/analyzer"
	"mkaplan/eventdigest/internal/notify"
	"mkaplan/eventdigest/internal/scraper"
	"mkaplan/eventdigest/logger"
	pkgerr "mkaplan/eventdigest/pkg/errors"
	"mkaplan/eventdigest/services/cache"
	"mkaplan/eventdigest/services/runner"

	"github.com/joho/godotenv"
)

// Exit codes reported to the scheduler.
const (
	exitOK            = 0
	exitConfiguration = 1
	exitAnalysis      = 2
	exitNotification  = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	defer logger.Close()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return exitConfiguration
	}

	fileCfg, err := config.LoadVenues(cfg.ConfigFile)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.ConfigFile).Msg("Invalid venue configuration")
		return exitConfiguration
	}

	log.Info().
		Str("environment", cfg.Environment).
		Bool("test_mode", cfg.TestMode).
		Msg("Starting run")

	ctx := context.Background()

	// Rate-limit guard is optional, scrapers fall back to direct fetches
	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
	}

	scrapers := scraper.CreateScrapers(&cfg, fileCfg, cacheSvc)
	if len(scrapers) == 0 {
		log.Error().Msg("No scrapers enabled")
		return exitConfiguration
	}
	log.Info().Int("scraper_count", len(scrapers)).Msg("Created scrapers")

	claude, err := analyzer.NewClaudeAnalyzer(cfg.AnthropicAPIKey, fileCfg.Analyzer)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create analyzer")
		return exitConfiguration
	}

	notifiers, cleanup := buildNotifiers(ctx, &cfg)
	defer cleanup()

	r := runner.NewRunner(scrapers, claude, notifiers, cfg.EmailSubject, cfg.EmailRecipient)
	if err := r.Run(ctx); err != nil {
		return exitCode(err)
	}

	return exitOK
}

// buildNotifiers picks delivery channels from the configuration. Test
// mode swaps in a dry-run notifier so nothing leaves the machine.
func buildNotifiers(ctx context.Context, cfg *config.Config) ([]notify.Notifier, func()) {
	if cfg.TestMode {
		return []notify.Notifier{notify.NewDryRunNotifier()}, func() {}
	}

	notifiers := []notify.Notifier{
		notify.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}

	cleanup := func() {}
	if cfg.RedisAddr != "" {
		rn := notify.NewRedisNotifier(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		notifiers = append(notifiers, rn)
		cleanup = func() { rn.Close() }
	}

	return notifiers, cleanup
}

func exitCode(err error) int {
	var perr *pkgerr.PipelineError
	if errors.As(err, &perr) {
		switch perr.Type {
		case pkgerr.ErrorTypeAnalysis:
			return exitAnalysis
		case pkgerr.ErrorTypeNotification:
			return exitNotification
		}
	}
	return exitAnalysis
}
