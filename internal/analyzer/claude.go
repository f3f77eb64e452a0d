package analyzer

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/schema"

	"mkaplan/eventdigest/config"
	"mkaplan/eventdigest/internal/event"
	"mkaplan/eventdigest/logger"
	pkgerr "mkaplan/eventdigest/pkg/errors"
)

const eventDivMarker = `<div class="event">`

var scoreRe = regexp.MustCompile(`Score:\s*(\d+)\s*/\s*10`)

// ClaudeAnalyzer ranks events against the owner's preferences using the
// Anthropic API. The model returns one HTML block per event; everything
// outside that structure is stripped before the digest is built.
type ClaudeAnalyzer struct {
	model llms.Model
	cfg   config.AnalyzerConfig
}

// NewClaudeAnalyzer creates a new Claude-backed analyzer
func NewClaudeAnalyzer(apiKey string, cfg config.AnalyzerConfig) (*ClaudeAnalyzer, error) {
	model, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, pkgerr.NewAnalysis("claude", "failed to create model client", err)
	}
	return &ClaudeAnalyzer{model: model, cfg: cfg}, nil
}

// newWithModel wires an arbitrary model, used by tests
func newWithModel(model llms.Model, cfg config.AnalyzerConfig) *ClaudeAnalyzer {
	return &ClaudeAnalyzer{model: model, cfg: cfg}
}

// GetName returns the analyzer name
func (a *ClaudeAnalyzer) GetName() string {
	return "claude"
}

// Analyze sends the scraped events to the model and returns the cleaned,
// score-sorted HTML fragment.
func (a *ClaudeAnalyzer) Analyze(ctx context.Context, events []event.Event) (string, error) {
	if len(events) == 0 {
		return "", pkgerr.NewAnalysis(a.GetName(), "no events to analyze", nil)
	}

	log := logger.ForAnalyzer()
	log.Info().Int("event_count", len(events)).Msg("Analyzing events")
	for i, e := range events {
		log.Debug().
			Int("index", i+1).
			Str("title", e.Title).
			Str("datetime", e.DateText).
			Msg("Event to analyze")
	}

	prompt, err := buildPrompt(events, a.cfg)
	if err != nil {
		return "", pkgerr.NewAnalysis(a.GetName(), "failed to build prompt", err)
	}

	resp, err := a.model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(schema.ChatMessageTypeHuman, prompt)},
		llms.WithMaxTokens(a.cfg.MaxTokens),
	)
	if err != nil {
		return "", pkgerr.NewAnalysis(a.GetName(), "model call failed", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", pkgerr.NewAnalysis(a.GetName(), "empty response from model", nil)
	}

	content := cleanResponse(resp.Choices[0].Content)
	if content == "" {
		return "", pkgerr.NewAnalysis(a.GetName(), "response contained no event blocks", nil)
	}

	log.Info().
		Int("events_in", len(events)).
		Int("events_out", strings.Count(content, eventDivMarker)).
		Msg("Analysis complete")

	return content, nil
}

// cleanResponse strips any preamble before the first event block, collapses
// whitespace and reorders the blocks by score, highest first.
func cleanResponse(content string) string {
	if i := strings.Index(content, eventDivMarker); i >= 0 {
		content = content[i:]
	}

	content = strings.ReplaceAll(content, `\n`, " ")
	content = strings.Join(strings.Fields(content), " ")

	blocks := splitEventBlocks(content)
	if len(blocks) == 0 {
		return ""
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return scoreOf(blocks[i]) > scoreOf(blocks[j])
	})

	return eventDivMarker + strings.Join(blocks, eventDivMarker)
}

func splitEventBlocks(content string) []string {
	parts := strings.Split(content, eventDivMarker)
	var blocks []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			blocks = append(blocks, p)
		}
	}
	return blocks
}

func scoreOf(block string) int {
	match := scoreRe.FindStringSubmatch(block)
	if len(match) < 2 {
		return 0
	}
	score, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return score
}
