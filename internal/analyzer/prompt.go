package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"mkaplan/eventdigest/config"
	"mkaplan/eventdigest/internal/event"
)

// buildPrompt assembles the ranking prompt from the owner's preference
// lists and the scraped events serialized as JSON.
func buildPrompt(events []event.Event, cfg config.AnalyzerConfig) (string, error) {
	eventJSON, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are an entertainment concierge reviewing upcoming local events.\n\n")
	b.WriteString("My preferences:\n")
	writePreferences(&b, "Strong interests", cfg.StrongInterests)
	writePreferences(&b, "Moderate interests", cfg.ModerateInterests)
	writePreferences(&b, "Dislikes", cfg.Dislikes)

	b.WriteString("\nHere are the events as JSON:\n\n")
	b.Write(eventJSON)

	b.WriteString(`

For each event, score how well it matches my preferences from 1 to 10 and write a one or two sentence explanation of the score.

Return ONLY HTML, one block per event, ordered from highest score to lowest, using exactly this structure for every event:

<div class="event">
  <div class="score">Score: N/10</div>
  <div class="title"><a href="EVENT_URL">EVENT_TITLE</a></div>
  <div class="datetime">EVENT_DATETIME</div>
  <div class="image"><img src="IMAGE_URL" alt="EVENT_TITLE"/></div>
  <div class="explanation">EXPLANATION</div>
</div>

Rules:
- Include every event exactly once.
- Use the title, datetime, url and image_url fields from the JSON verbatim.
- Omit the image div when image_url is empty.
- Omit the link and use plain text for the title when url is empty.
- Do not add any text before the first <div class="event"> or after the last closing tag.`)

	return b.String(), nil
}

func writePreferences(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
