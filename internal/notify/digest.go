package notify

import (
	"strings"
	"time"
)

// Digest holds the rendered analysis ready for delivery
type Digest struct {
	Subject     string    `json:"subject"`
	Recipient   string    `json:"recipient"`
	HTML        string    `json:"html"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewDigest wraps an analysis fragment into a deliverable digest
func NewDigest(subject, recipient, fragment string) *Digest {
	return &Digest{
		Subject:     subject,
		Recipient:   recipient,
		HTML:        fragment,
		GeneratedAt: time.Now(),
	}
}

// RenderBody wraps the event fragment in a full HTML document with
// inline styles so it renders the same across mail clients.
func (d *Digest) RenderBody() string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, sans-serif; color: #333; max-width: 700px; margin: 0 auto; padding: 16px; }
h1 { font-size: 20px; color: #222; }
.event { border: 1px solid #ddd; border-radius: 6px; padding: 12px; margin-bottom: 16px; }
.score { font-weight: bold; color: #b5651d; }
.title { font-size: 16px; margin: 6px 0; }
.title a { color: #1a5276; text-decoration: none; }
.datetime { color: #666; font-size: 14px; }
.image img { max-width: 100%; height: auto; margin-top: 8px; border-radius: 4px; }
.explanation { margin-top: 8px; font-size: 14px; }
.footer { color: #999; font-size: 12px; margin-top: 24px; }
</style>
</head>
<body>
<h1>`)
	b.WriteString(d.Subject)
	b.WriteString(`</h1>
`)
	b.WriteString(d.HTML)
	b.WriteString(`
<div class="footer">Generated at `)
	b.WriteString(d.GeneratedAt.Format("Jan 2, 2006 3:04 PM"))
	b.WriteString(`</div>
</body>
</html>`)
	return b.String()
}
