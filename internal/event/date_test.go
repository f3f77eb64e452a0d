package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		dateText  string
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantNil   bool
	}{
		{
			name:      "Abbreviated month with comma",
			dateText:  "Oct 5, 2024",
			wantYear:  2024,
			wantMonth: time.October,
			wantDay:   5,
		},
		{
			name:      "Full month name",
			dateText:  "October 5, 2024",
			wantYear:  2024,
			wantMonth: time.October,
			wantDay:   5,
		},
		{
			name:      "Ordinal suffix",
			dateText:  "March 7th, 2025",
			wantYear:  2025,
			wantMonth: time.March,
			wantDay:   7,
		},
		{
			name:      "ISO format",
			dateText:  "2025-04-12",
			wantYear:  2025,
			wantMonth: time.April,
			wantDay:   12,
		},
		{
			name:      "Numeric date",
			dateText:  "10/05/2024",
			wantYear:  2024,
			wantMonth: time.October,
			wantDay:   5,
		},
		{
			name:      "Date with time",
			dateText:  "September 17, 2025 10:09am",
			wantYear:  2025,
			wantMonth: time.September,
			wantDay:   17,
		},
		{
			name:      "Range resolves to start date",
			dateText:  "January 10 - January 12, 2026",
			wantYear:  2026,
			wantMonth: time.January,
			wantDay:   10,
		},
		{
			name:      "Range with en dash",
			dateText:  "March 1 – March 3, 2026",
			wantYear:  2026,
			wantMonth: time.March,
			wantDay:   1,
		},
		{
			name:      "Multiple dates resolve to earliest",
			dateText:  "Jan 12, 2026 and Jan 5, 2026",
			wantYear:  2026,
			wantMonth: time.January,
			wantDay:   5,
		},
		{
			name:      "Location prefix stripped",
			dateText:  "Napa * Oct 5, 2024",
			wantYear:  2024,
			wantMonth: time.October,
			wantDay:   5,
		},
		{
			name:     "TBD",
			dateText: "TBD",
			wantNil:  true,
		},
		{
			name:     "Empty string",
			dateText: "",
			wantNil:  true,
		},
		{
			name:     "Prose is not a date",
			dateText: "Doors open one hour before the show",
			wantNil:  true,
		},
		{
			name:     "Implausible year rejected",
			dateText: "Oct 5, 1847",
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.dateText)

			if tt.wantNil {
				assert.Nil(t, got, "ParseDate(%q)", tt.dateText)
				return
			}

			if assert.NotNil(t, got, "ParseDate(%q)", tt.dateText) {
				assert.Equal(t, tt.wantYear, got.Year())
				assert.Equal(t, tt.wantMonth, got.Month())
				assert.Equal(t, tt.wantDay, got.Day())
			}
		})
	}
}

func TestParseDateImpliedYear(t *testing.T) {
	now := time.Now()

	// A month-day with no year lands on its next occurrence
	future := now.AddDate(0, 0, 7)
	got := ParseDate(future.Format("January 2"))
	if assert.NotNil(t, got) {
		assert.Equal(t, future.Year(), got.Year())
		assert.Equal(t, future.Month(), got.Month())
		assert.Equal(t, future.Day(), got.Day())
	}

	// A day that already passed this year rolls to the next
	past := now.AddDate(0, 0, -30)
	got = ParseDate(past.Format("Jan 2"))
	if assert.NotNil(t, got) {
		assert.Equal(t, past.Year()+1, got.Year())
	}
}

func TestCleanDateText(t *testing.T) {
	assert.Equal(t, "March 7, 2025", cleanDateText("  March   7th,  2025 "))
	assert.Equal(t, "7:30 pm", cleanDateText("7:30 p.m."))
	assert.Equal(t, "", cleanDateText("   "))
}
