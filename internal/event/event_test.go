package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventValid(t *testing.T) {
	assert.True(t, (&Event{Title: "Show", DateText: "Oct 5, 2024"}).Valid())
	assert.False(t, (&Event{Title: "Show"}).Valid())
	assert.False(t, (&Event{DateText: "Oct 5, 2024"}).Valid())
}

func TestGroupByTitle(t *testing.T) {
	events := []Event{
		{Title: "Murder Mystery Night", DateText: "Oct 12, 2024", Provider: "petaluma"},
		{Title: "Wine Tasting", DateText: "Oct 5, 2024", Provider: "petaluma"},
		{Title: "murder mystery night", DateText: "Oct 5, 2024", Provider: "petaluma"},
	}

	grouped := GroupByTitle(events)
	assert.Len(t, grouped, 2)

	// First appearance order and original casing are preserved
	assert.Equal(t, "Murder Mystery Night", grouped[0].Title)
	assert.Equal(t, "Oct 12, 2024 and Oct 5, 2024", grouped[0].DateText)
	assert.True(t, grouped[0].MultipleDates)

	assert.Equal(t, "Wine Tasting", grouped[1].Title)
	assert.Equal(t, "Oct 5, 2024", grouped[1].DateText)
	assert.False(t, grouped[1].MultipleDates)

	// Merged record still carries a parsed date (earliest of the list)
	if assert.NotNil(t, grouped[0].Date) {
		assert.Equal(t, 5, grouped[0].Date.Day())
	}
}

func TestGroupByTitleEmpty(t *testing.T) {
	assert.Empty(t, GroupByTitle(nil))
}
