package sheetsclient

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_TabTitle(t *testing.T) {
	r := &Roster{ProjectName: "Park cleanup"}
	assert.Equal(t, "Roster - Park cleanup", r.TabTitle())

	long := &Roster{ProjectName: strings.Repeat("Субботник ", 20)}
	title := long.TabTitle()
	assert.LessOrEqual(t, utf8.RuneCountInString(title), maxTabTitle)
	assert.True(t, strings.HasPrefix(title, "Roster - Субботник"))
	assert.False(t, strings.HasSuffix(title, " "))
}

func TestRoster_Values(t *testing.T) {
	r := &Roster{
		ProjectName: "Park cleanup",
		Rows: []RosterRow{
			{Name: "Anna Petrova", Email: "anna@example.com", Phone: "+79991234567", Telegram: "@anna", JoinedAt: "2025-03-05 10:00"},
		},
	}

	values := r.Values()

	require.Len(t, values, 2)
	assert.Equal(t, []interface{}{"Volunteer", "Email", "Phone", "Telegram", "Joined"}, values[0])
	assert.Equal(t, []interface{}{"Anna Petrova", "anna@example.com", "+79991234567", "@anna", "2025-03-05 10:00"}, values[1])
}

func TestQuoteTab(t *testing.T) {
	assert.Equal(t, "'Roster - Bob''s garden'", quoteTab("Roster - Bob's garden"))
}
