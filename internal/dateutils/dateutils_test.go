package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		dateStr   string
		expectedY int
		expectedM time.Month
		expectedD int
	}{
		{"ISO", "2025-10-06", 2025, time.October, 6},
		{"day first", "06/10/2025", 2025, time.October, 6},
		{"day first unpadded", "6/10/2025", 2025, time.October, 6},
		{"month first fallback", "01/15/2023", 2023, time.January, 15},
		{"dashed day first", "15-01-2023", 2023, time.January, 15},
		{"year first slashes", "2025/10/06", 2025, time.October, 6},
		{"dotted", "15.01.2023", 2023, time.January, 15},
		{"short month", "6 Oct 2025", 2025, time.October, 6},
		{"long month", "6 October 2025", 2025, time.October, 6},
		{"month first textual", "Oct 6, 2025", 2025, time.October, 6},
		{"month first long", "October 6, 2025", 2025, time.October, 6},
		{"lower case month", "06 oct 2025", 2025, time.October, 6},
		{"two digit year", "06/10/25", 2025, time.October, 6},
		{"timestamp", "2025-10-06 14:30:00", 2025, time.October, 6},
		{"compact", "20251006", 2025, time.October, 6},
		{"extra spaces", "  6   Oct   2025 ", 2025, time.October, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, layout, err := ParseDate(tt.dateStr, "")
			require.NoError(t, err)
			assert.NotEmpty(t, layout)
			assert.Equal(t, tt.expectedY, date.Year())
			assert.Equal(t, tt.expectedM, date.Month())
			assert.Equal(t, tt.expectedD, date.Day())
			assert.Equal(t, 0, date.Hour())
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "   ", "not a date", "31/31/2025", "2025-13-01"} {
		_, _, err := ParseDate(s, "")
		assert.Error(t, err, s)
	}
}

func TestParseDate_HintWins(t *testing.T) {
	// Without a hint 03/04/2025 is day first.
	date, _, err := ParseDate("03/04/2025", "")
	require.NoError(t, err)
	assert.Equal(t, time.April, date.Month())

	date, layout, err := ParseDate("03/04/2025", DateLayoutMDY)
	require.NoError(t, err)
	assert.Equal(t, time.March, date.Month())
	assert.Equal(t, DateLayoutMDY, layout)

	// A hint that does not fit falls through to the common layouts.
	date, _, err = ParseDate("2025-10-06", DateLayoutMDY)
	require.NoError(t, err)
	assert.Equal(t, 6, date.Day())
}

func TestLayoutFromPattern(t *testing.T) {
	tests := []struct {
		pattern string
		layout  string
		wantErr bool
	}{
		{"%Y/%m/%d", "2006/1/2", false},
		{"%d/%m/%Y", "2/1/2006", false},
		{"%d-%m-%Y", "2-1-2006", false},
		{"%Y-%m-%d", "2006-1-2", false},
		{"%d %b %Y", "2 Jan 2006", false},
		{"%d %B %y", "2 January 06", false},
		{"02.01.2006", "02.01.2006", false},
		{"", "", false},
		{"%Q", "", true},
		{"%Y%", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			layout, err := LayoutFromPattern(tt.pattern)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.layout, layout)
		})
	}

	layout, err := LayoutFromPattern("%Y/%m/%d")
	require.NoError(t, err)
	date, _, err := ParseDate("2025/10/06", layout)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-06", ToISODate(date))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(a, time.Date(2025, 10, 6, 23, 59, 0, 0, time.UTC)))
	assert.False(t, SameDay(a, a.AddDate(0, 0, 1)))
	assert.Equal(t, time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC), DateOnly(a))
}
