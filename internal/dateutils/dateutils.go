// Package dateutils parses the date tokens found in bank statements.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutDMY       = "2/1/2006"
	DateLayoutMDY       = "1/2/2006"
	DateLayoutDMYDash   = "2-1-2006"
	DateLayoutYMDSlash  = "2006/1/2"
	DateLayoutDotted    = "2.1.2006"
	DateLayoutCompact   = "20060102"
	DateLayoutWithMonth = "2-Jan-2006"
)

// CommonFormats are tried in order; the first successful parse wins.
// Day-first layouts come before month-first ones so that 06/10/2025 is read
// as 6 October.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutDMY,
	DateLayoutMDY,
	DateLayoutDMYDash,
	DateLayoutYMDSlash,
	DateLayoutDotted,
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	DateLayoutWithMonth,
	"2/1/06",
	"2-1-06",
	"2.1.06",
	"2 Jan 06",
	DateLayoutFull,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	DateLayoutCompact,
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims a date token and collapses inner whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate parses dateStr with the optional layout hint first, then with
// CommonFormats. It returns the calendar date (UTC midnight) and the layout
// that matched. There is no fallback to the current date.
func ParseDate(dateStr, hint string) (time.Time, string, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}

	if hint != "" {
		if t, err := time.Parse(hint, cleaned); err == nil {
			return DateOnly(t), hint, nil
		}
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return DateOnly(t), layout, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "1",
	'd': "2",
	'e': "2",
	'b': "Jan",
	'h': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'H': "15",
	'I': "3",
	'M': "04",
	'S': "05",
	'p': "PM",
	'%': "%",
}

// LayoutFromPattern converts a strftime pattern such as "%d/%m/%Y" into a Go
// layout. Numeric day and month directives accept one or two digits.
func LayoutFromPattern(pattern string) (string, error) {
	if pattern == "" {
		return "", nil
	}
	if !strings.Contains(pattern, "%") {
		// already a Go layout
		return pattern, nil
	}

	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(pattern) {
			return "", fmt.Errorf("dangling %% in date format %q", pattern)
		}
		i++
		layout, ok := strftimeDirectives[pattern[i]]
		if !ok {
			return "", fmt.Errorf("unsupported directive %%%c in date format %q", pattern[i], pattern)
		}
		b.WriteString(layout)
	}
	return b.String(), nil
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether both times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
