// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dayrecord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/thing-of-the-day/models"
)

const (
	fieldSep = '&'
	entrySep = '|'
	escape   = '\\'

	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Encode serializes a day's cards as entry-separated records:
// text&username&votes joined by |. Separator and escape characters
// inside text or username are backslash-escaped, so any text
// round-trips through Decode.
func Encode(cards []models.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = escapeField(c.Text) + string(fieldSep) + escapeField(c.Username) + string(fieldSep) + strconv.Itoa(c.Votes)
	}
	return strings.Join(parts, string(entrySep))
}

// Decode parses an encoded day record back into cards. An empty string
// decodes to no cards. Malformed entries are tolerated: a missing votes
// field defaults to 0, a missing username to "". A two-field entry is
// read as text&votes when the second field is numeric (the legacy
// unauthored format), otherwise as text&username.
func Decode(encoded string) []models.Card {
	if encoded == "" {
		return nil
	}

	entries := splitUnescaped(encoded, entrySep)
	cards := make([]models.Card, 0, len(entries))
	for _, entry := range entries {
		fields := splitUnescaped(entry, fieldSep)

		var c models.Card
		c.Text = unescapeField(fields[0])
		switch len(fields) {
		case 1:
			// text only
		case 2:
			if votes, err := strconv.Atoi(fields[1]); err == nil {
				c.Votes = votes
			} else {
				c.Username = unescapeField(fields[1])
			}
		default:
			c.Username = unescapeField(fields[1])
			if votes, err := strconv.Atoi(fields[2]); err == nil {
				c.Votes = votes
			}
		}
		if c.Votes < 0 {
			c.Votes = 0
		}
		cards = append(cards, c)
	}
	return cards
}

// escapeField prefixes separator and escape characters with a backslash.
func escapeField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == fieldSep || ch == entrySep || ch == escape {
			b.WriteByte(escape)
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// unescapeField removes the backslashes added by escapeField.
// A trailing lone backslash is kept literal.
func unescapeField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			b.WriteByte(ch)
			escaped = false
			continue
		}
		if ch == escape {
			escaped = true
			continue
		}
		b.WriteByte(ch)
	}
	if escaped {
		b.WriteByte(escape)
	}
	return b.String()
}

// splitUnescaped splits s on sep, ignoring separators preceded by the
// escape character. Escape sequences are preserved in the returned
// parts; unescapeField is applied to text fields afterwards.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			cur.WriteByte(escape)
			cur.WriteByte(ch)
			escaped = false
			continue
		}
		if ch == escape {
			escaped = true
			continue
		}
		if ch == sep {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(ch)
	}
	if escaped {
		cur.WriteByte(escape)
	}
	parts = append(parts, cur.String())
	return parts
}

// DayKey returns the UTC calendar-date storage key (YYYY-MM-DD) for t.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// MonthKey returns the monthly archive key (YYYY-MM) for t.
func MonthKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// MonthKeyFor returns the monthly archive key for a year and month.
func MonthKeyFor(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseDayKey parses a YYYY-MM-DD storage key.
func ParseDayKey(day string) (time.Time, error) {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	return t, nil
}

// SplitDayKey splits a day key into the monthly archive key and the
// two-digit day field it is archived under.
func SplitDayKey(day string) (monthKey, dayField string, err error) {
	t, err := ParseDayKey(day)
	if err != nil {
		return "", "", err
	}
	return t.Format(monthLayout), t.Format("02"), nil
}

// PrevDay returns the day key one calendar day before the given key.
func PrevDay(day string) (string, error) {
	t, err := ParseDayKey(day)
	if err != nil {
		return "", err
	}
	return DayKey(t.AddDate(0, 0, -1)), nil
}
