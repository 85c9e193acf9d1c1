// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package dayrecord encodes and decodes a day's cards to and from the
single-string storage format, and owns the date-key arithmetic.

# Storage Format

A day record is stored under its YYYY-MM-DD key as one string:

	text&username&votes|text&username&votes|...

Separator characters (& and |) and the escape character (\) occurring
inside text or username are backslash-escaped, so the round trip

	Decode(Encode(cards)) == cards

holds for arbitrary text. Decoding is forgiving: a missing votes field
defaults to 0, and two-field legacy entries (text&votes) are still read.

# Date Keys

All day boundaries use the UTC calendar date:

	DayKey(t)              → "2024-01-31"
	MonthKey(t)            → "2024-01"
	MonthKeyFor(2024, 1)   → "2024-01"
	SplitDayKey("2024-01-31") → "2024-01", "31"
	PrevDay("2024-02-01")  → "2024-01-31"

SplitDayKey derives the monthly archive key from the day being
archived, not from the date the archive job happens to run on, which
keeps the last day of a month in that month's archive.
*/
package dayrecord
