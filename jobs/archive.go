// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package jobs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/thing-of-the-day/dayrecord"
	"github.com/danielhkuo/thing-of-the-day/kv"
	"github.com/danielhkuo/thing-of-the-day/models"
)

// Archiver condenses a finished day's record into its top post and
// files it under the month's archive hash.
type Archiver struct {
	store *kv.Store
}

func NewArchiver(store *kv.Store) *Archiver {
	return &Archiver{store: store}
}

// ArchiveDay computes the top post for the given day key and writes it
// to the day's month hash. A day with no cards is skipped. Ties go to
// the earliest card. Re-running overwrites the existing entry, so the
// job is safe to repeat.
func (a *Archiver) ArchiveDay(day string) error {
	monthKey, dayField, err := dayrecord.SplitDayKey(day)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}

	encoded, err := a.store.Get(day)
	if err != nil {
		return fmt.Errorf("archive: failed to load day %s: %w", day, err)
	}
	cards := dayrecord.Decode(encoded)
	if len(cards) == 0 {
		slog.Info("archive: no cards for day, skipping", "day", day)
		return nil
	}

	top := cards[0]
	for _, c := range cards[1:] {
		if c.Votes > top.Votes {
			top = c
		}
	}

	payload, err := json.Marshal(models.TopPost{
		Text:     top.Text,
		Username: top.Username,
		Votes:    top.Votes,
	})
	if err != nil {
		return fmt.Errorf("archive: failed to marshal top post: %w", err)
	}
	if err := a.store.HSet(monthKey, dayField, string(payload)); err != nil {
		return fmt.Errorf("archive: failed to store top post for %s: %w", day, err)
	}

	slog.Info("archived top post", "day", day, "username", top.Username, "votes", top.Votes)
	return nil
}

// ArchiveYesterday archives the UTC day before now. The scheduler
// calls this just after midnight, when "yesterday" is the day that
// just ended.
func (a *Archiver) ArchiveYesterday(now time.Time) error {
	return a.ArchiveDay(dayrecord.DayKey(now.UTC().AddDate(0, 0, -1)))
}
