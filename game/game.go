// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/danielhkuo/thing-of-the-day/dayrecord"
	"github.com/danielhkuo/thing-of-the-day/kv"
	"github.com/danielhkuo/thing-of-the-day/models"
)

// Validation and daily-limit errors. The messages are user-visible:
// the view surfaces them as toasts.
var (
	ErrAlreadyPosted = errors.New("You can only create one post per day.")
	ErrEmptyText     = errors.New("Card text is required.")
	ErrTextTooLong   = fmt.Errorf("Card text must be %d characters or fewer.", models.MaxCardTextLength)
)

// AlreadyVotedError reports the 0-based index the user already voted
// for today; the message shows it 1-based, the way cards are numbered
// in the view.
type AlreadyVotedError struct {
	Index int
}

func (e *AlreadyVotedError) Error() string {
	return fmt.Sprintf("You can only vote once per day. You already voted for post #%d.", e.Index+1)
}

// InvalidCardError reports a vote for a card id that does not exist
// today. ID is the 1-based id the view sent; Count is how many cards
// today has.
type InvalidCardError struct {
	ID    int
	Count int
}

func (e *InvalidCardError) Error() string {
	return fmt.Sprintf("Post #%d does not exist. Today has %d posts.", e.ID, e.Count)
}

// User state hash fields
const (
	fieldLastPostDate    = "lastPostDate"
	fieldLastCreatedPost = "lastCreatedPost"
	fieldLastVoteDate    = "lastVoteDate"
	fieldLastVotedPost   = "lastVotedPost"
)

// Game enforces the daily rules: one card and one vote per user per
// UTC day, tracked as last-action pointers in the user's state hash.
type Game struct {
	store *kv.Store
}

func New(store *kv.Store) *Game {
	return &Game{store: store}
}

func userKey(username string) string {
	return "user:" + username
}

// Snapshot returns today's cards and the user's daily flags. The
// last-created and last-voted indices are only reported when they
// point at today; stale pointers from previous days read as nil.
func (g *Game) Snapshot(username, today string) (*models.Snapshot, error) {
	encoded, err := g.store.Get(today)
	if err != nil {
		return nil, fmt.Errorf("failed to load day record: %w", err)
	}
	cards := dayrecord.Decode(encoded)
	if cards == nil {
		cards = []models.Card{}
	}

	state, err := g.store.HGetAll(userKey(username))
	if err != nil {
		return nil, fmt.Errorf("failed to load user state: %w", err)
	}

	snap := &models.Snapshot{Username: username, Cards: cards}
	if state[fieldLastPostDate] == today {
		snap.HasPostedToday = true
		if idx, err := strconv.Atoi(state[fieldLastCreatedPost]); err == nil {
			snap.LastCreatedPost = &idx
		}
	}
	if state[fieldLastVoteDate] == today {
		snap.HasVotedToday = true
		if idx, err := strconv.Atoi(state[fieldLastVotedPost]); err == nil {
			snap.LastVotedPost = &idx
		}
	}
	return snap, nil
}

// Submit appends a card to today's record and returns its 0-based
// index. Fails with ErrAlreadyPosted when the user already posted
// today. The date check, append, and state update run in one
// transaction so a double-submitted request cannot append twice.
func (g *Game) Submit(username, text, today string) (int, error) {
	if text == "" {
		return 0, ErrEmptyText
	}
	if utf8.RuneCountInString(text) > models.MaxCardTextLength {
		return 0, ErrTextTooLong
	}

	var index int
	err := g.store.Update(func(tx *kv.Tx) error {
		lastPostDate, err := tx.HGet(userKey(username), fieldLastPostDate)
		if err != nil {
			return err
		}
		if lastPostDate == today {
			return ErrAlreadyPosted
		}

		encoded, err := tx.Get(today)
		if err != nil {
			return err
		}
		cards := dayrecord.Decode(encoded)
		cards = append(cards, models.Card{Text: text, Username: username, Votes: 0})
		index = len(cards) - 1

		if err := tx.Set(today, dayrecord.Encode(cards)); err != nil {
			return err
		}
		return tx.HSetAll(userKey(username), map[string]string{
			fieldLastPostDate:    today,
			fieldLastCreatedPost: strconv.Itoa(index),
		})
	})
	if err != nil {
		return 0, err
	}

	slog.Info("card created", "username", username, "day", today, "index", index)
	return index, nil
}

// Vote registers a vote for the 1-based cardID and returns the 0-based
// index the vote landed on. Fails with *AlreadyVotedError when the
// user already voted today and *InvalidCardError when the id is out of
// range. The increment is a transactional read-modify-write, so
// concurrent votes on the same card all land.
func (g *Game) Vote(username string, cardID int, today string) (int, error) {
	index := cardID - 1

	err := g.store.Update(func(tx *kv.Tx) error {
		lastVoteDate, err := tx.HGet(userKey(username), fieldLastVoteDate)
		if err != nil {
			return err
		}
		if lastVoteDate == today {
			voted := 0
			if lastVoted, err := tx.HGet(userKey(username), fieldLastVotedPost); err == nil {
				if idx, convErr := strconv.Atoi(lastVoted); convErr == nil {
					voted = idx
				}
			}
			return &AlreadyVotedError{Index: voted}
		}

		encoded, err := tx.Get(today)
		if err != nil {
			return err
		}
		cards := dayrecord.Decode(encoded)
		if index < 0 || index >= len(cards) {
			return &InvalidCardError{ID: cardID, Count: len(cards)}
		}
		cards[index].Votes++

		if err := tx.Set(today, dayrecord.Encode(cards)); err != nil {
			return err
		}
		return tx.HSetAll(userKey(username), map[string]string{
			fieldLastVoteDate:  today,
			fieldLastVotedPost: strconv.Itoa(index),
		})
	})
	if err != nil {
		return 0, err
	}

	slog.Info("vote registered", "username", username, "day", today, "index", index)
	return index, nil
}

// TopPost returns the archived top post for a date, or nil when the
// date has none. This read path is best-effort: a storage or decode
// failure is logged and reads as "no post" rather than failing the
// calendar view.
func (g *Game) TopPost(date string) *models.ArchivedTopPost {
	monthKey, dayField, err := dayrecord.SplitDayKey(date)
	if err != nil {
		slog.Warn("top post fetch for malformed date", "date", date, "error", err)
		return nil
	}

	stored, err := g.store.HGet(monthKey, dayField)
	if err != nil {
		slog.Warn("top post fetch failed", "date", date, "error", err)
		return nil
	}
	if stored == "" {
		return nil
	}

	var top models.TopPost
	if err := json.Unmarshal([]byte(stored), &top); err != nil {
		slog.Warn("malformed archived top post", "date", date, "error", err)
		return nil
	}
	return &models.ArchivedTopPost{TopPost: top, Date: date}
}

// MonthlyTopPosts returns the month's archive entries ordered by day.
// A month with no archive yields an empty slice. Entries that fail to
// decode are skipped with a warning.
func (g *Game) MonthlyTopPosts(year, month int) ([]models.DayTopPost, error) {
	monthKey := dayrecord.MonthKeyFor(year, month)
	fields, err := g.store.HGetAll(monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly archive %s: %w", monthKey, err)
	}

	days := make([]string, 0, len(fields))
	for day := range fields {
		days = append(days, day)
	}
	sort.Strings(days)

	posts := make([]models.DayTopPost, 0, len(days))
	for _, day := range days {
		var top models.TopPost
		if err := json.Unmarshal([]byte(fields[day]), &top); err != nil {
			slog.Warn("malformed archived top post", "month", monthKey, "day", day, "error", err)
			continue
		}
		posts = append(posts, models.DayTopPost{Day: day, TopPost: top})
	}
	return posts, nil
}
