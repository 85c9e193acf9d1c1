// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/thing-of-the-day/testutil"
)

// TestConcurrentVotes verifies that simultaneous votes from different
// users all land on the day record with none lost
func TestConcurrentVotes(t *testing.T) {
	g := New(testutil.SetupTestStore(t))

	if _, err := g.Submit("author", "The card", today); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	numVoters := 20
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			username := fmt.Sprintf("voter%d", voterIdx)
			if _, err := g.Vote(username, 1, today); err == nil {
				successCount.Add(1)
			} else {
				t.Errorf("Vote by %s failed: %v", username, err)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	// Every increment must be present in the stored record
	snap, err := g.Snapshot("author", today)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(snap.Cards))
	}
	if snap.Cards[0].Votes != numVoters {
		t.Errorf("Expected %d votes, got %d", numVoters, snap.Cards[0].Votes)
	}
}

// TestConcurrentFirstSubmits verifies that simultaneous submissions
// racing to create an empty day's record all survive
func TestConcurrentFirstSubmits(t *testing.T) {
	g := New(testutil.SetupTestStore(t))

	numUsers := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numUsers; i++ {
		wg.Add(1)
		go func(userIdx int) {
			defer wg.Done()

			username := fmt.Sprintf("user%d", userIdx)
			if _, err := g.Submit(username, "Card by "+username, today); err == nil {
				successCount.Add(1)
			} else {
				t.Errorf("Submit by %s failed: %v", username, err)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numUsers {
		t.Errorf("Expected %d successful submissions, got %d", numUsers, successCount.Load())
	}

	snap, err := g.Snapshot("user0", today)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Cards) != numUsers {
		t.Fatalf("Expected %d cards, got %d: %+v", numUsers, len(snap.Cards), snap.Cards)
	}

	// No card was overwritten and no user posted twice
	seen := make(map[string]bool)
	for _, c := range snap.Cards {
		if seen[c.Username] {
			t.Errorf("Duplicate card for %s", c.Username)
		}
		seen[c.Username] = true
	}

	// The daily allowance was consumed for everyone
	for i := 0; i < numUsers; i++ {
		username := fmt.Sprintf("user%d", i)
		if _, err := g.Submit(username, "Second attempt", today); err == nil {
			t.Errorf("Expected second submit by %s to be rejected", username)
		}
	}
}
