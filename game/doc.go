// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package game implements the daily card rules: one card and one vote
// per user per UTC day, plus reads over the archived top posts.
//
// All mutations run through kv.Store.Update so that concurrent
// submissions and votes never lose updates.
package game
