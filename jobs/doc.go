// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package jobs holds the daily archive job and its cron scheduler.
//
// At 00:00 UTC the scheduler condenses the day that just ended into
// its single top-voted post and files it under the month's archive
// hash. The job is idempotent; admins can re-run it for any day.
package jobs
