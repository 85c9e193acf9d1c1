// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package jobs

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// archiveSpec fires at 00:00 UTC, right after the day rolls over.
const archiveSpec = "0 0 * * *"

// Scheduler runs the daily archive job on a cron timer pinned to UTC.
type Scheduler struct {
	cron     *cron.Cron
	archiver *Archiver
}

func NewScheduler(archiver *Archiver) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		archiver: archiver,
	}

	_, err := s.cron.AddFunc(archiveSpec, func() {
		if err := s.archiver.ArchiveYesterday(time.Now()); err != nil {
			slog.Error("scheduled archive failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("archive scheduler started", "spec", archiveSpec, "location", "UTC")
}

// Stop halts the timer and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("archive scheduler stopped")
}
