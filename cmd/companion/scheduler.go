package main

import (
	"time"

	"github.com/scmhub/calendar"
)

// Scheduler gates checkpoint runs to NYSE business days inside the
// configured market-hours window.
type Scheduler struct {
	openHour    int
	openMinute  int
	closeHour   int
	closeMinute int
	interval    time.Duration
	location    *time.Location
	nyse        *calendar.Calendar
}

// NewScheduler creates a scheduler for the given window and timezone.
func NewScheduler(openHour, openMinute, closeHour, closeMinute int, interval time.Duration, timezone string) *Scheduler {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Scheduler{
		openHour:    openHour,
		openMinute:  openMinute,
		closeHour:   closeHour,
		closeMinute: closeMinute,
		interval:    interval,
		location:    loc,
		nyse:        calendar.XNYS(),
	}
}

// ShouldRun reports whether a checkpoint is due: a trading day, inside the
// window, and at least one interval since the last run.
func (s *Scheduler) ShouldRun(now, lastRun time.Time) bool {
	local := now.In(s.location)

	if !s.nyse.IsBusinessDay(local) {
		return false
	}
	if !s.inWindow(local) {
		return false
	}
	if !lastRun.IsZero() && now.Sub(lastRun) < s.interval {
		return false
	}
	return true
}

func (s *Scheduler) inWindow(local time.Time) bool {
	minutes := local.Hour()*60 + local.Minute()
	openM := s.openHour*60 + s.openMinute
	closeM := s.closeHour*60 + s.closeMinute
	return minutes >= openM && minutes <= closeM
}

// Location returns the scheduler's timezone location
func (s *Scheduler) Location() *time.Location {
	return s.location
}
