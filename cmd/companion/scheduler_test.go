package main

import (
	"testing"
	"time"
)

func newYorkScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := NewScheduler(9, 45, 15, 45, 30*time.Minute, "America/New_York")
	if s.Location().String() != "America/New_York" {
		t.Skip("tzdata unavailable")
	}
	return s
}

func easternTime(t *testing.T, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

func TestShouldRunInsideWindow(t *testing.T) {
	s := newYorkScheduler(t)

	// Friday 2026-08-28, mid-session
	now := easternTime(t, 2026, time.August, 28, 11, 0)
	if !s.ShouldRun(now, time.Time{}) {
		t.Error("mid-session trading day should run")
	}
}

func TestShouldRunRejectsWeekend(t *testing.T) {
	s := newYorkScheduler(t)

	saturday := easternTime(t, 2026, time.August, 29, 11, 0)
	if s.ShouldRun(saturday, time.Time{}) {
		t.Error("Saturday must not run")
	}
}

func TestShouldRunRejectsHoliday(t *testing.T) {
	s := newYorkScheduler(t)

	// Independence Day observed Friday 2026-07-03
	holiday := easternTime(t, 2026, time.July, 3, 11, 0)
	if s.ShouldRun(holiday, time.Time{}) {
		t.Error("market holiday must not run")
	}
}

func TestShouldRunWindowEdges(t *testing.T) {
	s := newYorkScheduler(t)

	cases := []struct {
		name string
		hour int
		min  int
		want bool
	}{
		{"before open", 9, 30, false},
		{"at open", 9, 45, true},
		{"at close", 15, 45, true},
		{"after close", 16, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := easternTime(t, 2026, time.August, 28, tc.hour, tc.min)
			if got := s.ShouldRun(now, time.Time{}); got != tc.want {
				t.Errorf("ShouldRun(%02d:%02d) = %v, want %v", tc.hour, tc.min, got, tc.want)
			}
		})
	}
}

func TestShouldRunRespectsInterval(t *testing.T) {
	s := newYorkScheduler(t)

	now := easternTime(t, 2026, time.August, 28, 11, 0)

	if s.ShouldRun(now, now.Add(-10*time.Minute)) {
		t.Error("ran 10 minutes ago with a 30-minute interval; must wait")
	}
	if !s.ShouldRun(now, now.Add(-31*time.Minute)) {
		t.Error("interval elapsed; should run")
	}
}
