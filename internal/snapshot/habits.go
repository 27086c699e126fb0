package snapshot

import (
	"time"

	"github.com/garciabuilder/profilesync/internal/timex"
)

// done reports whether any habit was completed that day.
func (d HabitDay) done() bool {
	if d.Workout != nil && *d.Workout {
		return true
	}
	if d.Meditation != nil && *d.Meditation {
		return true
	}
	if d.Stretch != nil && *d.Stretch {
		return true
	}
	if d.WaterML != nil && *d.WaterML > 0 {
		return true
	}
	if d.Steps != nil && *d.Steps > 0 {
		return true
	}
	if d.SleepHours != nil && *d.SleepHours > 0 {
		return true
	}
	return false
}

// Streak counts consecutive days with at least one completed habit, walking
// back from the given day. A gap today does not break the streak if
// yesterday completed, so an evening save before logging still shows the
// running streak.
func (h Habits) Streak(today time.Time) int {
	day := today
	if d, ok := h.Daily[timex.DayKey(day)]; !ok || !d.done() {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		d, ok := h.Daily[timex.DayKey(day)]
		if !ok || !d.done() {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}
