package snapshot

import (
	"testing"
	"time"

	"github.com/garciabuilder/profilesync/internal/timex"
	"github.com/stretchr/testify/require"
)

func TestStreakCountsBackFromToday(t *testing.T) {
	today := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	h := Habits{Daily: map[string]HabitDay{
		"2026-08-28": {Workout: bptr(true)},
		"2026-08-27": {Steps: iptr(8000)},
		"2026-08-26": {Meditation: bptr(true)},
		// gap on the 25th
		"2026-08-24": {Workout: bptr(true)},
	}}

	require.Equal(t, 3, h.Streak(today))
}

func TestStreakSurvivesUnloggedToday(t *testing.T) {
	today := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	h := Habits{Daily: map[string]HabitDay{
		"2026-08-27": {Workout: bptr(true)},
		"2026-08-26": {Workout: bptr(true)},
	}}

	require.Equal(t, 2, h.Streak(today))
}

func TestStreakExplicitFalseBreaks(t *testing.T) {
	today := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	h := Habits{Daily: map[string]HabitDay{
		"2026-08-28": {Workout: bptr(true)},
		"2026-08-27": {Workout: bptr(false), SleepHours: fptr(0)},
		"2026-08-26": {Workout: bptr(true)},
	}}

	require.Equal(t, 1, h.Streak(today))
}

func TestStreakEmpty(t *testing.T) {
	require.Equal(t, 0, Habits{}.Streak(time.Now()))
}

func TestStreakUsesDayKeys(t *testing.T) {
	today := time.Now().UTC()
	h := Habits{Daily: map[string]HabitDay{
		timex.DayKey(today): {Workout: bptr(true)},
	}}
	require.Equal(t, 1, h.Streak(today))
}
