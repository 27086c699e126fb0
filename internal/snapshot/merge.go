package snapshot

import (
	"github.com/garciabuilder/profilesync/internal/mergex"
	"github.com/garciabuilder/profilesync/internal/timex"
)

// DefaultWeightHistoryCap bounds weight-history retention: only the most
// recent entries are kept so the local cache cannot grow without bound.
const DefaultWeightHistoryCap = 50

// MergeOptions tune the merge rules.
type MergeOptions struct {
	// WeightHistoryCap overrides DefaultWeightHistoryCap when positive.
	WeightHistoryCap int
}

func (o MergeOptions) cap() int {
	if o.WeightHistoryCap > 0 {
		return o.WeightHistoryCap
	}
	return DefaultWeightHistoryCap
}

// Merge folds every section of incoming into dst.
func Merge(dst *Snapshot, incoming *Snapshot, opts MergeOptions) {
	for _, sec := range Sections {
		MergeSection(dst, sec, incoming, opts)
	}
}

// MergeSection folds one section of incoming into dst. Scalars follow
// last-non-empty-wins, nested objects are merged key-by-key, and the keyed
// lists are deduplicated by derived key with the later value winning.
func MergeSection(dst *Snapshot, sec Section, incoming *Snapshot, opts MergeOptions) {
	if incoming == nil {
		return
	}
	switch sec {
	case SectionIdentity:
		dst.Identity = mergeIdentity(dst.Identity, incoming.Identity)
	case SectionBodyMetrics:
		dst.BodyMetrics = mergeBodyMetrics(dst.BodyMetrics, incoming.BodyMetrics, opts)
	case SectionMacros:
		dst.Macros = mergeMacros(dst.Macros, incoming.Macros)
	case SectionPreferences:
		dst.Preferences = mergePreferences(dst.Preferences, incoming.Preferences)
	case SectionHabits:
		dst.Habits = mergeHabits(dst.Habits, incoming.Habits)
	case SectionActivity:
		dst.Activity = mergeActivity(dst.Activity, incoming.Activity)
	}
}

func mergeIdentity(existing, incoming Identity) Identity {
	return Identity{
		// The id is resolved once per session; an empty incoming value
		// never clears it.
		ID:              mergex.Str(existing.ID, incoming.ID),
		Email:           mergex.Str(existing.Email, incoming.Email),
		FullName:        mergex.Str(existing.FullName, incoming.FullName),
		Phone:           mergex.Str(existing.Phone, incoming.Phone),
		AvatarURL:       mergex.Str(existing.AvatarURL, incoming.AvatarURL),
		Birthday:        mergex.Str(existing.Birthday, normalizeBirthday(incoming.Birthday)),
		Location:        mergex.Str(existing.Location, incoming.Location),
		Bio:             mergex.Str(existing.Bio, incoming.Bio),
		Goals:           mergex.Slice(existing.Goals, incoming.Goals),
		ExperienceLevel: mergex.Str(existing.ExperienceLevel, incoming.ExperienceLevel),
		CoachID:         mergex.Str(existing.CoachID, incoming.CoachID),
		CoachName:       mergex.Str(existing.CoachName, incoming.CoachName),
		JoinedAt:        mergex.Time(existing.JoinedAt, incoming.JoinedAt),
		LastSeenAt:      mergex.Time(existing.LastSeenAt, incoming.LastSeenAt),
		UpdatedAt:       mergex.Time(existing.UpdatedAt, incoming.UpdatedAt),
	}
}

func normalizeBirthday(v string) string {
	if v == "" {
		return ""
	}
	if day := timex.NormalizeDay(v); day != "" {
		return day
	}
	return v
}

func mergeBodyMetrics(existing, incoming BodyMetrics, opts MergeOptions) BodyMetrics {
	out := BodyMetrics{
		CurrentWeight: mergex.Ptr(existing.CurrentWeight, incoming.CurrentWeight),
		Height:        mergex.Ptr(existing.Height, incoming.Height),
		TargetWeight:  mergex.Ptr(existing.TargetWeight, incoming.TargetWeight),
		BodyFatPct:    mergex.Ptr(existing.BodyFatPct, incoming.BodyFatPct),
		MuscleMass:    mergex.Ptr(existing.MuscleMass, incoming.MuscleMass),
		Measurements:  mergex.Map(existing.Measurements, incoming.Measurements, mergex.Ptr),
		CreatedAt:     mergex.Time(existing.CreatedAt, incoming.CreatedAt),
		UpdatedAt:     mergex.Time(existing.UpdatedAt, incoming.UpdatedAt),
	}
	out.WeightHistory = MergeWeightHistory(existing.WeightHistory, incoming.WeightHistory, opts.cap())
	out.ProgressPhotos = MergeProgressPhotos(existing.ProgressPhotos, incoming.ProgressPhotos)
	return out
}

func mergeMacros(existing, incoming Macros) Macros {
	out := Macros{
		Goal:          mergex.Str(existing.Goal, incoming.Goal),
		ActivityLevel: mergex.Str(existing.ActivityLevel, incoming.ActivityLevel),
		Calories:      mergex.Ptr(existing.Calories, incoming.Calories),
		ProteinPct:    mergex.Ptr(existing.ProteinPct, incoming.ProteinPct),
		CarbsPct:      mergex.Ptr(existing.CarbsPct, incoming.CarbsPct),
		FatsPct:       mergex.Ptr(existing.FatsPct, incoming.FatsPct),
		ProteinG:      mergex.Ptr(existing.ProteinG, incoming.ProteinG),
		CarbsG:        mergex.Ptr(existing.CarbsG, incoming.CarbsG),
		FatsG:         mergex.Ptr(existing.FatsG, incoming.FatsG),
		UpdatedAt:     mergex.Time(existing.UpdatedAt, incoming.UpdatedAt),
	}
	out.Normalize()
	return out
}

func mergePreferences(existing, incoming Preferences) Preferences {
	return Preferences{
		Units:    mergex.Str(existing.Units, incoming.Units),
		Theme:    mergex.Str(existing.Theme, incoming.Theme),
		Language: mergex.Str(existing.Language, incoming.Language),
		Notifications: Notifications{
			Email:     mergex.Ptr(existing.Notifications.Email, incoming.Notifications.Email),
			Push:      mergex.Ptr(existing.Notifications.Push, incoming.Notifications.Push),
			Reminders: mergex.Ptr(existing.Notifications.Reminders, incoming.Notifications.Reminders),
		},
		Privacy: Privacy{
			ProfileVisible:  mergex.Ptr(existing.Privacy.ProfileVisible, incoming.Privacy.ProfileVisible),
			ProgressVisible: mergex.Ptr(existing.Privacy.ProgressVisible, incoming.Privacy.ProgressVisible),
		},
		UpdatedAt: mergex.Time(existing.UpdatedAt, incoming.UpdatedAt),
	}
}

func mergeHabitDay(existing, incoming HabitDay) HabitDay {
	return HabitDay{
		WaterML:    mergex.Ptr(existing.WaterML, incoming.WaterML),
		Steps:      mergex.Ptr(existing.Steps, incoming.Steps),
		SleepHours: mergex.Ptr(existing.SleepHours, incoming.SleepHours),
		Workout:    mergex.Ptr(existing.Workout, incoming.Workout),
		Meditation: mergex.Ptr(existing.Meditation, incoming.Meditation),
		Stretch:    mergex.Ptr(existing.Stretch, incoming.Stretch),
	}
}

func mergeHabits(existing, incoming Habits) Habits {
	return Habits{
		Daily:     mergex.Map(existing.Daily, incoming.Daily, mergeHabitDay),
		UpdatedAt: mergex.Time(existing.UpdatedAt, incoming.UpdatedAt),
	}
}

func mergeActivity(existing, incoming Activity) Activity {
	return Activity{
		WorkoutsCompleted: mergex.Ptr(existing.WorkoutsCompleted, incoming.WorkoutsCompleted),
		TotalSessions:     mergex.Ptr(existing.TotalSessions, incoming.TotalSessions),
		StreakDays:        mergex.Ptr(existing.StreakDays, incoming.StreakDays),
		LastWorkout:       mergex.Time(existing.LastWorkout, incoming.LastWorkout),
		Achievements:      mergex.Slice(existing.Achievements, incoming.Achievements),
		UpdatedAt:         mergex.Time(existing.UpdatedAt, incoming.UpdatedAt),
	}
}
