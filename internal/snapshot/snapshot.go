// Package snapshot defines the in-memory profile record, built from
// independently mergeable sections assembled from whatever fragments the
// storage tiers yield, and the merge rules that keep it consistent:
// last-non-empty-wins
// scalars, key-by-key nested merges, and deduplicating keyed-list merges
// for weight history and progress photos.
//
// Optional numeric and boolean fields are pointers so that an explicit 0 or
// false survives merging; only nil pointers, empty strings, and zero times
// are treated as absent.
package snapshot

import "time"

// Section names a logical, independently savable part of the snapshot.
type Section string

const (
	SectionIdentity    Section = "identity"
	SectionBodyMetrics Section = "body_metrics"
	SectionMacros      Section = "macros"
	SectionPreferences Section = "preferences"
	SectionHabits      Section = "habits"
	SectionActivity    Section = "activity"
)

// Sections lists every section in save order.
var Sections = []Section{
	SectionIdentity, SectionBodyMetrics, SectionMacros,
	SectionPreferences, SectionHabits, SectionActivity,
}

func (s Section) Valid() bool {
	switch s {
	case SectionIdentity, SectionBodyMetrics, SectionMacros,
		SectionPreferences, SectionHabits, SectionActivity:
		return true
	}
	return false
}

// Snapshot is the complete profile. A partial Snapshot (most fields at
// their zero values) doubles as a fragment read from a single tier; the
// merge rules guarantee that zero values never erase existing data, so
// folding fragments in priority order is safe.
type Snapshot struct {
	Identity    Identity    `json:"identity"`
	BodyMetrics BodyMetrics `json:"body_metrics"`
	Macros      Macros      `json:"macros"`
	Preferences Preferences `json:"preferences"`
	Habits      Habits      `json:"habits"`
	Activity    Activity    `json:"activity"`
}

// Identity holds account-level scalar fields.
type Identity struct {
	ID              string    `json:"id,omitempty"`
	Email           string    `json:"email,omitempty"`
	FullName        string    `json:"full_name,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Birthday        string    `json:"birthday,omitempty"` // YYYY-MM-DD
	Location        string    `json:"location,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Goals           []string  `json:"goals,omitempty"`
	ExperienceLevel string    `json:"experience_level,omitempty"`
	CoachID         string    `json:"coach_id,omitempty"`
	CoachName       string    `json:"coach_name,omitempty"`
	JoinedAt        time.Time `json:"joined_at,omitzero"`
	LastSeenAt      time.Time `json:"last_seen_at,omitzero"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`
}

// WeightEntry is one weight-history point; at most one entry exists per
// calendar day.
type WeightEntry struct {
	ClientID string   `json:"client_id,omitempty"`
	Date     string   `json:"date"` // YYYY-MM-DD
	Weight   *float64 `json:"weight,omitempty"`
}

// ProgressPhoto records an uploaded progress image by storage reference.
type ProgressPhoto struct {
	Ref  string `json:"ref,omitempty"`
	Date string `json:"date,omitempty"` // YYYY-MM-DD
	Note string `json:"note,omitempty"`
}

// BodyMetrics holds current measurements plus the two keyed lists.
type BodyMetrics struct {
	CurrentWeight  *float64            `json:"current_weight,omitempty"`
	Height         *float64            `json:"height,omitempty"`
	TargetWeight   *float64            `json:"target_weight,omitempty"`
	BodyFatPct     *float64            `json:"body_fat_pct,omitempty"`
	MuscleMass     *float64            `json:"muscle_mass,omitempty"`
	Measurements   map[string]*float64 `json:"measurements,omitempty"` // chest, waist, hips, arms, thighs
	WeightHistory  []WeightEntry       `json:"weight_history,omitempty"`
	ProgressPhotos []ProgressPhoto     `json:"progress_photos,omitempty"`
	CreatedAt      time.Time           `json:"created_at,omitzero"`
	UpdatedAt      time.Time           `json:"updated_at,omitzero"`
}

// Macros is the nutrition target record. The three percentage fields must
// sum to 100; Normalize enforces the invariant.
type Macros struct {
	Goal          string    `json:"goal,omitempty"`           // cut, maintain, bulk
	ActivityLevel string    `json:"activity_level,omitempty"` // sedentary .. athlete
	Calories      *int      `json:"calories,omitempty"`
	ProteinPct    *int      `json:"protein_pct,omitempty"`
	CarbsPct      *int      `json:"carbs_pct,omitempty"`
	FatsPct       *int      `json:"fats_pct,omitempty"`
	ProteinG      *int      `json:"protein_g,omitempty"`
	CarbsG        *int      `json:"carbs_g,omitempty"`
	FatsG         *int      `json:"fats_g,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
}

// Notifications are per-channel toggles.
type Notifications struct {
	Email     *bool `json:"email,omitempty"`
	Push      *bool `json:"push,omitempty"`
	Reminders *bool `json:"reminders,omitempty"`
}

// Privacy are visibility toggles.
type Privacy struct {
	ProfileVisible  *bool `json:"profile_visible,omitempty"`
	ProgressVisible *bool `json:"progress_visible,omitempty"`
}

// Preferences holds display and notification settings.
type Preferences struct {
	Units         string        `json:"units,omitempty"` // metric or imperial
	Theme         string        `json:"theme,omitempty"`
	Language      string        `json:"language,omitempty"`
	Notifications Notifications `json:"notifications,omitzero"`
	Privacy       Privacy       `json:"privacy,omitzero"`
	UpdatedAt     time.Time     `json:"updated_at,omitzero"`
}

// HabitDay is one day's habit record. Boolean flags are pointers: an
// explicit false means "not done today" and must survive merging.
type HabitDay struct {
	WaterML    *int     `json:"water_ml,omitempty"`
	Steps      *int     `json:"steps,omitempty"`
	SleepHours *float64 `json:"sleep_hours,omitempty"`
	Workout    *bool    `json:"workout,omitempty"`
	Meditation *bool    `json:"meditation,omitempty"`
	Stretch    *bool    `json:"stretch,omitempty"`
}

// Habits maps calendar day keys (YYYY-MM-DD) to daily records.
type Habits struct {
	Daily     map[string]HabitDay `json:"daily,omitempty"`
	UpdatedAt time.Time           `json:"updated_at,omitzero"`
}

// Activity holds aggregate counters maintained by workout flows.
type Activity struct {
	WorkoutsCompleted *int      `json:"workouts_completed,omitempty"`
	TotalSessions     *int      `json:"total_sessions,omitempty"`
	StreakDays        *int      `json:"streak_days,omitempty"`
	LastWorkout       time.Time `json:"last_workout,omitzero"`
	Achievements      []string  `json:"achievements,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitzero"`
}

// New returns an all-empty snapshot carrying only what the authentication
// context knows. Used when no tier yields any fragment.
func New(userID, email, fullName string) *Snapshot {
	now := time.Now().UTC()
	return &Snapshot{
		Identity: Identity{
			ID:       userID,
			Email:    email,
			FullName: fullName,
			JoinedAt: now,
		},
	}
}

// StampUpdated sets the section's updated-at timestamp.
func (s *Snapshot) StampUpdated(sec Section, t time.Time) {
	switch sec {
	case SectionIdentity:
		s.Identity.UpdatedAt = t
	case SectionBodyMetrics:
		s.BodyMetrics.UpdatedAt = t
	case SectionMacros:
		s.Macros.UpdatedAt = t
	case SectionPreferences:
		s.Preferences.UpdatedAt = t
	case SectionHabits:
		s.Habits.UpdatedAt = t
	case SectionActivity:
		s.Activity.UpdatedAt = t
	}
}

// UpdatedAt reports the section's updated-at timestamp.
func (s *Snapshot) UpdatedAt(sec Section) time.Time {
	switch sec {
	case SectionIdentity:
		return s.Identity.UpdatedAt
	case SectionBodyMetrics:
		return s.BodyMetrics.UpdatedAt
	case SectionMacros:
		return s.Macros.UpdatedAt
	case SectionPreferences:
		return s.Preferences.UpdatedAt
	case SectionHabits:
		return s.Habits.UpdatedAt
	case SectionActivity:
		return s.Activity.UpdatedAt
	}
	return time.Time{}
}
