package remotetable

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/garciabuilder/profilesync/internal/common"
	"github.com/garciabuilder/profilesync/internal/mergex"
	"github.com/garciabuilder/profilesync/internal/snapshot"
	"github.com/garciabuilder/profilesync/internal/timex"
)

// Metric row groups. One row per (user, group, day, item key).
const (
	groupBody   = "body"
	groupWeight = "weight"
	groupPhoto  = "photo"
)

type bodyPayload struct {
	CurrentWeight *float64            `json:"current_weight,omitempty"`
	Height        *float64            `json:"height,omitempty"`
	TargetWeight  *float64            `json:"target_weight,omitempty"`
	BodyFatPct    *float64            `json:"body_fat_pct,omitempty"`
	MuscleMass    *float64            `json:"muscle_mass,omitempty"`
	Measurements  map[string]*float64 `json:"measurements,omitempty"`
}

type weightPayload struct {
	Weight   *float64 `json:"weight,omitempty"`
	ClientID string   `json:"client_id,omitempty"`
}

type photoPayload struct {
	Ref  string `json:"ref,omitempty"`
	Note string `json:"note,omitempty"`
}

const qSelectProfile = `
	SELECT email, full_name, phone, avatar_url, birthday, location, bio,
		goals, experience_level, coach_id, coach_name, joined_at, updated_at
	FROM profiles WHERE id = $1
`

const qSelectMetrics = `
	SELECT metric_group, entry_date, item_key, payload, updated_at
	FROM metric_rows WHERE user_id = $1
	ORDER BY entry_date, item_key
`

// Read assembles the relational fragment: the profiles row becomes the
// identity section and the metric rows become the body-metrics section.
func (a *Adapter) Read(ctx context.Context, userID string) (*snapshot.Snapshot, error) {
	snap := &snapshot.Snapshot{}

	foundProfile, err := a.readProfile(ctx, userID, snap)
	if err != nil {
		return nil, err
	}
	foundMetrics, err := a.readMetrics(ctx, userID, snap)
	if err != nil {
		return nil, err
	}

	if !foundProfile && !foundMetrics {
		return nil, common.ErrorNotFound
	}
	return snap, nil
}

func (a *Adapter) readProfile(ctx context.Context, userID string, snap *snapshot.Snapshot) (bool, error) {
	var goalsRaw []byte
	var joinedAt, updatedAt sql.NullTime

	id := &snap.Identity
	err := a.db.QueryRowContext(ctx, qSelectProfile, userID).Scan(
		&id.Email, &id.FullName, &id.Phone, &id.AvatarURL, &id.Birthday,
		&id.Location, &id.Bio, &goalsRaw, &id.ExperienceLevel,
		&id.CoachID, &id.CoachName, &joinedAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to select profile: %w", err)
	}

	id.ID = userID
	if len(goalsRaw) > 0 {
		if err := json.Unmarshal(goalsRaw, &id.Goals); err != nil {
			return false, fmt.Errorf("failed to decode goals: %w", err)
		}
	}
	if joinedAt.Valid {
		id.JoinedAt = joinedAt.Time.UTC()
	}
	if updatedAt.Valid {
		id.UpdatedAt = updatedAt.Time.UTC()
	}
	return true, nil
}

func (a *Adapter) readMetrics(ctx context.Context, userID string, snap *snapshot.Snapshot) (bool, error) {
	rows, err := a.db.QueryContext(ctx, qSelectMetrics, userID)
	if err != nil {
		return false, fmt.Errorf("failed to select metric rows: %w", err)
	}
	defer rows.Close()

	found := false
	bm := &snap.BodyMetrics
	for rows.Next() {
		var group, itemKey string
		var entryDay time.Time
		var payload []byte
		var updatedAt sql.NullTime
		if err := rows.Scan(&group, &entryDay, &itemKey, &payload, &updatedAt); err != nil {
			return false, fmt.Errorf("failed to scan metric row: %w", err)
		}
		found = true
		entryDate := timex.DayKey(entryDay)
		if updatedAt.Valid && updatedAt.Time.After(bm.UpdatedAt) {
			bm.UpdatedAt = updatedAt.Time.UTC()
		}

		switch group {
		case groupBody:
			var p bodyPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				a.log.Warn(ctx, "skipping undecodable body row", "user_id", userID, "date", entryDate, "error", err)
				continue
			}
			// Rows arrive in date order, so later days win field-by-field.
			bm.CurrentWeight = mergex.Ptr(bm.CurrentWeight, p.CurrentWeight)
			bm.Height = mergex.Ptr(bm.Height, p.Height)
			bm.TargetWeight = mergex.Ptr(bm.TargetWeight, p.TargetWeight)
			bm.BodyFatPct = mergex.Ptr(bm.BodyFatPct, p.BodyFatPct)
			bm.MuscleMass = mergex.Ptr(bm.MuscleMass, p.MuscleMass)
			bm.Measurements = mergex.Map(bm.Measurements, p.Measurements, mergex.Ptr)
		case groupWeight:
			var p weightPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				a.log.Warn(ctx, "skipping undecodable weight row", "user_id", userID, "date", entryDate, "error", err)
				continue
			}
			bm.WeightHistory = append(bm.WeightHistory, snapshot.WeightEntry{
				ClientID: p.ClientID,
				Date:     entryDate,
				Weight:   p.Weight,
			})
		case groupPhoto:
			var p photoPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				a.log.Warn(ctx, "skipping undecodable photo row", "user_id", userID, "date", entryDate, "error", err)
				continue
			}
			ref := p.Ref
			if ref == "" {
				ref = itemKey
			}
			bm.ProgressPhotos = append(bm.ProgressPhotos, snapshot.ProgressPhoto{
				Ref:  ref,
				Date: entryDate,
				Note: p.Note,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("failed to iterate metric rows: %w", err)
	}
	return found, nil
}
