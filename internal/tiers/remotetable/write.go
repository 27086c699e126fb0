package remotetable

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garciabuilder/profilesync/internal/dbx"
	"github.com/garciabuilder/profilesync/internal/snapshot"
	"github.com/garciabuilder/profilesync/internal/timex"
)

const qUpsertProfile = `
	INSERT INTO profiles (id, email, full_name, phone, avatar_url, birthday, location, bio,
		goals, experience_level, coach_id, coach_name, joined_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id)
	DO UPDATE SET
		email = EXCLUDED.email,
		full_name = EXCLUDED.full_name,
		phone = EXCLUDED.phone,
		avatar_url = EXCLUDED.avatar_url,
		birthday = EXCLUDED.birthday,
		location = EXCLUDED.location,
		bio = EXCLUDED.bio,
		goals = EXCLUDED.goals,
		experience_level = EXCLUDED.experience_level,
		coach_id = EXCLUDED.coach_id,
		coach_name = EXCLUDED.coach_name,
		joined_at = COALESCE(profiles.joined_at, EXCLUDED.joined_at),
		updated_at = EXCLUDED.updated_at
`

const qUpsertMetricRow = `
	INSERT INTO metric_rows (user_id, metric_group, entry_date, item_key, payload, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, metric_group, entry_date, item_key)
	DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
`

// Write persists one supported section. The body-metrics section lands as a
// set of dated rows inside a single transaction so a failed save never
// leaves half a day behind.
func (a *Adapter) Write(ctx context.Context, userID string, sec snapshot.Section, snap *snapshot.Snapshot) error {
	switch sec {
	case snapshot.SectionIdentity:
		return a.writeIdentity(ctx, userID, snap)
	case snapshot.SectionBodyMetrics:
		return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return a.writeBodyMetrics(ctx, tx, userID, snap)
		})
	default:
		return fmt.Errorf("section %q not stored in relational tier", sec)
	}
}

func (a *Adapter) writeIdentity(ctx context.Context, userID string, snap *snapshot.Snapshot) error {
	id := snap.Identity
	goals, err := json.Marshal(id.Goals)
	if err != nil {
		return fmt.Errorf("failed to encode goals: %w", err)
	}

	var joinedAt any
	if !id.JoinedAt.IsZero() {
		joinedAt = id.JoinedAt.UTC()
	}

	_, err = a.db.ExecContext(ctx, qUpsertProfile,
		userID, id.Email, id.FullName, id.Phone, id.AvatarURL, id.Birthday,
		id.Location, id.Bio, goals, id.ExperienceLevel, id.CoachID, id.CoachName,
		joinedAt, stampOrNow(id.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (a *Adapter) writeBodyMetrics(ctx context.Context, tx dbx.DBTX, userID string, snap *snapshot.Snapshot) error {
	bm := snap.BodyMetrics
	now := stampOrNow(bm.UpdatedAt)

	body := bodyPayload{
		CurrentWeight: bm.CurrentWeight,
		Height:        bm.Height,
		TargetWeight:  bm.TargetWeight,
		BodyFatPct:    bm.BodyFatPct,
		MuscleMass:    bm.MuscleMass,
		Measurements:  bm.Measurements,
	}
	if err := upsertRow(ctx, tx, userID, groupBody, rowDay("", bm.UpdatedAt), "", body, now); err != nil {
		return err
	}

	for _, e := range bm.WeightHistory {
		day := rowDay(e.Date, bm.UpdatedAt)
		p := weightPayload{Weight: e.Weight, ClientID: e.ClientID}
		if err := upsertRow(ctx, tx, userID, groupWeight, day, "", p, now); err != nil {
			return err
		}
	}

	for _, ph := range bm.ProgressPhotos {
		key := ph.Ref
		if key == "" {
			key = ph.Date + "|" + ph.Note
		}
		day := rowDay(ph.Date, bm.UpdatedAt)
		p := photoPayload{Ref: ph.Ref, Note: ph.Note}
		if err := upsertRow(ctx, tx, userID, groupPhoto, day, key, p, now); err != nil {
			return err
		}
	}
	return nil
}

func upsertRow(ctx context.Context, tx dbx.DBTX, userID, group, day, itemKey string, payload any, updatedAt time.Time) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s row: %w", group, err)
	}
	if _, err := tx.ExecContext(ctx, qUpsertMetricRow, userID, group, day, itemKey, raw, updatedAt); err != nil {
		return fmt.Errorf("failed to upsert %s row: %w", group, err)
	}
	return nil
}

// rowDay picks a metric row's calendar day: the entry's own date when it
// parses, else the section's updated-at day, else today.
func rowDay(explicit string, updated time.Time) string {
	if d := timex.NormalizeDay(explicit); d != "" {
		return d
	}
	if !updated.IsZero() {
		return timex.DayKey(updated)
	}
	return timex.Today()
}

func stampOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
