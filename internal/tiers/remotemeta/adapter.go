// Package remotemeta implements the user-metadata storage tier: profile
// sections kept as JSON values inside the auth server's user_metadata
// object, reached through the GoTrue admin REST API. It is the remote home
// for every section the relational tier does not model as rows.
package remotemeta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/garciabuilder/profilesync/internal/common"
	"github.com/garciabuilder/profilesync/internal/logging"
	"github.com/garciabuilder/profilesync/internal/snapshot"
)

// Adapter talks to the auth admin API with a service-role token.
type Adapter struct {
	client *resty.Client
	log    logging.Logger
}

// New builds the tier. baseURL points at the auth server root (the admin
// endpoints live under /admin), apiKey is the project key, and serviceToken
// a service-role JWT authorizing admin calls.
func New(baseURL, apiKey, serviceToken string, timeout time.Duration, log logging.Logger) *Adapter {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("apikey", apiKey).
		SetAuthToken(serviceToken).
		SetTimeout(timeout)

	return &Adapter{client: c, log: log}
}

func (a *Adapter) Name() string { return "remote_meta" }

// Supports accepts every section: the metadata blob is the remote fallback
// for everything the relational tier cannot hold as rows.
func (a *Adapter) Supports(sec snapshot.Section) bool { return sec.Valid() }

// metaKey namespaces section values inside user_metadata so unrelated
// application keys survive untouched.
func metaKey(sec snapshot.Section) string { return "profile_" + string(sec) }

type userPayload struct {
	UserMetadata map[string]json.RawMessage `json:"user_metadata"`
}

func (a *Adapter) fetchMetadata(ctx context.Context, userID string) (map[string]json.RawMessage, error) {
	var user userPayload
	resp, err := a.client.R().
		SetContext(ctx).
		SetResult(&user).
		Get("/admin/users/" + userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, common.ErrorNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: admin user fetch status %d", common.ErrRemoteUnavailable, resp.StatusCode())
	}
	return user.UserMetadata, nil
}

// Read decodes every profile_* key present in user_metadata into its
// snapshot section.
func (a *Adapter) Read(ctx context.Context, userID string) (*snapshot.Snapshot, error) {
	meta, err := a.fetchMetadata(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap := &snapshot.Snapshot{}
	found := false
	for _, sec := range snapshot.Sections {
		raw, ok := meta[metaKey(sec)]
		if !ok {
			continue
		}
		if err := decodeSection(snap, sec, raw); err != nil {
			a.log.Warn(ctx, "skipping undecodable metadata section", "user_id", userID, "section", sec, "error", err)
			continue
		}
		found = true
	}
	if !found {
		return nil, common.ErrorNotFound
	}
	return snap, nil
}

// Write read-modify-writes the metadata object: a fresh copy is fetched,
// the single section key replaced, and the whole object put back.
func (a *Adapter) Write(ctx context.Context, userID string, sec snapshot.Section, snap *snapshot.Snapshot) error {
	meta, err := a.fetchMetadata(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	if meta == nil {
		meta = make(map[string]json.RawMessage, 1)
	}

	raw, err := encodeSection(snap, sec)
	if err != nil {
		return err
	}
	meta[metaKey(sec)] = raw

	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(userPayload{UserMetadata: meta}).
		Put("/admin/users/" + userID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: admin user update status %d", common.ErrRemoteUnavailable, resp.StatusCode())
	}
	return nil
}

func encodeSection(snap *snapshot.Snapshot, sec snapshot.Section) (json.RawMessage, error) {
	var v any
	switch sec {
	case snapshot.SectionIdentity:
		v = snap.Identity
	case snapshot.SectionBodyMetrics:
		v = snap.BodyMetrics
	case snapshot.SectionMacros:
		v = snap.Macros
	case snapshot.SectionPreferences:
		v = snap.Preferences
	case snapshot.SectionHabits:
		v = snap.Habits
	case snapshot.SectionActivity:
		v = snap.Activity
	default:
		return nil, common.ErrUnknownSection
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode section %s: %w", sec, err)
	}
	return raw, nil
}

func decodeSection(snap *snapshot.Snapshot, sec snapshot.Section, raw json.RawMessage) error {
	switch sec {
	case snapshot.SectionIdentity:
		return json.Unmarshal(raw, &snap.Identity)
	case snapshot.SectionBodyMetrics:
		return json.Unmarshal(raw, &snap.BodyMetrics)
	case snapshot.SectionMacros:
		return json.Unmarshal(raw, &snap.Macros)
	case snapshot.SectionPreferences:
		return json.Unmarshal(raw, &snap.Preferences)
	case snapshot.SectionHabits:
		return json.Unmarshal(raw, &snap.Habits)
	case snapshot.SectionActivity:
		return json.Unmarshal(raw, &snap.Activity)
	}
	return common.ErrUnknownSection
}
