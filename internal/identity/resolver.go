// Package identity resolves which user a load or save belongs to. The
// session is authoritative, but sessions go stale: the resolver falls back
// to the access token's subject claim, then to the cached current-user
// record, then to the snapshot itself, before giving up.
package identity

import (
	"context"
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"

	"github.com/garciabuilder/profilesync/internal/common"
	"github.com/garciabuilder/profilesync/internal/logging"
	"github.com/garciabuilder/profilesync/internal/snapshot"
	"github.com/garciabuilder/profilesync/internal/tiers/localcache"
)

// Session is the authentication context handed in by the caller. All fields
// are optional; an all-empty session means a guest.
type Session struct {
	UserID      string
	AccessToken string
	Email       string
	FullName    string
}

// Record is the cached current-user entry, written after each successful
// resolution so the next cold start can identify the user offline.
type Record struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// Cache is the subset of the local cache the resolver needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

type Resolver struct {
	cache Cache
	log   logging.Logger
}

func NewResolver(cache Cache, log logging.Logger) *Resolver {
	return &Resolver{cache: cache, log: log}
}

// Resolve returns the active user id. Sources are tried in order of
// trustworthiness: explicit session id, token subject, cached record,
// snapshot identity. common.ErrNoActiveUser means a guest.
func (r *Resolver) Resolve(ctx context.Context, sess *Session, snap *snapshot.Snapshot) (string, error) {
	if sess != nil {
		if sess.UserID != "" {
			return sess.UserID, nil
		}
		if sub := subjectFromToken(sess.AccessToken); sub != "" {
			r.log.Debug(ctx, "user id recovered from access token subject")
			return sub, nil
		}
	}

	if rec, err := r.Cached(ctx); err == nil && rec.ID != "" {
		r.log.Debug(ctx, "user id recovered from cached record", "user_id", rec.ID)
		return rec.ID, nil
	}

	if snap != nil && snap.Identity.ID != "" {
		return snap.Identity.ID, nil
	}

	return "", common.ErrNoActiveUser
}

// Cached returns the stored current-user record, or a zero Record when none
// exists.
func (r *Resolver) Cached(ctx context.Context) (Record, error) {
	raw, err := r.cache.Get(ctx, localcache.CurrentUserKey)
	if err != nil || len(raw) == 0 {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Remember persists the current-user record for offline resolution.
func (r *Resolver) Remember(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return nil
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.cache.Put(ctx, localcache.CurrentUserKey, raw)
}

// subjectFromToken extracts the sub claim without verifying the signature.
// The token is only a hint for resolution; authorization happens at the
// remote tiers.
func subjectFromToken(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
