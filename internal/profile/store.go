// Package profile wires the storage tiers into the load and save pipelines:
// loads fold tier fragments into one snapshot, saves fan a section out to
// every applicable tier and always land in the local cache, verified by a
// read-back compare. A per-section guard drops duplicate saves while one is
// in flight.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garciabuilder/profilesync/internal/common"
	"github.com/garciabuilder/profilesync/internal/identity"
	"github.com/garciabuilder/profilesync/internal/logging"
	"github.com/garciabuilder/profilesync/internal/snapshot"
	"github.com/garciabuilder/profilesync/internal/tiers"
	"github.com/garciabuilder/profilesync/internal/tiers/localcache"
)

// Cache is the subset of the local cache the store needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Outcome reports where a save landed.
type Outcome string

const (
	// OutcomeSynced means at least one remote tier accepted the section and
	// the local cache write verified.
	OutcomeSynced Outcome = "synced"
	// OutcomeLocalOnly means every applicable remote write failed but the
	// local cache holds the data.
	OutcomeLocalOnly Outcome = "local_only"
	// OutcomeFailed means even the local cache write failed.
	OutcomeFailed Outcome = "failed"
)

// Options tune the store.
type Options struct {
	WeightHistoryCap int
}

// Store owns the in-memory snapshot and runs the pipelines against the
// configured tiers.
type Store struct {
	mu       sync.Mutex
	inflight map[snapshot.Section]struct{}
	snap     *snapshot.Snapshot
	userID   string

	remotes  []tiers.Tier
	cache    Cache
	resolver *identity.Resolver
	log      logging.Logger
	opts     snapshot.MergeOptions
	now      func() time.Time
}

func NewStore(remotes []tiers.Tier, cache Cache, resolver *identity.Resolver, log logging.Logger, opts Options) *Store {
	return &Store{
		inflight: make(map[snapshot.Section]struct{}),
		snap:     &snapshot.Snapshot{},
		remotes:  remotes,
		cache:    cache,
		resolver: resolver,
		log:      log,
		opts:     snapshot.MergeOptions{WeightHistoryCap: opts.WeightHistoryCap},
		now:      time.Now,
	}
}

// Load assembles the snapshot for the session's user: remote fragments
// first, then the local cache, which is most authoritative and folds last.
// A guest session loads the guest cache copy only.
func (s *Store) Load(ctx context.Context, sess *identity.Session) (*snapshot.Snapshot, error) {
	userID, err := s.resolver.Resolve(ctx, sess, nil)
	if err != nil && !errors.Is(err, common.ErrNoActiveUser) {
		return nil, err
	}

	if userID == "" {
		snap := &snapshot.Snapshot{}
		s.foldLocal(ctx, localcache.GuestKey, snap)
		fillDefaults(snap, sess)
		s.setState("", snap)
		return s.Snapshot(), nil
	}

	// Seed with a fresh record so a brand-new user gets a joined-at stamp;
	// any stored timestamp folds over it.
	snap := snapshot.New(userID, "", "")

	for _, tier := range s.remotes {
		frag, err := tier.Read(ctx, userID)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				s.log.Warn(ctx, "remote tier read failed", "tier", tier.Name(), "error", err)
			}
			continue
		}
		snapshot.Merge(snap, frag, s.opts)
	}

	s.migrateGuest(ctx, userID, snap)
	s.foldLocal(ctx, localcache.UserKey(userID), snap)

	snap.Identity.ID = userID
	fillDefaults(snap, sess)

	if err := s.resolver.Remember(ctx, identity.Record{
		ID:       userID,
		Email:    snap.Identity.Email,
		FullName: snap.Identity.FullName,
	}); err != nil {
		s.log.Warn(ctx, "failed to cache current user record", "error", err)
	}

	// Persist the merged view so the next cold start sees it even if the
	// remotes are down.
	if raw, err := json.Marshal(snap); err == nil {
		if err := s.cache.Put(ctx, localcache.UserKey(userID), raw); err != nil {
			s.log.Warn(ctx, "failed to persist merged snapshot", "error", err)
		}
	}

	s.setState(userID, snap)
	return s.Snapshot(), nil
}

// migrateGuest folds the guest cache copy into the account snapshot exactly
// once per user. The guest fragment folds before the user's own cache copy,
// so account data wins conflicts.
func (s *Store) migrateGuest(ctx context.Context, userID string, snap *snapshot.Snapshot) {
	flag, err := s.cache.Get(ctx, localcache.MigratedKey(userID))
	if err != nil || len(flag) > 0 {
		return
	}

	raw, err := s.cache.Get(ctx, localcache.GuestKey)
	if err != nil {
		return
	}
	if len(raw) > 0 {
		var frag snapshot.Snapshot
		if err := json.Unmarshal(raw, &frag); err == nil {
			// The guest copy never carries the account id.
			frag.Identity.ID = ""
			snapshot.Merge(snap, &frag, s.opts)
			s.log.Info(ctx, "guest data migrated into account", "user_id", userID)
		}
	}

	if err := s.cache.Put(ctx, localcache.MigratedKey(userID), []byte("1")); err != nil {
		s.log.Warn(ctx, "failed to mark guest migration", "user_id", userID, "error", err)
	}
}

func (s *Store) foldLocal(ctx context.Context, key string, snap *snapshot.Snapshot) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "local cache read failed", "key", key, "error", err)
		return
	}
	if len(raw) == 0 {
		return
	}
	var frag snapshot.Snapshot
	if err := json.Unmarshal(raw, &frag); err != nil {
		s.log.Warn(ctx, "discarding undecodable cache copy", "key", key, "error", err)
		return
	}
	snapshot.Merge(snap, &frag, s.opts)
}

// fillDefaults fills the identity gaps from the session. Only empty fields
// are touched.
func fillDefaults(snap *snapshot.Snapshot, sess *identity.Session) {
	if sess == nil {
		return
	}
	if snap.Identity.ID == "" {
		snap.Identity.ID = sess.UserID
	}
	if snap.Identity.Email == "" {
		snap.Identity.Email = sess.Email
	}
	if snap.Identity.FullName == "" {
		snap.Identity.FullName = sess.FullName
	}
}

// Save merges the fragment into the owned snapshot and persists the
// section: best-effort writes to every applicable remote tier, then
// verified writes to the local cache. A save already in flight for the
// section drops the request with common.ErrSaveInFlight.
func (s *Store) Save(ctx context.Context, sec snapshot.Section, fragment *snapshot.Snapshot) (Outcome, error) {
	if !sec.Valid() {
		return OutcomeFailed, common.ErrUnknownSection
	}
	if err := s.acquire(sec); err != nil {
		return OutcomeFailed, err
	}
	defer s.release(sec)

	s.mu.Lock()
	snapshot.MergeSection(s.snap, sec, fragment, s.opts)
	s.snap.StampUpdated(sec, s.now().UTC())
	if sec == snapshot.SectionBodyMetrics {
		stampClientIDs(s.snap.BodyMetrics.WeightHistory)
	}
	userID := s.userID
	raw, err := json.Marshal(s.snap)
	s.mu.Unlock()
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	// The remotes get a private copy so concurrent saves of other sections
	// cannot race the owned snapshot.
	var snapCopy snapshot.Snapshot
	if err := json.Unmarshal(raw, &snapCopy); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if userID == "" {
		if id, err := s.resolver.Resolve(ctx, nil, &snapCopy); err == nil {
			userID = id
		}
	}

	if userID == "" {
		if err := s.writeVerified(ctx, localcache.GuestKey, raw); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeLocalOnly, nil
	}

	remoteOK := false
	for _, tier := range s.remotes {
		if !tier.Supports(sec) {
			continue
		}
		if err := tier.Write(ctx, userID, sec, &snapCopy); err != nil {
			s.log.Warn(ctx, "remote tier write failed", "tier", tier.Name(), "section", sec, "error", err)
			continue
		}
		remoteOK = true
	}

	if err := s.writeVerified(ctx, localcache.UserKey(userID), raw); err != nil {
		return OutcomeFailed, err
	}
	if err := s.writeVerified(ctx, localcache.GuestKey, raw); err != nil {
		s.log.Warn(ctx, "guest mirror write failed", "error", err)
	}

	if remoteOK {
		return OutcomeSynced, nil
	}
	s.log.Info(ctx, "section saved locally only", "section", sec)
	return OutcomeLocalOnly, nil
}

// stampClientIDs assigns a client id to weight entries that lack one, so
// remote reconciliation can tell re-sent entries from new ones.
func stampClientIDs(entries []snapshot.WeightEntry) {
	for i := range entries {
		if entries[i].ClientID == "" {
			entries[i].ClientID = uuid.NewString()
		}
	}
}

// AttachProgressPhoto records an uploaded photo through the normal merge
// path so it reaches every tier like any other body-metrics change.
func (s *Store) AttachProgressPhoto(ctx context.Context, photo snapshot.ProgressPhoto) (Outcome, error) {
	return s.Save(ctx, snapshot.SectionBodyMetrics, &snapshot.Snapshot{
		BodyMetrics: snapshot.BodyMetrics{ProgressPhotos: []snapshot.ProgressPhoto{photo}},
	})
}

// SetAvatar records an uploaded avatar reference on the identity section.
func (s *Store) SetAvatar(ctx context.Context, ref string) (Outcome, error) {
	return s.Save(ctx, snapshot.SectionIdentity, &snapshot.Snapshot{
		Identity: snapshot.Identity{AvatarURL: ref},
	})
}

// Snapshot returns a deep copy of the owned snapshot.
func (s *Store) Snapshot() *snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(s.snap)
	if err != nil {
		return &snapshot.Snapshot{}
	}
	var out snapshot.Snapshot
	if err := json.Unmarshal(raw, &out); err != nil {
		return &snapshot.Snapshot{}
	}
	return &out
}

// UserID returns the active user id, empty for guests.
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Store) setState(userID string, snap *snapshot.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.snap = snap
}

func (s *Store) acquire(sec snapshot.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sec]; busy {
		return common.ErrSaveInFlight
	}
	s.inflight[sec] = struct{}{}
	return nil
}

func (s *Store) release(sec snapshot.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sec)
}

// writeVerified writes the value, reads it back, and compares bytes. A
// failed attempt is retried exactly once.
func (s *Store) writeVerified(ctx context.Context, key string, raw []byte) error {
	if err := s.writeOnce(ctx, key, raw); err != nil {
		s.log.Warn(ctx, "local write failed, retrying once", "key", key, "error", err)
		return s.writeOnce(ctx, key, raw)
	}
	return nil
}

func (s *Store) writeOnce(ctx context.Context, key string, raw []byte) error {
	if err := s.cache.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalWriteFailed, err)
	}
	got, err := s.cache.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalWriteFailed, err)
	}
	if !bytes.Equal(got, raw) {
		return common.ErrVerificationMismatch
	}
	return nil
}
