// Package common defines shared constants and sentinel errors used across
// the synchronization engine. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Adapter-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrRemoteUnavailable marks a failed read or write against a remote
	// tier. The pipeline recovers locally and never surfaces it as a hard
	// failure.
	ErrRemoteUnavailable = errors.New("remote tier unavailable")

	// ErrLocalWriteFailed marks a failed write to the local cache, the
	// durable backstop. Surfaced to the caller only after one retry.
	ErrLocalWriteFailed = errors.New("local cache write failed")

	// ErrVerificationMismatch marks a local read-back that did not match
	// what was written. Treated as ErrLocalWriteFailed by the pipeline.
	ErrVerificationMismatch = errors.New("local cache verification mismatch")

	// ErrSaveInFlight marks a duplicate save request for a section that is
	// already saving. The request is dropped, not queued.
	ErrSaveInFlight = errors.New("save already in flight for section")

	// ErrNoActiveUser is returned when no user id can be resolved from the
	// session, the cached identity record, or the snapshot.
	ErrNoActiveUser = errors.New("no active user")

	// ErrUnknownSection is returned for a section name outside the snapshot
	// model.
	ErrUnknownSection = errors.New("unknown profile section")
)
