// Package tiers defines the contract shared by the remote storage tiers:
// the relational table and the user-metadata blob. A tier reads whole
// fragments and writes single sections; partial support is expected and
// reported through Supports.
package tiers

import (
	"context"

	"github.com/garciabuilder/profilesync/internal/snapshot"
)

type Tier interface {
	// Name identifies the tier in logs.
	Name() string

	// Supports reports whether Write accepts the section. Read may still
	// return data for unsupported sections.
	Supports(sec snapshot.Section) bool

	// Read returns the tier's fragment for the user. Missing data is
	// common.ErrorNotFound, not an empty snapshot.
	Read(ctx context.Context, userID string) (*snapshot.Snapshot, error)

	// Write persists one section out of the given snapshot.
	Write(ctx context.Context, userID string, sec snapshot.Section, snap *snapshot.Snapshot) error
}
