// Package mergex implements the primitive merge rules the snapshot model is
// built from: last-non-empty-wins scalars and deduplicating keyed-list
// merges. The rules never let an absent incoming value erase existing data,
// while a present incoming value always wins.
package mergex

import "time"

// Str merges two string fields. The incoming value wins unless it is empty.
func Str(existing, incoming string) string {
	if incoming != "" {
		return incoming
	}
	return existing
}

// Ptr merges two optional scalar fields represented as pointers. A nil
// incoming pointer means "absent" and never erases existing data; a non-nil
// incoming pointer always wins, even when it points at 0 or false; those
// are legitimate values, not gaps.
func Ptr[T any](existing, incoming *T) *T {
	if incoming != nil {
		return incoming
	}
	return existing
}

// Time merges two timestamps, treating the zero time as absent.
func Time(existing, incoming time.Time) time.Time {
	if !incoming.IsZero() {
		return incoming
	}
	return existing
}

// Slice merges two plain (unkeyed) slices: a non-empty incoming slice
// replaces the existing one wholesale, an empty one leaves it alone.
func Slice[T any](existing, incoming []T) []T {
	if len(incoming) > 0 {
		return incoming
	}
	return existing
}

// Map merges two maps key-by-key. Keys only present in one side are kept;
// keys present in both are combined via combine. A nil incoming map leaves
// existing untouched.
func Map[V any](existing, incoming map[string]V, combine func(old, new V) V) map[string]V {
	if len(incoming) == 0 {
		return existing
	}
	out := make(map[string]V, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		if old, ok := out[k]; ok {
			out[k] = combine(old, v)
		} else {
			out[k] = v
		}
	}
	return out
}

// MergeKeyed merges two lists by a derived key. The result is seeded from
// existing (preserving its order), then overwritten entry-by-entry by
// incoming; an incoming entry sharing a key with an existing one is combined
// field-by-field via combine (so a partial entry does not erase sibling
// fields), and entries with new keys are appended in incoming order.
// Entries whose key is empty are unidentifiable and dropped.
//
// The operation is idempotent: merging the same incoming list twice yields
// the same result as merging it once.
func MergeKeyed[T any](existing, incoming []T, key func(T) string, combine func(old, new T) T) []T {
	out := make([]T, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing))

	for _, item := range existing {
		k := key(item)
		if k == "" {
			continue
		}
		if i, ok := index[k]; ok {
			out[i] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}

	for _, item := range incoming {
		k := key(item)
		if k == "" {
			continue
		}
		if i, ok := index[k]; ok {
			out[i] = combine(out[i], item)
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}

	return out
}
