package snapshot

import (
	"sort"

	"github.com/garciabuilder/profilesync/internal/mergex"
	"github.com/garciabuilder/profilesync/internal/timex"
)

// weightKey identifies a weight entry by calendar day. Dates arrive in
// several historical formats; all collapse to YYYY-MM-DD so that two writes
// on the same day merge instead of duplicating.
func weightKey(e WeightEntry) string {
	return timex.NormalizeDay(e.Date)
}

// photoKey prefers the storage reference and falls back to date plus note
// for photos recorded before uploads carried a stable ref.
func photoKey(p ProgressPhoto) string {
	if p.Ref != "" {
		return p.Ref
	}
	if p.Date == "" && p.Note == "" {
		return ""
	}
	return p.Date + "|" + p.Note
}

// MergeWeightHistory merges two weight histories keyed by day, sorts the
// result ascending by date, and keeps only the newest cap entries. Entries
// without a parseable date are dropped.
func MergeWeightHistory(existing, incoming []WeightEntry, cap int) []WeightEntry {
	merged := mergex.MergeKeyed(existing, incoming, weightKey, func(old, new WeightEntry) WeightEntry {
		return WeightEntry{
			ClientID: mergex.Str(old.ClientID, new.ClientID),
			Date:     weightKey(new),
			Weight:   mergex.Ptr(old.Weight, new.Weight),
		}
	})
	for i := range merged {
		merged[i].Date = weightKey(merged[i])
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Date < merged[j].Date })
	if cap > 0 && len(merged) > cap {
		merged = merged[len(merged)-cap:]
	}
	return merged
}

// MergeProgressPhotos merges two photo lists keyed by photoKey, newest
// values winning field-by-field.
func MergeProgressPhotos(existing, incoming []ProgressPhoto) []ProgressPhoto {
	return mergex.MergeKeyed(existing, incoming, photoKey, func(old, new ProgressPhoto) ProgressPhoto {
		return ProgressPhoto{
			Ref:  mergex.Str(old.Ref, new.Ref),
			Date: mergex.Str(old.Date, new.Date),
			Note: mergex.Str(old.Note, new.Note),
		}
	})
}
