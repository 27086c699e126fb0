package snapshot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeWeightHistoryDedupByDay(t *testing.T) {
	existing := []WeightEntry{
		{Date: "2026-08-01", Weight: fptr(72.0), ClientID: "a"},
		{Date: "2026-08-02", Weight: fptr(71.8)},
	}
	incoming := []WeightEntry{
		{Date: "2026-08-02", Weight: fptr(71.5)},
		{Date: "2026-08-03", Weight: fptr(71.2)},
	}

	merged := MergeWeightHistory(existing, incoming, 0)

	require.Len(t, merged, 3)
	require.Equal(t, "2026-08-01", merged[0].Date)
	require.Equal(t, 71.5, *merged[1].Weight)
	require.Equal(t, "2026-08-03", merged[2].Date)
}

func TestMergeWeightHistoryNormalizesLegacyDates(t *testing.T) {
	existing := []WeightEntry{{Date: "02/08/2026", Weight: fptr(71.8)}}
	incoming := []WeightEntry{{Date: "2026-08-02T07:30:00Z", Weight: fptr(71.5)}}

	merged := MergeWeightHistory(existing, incoming, 0)

	require.Len(t, merged, 1)
	require.Equal(t, "2026-08-02", merged[0].Date)
	require.Equal(t, 71.5, *merged[0].Weight)
}

func TestMergeWeightHistoryPartialKeepsClientID(t *testing.T) {
	existing := []WeightEntry{{Date: "2026-08-02", Weight: fptr(71.8), ClientID: "c-17"}}
	incoming := []WeightEntry{{Date: "2026-08-02", Weight: fptr(71.5)}}

	merged := MergeWeightHistory(existing, incoming, 0)

	require.Len(t, merged, 1)
	require.Equal(t, "c-17", merged[0].ClientID)
	require.Equal(t, 71.5, *merged[0].Weight)
}

func TestMergeWeightHistoryDropsUnparseableDates(t *testing.T) {
	merged := MergeWeightHistory(
		[]WeightEntry{{Date: "not a date", Weight: fptr(70)}},
		[]WeightEntry{{Date: "2026-08-02", Weight: fptr(71.5)}},
		0,
	)
	require.Len(t, merged, 1)
	require.Equal(t, "2026-08-02", merged[0].Date)
}

func TestMergeWeightHistoryCapKeepsNewest(t *testing.T) {
	var incoming []WeightEntry
	for d := 1; d <= 60; d++ {
		incoming = append(incoming, WeightEntry{
			Date:   fmt.Sprintf("2026-06-%02d", d%30+1),
			Weight: fptr(70),
		})
	}
	incoming = append(incoming,
		WeightEntry{Date: "2026-08-01", Weight: fptr(71)},
		WeightEntry{Date: "2026-08-02", Weight: fptr(72)},
	)

	merged := MergeWeightHistory(nil, incoming, 10)

	require.Len(t, merged, 10)
	require.Equal(t, "2026-08-02", merged[len(merged)-1].Date)
	for i := 1; i < len(merged); i++ {
		require.Less(t, merged[i-1].Date, merged[i].Date)
	}
}

func TestMergeWeightHistoryIdempotent(t *testing.T) {
	existing := []WeightEntry{{Date: "2026-08-01", Weight: fptr(72)}}
	incoming := []WeightEntry{{Date: "2026-08-02", Weight: fptr(71.5)}}

	once := MergeWeightHistory(existing, incoming, 50)
	twice := MergeWeightHistory(once, incoming, 50)
	require.Equal(t, once, twice)
}

func TestMergeProgressPhotosKeyedByRef(t *testing.T) {
	existing := []ProgressPhoto{{Ref: "photos/u1/a.jpg", Date: "2026-07-01"}}
	incoming := []ProgressPhoto{
		{Ref: "photos/u1/a.jpg", Note: "front"},
		{Ref: "photos/u1/b.jpg", Date: "2026-08-01"},
	}

	merged := MergeProgressPhotos(existing, incoming)

	require.Len(t, merged, 2)
	require.Equal(t, "2026-07-01", merged[0].Date)
	require.Equal(t, "front", merged[0].Note)
}

func TestMergeProgressPhotosFallbackKey(t *testing.T) {
	existing := []ProgressPhoto{{Date: "2026-07-01", Note: "side"}}
	incoming := []ProgressPhoto{
		{Date: "2026-07-01", Note: "side"},
		{Date: "2026-07-01", Note: "back"},
	}

	merged := MergeProgressPhotos(existing, incoming)
	require.Len(t, merged, 2)
}

func TestMergeProgressPhotosDropsUnidentifiable(t *testing.T) {
	merged := MergeProgressPhotos(nil, []ProgressPhoto{{}, {Ref: "photos/u1/a.jpg"}})
	require.Len(t, merged, 1)
}
