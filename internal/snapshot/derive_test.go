package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBMI(t *testing.T) {
	b := BodyMetrics{CurrentWeight: fptr(72), Height: fptr(180)}
	require.Equal(t, 22.2, *b.BMI())

	require.Nil(t, BodyMetrics{Height: fptr(180)}.BMI())
	require.Nil(t, BodyMetrics{CurrentWeight: fptr(72)}.BMI())
	require.Nil(t, BodyMetrics{CurrentWeight: fptr(72), Height: fptr(0)}.BMI())
}

func TestLatestWeightAndDelta(t *testing.T) {
	b := BodyMetrics{WeightHistory: []WeightEntry{
		{Date: "2026-08-01", Weight: fptr(72)},
		{Date: "2026-08-02", Weight: fptr(71.5)},
		{Date: "2026-08-03"}, // no reading that day
	}}

	latest := b.LatestWeight()
	require.NotNil(t, latest)
	require.Equal(t, "2026-08-02", latest.Date)
	require.Equal(t, 71.5, *latest.Weight)

	require.InDelta(t, -0.5, *b.WeightDelta(), 1e-9)

	require.Nil(t, BodyMetrics{}.LatestWeight())
	require.Nil(t, BodyMetrics{WeightHistory: []WeightEntry{{Date: "2026-08-01", Weight: fptr(72)}}}.WeightDelta())
}
