package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalString(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"3s"`), &d))
	require.Equal(t, 3*time.Second, d.Duration)
}

func TestDuration_UnmarshalNanos(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`1500000000`), &d))
	require.Equal(t, 1500*time.Millisecond, d.Duration)
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	var d Duration
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
	require.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestNormalizeDay(t *testing.T) {
	require.Equal(t, "2025-03-09", NormalizeDay("2025-03-09"))
	require.Equal(t, "2025-03-09", NormalizeDay("2025-03-09T14:25:00Z"))
	require.Equal(t, "2025-03-09", NormalizeDay("09/03/2025"))
	require.Equal(t, "", NormalizeDay(""))
	require.Equal(t, "", NormalizeDay("not a date"))
}

func TestParseDay_RoundTrip(t *testing.T) {
	day := ParseDay("2024-12-31")
	require.Equal(t, "2024-12-31", DayKey(day))
	require.True(t, ParseDay("bogus").IsZero())
}
