package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roleflow/roleflow/internal/errors"
)

func TestParseDurationSecondsSingleUnits(t *testing.T) {
	cases := map[string]float64{
		"30s":  30,
		"10m":  600,
		"2h":   7200,
		"1d":   86400,
		"1.5h": 5400,
	}
	for raw, want := range cases {
		got, err := ParseDurationSeconds(raw, "repeat_for")
		require.NoError(t, err, raw)
		require.Equal(t, want, got, raw)
	}
}

func TestParseDurationSecondsCompoundChunks(t *testing.T) {
	got, err := ParseDurationSeconds("1h30m", "repeat_for")
	require.NoError(t, err)
	require.Equal(t, float64(5400), got)

	got, err = ParseDurationSeconds("1d2h3m4s", "repeat_for")
	require.NoError(t, err)
	require.Equal(t, float64(86400+7200+180+4), got)
}

func TestParseDurationSecondsIsCaseAndSpaceInsensitive(t *testing.T) {
	got, err := ParseDurationSeconds("  2H ", "repeat_every")
	require.NoError(t, err)
	require.Equal(t, float64(7200), got)
}

func TestParseDurationSecondsRejectsPartialCoverage(t *testing.T) {
	for _, raw := range []string{"10", "m10", "10x", "1h 30m", "1h30", "10 m", "h", "-5m"} {
		_, err := ParseDurationSeconds(raw, "repeat_for")
		require.Error(t, err, raw)
		require.Equal(t, errors.CodeInvalidDuration, errors.CodeOf(err), raw)
	}
}

func TestParseDurationSecondsRejectsEmptyAndZero(t *testing.T) {
	_, err := ParseDurationSeconds("", "repeat_for")
	require.Equal(t, errors.CodeInvalidDuration, errors.CodeOf(err))

	_, err = ParseDurationSeconds("   ", "repeat_for")
	require.Equal(t, errors.CodeInvalidDuration, errors.CodeOf(err))

	_, err = ParseDurationSeconds("0s", "repeat_for")
	require.Error(t, err)
	require.Equal(t, errors.CodeInvalidDuration, errors.CodeOf(err))

	_, err = ParseDurationSeconds("0m0s", "repeat_for")
	require.Error(t, err)
}
