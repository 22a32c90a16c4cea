package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePeriod(t *testing.T) {
	t.Run("latest has no window", func(t *testing.T) {
		start, end, latest, err := ResolvePeriod(PeriodLatest, nil, nil)
		require.NoError(t, err)
		assert.True(t, latest)
		assert.Nil(t, start)
		assert.Nil(t, end)
	})

	t.Run("week is seven days back", func(t *testing.T) {
		start, end, latest, err := ResolvePeriod(PeriodWeek, nil, nil)
		require.NoError(t, err)
		assert.False(t, latest)
		require.NotNil(t, start)
		require.NotNil(t, end)
		assert.InDelta(t, 7*24*time.Hour, end.Sub(*start), float64(time.Minute))
	})

	t.Run("custom uses provided bounds", func(t *testing.T) {
		s := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		e := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
		start, end, latest, err := ResolvePeriod(PeriodCustom, &s, &e)
		require.NoError(t, err)
		assert.False(t, latest)
		assert.Equal(t, s, *start)
		assert.Equal(t, e, *end)
	})

	t.Run("custom end defaults to now", func(t *testing.T) {
		s := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		_, end, _, err := ResolvePeriod(PeriodCustom, &s, nil)
		require.NoError(t, err)
		require.NotNil(t, end)
		assert.WithinDuration(t, time.Now().UTC(), *end, time.Minute)
	})

	t.Run("unknown period errors", func(t *testing.T) {
		_, _, _, err := ResolvePeriod("fortnight", nil, nil)
		assert.ErrorContains(t, err, "unknown period")
	})
}

func TestResolveDigestPeriod(t *testing.T) {
	t.Run("latest means last day", func(t *testing.T) {
		start, end := ResolveDigestPeriod(PeriodLatest, nil, nil)
		assert.InDelta(t, 24*time.Hour, end.Sub(start), float64(time.Minute))
	})

	t.Run("custom defaults to last week", func(t *testing.T) {
		start, end := ResolveDigestPeriod(PeriodCustom, nil, nil)
		assert.InDelta(t, 7*24*time.Hour, end.Sub(start), float64(time.Minute))
	})

	t.Run("custom honors explicit bounds", func(t *testing.T) {
		s := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
		e := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
		start, end := ResolveDigestPeriod(PeriodCustom, &s, &e)
		assert.Equal(t, s, start)
		assert.Equal(t, e, end)
	})

	t.Run("month is thirty days", func(t *testing.T) {
		start, end := ResolveDigestPeriod(PeriodMonth, nil, nil)
		assert.InDelta(t, 30*24*time.Hour, end.Sub(start), float64(time.Minute))
	})
}
