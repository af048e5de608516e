package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/dairy/pkg/dates"
)

func TestNormalizeDropsTimeOfDay(t *testing.T) {
	in := time.Date(2024, 3, 15, 17, 42, 9, 123, time.Local)
	got := dates.Normalize(in)

	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 15, got.Day())
	assert.Zero(t, got.Hour())
	assert.Zero(t, got.Minute())
	assert.Zero(t, got.Second())
	assert.Zero(t, got.Nanosecond())
}

func TestNormalizeIsIdempotent(t *testing.T) {
	once := dates.Normalize(time.Date(2024, 7, 1, 23, 59, 59, 0, time.Local))
	twice := dates.Normalize(once)

	assert.True(t, once.Equal(twice))
}

func TestNormalizeSameDayEquivalence(t *testing.T) {
	morning := time.Date(2024, 7, 1, 0, 0, 1, 0, time.Local)
	night := time.Date(2024, 7, 1, 23, 59, 59, 0, time.Local)

	assert.True(t, dates.Normalize(morning).Equal(dates.Normalize(night)))
	assert.True(t, dates.SameDay(morning, night))
	assert.False(t, dates.SameDay(night, night.Add(time.Minute)))
}

func TestParseAcceptedFormats(t *testing.T) {
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)

	for _, in := range []string{
		"2024-01-05",
		"2024/01/05",
		"2024-01-05T09:30:00",
		"05-01-2024",
	} {
		got, err := dates.Parse(in)
		require.NoError(t, err, "input %q", in)
		assert.True(t, want.Equal(got), "input %q parsed to %v", in, got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not-a-date", "2024-13-45", "today"} {
		_, err := dates.Parse(in)
		assert.ErrorIs(t, err, dates.ErrInvalidDate, "input %q", in)
	}
}

func TestStartOfMonth(t *testing.T) {
	got := dates.StartOfMonth(time.Date(2024, 2, 29, 13, 0, 0, 0, time.Local))
	assert.True(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local).Equal(got))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2024-02", dates.MonthKey(time.Date(2024, 2, 29, 13, 0, 0, 0, time.Local)))
}
