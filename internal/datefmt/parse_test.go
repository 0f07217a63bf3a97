package datefmt

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := ResolveLocation(name)
	require.NoError(t, err)
	return loc
}

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  Granularity
	}{
		{"Spring 2025", Seasonal},
		{"fall   2024", Seasonal},
		{"  WINTER 2026 ", Seasonal},
		{"Autumn 2025", Invalid},
		{"Fall 25", Invalid},
		{"2025", YearOnly},
		{"2025-03", YearMonth},
		{"2025-13", Invalid},
		{"2025-00", Invalid},
		{"2025-06-15", FullDate},
		{"2025-02-30", Invalid},
		{"2025-06-15T23:59:59Z", FullDate},
		{"2025-06-15T23:59:59.123+02:00", FullDate},
		{"2025-06-15T10:00", FullDate},
		{"2025-06-15T10:00:00+0530", FullDate},
		{"2025-06-15T10:00-0400", FullDate},
		{"2025-06-15T25:00:00Z", Invalid},
		{"", Invalid},
		{"next week", Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestParse_Seasons(t *testing.T) {
	tests := []struct {
		input  string
		season Season
		month  time.Month
	}{
		{"Spring 2025", Spring, time.January},
		{"summer 2025", Summer, time.April},
		{"Fall 2025", Fall, time.July},
		{"WINTER 2025", Winter, time.October},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, ok := Parse(tt.input, time.UTC)
			require.True(t, ok)
			assert.Equal(t, Seasonal, p.Granularity)
			assert.Equal(t, tt.season, p.Season)
			assert.Equal(t, 2025, p.Year)
			assert.Equal(t, tt.month, p.Month)
			assert.Equal(t, 1, p.Day)
			assert.False(t, p.HasClock)
		})
	}
}

func TestParse_DateOnlyKeepsCalendarDay(t *testing.T) {
	for _, zone := range []string{"America/New_York", "America/Los_Angeles", "Asia/Tokyo", "UTC"} {
		t.Run(zone, func(t *testing.T) {
			loc := mustLoad(t, zone)
			p, ok := Parse("2025-06-15", loc)
			require.True(t, ok)
			assert.Equal(t, 2025, p.Year)
			assert.Equal(t, time.June, p.Month)
			assert.Equal(t, 15, p.Day)
			assert.Equal(t, loc, p.Time.Location())
		})
	}
}

func TestParse_Partials(t *testing.T) {
	loc := mustLoad(t, "America/New_York")

	p, ok := Parse("2025", loc)
	require.True(t, ok)
	assert.Equal(t, YearOnly, p.Granularity)
	assert.Equal(t, 2025, p.Year)

	p, ok = Parse("2025-03", loc)
	require.True(t, ok)
	assert.Equal(t, YearMonth, p.Granularity)
	assert.Equal(t, 2025, p.Year)
	assert.Equal(t, time.March, p.Month)
	assert.Equal(t, 1, p.Day)
}

func TestParse_DateTime(t *testing.T) {
	loc := mustLoad(t, "America/New_York")

	p, ok := Parse("2025-06-15T10:00", loc)
	require.True(t, ok)
	assert.True(t, p.HasClock)
	assert.Equal(t, 10, p.Time.Hour())
	assert.Equal(t, 15, p.Day)

	// A UTC midnight timestamp is the previous evening in New York.
	p, ok = Parse("2025-09-01T00:00:00Z", loc)
	require.True(t, ok)
	assert.Equal(t, time.August, p.Month)
	assert.Equal(t, 31, p.Day)

	p, ok = Parse("2025-06-15T23:59:59.5+02:00", time.UTC)
	require.True(t, ok)
	assert.Equal(t, 21, p.Time.Hour())

	// Basic-format offsets without a colon.
	p, ok = Parse("2025-06-15T10:00:00+0530", time.UTC)
	require.True(t, ok)
	assert.Equal(t, 4, p.Time.Hour())
	assert.Equal(t, 30, p.Time.Minute())

	p, ok = Parse("2025-06-15T10:00-0400", time.UTC)
	require.True(t, ok)
	assert.Equal(t, 14, p.Time.Hour())
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "soon", "2025-02-30", "Fall 25", "15/06/2025"} {
		t.Run(input, func(t *testing.T) {
			p, ok := Parse(input, nil)
			assert.False(t, ok)
			assert.Equal(t, Invalid, p.Granularity)
		})
	}
}

func TestResolveLocation(t *testing.T) {
	loc, err := ResolveLocation("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	for _, name := range []string{"", "Local", "Mars/Olympus_Mons"} {
		_, err := ResolveLocation(name)
		assert.ErrorIs(t, err, ErrUnknownZone, name)
	}
}
