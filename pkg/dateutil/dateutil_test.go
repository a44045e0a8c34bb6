package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDateOnly(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"2025-06-15", true},
		{"1999-01-01", true},
		{"2025-06-15T10:00:00Z", false},
		{"2025-6-15", false},
		{"2025-06-15 ", false},
		{"", false},
		{"not-a-date", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDateOnly(tt.raw), "raw=%q", tt.raw)
	}
}

func TestParseLocalDateLandsOnLocalDay(t *testing.T) {
	got, err := ParseLocalDate("2025-06-15")
	require.NoError(t, err)

	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.June, got.Month())
	assert.Equal(t, 15, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, time.Local, got.Location())
}

func TestParseLocalDateRejectsGarbage(t *testing.T) {
	_, err := ParseLocalDate("2025-13-45")
	assert.Error(t, err)
}

func TestParseFlexible(t *testing.T) {
	local, err := ParseFlexible("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Local, local.Location())
	assert.Equal(t, 15, local.Day())

	stamped, err := ParseFlexible("2025-06-15T08:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 8, stamped.UTC().Hour())

	_, err = ParseFlexible("yesterday")
	assert.Error(t, err)
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2025, 6, 15, 1, 0, 0, 0, time.Local)
	night := time.Date(2025, 6, 15, 23, 59, 0, 0, time.Local)
	next := time.Date(2025, 6, 16, 0, 0, 0, 0, time.Local)

	assert.True(t, SameDay(morning, night))
	assert.False(t, SameDay(night, next))
}

func TestSchoolYearStart(t *testing.T) {
	// June belongs to the school year that started the previous July.
	june := time.Date(2025, 6, 30, 12, 0, 0, 0, time.Local)
	assert.Equal(t, 2024, SchoolYearStart(june).Year())
	assert.Equal(t, time.July, SchoolYearStart(june).Month())

	// July 1 starts a new school year.
	july := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	assert.Equal(t, 2025, SchoolYearStart(july).Year())

	assert.Equal(t, 2024, SchoolYearOf(june))
	assert.Equal(t, 2025, SchoolYearOf(july))
}

func TestSchoolYearWindow(t *testing.T) {
	start, end := SchoolYearWindow(2024, time.Local)

	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local), end)

	inside := time.Date(2025, 6, 30, 23, 0, 0, 0, time.Local)
	assert.True(t, !inside.Before(start) && inside.Before(end))

	outside := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	assert.False(t, outside.Before(end))
}
