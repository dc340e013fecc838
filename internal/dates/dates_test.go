package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brianyyz/ShareRidesV2Server/internal/dates"
)

func TestCompare(t *testing.T) {
	base := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, -1, dates.Compare(base, base.Add(time.Second)))
	assert.Equal(t, 1, dates.Compare(base.Add(time.Second), base))
	assert.Equal(t, 0, dates.Compare(base, base))
}

func TestFormatInZone(t *testing.T) {
	ts := time.Date(2026, 3, 3, 16, 5, 0, 0, time.UTC)

	got := dates.FormatInZone(ts, "UTC", "UTC")
	assert.Equal(t, "Tue, Mar 3rd, 4:05 PM UTC", got)
}

func TestFormatInZone_FallsBackOnUnknownZone(t *testing.T) {
	ts := time.Date(2026, 3, 3, 16, 5, 0, 0, time.UTC)

	assert.Equal(t, "Tue, Mar 3rd, 4:05 PM UTC", dates.FormatInZone(ts, "Not/AZone", "UTC"))
	assert.Equal(t, "Tue, Mar 3rd, 4:05 PM UTC", dates.FormatInZone(ts, "", "UTC"))
	// both zones unusable: UTC is the last resort
	assert.Equal(t, "Tue, Mar 3rd, 4:05 PM UTC", dates.FormatInZone(ts, "Not/AZone", "Also/Broken"))
}

func TestFormatInZone_OrdinalSuffixes(t *testing.T) {
	tests := []struct {
		day  int
		want string
	}{
		{1, "Jan 1st"},
		{2, "Jan 2nd"},
		{3, "Jan 3rd"},
		{4, "Jan 4th"},
		{11, "Jan 11th"},
		{12, "Jan 12th"},
		{13, "Jan 13th"},
		{21, "Jan 21st"},
		{22, "Jan 22nd"},
		{23, "Jan 23rd"},
		{31, "Jan 31st"},
	}
	for _, tt := range tests {
		ts := time.Date(2026, 1, tt.day, 9, 30, 0, 0, time.UTC)
		got := dates.FormatInZone(ts, "UTC", "UTC")
		assert.Contains(t, got, tt.want)
	}
}
