package clock

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	testCases := []struct {
		name string
		in   time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			name: "utc afternoon",
			in:   time.Date(2024, 3, 10, 15, 4, 5, 123, time.UTC),
			loc:  time.UTC,
			want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "late utc is next day in warsaw",
			in:   time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC),
			loc:  warsaw,
			want: time.Date(2024, 3, 11, 0, 0, 0, 0, warsaw),
		},
		{
			name: "nil location keeps input zone",
			in:   time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC),
			loc:  nil,
			want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := StartOfDay(tc.in, tc.loc)
			if !got.Equal(tc.want) {
				t.Errorf("StartOfDay(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMockClock_Advance(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	c.Advance(90 * time.Second)

	if got := c.Since(start); got != 90*time.Second {
		t.Errorf("expected 90s elapsed, got %v", got)
	}
}
