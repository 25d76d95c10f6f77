package proration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAtNoon(t *testing.T) {
	got := AtNoon(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))
	require.Equal(t, time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC), got)

	got = AtNoon(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.Equal(t, time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC), got)
}

func TestInclusiveDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", date(2024, 1, 1), date(2024, 1, 1), 1},
		{"adjacent days", date(2024, 1, 1), date(2024, 1, 2), 2},
		{"ten days", date(2024, 1, 1), date(2024, 1, 10), 10},
		{"across leap day", date(2024, 2, 28), date(2024, 3, 1), 3},
		{"full leap year", date(2024, 1, 1), date(2024, 12, 31), 366},
		{"reversed counts magnitude", date(2024, 1, 10), date(2024, 1, 1), 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, InclusiveDays(tc.start, tc.end))
		})
	}
}

func TestSameOrBeforeAfterIgnoreTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 1, 5, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC)

	require.True(t, SameOrBefore(evening, morning))
	require.True(t, SameOrAfter(morning, evening))
	require.True(t, SameOrBefore(morning, date(2024, 1, 6)))
	require.False(t, SameOrBefore(date(2024, 1, 6), morning))
}
