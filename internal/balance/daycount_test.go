package balance_test

import (
	"testing"
	"time"

	"go-leave/internal/balance"

	"github.com/stretchr/testify/assert"
)

func TestDayCount(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"exact one day", base, base.Add(24 * time.Hour), 1},
		{"partial day rounds up", base, base.Add(25 * time.Hour), 2},
		{"sub-day span counts as one", base, base.Add(2 * time.Hour), 1},
		{"exact three days", base, base.Add(72 * time.Hour), 3},
		{"just under three days rounds to three", base, base.Add(72*time.Hour - time.Minute), 3},
		{"equal bounds clamp to one", base, base, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, balance.DayCount(tc.start, tc.end))
		})
	}
}
