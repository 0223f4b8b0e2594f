package leave_test

import (
	"testing"

	"go-leave/internal/leave"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedStatusTransition(t *testing.T) {
	cases := []struct {
		name    string
		current string
		target  string
		want    bool
	}{
		{"pending to approved", leave.StatusPending, leave.StatusApproved, true},
		{"pending to rejected", leave.StatusPending, leave.StatusRejected, true},
		{"pending to pending", leave.StatusPending, leave.StatusPending, false},
		{"approved is terminal", leave.StatusApproved, leave.StatusRejected, false},
		{"rejected is terminal", leave.StatusRejected, leave.StatusApproved, false},
		{"unknown target", leave.StatusPending, "cancelled", false},
		{"unknown current", "draft", leave.StatusApproved, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, leave.IsAllowedStatusTransition(tc.current, tc.target))
		})
	}
}
