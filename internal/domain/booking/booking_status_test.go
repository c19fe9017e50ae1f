package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusApproved.IsValid())
	assert.True(t, StatusRejected.IsValid())
	assert.True(t, StatusCancelled.IsValid())
	assert.False(t, Status("UNKNOWN").IsValid())
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("pending").IsValid())
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusApproved, StatusCancelled, true},
		{StatusRejected, StatusCancelled, true},

		{StatusApproved, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusApproved, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusApproved, false},
		{StatusCancelled, StatusRejected, false},
		{StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.False(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, Status("UNKNOWN").IsTerminal())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("APPROVED")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, status)

	_, err = ParseStatus("approved")
	assert.Error(t, err)

	_, err = ParseStatus("DELETED")
	assert.Error(t, err)
}
