package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusProcessing,
	StatusShipped, StatusDelivered, StatusCancelled,
}

func TestOrderStatus_Predicates(t *testing.T) {
	assert.True(t, StatusPending.IsCancellable())
	assert.True(t, StatusConfirmed.IsCancellable())
	assert.False(t, StatusProcessing.IsCancellable())
	assert.False(t, StatusShipped.IsCancellable())
	assert.False(t, StatusDelivered.IsCancellable())
	assert.False(t, StatusCancelled.IsCancellable())

	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())

	assert.True(t, StatusPending.IsModifiable())
	assert.False(t, StatusConfirmed.IsModifiable())
}

func TestOrderStatus_CanTransitionTo_Closure(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusShipped},
		StatusShipped:    {StatusDelivered},
		StatusDelivered:  {},
		StatusCancelled:  {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equalf(t, want, from.CanTransitionTo(to), "transition %s -> %s", from, to)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range allStatuses {
		parsed, err := ParseOrderStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseOrderStatus("SOMETHING_ELSE")
	assert.Error(t, err)

	_, err = ParseOrderStatus("pending")
	assert.Error(t, err, "statuses are case-sensitive")
}
