package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomfinder/service-booking/internal/pkg/domain"
)

func futureRange(startOffset, endOffset int) (Date, Date) {
	today := Today()
	return today.AddDays(startOffset), today.AddDays(endOffset)
}

func TestNewBooking(t *testing.T) {
	start, end := futureRange(1, 5)

	bk, err := NewBooking(10, 20, start, end, "quiet room please")
	require.NoError(t, err)

	assert.Equal(t, int64(0), bk.ID())
	assert.Equal(t, int64(10), bk.RoomID())
	assert.Equal(t, int64(20), bk.SeekerID())
	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, "quiet room please", bk.Comments())
	assert.Equal(t, int64(1), bk.Version())
	assert.False(t, bk.BookingDate().IsZero())
}

func TestNewBooking_Validation(t *testing.T) {
	start, end := futureRange(1, 5)
	today := Today()

	tests := []struct {
		name     string
		roomID   int64
		seekerID int64
		start    Date
		end      Date
	}{
		{"missing room", 0, 20, start, end},
		{"missing seeker", 10, 0, start, end},
		{"zero start date", 10, 20, Date{}, end},
		{"zero end date", 10, 20, start, Date{}},
		{"start after end", 10, 20, end, start},
		{"start in the past", 10, 20, today.AddDays(-1), end},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBooking(tt.roomID, tt.seekerID, tt.start, tt.end, "")
			require.Error(t, err)

			var validationErr *domain.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestNewBooking_SingleDayStay(t *testing.T) {
	day := Today().AddDays(3)

	bk, err := NewBooking(10, 20, day, day, "")
	require.NoError(t, err)
	assert.True(t, bk.StartDate().Equal(bk.EndDate()))
}

func TestNewBooking_StartingToday(t *testing.T) {
	today := Today()

	_, err := NewBooking(10, 20, today, today.AddDays(2), "")
	assert.NoError(t, err)
}

func TestBooking_Approve(t *testing.T) {
	start, end := futureRange(1, 5)
	bk, err := NewBooking(10, 20, start, end, "")
	require.NoError(t, err)

	require.NoError(t, bk.Approve())
	assert.Equal(t, StatusApproved, bk.Status())

	// A second approval must fail.
	err = bk.Approve()
	require.Error(t, err)

	var stateErr *domain.InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, string(StatusApproved), stateErr.From)
}

func TestBooking_Reject(t *testing.T) {
	start, end := futureRange(1, 5)
	bk, err := NewBooking(10, 20, start, end, "")
	require.NoError(t, err)

	require.NoError(t, bk.Reject())
	assert.Equal(t, StatusRejected, bk.Status())

	err = bk.Reject()
	require.Error(t, err)

	var stateErr *domain.InvalidStateError
	assert.True(t, errors.As(err, &stateErr))
}

func TestBooking_Cancel(t *testing.T) {
	start, end := futureRange(1, 5)

	t.Run("from pending", func(t *testing.T) {
		bk, err := NewBooking(10, 20, start, end, "")
		require.NoError(t, err)
		require.NoError(t, bk.Cancel())
		assert.Equal(t, StatusCancelled, bk.Status())
	})

	t.Run("from approved", func(t *testing.T) {
		bk, err := NewBooking(10, 20, start, end, "")
		require.NoError(t, err)
		require.NoError(t, bk.Approve())
		require.NoError(t, bk.Cancel())
		assert.Equal(t, StatusCancelled, bk.Status())
	})

	t.Run("from rejected", func(t *testing.T) {
		bk, err := NewBooking(10, 20, start, end, "")
		require.NoError(t, err)
		require.NoError(t, bk.Reject())
		require.NoError(t, bk.Cancel())
		assert.Equal(t, StatusCancelled, bk.Status())
	})

	t.Run("already cancelled", func(t *testing.T) {
		bk, err := NewBooking(10, 20, start, end, "")
		require.NoError(t, err)
		require.NoError(t, bk.Cancel())

		err = bk.Cancel()
		require.Error(t, err)

		var stateErr *domain.InvalidStateError
		assert.True(t, errors.As(err, &stateErr))
		assert.Equal(t, StatusCancelled, bk.Status())
	})
}

func TestBooking_Amend(t *testing.T) {
	start, end := futureRange(1, 5)
	bk, err := NewBooking(10, 20, start, end, "original")
	require.NoError(t, err)

	t.Run("dates changed", func(t *testing.T) {
		newStart, newEnd := futureRange(2, 6)
		changed, err := bk.Amend(newStart, newEnd, "updated")
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, bk.StartDate().Equal(newStart))
		assert.True(t, bk.EndDate().Equal(newEnd))
		assert.Equal(t, "updated", bk.Comments())
	})

	t.Run("comments only", func(t *testing.T) {
		changed, err := bk.Amend(bk.StartDate(), bk.EndDate(), "comments only")
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, "comments only", bk.Comments())
	})

	t.Run("invalid dates rejected", func(t *testing.T) {
		_, err := bk.Amend(end, start, "")
		require.Error(t, err)

		var validationErr *domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})

	t.Run("non-pending refused", func(t *testing.T) {
		require.NoError(t, bk.Approve())
		_, err := bk.Amend(start, end, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only pending bookings can be updated")
	})
}

func TestBooking_TransitionsFollowStateMachine(t *testing.T) {
	start, end := futureRange(1, 5)
	now := time.Now().UTC()

	states := []Status{StatusPending, StatusApproved, StatusRejected, StatusCancelled}
	ops := []struct {
		target Status
		run    func(b *Booking) error
	}{
		{StatusApproved, func(b *Booking) error { return b.Approve() }},
		{StatusRejected, func(b *Booking) error { return b.Reject() }},
		{StatusCancelled, func(b *Booking) error { return b.Cancel() }},
	}

	for _, from := range states {
		for _, op := range ops {
			bk := Reconstruct(1, 10, 20, start, end, from, "", 1, now, now)
			err := op.run(bk)
			if from.CanTransitionTo(op.target) {
				assert.NoError(t, err, "%s -> %s", from, op.target)
				assert.Equal(t, op.target, bk.Status())
			} else {
				assert.Error(t, err, "%s -> %s", from, op.target)
				assert.Equal(t, from, bk.Status())
			}
		}
	}
}

func TestBooking_CanBeDeleted(t *testing.T) {
	start, end := futureRange(1, 5)

	bk, err := NewBooking(10, 20, start, end, "")
	require.NoError(t, err)
	assert.True(t, bk.CanBeDeleted())

	require.NoError(t, bk.Approve())
	assert.False(t, bk.CanBeDeleted())

	require.NoError(t, bk.Cancel())
	assert.True(t, bk.CanBeDeleted())
}

func TestBooking_IsCreator(t *testing.T) {
	start, end := futureRange(1, 5)
	bk, err := NewBooking(10, 20, start, end, "")
	require.NoError(t, err)

	assert.True(t, bk.IsCreator(20))
	assert.False(t, bk.IsCreator(21))
}

func TestBooking_IncrementVersion(t *testing.T) {
	start, end := futureRange(1, 5)
	bk, err := NewBooking(10, 20, start, end, "")
	require.NoError(t, err)

	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}

func TestRangesOverlap(t *testing.T) {
	d := func(day int) Date { return NewDate(2026, 9, day) }

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"disjoint before", 1, 3, 5, 8, false},
		{"disjoint after", 5, 8, 1, 3, false},
		{"touching at end boundary", 1, 5, 5, 8, true},
		{"touching at start boundary", 5, 8, 1, 5, true},
		{"contained", 1, 10, 3, 5, true},
		{"containing", 3, 5, 1, 10, true},
		{"partial overlap", 1, 5, 4, 8, true},
		{"identical", 2, 6, 2, 6, true},
		{"single day inside", 3, 3, 1, 5, true},
		{"single day outside", 7, 7, 1, 5, false},
		{"adjacent days do not overlap", 1, 4, 5, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(d(tt.aStart), d(tt.aEnd), d(tt.bStart), d(tt.bEnd))
			assert.Equal(t, tt.want, got)
			// Overlap is symmetric.
			assert.Equal(t, tt.want, RangesOverlap(d(tt.bStart), d(tt.bEnd), d(tt.aStart), d(tt.aEnd)))
		})
	}
}
