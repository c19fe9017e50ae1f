package booking

import (
	"time"

	"github.com/roomfinder/service-booking/internal/pkg/domain"
)

// Booking is the aggregate root for the booking domain. It represents one
// seeker's claim on a room for an inclusive range of calendar dates.
type Booking struct {
	id        int64
	roomID    int64
	seekerID  int64
	startDate Date
	endDate   Date
	status    Status
	comments  string

	version     int64
	bookingDate time.Time
	updatedAt   time.Time
}

// NewBooking creates a new pending Booking after validating its dates.
// The id is assigned by the store on first save.
func NewBooking(roomID, seekerID int64, startDate, endDate Date, comments string) (*Booking, error) {
	if roomID <= 0 {
		return nil, domain.NewValidationError("room ID is required")
	}
	if seekerID <= 0 {
		return nil, domain.NewValidationError("seeker ID is required")
	}
	if err := ValidateDates(startDate, endDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		roomID:      roomID,
		seekerID:    seekerID,
		startDate:   startDate,
		endDate:     endDate,
		status:      StatusPending,
		comments:    comments,
		version:     1,
		bookingDate: now,
		updatedAt:   now,
	}, nil
}

// ValidateDates enforces the date invariants common to creation and amendment.
func ValidateDates(startDate, endDate Date) error {
	if startDate.IsZero() || endDate.IsZero() {
		return domain.NewValidationError("start and end dates are required")
	}
	if startDate.After(endDate) {
		return domain.NewValidationError("start date must not be after end date")
	}
	if startDate.Before(Today()) {
		return domain.NewValidationError("start date cannot be in the past")
	}
	return nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, roomID, seekerID int64,
	startDate, endDate Date,
	status Status,
	comments string,
	version int64,
	bookingDate, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		roomID:      roomID,
		seekerID:    seekerID,
		startDate:   startDate,
		endDate:     endDate,
		status:      status,
		comments:    comments,
		version:     version,
		bookingDate: bookingDate,
		updatedAt:   updatedAt,
	}
}

// ID returns the booking's store-assigned identifier (zero until saved).
func (b *Booking) ID() int64 { return b.id }

// RoomID returns the booked room's identifier.
func (b *Booking) RoomID() int64 { return b.roomID }

// SeekerID returns the identifier of the user who created the booking.
func (b *Booking) SeekerID() int64 { return b.seekerID }

// StartDate returns the first booked date (inclusive).
func (b *Booking) StartDate() Date { return b.startDate }

// EndDate returns the last booked date (inclusive).
func (b *Booking) EndDate() Date { return b.endDate }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// Comments returns the seeker's free-text comments.
func (b *Booking) Comments() string { return b.comments }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// BookingDate returns the creation timestamp.
func (b *Booking) BookingDate() time.Time { return b.bookingDate }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// SetID records the store-assigned identifier after the first save.
func (b *Booking) SetID(id int64) { b.id = id }

// IsCreator reports whether the given user created this booking.
func (b *Booking) IsCreator(userID int64) bool { return b.seekerID == userID }

// OverlapsRange reports whether the booking intersects the given inclusive range.
func (b *Booking) OverlapsRange(start, end Date) bool {
	return RangesOverlap(b.startDate, b.endDate, start, end)
}

// Approve transitions the booking from pending to approved. The overlap
// re-check against other approved bookings is the caller's responsibility.
func (b *Booking) Approve() error {
	if !b.status.CanTransitionTo(StatusApproved) {
		return domain.NewInvalidStateError(string(b.status), string(StatusApproved))
	}
	b.status = StatusApproved
	b.updatedAt = time.Now().UTC()
	return nil
}

// Reject transitions the booking from pending to rejected.
func (b *Booking) Reject() error {
	if !b.status.CanTransitionTo(StatusRejected) {
		return domain.NewInvalidStateError(string(b.status), string(StatusRejected))
	}
	b.status = StatusRejected
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled. Only a booking that is already
// cancelled refuses the transition.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// Amend updates the dates and comments of a pending booking, re-validating
// the dates. It reports whether the dates actually changed so the caller
// knows to re-run the overlap check.
func (b *Booking) Amend(startDate, endDate Date, comments string) (bool, error) {
	if b.status != StatusPending {
		return false, domain.NewValidationError("only pending bookings can be updated, current status: " + b.status.String())
	}
	if err := ValidateDates(startDate, endDate); err != nil {
		return false, err
	}

	datesChanged := !b.startDate.Equal(startDate) || !b.endDate.Equal(endDate)
	b.startDate = startDate
	b.endDate = endDate
	b.comments = comments
	b.updatedAt = time.Now().UTC()
	return datesChanged, nil
}

// CanBeDeleted reports whether the record may be removed. Approved bookings
// must be cancelled before deletion.
func (b *Booking) CanBeDeleted() bool {
	return b.status != StatusApproved
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
