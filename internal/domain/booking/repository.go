package booking

import "context"

// Filter narrows a booking search. Nil / empty fields are unconstrained;
// populated fields combine conjunctively.
type Filter struct {
	SeekerID      *int64
	RoomID        *int64
	RoomIDs       []int64
	Status        *Status
	StartDateFrom *Date
	StartDateTo   *Date
	EndDateFrom   *Date
	EndDateTo     *Date
}

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindOverlapping returns every approved booking for the room whose
	// inclusive date range intersects [startDate, endDate].
	FindOverlapping(ctx context.Context, roomID int64, startDate, endDate Date) ([]*Booking, error)

	// Search retrieves bookings matching the filter, ordered by descending
	// booking id, with pagination.
	Search(ctx context.Context, filter Filter, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking and assigns its id.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// Delete removes the booking record entirely.
	Delete(ctx context.Context, booking *Booking) error
}
