package room

import (
	"context"
	"time"
)

// Room is a listing owned by a landlord. The booking engine only reads
// ownership and flips availability; room CRUD lives in the listing service.
type Room struct {
	ID          int64
	LandlordID  int64
	Title       string
	Description string
	Price       float64
	Address     string
	City        string
	Size        int
	Images      []string
	Amenities   map[string]string
	Available   bool
	PostedDate  time.Time
}

// Directory answers room-ownership questions and toggles availability.
// It is the engine's view of the room collaborator.
type Directory interface {
	// IsOwner reports whether the given user owns the room.
	IsOwner(ctx context.Context, roomID, userID int64) (bool, error)

	// IDsOwnedBy returns the ids of every room the landlord owns.
	IDsOwnedBy(ctx context.Context, landlordID int64) ([]int64, error)

	// SetAvailability flips the room's availability flag. Fails with a
	// forbidden error when the user does not own the room.
	SetAvailability(ctx context.Context, roomID, userID int64, available bool) error
}
