package events

import "time"

// Topics used by the booking service.
const (
	TopicBookingEvents = "booking.events"
	TopicRoomEvents    = "room.events"
)

// Event types published on booking.events.
const (
	BookingRequested = "booking.requested"
	BookingApproved  = "booking.approved"
	BookingRejected  = "booking.rejected"
	BookingCancelled = "booking.cancelled"
	BookingAmended   = "booking.amended"
	BookingDeleted   = "booking.deleted"
)

// Event types consumed from room.events.
const (
	RoomDelisted = "room.delisted"
)

// BookingEvent is the payload published for every booking lifecycle change.
// Dates are in YYYY-MM-DD form.
type BookingEvent struct {
	BookingID  int64     `json:"booking_id"`
	RoomID     int64     `json:"room_id"`
	SeekerID   int64     `json:"seeker_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Status     string    `json:"status"`
	ActorID    int64     `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RoomDelistedEvent signals that a landlord removed a room from the listings.
type RoomDelistedEvent struct {
	RoomID     int64     `json:"room_id"`
	LandlordID int64     `json:"landlord_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
