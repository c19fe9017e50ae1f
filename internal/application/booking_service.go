package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/roomfinder/service-booking/internal/domain/booking"
	"github.com/roomfinder/service-booking/internal/domain/room"
	"github.com/roomfinder/service-booking/internal/pkg/domain"
	"github.com/roomfinder/service-booking/internal/pkg/events"
	"github.com/roomfinder/service-booking/internal/pkg/kafka"
)

// EventPublisher publishes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingRequest holds the data needed to create or amend a booking.
type BookingRequest struct {
	RoomID    int64              `json:"room_id" binding:"required"`
	StartDate bookingDomain.Date `json:"start_date" binding:"required"`
	EndDate   bookingDomain.Date `json:"end_date" binding:"required"`
	Comments  string             `json:"comments"`
}

// SearchRequest holds the optional filters for booking search. Nil fields
// are unconstrained; populated fields combine conjunctively.
type SearchRequest struct {
	RoomID        *int64
	SeekerID      *int64
	Status        *bookingDomain.Status
	StartDateFrom *bookingDomain.Date
	StartDateTo   *bookingDomain.Date
	EndDateFrom   *bookingDomain.Date
	EndDateTo     *bookingDomain.Date
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID          int64              `json:"id"`
	RoomID      int64              `json:"room_id"`
	SeekerID    int64              `json:"seeker_id"`
	StartDate   bookingDomain.Date `json:"start_date"`
	EndDate     bookingDomain.Date `json:"end_date"`
	Status      string             `json:"status"`
	Comments    string             `json:"comments,omitempty"`
	BookingDate time.Time          `json:"booking_date"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// BookingService orchestrates every booking lifecycle transition, enforcing
// the role and status preconditions and the no-overlap invariant.
type BookingService struct {
	repo     bookingDomain.Repository
	rooms    room.Directory
	producer EventPublisher
	logger   *zap.Logger
	locks    *roomLocks
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.Repository,
	rooms room.Directory,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		rooms:    rooms,
		producer: producer,
		logger:   logger,
		locks:    newRoomLocks(),
	}
}

// CreateBooking creates a new pending booking for the seeker. The room's
// approved bookings must not overlap the requested range.
func (s *BookingService) CreateBooking(ctx context.Context, seekerID int64, req BookingRequest) (*BookingDTO, error) {
	bk, err := bookingDomain.NewBooking(req.RoomID, seekerID, req.StartDate, req.EndDate, req.Comments)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(req.RoomID)
	defer unlock()

	if err := s.ensureNoOverlap(ctx, req.RoomID, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.publishBookingEvent(ctx, events.BookingRequested, bk, seekerID)

	result := toBookingDTO(bk)
	return &result, nil
}

// ApproveBooking transitions a pending booking to approved. Only the room
// owner may approve, and the overlap check is re-run under the room lock so
// two pending requests for the same window cannot both win.
func (s *BookingService) ApproveBooking(ctx context.Context, bookingID, landlordID int64) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureRoomOwner(ctx, bk.RoomID(), landlordID, "approve"); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(bk.RoomID())
	defer unlock()

	if err := s.ensureNoOverlap(ctx, bk.RoomID(), bk.StartDate(), bk.EndDate()); err != nil {
		return nil, err
	}
	if err := bk.Approve(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	// The availability flip is a secondary side effect; it must never fail
	// the approval itself.
	if err := s.rooms.SetAvailability(ctx, bk.RoomID(), landlordID, false); err != nil {
		s.logger.Warn("failed to mark room unavailable after approval",
			zap.Int64("room_id", bk.RoomID()),
			zap.Int64("booking_id", bk.ID()),
			zap.Error(err),
		)
	}

	s.publishBookingEvent(ctx, events.BookingApproved, bk, landlordID)

	result := toBookingDTO(bk)
	return &result, nil
}

// RejectBooking transitions a pending booking to rejected. Only the room
// owner may reject.
func (s *BookingService) RejectBooking(ctx context.Context, bookingID, landlordID int64) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureRoomOwner(ctx, bk.RoomID(), landlordID, "reject"); err != nil {
		return nil, err
	}
	if err := bk.Reject(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingRejected, bk, landlordID)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking transitions a booking to cancelled. Only the creator may
// cancel, and only a booking that is not already cancelled.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, seekerID int64) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.IsCreator(seekerID) {
		return nil, domain.NewForbiddenError("only the booking creator can cancel the booking")
	}
	if err := bk.Cancel(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCancelled, bk, seekerID)

	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateBooking amends a pending booking's dates and comments. The overlap
// check is re-run only when the dates actually changed.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID, seekerID int64, req BookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.IsCreator(seekerID) {
		return nil, domain.NewForbiddenError("only the booking creator can update the booking")
	}

	unlock := s.locks.lock(bk.RoomID())
	defer unlock()

	datesChanged, err := bk.Amend(req.StartDate, req.EndDate, req.Comments)
	if err != nil {
		return nil, err
	}
	if datesChanged {
		if err := s.ensureNoOverlap(ctx, bk.RoomID(), bk.StartDate(), bk.EndDate()); err != nil {
			return nil, err
		}
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingAmended, bk, seekerID)

	result := toBookingDTO(bk)
	return &result, nil
}

// DeleteBooking removes a booking record. The creator or the room owner may
// delete; approved bookings must be cancelled first.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID, userID int64) error {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	isCreator := bk.IsCreator(userID)
	isOwner, err := s.rooms.IsOwner(ctx, bk.RoomID(), userID)
	if err != nil {
		return fmt.Errorf("failed to check room ownership: %w", err)
	}
	if !isCreator && !isOwner {
		return domain.NewForbiddenError("only the booking creator or room owner can delete the booking")
	}
	if !bk.CanBeDeleted() {
		return domain.NewValidationError("cannot delete an approved booking, cancel it first")
	}

	if err := s.repo.Delete(ctx, bk); err != nil {
		return err
	}

	s.publishBookingEvent(ctx, events.BookingDeleted, bk, userID)
	return nil
}

// RejectPendingForRoom rejects every pending booking on the room. Used when
// the room is delisted; the actor is the system rather than a landlord.
func (s *BookingService) RejectPendingForRoom(ctx context.Context, roomID int64) (int, error) {
	status := bookingDomain.StatusPending
	filter := bookingDomain.Filter{
		RoomID: &roomID,
		Status: &status,
	}

	// Each rejected booking drops out of the PENDING filter, so refetching
	// the first page drains the room no matter how many bookings it has.
	rejected := 0
	for {
		pending, _, err := s.repo.Search(ctx, filter, 1, maxPageLimit)
		if err != nil {
			return rejected, err
		}
		if len(pending) == 0 {
			return rejected, nil
		}

		progressed := false
		for _, bk := range pending {
			if err := bk.Reject(); err != nil {
				continue
			}
			bk.IncrementVersion()
			if err := s.repo.Update(ctx, bk); err != nil {
				s.logger.Error("failed to reject pending booking for delisted room",
					zap.Int64("booking_id", bk.ID()),
					zap.Int64("room_id", roomID),
					zap.Error(err),
				)
				continue
			}
			s.publishBookingEvent(ctx, events.BookingRejected, bk, 0)
			rejected++
			progressed = true
		}
		// A pass that rejected nothing would refetch the same page forever.
		if !progressed {
			return rejected, nil
		}
	}
}

// maxPageLimit caps a single page of results.
const maxPageLimit = 100

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID int64) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetSeekerBookings retrieves the seeker's bookings, optionally narrowed to
// a room and/or a status.
func (s *BookingService) GetSeekerBookings(ctx context.Context, seekerID int64, roomID *int64, status *bookingDomain.Status, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	return s.search(ctx, bookingDomain.Filter{
		SeekerID: &seekerID,
		RoomID:   roomID,
		Status:   status,
	}, page, limit)
}

// GetRoomBookings retrieves a room's bookings, optionally narrowed to a status.
func (s *BookingService) GetRoomBookings(ctx context.Context, roomID int64, status *bookingDomain.Status, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	return s.search(ctx, bookingDomain.Filter{
		RoomID: &roomID,
		Status: status,
	}, page, limit)
}

// GetBookingsByStatus retrieves all bookings with the given status.
func (s *BookingService) GetBookingsByStatus(ctx context.Context, status bookingDomain.Status, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	return s.search(ctx, bookingDomain.Filter{Status: &status}, page, limit)
}

// GetLandlordBookings retrieves bookings on any room the landlord owns,
// optionally narrowed to a status. A landlord with no rooms gets an empty
// page without a store query.
func (s *BookingService) GetLandlordBookings(ctx context.Context, landlordID int64, status *bookingDomain.Status, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	roomIDs, err := s.rooms.IDsOwnedBy(ctx, landlordID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve landlord rooms: %w", err)
	}
	if len(roomIDs) == 0 {
		result := domain.NewPaginatedResult([]BookingDTO{}, 0, page, limit)
		return &result, nil
	}
	return s.search(ctx, bookingDomain.Filter{
		RoomIDs: roomIDs,
		Status:  status,
	}, page, limit)
}

// ListAllBookings retrieves every booking (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	return s.search(ctx, bookingDomain.Filter{}, page, limit)
}

// SearchBookings searches the seeker's own bookings with optional filters.
func (s *BookingService) SearchBookings(ctx context.Context, seekerID int64, req SearchRequest, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	return s.search(ctx, bookingDomain.Filter{
		SeekerID:      &seekerID,
		RoomID:        req.RoomID,
		Status:        req.Status,
		StartDateFrom: req.StartDateFrom,
		StartDateTo:   req.StartDateTo,
		EndDateFrom:   req.EndDateFrom,
		EndDateTo:     req.EndDateTo,
	}, page, limit)
}

// SearchBookingsForLandlord searches bookings across the landlord's rooms
// with optional filters. A landlord with no rooms gets an empty page.
func (s *BookingService) SearchBookingsForLandlord(ctx context.Context, landlordID int64, req SearchRequest, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	roomIDs, err := s.rooms.IDsOwnedBy(ctx, landlordID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve landlord rooms: %w", err)
	}
	if len(roomIDs) == 0 {
		result := domain.NewPaginatedResult([]BookingDTO{}, 0, page, limit)
		return &result, nil
	}
	return s.search(ctx, bookingDomain.Filter{
		RoomIDs:       roomIDs,
		SeekerID:      req.SeekerID,
		Status:        req.Status,
		StartDateFrom: req.StartDateFrom,
		StartDateTo:   req.StartDateTo,
		EndDateFrom:   req.EndDateFrom,
		EndDateTo:     req.EndDateTo,
	}, page, limit)
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func (s *BookingService) search(ctx context.Context, filter bookingDomain.Filter, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.Search(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

func (s *BookingService) ensureRoomOwner(ctx context.Context, roomID, userID int64, action string) error {
	isOwner, err := s.rooms.IsOwner(ctx, roomID, userID)
	if err != nil {
		return fmt.Errorf("failed to check room ownership: %w", err)
	}
	if !isOwner {
		return domain.NewForbiddenError("only the room owner can " + action + " bookings")
	}
	return nil
}

func (s *BookingService) ensureNoOverlap(ctx context.Context, roomID int64, startDate, endDate bookingDomain.Date) error {
	overlapping, err := s.repo.FindOverlapping(ctx, roomID, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to check overlapping bookings: %w", err)
	}
	if len(overlapping) > 0 {
		return domain.NewValidationError("room is already booked for the selected dates")
	}
	return nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:          bk.ID(),
		RoomID:      bk.RoomID(),
		SeekerID:    bk.SeekerID(),
		StartDate:   bk.StartDate(),
		EndDate:     bk.EndDate(),
		Status:      string(bk.Status()),
		Comments:    bk.Comments(),
		BookingDate: bk.BookingDate(),
		UpdatedAt:   bk.UpdatedAt(),
	}
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking, actorID int64) {
	evt := events.BookingEvent{
		BookingID:  bk.ID(),
		RoomID:     bk.RoomID(),
		SeekerID:   bk.SeekerID(),
		StartDate:  bk.StartDate().String(),
		EndDate:    bk.EndDate().String(),
		Status:     string(bk.Status()),
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}

	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
