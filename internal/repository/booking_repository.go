package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	bookingDomain "github.com/roomfinder/service-booking/internal/domain/booking"
	"github.com/roomfinder/service-booking/internal/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID          int64              `gorm:"primaryKey;autoIncrement"`
	RoomID      int64              `gorm:"index;not null"`
	SeekerID    int64              `gorm:"index;not null"`
	StartDate   bookingDomain.Date `gorm:"type:date;not null;index"`
	EndDate     bookingDomain.Date `gorm:"type:date;not null"`
	Status      string             `gorm:"not null;size:20;index"`
	Comments    string             `gorm:"size:1000"`
	Version     int64              `gorm:"not null;default:1"`
	BookingDate time.Time          `gorm:"not null"`
	UpdatedAt   time.Time          `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindOverlapping returns every approved booking for the room whose inclusive
// date range intersects [startDate, endDate].
func (r *GormBookingRepository) FindOverlapping(ctx context.Context, roomID int64, startDate, endDate bookingDomain.Date) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status = ?", string(bookingDomain.StatusApproved)).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Order("id DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	return toDomainBookings(models)
}

// Search retrieves bookings matching the filter, ordered by descending id.
func (r *GormBookingRepository) Search(ctx context.Context, filter bookingDomain.Filter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&BookingModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := query.
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *GormBookingRepository) applyFilter(query *gorm.DB, filter bookingDomain.Filter) *gorm.DB {
	if filter.SeekerID != nil {
		query = query.Where("seeker_id = ?", *filter.SeekerID)
	}
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if filter.RoomIDs != nil {
		query = query.Where("room_id IN ?", filter.RoomIDs)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.StartDateFrom != nil {
		query = query.Where("start_date >= ?", *filter.StartDateFrom)
	}
	if filter.StartDateTo != nil {
		query = query.Where("start_date <= ?", *filter.StartDateTo)
	}
	if filter.EndDateFrom != nil {
		query = query.Where("end_date >= ?", *filter.EndDateFrom)
	}
	if filter.EndDateTo != nil {
		query = query.Where("end_date <= ?", *filter.EndDateTo)
	}
	return query
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking and assigns its store-generated id.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	bk.SetID(model.ID)
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// The aggregate bumped its version before the update, so the row must
	// still carry the previous one.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"start_date": model.StartDate,
			"end_date":   model.EndDate,
			"status":     model.Status,
			"comments":   model.Comments,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// Delete removes the booking record entirely.
func (r *GormBookingRepository) Delete(ctx context.Context, bk *bookingDomain.Booking) error {
	result := r.db.WithContext(ctx).Delete(&BookingModel{}, bk.ID())
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", strconv.FormatInt(bk.ID(), 10))
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:          bk.ID(),
		RoomID:      bk.RoomID(),
		SeekerID:    bk.SeekerID(),
		StartDate:   bk.StartDate(),
		EndDate:     bk.EndDate(),
		Status:      string(bk.Status()),
		Comments:    bk.Comments(),
		Version:     bk.Version(),
		BookingDate: bk.BookingDate(),
		UpdatedAt:   bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.Reconstruct(
		m.ID,
		m.RoomID,
		m.SeekerID,
		m.StartDate,
		m.EndDate,
		status,
		m.Comments,
		m.Version,
		m.BookingDate,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
