package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/roomfinder/service-booking/internal/pkg/domain"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID          int64             `gorm:"primaryKey;autoIncrement"`
	LandlordID  int64             `gorm:"index;not null"`
	Title       string            `gorm:"not null;size:255"`
	Description string            `gorm:"size:1000"`
	Price       float64           `gorm:"not null"`
	Address     string            `gorm:"not null;size:255"`
	City        string            `gorm:"not null;size:100;index"`
	Size        int               `gorm:""`
	Images      datatypes.JSON    `gorm:""`
	Amenities   datatypes.JSONMap `gorm:""`
	Available   bool              `gorm:"not null;default:true"`
	PostedDate  time.Time         `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RoomModel) TableName() string {
	return "rooms"
}

// GormRoomDirectory is the GORM-backed room.Directory implementation for
// deployments where the room listings share the database.
type GormRoomDirectory struct {
	db *gorm.DB
}

// NewGormRoomDirectory creates a new GormRoomDirectory.
func NewGormRoomDirectory(db *gorm.DB) *GormRoomDirectory {
	return &GormRoomDirectory{db: db}
}

// IsOwner reports whether the given user owns the room.
func (d *GormRoomDirectory) IsOwner(ctx context.Context, roomID, userID int64) (bool, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&RoomModel{}).
		Where("id = ? AND landlord_id = ?", roomID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check room ownership: %w", err)
	}
	return count > 0, nil
}

// IDsOwnedBy returns the ids of every room the landlord owns.
func (d *GormRoomDirectory) IDsOwnedBy(ctx context.Context, landlordID int64) ([]int64, error) {
	var ids []int64
	if err := d.db.WithContext(ctx).Model(&RoomModel{}).
		Where("landlord_id = ?", landlordID).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list landlord rooms: %w", err)
	}
	return ids, nil
}

// SetAvailability flips the room's availability flag, verifying ownership.
func (d *GormRoomDirectory) SetAvailability(ctx context.Context, roomID, userID int64, available bool) error {
	var model RoomModel
	if err := d.db.WithContext(ctx).Where("id = ?", roomID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFoundError("Room", strconv.FormatInt(roomID, 10))
		}
		return fmt.Errorf("failed to load room: %w", err)
	}
	if model.LandlordID != userID {
		return domain.NewForbiddenError("only the room owner can change availability")
	}

	if err := d.db.WithContext(ctx).Model(&RoomModel{}).
		Where("id = ?", roomID).
		Update("available", available).Error; err != nil {
		return fmt.Errorf("failed to update room availability: %w", err)
	}
	return nil
}
