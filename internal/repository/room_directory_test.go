package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/roomfinder/service-booking/internal/pkg/domain"
)

func mustCreateRoom(t *testing.T, db *gorm.DB, landlordID int64) int64 {
	t.Helper()

	model := RoomModel{
		LandlordID: landlordID,
		Title:      "Sunny studio",
		Price:      450,
		Address:    "12 Main St",
		City:       "Rotterdam",
		Available:  true,
		PostedDate: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&model).Error)
	return model.ID
}

func TestGormRoomDirectory_IsOwner(t *testing.T) {
	db := newTestDB(t)
	dir := NewGormRoomDirectory(db)
	ctx := context.Background()

	roomID := mustCreateRoom(t, db, 500)

	owner, err := dir.IsOwner(ctx, roomID, 500)
	require.NoError(t, err)
	assert.True(t, owner)

	owner, err = dir.IsOwner(ctx, roomID, 501)
	require.NoError(t, err)
	assert.False(t, owner)

	// An unknown room is simply not owned.
	owner, err = dir.IsOwner(ctx, 9999, 500)
	require.NoError(t, err)
	assert.False(t, owner)
}

func TestGormRoomDirectory_IDsOwnedBy(t *testing.T) {
	db := newTestDB(t)
	dir := NewGormRoomDirectory(db)
	ctx := context.Background()

	first := mustCreateRoom(t, db, 500)
	second := mustCreateRoom(t, db, 500)
	mustCreateRoom(t, db, 501)

	ids, err := dir.IDsOwnedBy(ctx, 500)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{first, second}, ids)

	ids, err = dir.IDsOwnedBy(ctx, 502)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGormRoomDirectory_SetAvailability(t *testing.T) {
	db := newTestDB(t)
	dir := NewGormRoomDirectory(db)
	ctx := context.Background()

	roomID := mustCreateRoom(t, db, 500)

	require.NoError(t, dir.SetAvailability(ctx, roomID, 500, false))

	var model RoomModel
	require.NoError(t, db.First(&model, roomID).Error)
	assert.False(t, model.Available)

	require.NoError(t, dir.SetAvailability(ctx, roomID, 500, true))
	require.NoError(t, db.First(&model, roomID).Error)
	assert.True(t, model.Available)
}

func TestGormRoomDirectory_SetAvailability_Forbidden(t *testing.T) {
	db := newTestDB(t)
	dir := NewGormRoomDirectory(db)

	roomID := mustCreateRoom(t, db, 500)

	err := dir.SetAvailability(context.Background(), roomID, 501, false)
	require.Error(t, err)

	var forbiddenErr *domain.ForbiddenError
	assert.True(t, errors.As(err, &forbiddenErr))
}

func TestGormRoomDirectory_SetAvailability_NotFound(t *testing.T) {
	db := newTestDB(t)
	dir := NewGormRoomDirectory(db)

	err := dir.SetAvailability(context.Background(), 9999, 500, false)
	require.Error(t, err)

	var notFoundErr *domain.NotFoundError
	assert.True(t, errors.As(err, &notFoundErr))
}
