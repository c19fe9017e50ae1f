package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roomfinder/service-booking/internal/application"
	bookingDomain "github.com/roomfinder/service-booking/internal/domain/booking"
	"github.com/roomfinder/service-booking/internal/pkg/auth"
	"github.com/roomfinder/service-booking/internal/pkg/middleware"
	"github.com/roomfinder/service-booking/internal/pkg/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
		bookings.PATCH("/:id/approve", h.ApproveBooking)
		bookings.PATCH("/:id/reject", h.RejectBooking)
		bookings.PATCH("/:id/cancel", h.CancelBooking)

		bookings.GET("/seeker/my-bookings", h.GetSeekerBookings)
		bookings.GET("/seeker/my-bookings/status/:status", h.GetSeekerBookingsByStatus)
		bookings.GET("/seeker/my-bookings/room/:roomId", h.GetSeekerBookingsByRoom)
		bookings.GET("/seeker/my-bookings/room/:roomId/status/:status", h.GetSeekerBookingsByRoomAndStatus)
		bookings.GET("/landlord/my-bookings", h.GetLandlordBookings)
		bookings.GET("/landlord/my-bookings/status/:status", h.GetLandlordBookingsByStatus)
		bookings.GET("/room/:roomId", h.GetRoomBookings)
		bookings.GET("/room/:roomId/pending", h.GetPendingRoomBookings)
		bookings.GET("/room/:roomId/status/:status", h.GetRoomBookingsByStatus)
		bookings.GET("/status/:status", h.GetBookingsByStatus)
		bookings.GET("/search", h.SearchBookings)
		bookings.GET("/landlord/search", h.SearchBookingsForLandlord)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	seekerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), seekerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBooking handles PUT /api/v1/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	bookingID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	seekerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBooking(c.Request.Context(), bookingID, seekerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBooking handles DELETE /api/v1/bookings/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	bookingID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), bookingID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ApproveBooking handles PATCH /api/v1/bookings/:id/approve.
func (h *BookingHandler) ApproveBooking(c *gin.Context) {
	h.transition(c, h.service.ApproveBooking)
}

// RejectBooking handles PATCH /api/v1/bookings/:id/reject.
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	h.transition(c, h.service.RejectBooking)
}

// CancelBooking handles PATCH /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.transition(c, h.service.CancelBooking)
}

// GetSeekerBookings handles GET /api/v1/bookings/seeker/my-bookings.
func (h *BookingHandler) GetSeekerBookings(c *gin.Context) {
	seekerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetSeekerBookings(c.Request.Context(), seekerID, nil, nil, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetSeekerBookingsByStatus handles GET /api/v1/bookings/seeker/my-bookings/status/:status.
func (h *BookingHandler) GetSeekerBookingsByStatus(c *gin.Context) {
	seekerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := parseStatus(c.Param("status"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetSeekerBookings(c.Request.Context(), seekerID, nil, &status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetSeekerBookingsByRoom handles GET /api/v1/bookings/seeker/my-bookings/room/:roomId.
func (h *BookingHandler) GetSeekerBookingsByRoom(c *gin.Context) {
	seekerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	roomID, err := parseID(c, "roomId")
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetSeekerBookings(c.Request.Context(), seekerID, &roomID, nil, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetSeekerBookingsByRoomAndStatus handles GET /api/v1/bookings/seeker/my-bookings/room/:roomId/status/:status.
func (h *BookingHandler) GetSeekerBookingsByRoomAndStatus(c *gin.Context) {
	seekerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	roomID, err := parseID(c, "roomId")
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	status, err := parseStatus(c.Param("status"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetSeekerBookings(c.Request.Context(), seekerID, &roomID, &status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetLandlordBookings handles GET /api/v1/bookings/landlord/my-bookings.
func (h *BookingHandler) GetLandlordBookings(c *gin.Context) {
	landlordID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetLandlordBookings(c.Request.Context(), landlordID, nil, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetLandlordBookingsByStatus handles GET /api/v1/bookings/landlord/my-bookings/status/:status.
func (h *BookingHandler) GetLandlordBookingsByStatus(c *gin.Context) {
	landlordID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := parseStatus(c.Param("status"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetLandlordBookings(c.Request.Context(), landlordID, &status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetRoomBookings handles GET /api/v1/bookings/room/:roomId.
func (h *BookingHandler) GetRoomBookings(c *gin.Context) {
	roomID, err := parseID(c, "roomId")
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetRoomBookings(c.Request.Context(), roomID, nil, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetPendingRoomBookings handles GET /api/v1/bookings/room/:roomId/pending.
func (h *BookingHandler) GetPendingRoomBookings(c *gin.Context) {
	roomID, err := parseID(c, "roomId")
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	status := bookingDomain.StatusPending
	page, limit := parsePagination(c)
	result, err := h.service.GetRoomBookings(c.Request.Context(), roomID, &status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetRoomBookingsByStatus handles GET /api/v1/bookings/room/:roomId/status/:status.
func (h *BookingHandler) GetRoomBookingsByStatus(c *gin.Context) {
	roomID, err := parseID(c, "roomId")
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	status, err := parseStatus(c.Param("status"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetRoomBookings(c.Request.Context(), roomID, &status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBookingsByStatus handles GET /api/v1/bookings/status/:status.
func (h *BookingHandler) GetBookingsByStatus(c *gin.Context) {
	status, err := parseStatus(c.Param("status"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetBookingsByStatus(c.Request.Context(), status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// SearchBookings handles GET /api/v1/bookings/search.
func (h *BookingHandler) SearchBookings(c *gin.Context) {
	seekerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	req, err := parseSearchRequest(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.SearchBookings(c.Request.Context(), seekerID, req, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// SearchBookingsForLandlord handles GET /api/v1/bookings/landlord/search.
func (h *BookingHandler) SearchBookingsForLandlord(c *gin.Context) {
	landlordID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	req, err := parseSearchRequest(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.SearchBookingsForLandlord(c.Request.Context(), landlordID, req, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// transition runs one of the approve/reject/cancel operations, which all
// share the id + caller-identity signature.
func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, bookingID, userID int64) (*application.BookingDTO, error)) {
	bookingID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := op(c.Request.Context(), bookingID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// --- Parsing helpers ---

func parseID(c *gin.Context, param string) (int64, error) {
	return strconv.ParseInt(c.Param(param), 10, 64)
}

func parseStatus(raw string) (bookingDomain.Status, error) {
	return bookingDomain.ParseStatus(strings.ToUpper(raw))
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}

func parseSearchRequest(c *gin.Context) (application.SearchRequest, error) {
	var req application.SearchRequest

	if raw := c.Query("room_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, fmt.Errorf("invalid room_id: %s", raw)
		}
		req.RoomID = &id
	}
	if raw := c.Query("seeker_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, fmt.Errorf("invalid seeker_id: %s", raw)
		}
		req.SeekerID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, err := parseStatus(raw)
		if err != nil {
			return req, err
		}
		req.Status = &status
	}

	dateParams := []struct {
		name string
		dest **bookingDomain.Date
	}{
		{"start_date_from", &req.StartDateFrom},
		{"start_date_to", &req.StartDateTo},
		{"end_date_from", &req.EndDateFrom},
		{"end_date_to", &req.EndDateTo},
	}
	for _, p := range dateParams {
		if raw := c.Query(p.name); raw != "" {
			d, err := bookingDomain.ParseDate(raw)
			if err != nil {
				return req, err
			}
			*p.dest = &d
		}
	}

	return req, nil
}
