package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/roomfinder/service-booking/internal/application"
	"github.com/roomfinder/service-booking/internal/pkg/auth"
	"github.com/roomfinder/service-booking/internal/pkg/middleware"
	"github.com/roomfinder/service-booking/internal/pkg/response"
)

// AdminHandler exposes booking endpoints restricted to administrators.
type AdminHandler struct {
	service *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.BookingService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers all admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListAllBookings)
		admin.GET("/bookings/stats", h.GetBookingStats)
	}
}

// ListAllBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListAllBookings(c *gin.Context) {
	page, limit := parsePagination(c)
	result, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBookingStats handles GET /api/v1/admin/bookings/stats.
func (h *AdminHandler) GetBookingStats(c *gin.Context) {
	result, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
