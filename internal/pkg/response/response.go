package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomfinder/service-booking/internal/pkg/domain"
)

// Error kinds surfaced to clients. Stable and machine-checkable.
const (
	KindInvalidBooking = "INVALID_BOOKING"
	KindAccessDenied   = "ACCESS_DENIED"
	KindNotFound       = "NOT_FOUND"
	KindConflict       = "CONFLICT"
	KindInternal       = "INTERNAL"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 response with pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: KindInvalidBooking, Message: message}})
}

// Error maps a domain error onto the HTTP error taxonomy.
func Error(c *gin.Context, err error) {
	var (
		validation *domain.ValidationError
		state      *domain.InvalidStateError
		forbidden  *domain.ForbiddenError
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &state):
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: KindInvalidBooking, Message: err.Error()}})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": errorBody{Kind: KindAccessDenied, Message: err.Error()}})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errorBody{Kind: KindNotFound, Message: err.Error()}})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": errorBody{Kind: KindConflict, Message: err.Error()}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorBody{Kind: KindInternal, Message: "internal server error"}})
	}
}
