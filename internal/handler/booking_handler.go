package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/limo-transfers/service-quote/internal/application"
	"github.com/limo-transfers/service-quote/internal/platform/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers the booking route behind the given middleware.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, mw ...gin.HandlerFunc) {
	api := r.Group("/api", mw...)
	api.POST("/book", h.CreateBooking)
}

// CreateBooking handles POST /api/book.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "booking", result)
}
