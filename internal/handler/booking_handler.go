package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shravastee-thakur/stayease/internal/application"
	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/middleware"
	"github.com/shravastee-thakur/stayease/internal/response"
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
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}

	// Availability is a public pre-check; clients call it before signing in.
	r.GET("/api/v1/rooms/:id/availability", h.CheckAvailability)
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListMyBookings handles GET /api/v1/bookings.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.GetMyBookings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	role, ok := middleware.GetRole(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	role, ok := middleware.GetRole(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), bookingID, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CheckAvailability handles GET /api/v1/rooms/:id/availability.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		response.BadRequest(c, "start_date and end_date are required")
		return
	}

	result, err := h.service.CheckAvailability(c.Request.Context(), roomID, startDate, endDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
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
