package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shravastee-thakur/stayease/internal/application"
	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/domain/booking"
	"github.com/shravastee-thakur/stayease/internal/middleware"
	"github.com/shravastee-thakur/stayease/internal/response"
)

// AdminBookingHandler handles admin HTTP requests for booking management.
type AdminBookingHandler struct {
	service *application.BookingService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// RegisterRoutes registers admin booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.BookingStats)
		admin.DELETE("/bookings/:id", h.DeleteBooking)
	}
}

// ListBookings handles GET /api/v1/admin/bookings. Supports filtering by
// status, user_id, hotel_id and a check-in date window.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := booking.ListFilter{Page: page, Limit: limit}

	if raw := c.Query("status"); raw != "" {
		status, err := booking.ParseBookingStatus(raw)
		if err != nil {
			response.BadRequest(c, "invalid status filter")
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid user_id filter")
			return
		}
		filter.UserID = &userID
	}
	if raw := c.Query("hotel_id"); raw != "" {
		hotelID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid hotel_id filter")
			return
		}
		filter.HotelID = &hotelID
	}
	if raw := c.Query("start_from"); raw != "" {
		t, err := booking.ParseDate(raw)
		if err != nil {
			response.BadRequest(c, "invalid start_from filter")
			return
		}
		filter.StartFrom = &t
	}
	if raw := c.Query("start_to"); raw != "" {
		t, err := booking.ParseDate(raw)
		if err != nil {
			response.BadRequest(c, "invalid start_to filter")
			return
		}
		filter.StartTo = &t
	}

	result, err := h.service.ListAllBookings(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// DeleteBooking handles DELETE /api/v1/admin/bookings/:id.
func (h *AdminBookingHandler) DeleteBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), bookingID); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessMessage(c, nil, "booking deleted")
}
