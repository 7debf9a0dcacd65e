package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shravastee-thakur/stayease/internal/application"
	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/domain/catalog"
	"github.com/shravastee-thakur/stayease/internal/middleware"
	"github.com/shravastee-thakur/stayease/internal/response"
)

// HotelHandler handles HTTP requests for hotel listings. Reads are public;
// writes require the admin role.
type HotelHandler struct {
	service *application.CatalogService
}

// NewHotelHandler creates a new HotelHandler.
func NewHotelHandler(service *application.CatalogService) *HotelHandler {
	return &HotelHandler{service: service}
}

// RegisterRoutes registers all hotel routes.
func (h *HotelHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	hotels := r.Group("/api/v1/hotels")
	{
		hotels.GET("", h.ListHotels)
		hotels.GET("/:id", h.GetHotel)
		hotels.POST("", authMW, adminRole, h.CreateHotel)
		hotels.PUT("/:id", authMW, adminRole, h.UpdateHotel)
		hotels.DELETE("/:id", authMW, adminRole, h.DeleteHotel)
	}
}

// ListHotels handles GET /api/v1/hotels.
func (h *HotelHandler) ListHotels(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := catalog.HotelFilter{Page: page, Limit: limit}

	if city := c.Query("city"); city != "" {
		filter.City = &city
	}
	if raw := c.Query("featured"); raw != "" {
		featured := raw == "true"
		filter.Featured = &featured
	}

	result, err := h.service.ListHotels(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetHotel handles GET /api/v1/hotels/:id.
func (h *HotelHandler) GetHotel(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid hotel ID")
		return
	}

	result, err := h.service.GetHotel(c.Request.Context(), hotelID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateHotel handles POST /api/v1/hotels.
func (h *HotelHandler) CreateHotel(c *gin.Context) {
	var req application.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateHotel(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateHotel handles PUT /api/v1/hotels/:id.
func (h *HotelHandler) UpdateHotel(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid hotel ID")
		return
	}

	var req application.UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateHotel(c.Request.Context(), hotelID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteHotel handles DELETE /api/v1/hotels/:id.
func (h *HotelHandler) DeleteHotel(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid hotel ID")
		return
	}

	if err := h.service.DeleteHotel(c.Request.Context(), hotelID); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessMessage(c, nil, "hotel deleted")
}
