package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shravastee-thakur/stayease/internal/application"
	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/middleware"
	"github.com/shravastee-thakur/stayease/internal/response"
)

// RoomHandler handles HTTP requests for rooms. Reads are public; writes
// require the admin role.
type RoomHandler struct {
	service *application.CatalogService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(service *application.CatalogService) *RoomHandler {
	return &RoomHandler{service: service}
}

// RegisterRoutes registers all room routes.
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	hotels := r.Group("/api/v1/hotels/:id/rooms")
	{
		hotels.GET("", h.GetHotelRooms)
		hotels.POST("", authMW, adminRole, h.CreateRoom)
	}

	rooms := r.Group("/api/v1/rooms")
	{
		rooms.GET("/:id", h.GetRoom)
		rooms.PUT("/:id", authMW, adminRole, h.UpdateRoom)
		rooms.DELETE("/:id", authMW, adminRole, h.DeleteRoom)
	}
}

// GetHotelRooms handles GET /api/v1/hotels/:id/rooms.
func (h *RoomHandler) GetHotelRooms(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid hotel ID")
		return
	}

	result, err := h.service.GetHotelRooms(c.Request.Context(), hotelID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateRoom handles POST /api/v1/hotels/:id/rooms.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid hotel ID")
		return
	}

	var req application.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateRoom(c.Request.Context(), hotelID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetRoom handles GET /api/v1/rooms/:id.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	result, err := h.service.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateRoom handles PUT /api/v1/rooms/:id.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	var req application.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateRoom(c.Request.Context(), roomID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteRoom handles DELETE /api/v1/rooms/:id.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	if err := h.service.DeleteRoom(c.Request.Context(), roomID); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessMessage(c, nil, "room deleted")
}
