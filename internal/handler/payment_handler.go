package handler

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shravastee-thakur/stayease/internal/application"
	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/middleware"
	"github.com/shravastee-thakur/stayease/internal/response"
)

// PaymentHandler handles payment initiation and the gateway's webhook
// callback.
type PaymentHandler struct {
	payments      *application.PaymentService
	bookings      *application.BookingService
	webhookSecret string
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(
	payments *application.PaymentService,
	bookings *application.BookingService,
	webhookSecret string,
) *PaymentHandler {
	return &PaymentHandler{
		payments:      payments,
		bookings:      bookings,
		webhookSecret: webhookSecret,
	}
}

// RegisterRoutes registers payment routes. The webhook callback is
// authenticated by a shared secret instead of a user token.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("/:id/payment", h.InitiatePayment)
	}

	payments := r.Group("/api/v1/payments")
	{
		payments.POST("/callback", h.PaymentCallback)
	}
}

// InitiatePayment handles POST /api/v1/bookings/:id/payment.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
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

	result, err := h.payments.InitiatePayment(c.Request.Context(), bookingID, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

type paymentCallbackRequest struct {
	Event     string `json:"event" binding:"required"`
	BookingID string `json:"booking_id" binding:"required"`
	PaymentID string `json:"payment_id"`
}

// PaymentCallback handles POST /api/v1/payments/callback. The gateway signs
// requests with a shared secret carried in the X-Webhook-Secret header.
func (h *PaymentHandler) PaymentCallback(c *gin.Context) {
	secret := c.GetHeader("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.webhookSecret)) != 1 {
		response.Unauthorized(c, "invalid webhook secret")
		return
	}

	var req paymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	if req.Event != "payment.succeeded" {
		// Other events (failures, refunds) are acknowledged but not acted on.
		response.SuccessMessage(c, nil, "event ignored")
		return
	}

	if err := h.bookings.ConfirmBookingPayment(c.Request.Context(), bookingID); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessMessage(c, nil, "booking confirmed")
}
