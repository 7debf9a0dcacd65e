package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shravastee-thakur/stayease/internal/domain"
)

// Envelope is the JSON shape every endpoint responds with.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries a machine-readable error kind alongside the message.
type ErrorBody struct {
	Kind    string      `json:"kind"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes a 200 with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// SuccessMessage writes a 200 with a payload and human-readable message.
func SuccessMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Created writes a 201 with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 with a page of items and list metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	}})
}

// BadRequest writes a 400 with a validation error body.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: &ErrorBody{
		Kind:    string(domain.KindValidation),
		Message: message,
	}})
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Envelope{Success: false, Error: &ErrorBody{
		Kind:    string(domain.KindUnauthorized),
		Message: message,
	}})
}

// Error translates a domain error into the matching HTTP status. Unknown
// errors become a generic 500 so internal messages never leak.
func Error(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		c.JSON(statusFor(de.Kind), Envelope{Success: false, Error: &ErrorBody{
			Kind:    string(de.Kind),
			Message: de.Message,
			Details: de.Details,
		}})
		return
	}

	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Error: &ErrorBody{
		Kind:    string(domain.KindStorage),
		Message: "internal server error",
	}})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindInvalidRange, domain.KindAlreadyCancelled, domain.KindInvalidState:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
