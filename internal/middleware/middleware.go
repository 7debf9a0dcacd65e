package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/domain"
	"github.com/shravastee-thakur/stayease/internal/response"
)

const (
	ctxUserIDKey    = "auth.userID"
	ctxRoleKey      = "auth.role"
	requestIDHeader = "X-Request-ID"
)

// AuthMiddleware verifies the Bearer token and stores the principal in the
// request context. Requests without a valid token are rejected with 401.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			response.Unauthorized(c, "authorization header must be a bearer token")
			c.Abort()
			return
		}

		claims, err := jwtManager.Verify(tokenStr)
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		role, err := auth.ParseRole(claims.Role)
		if err != nil {
			response.Unauthorized(c, "token carries an unknown role")
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, role)
		c.Next()
	}
}

// RequireRole rejects requests whose principal does not carry the given role.
// It must run after AuthMiddleware.
func RequireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual, ok := GetRole(c)
		if !ok || actual != role {
			response.Error(c, domain.NewForbiddenError("insufficient role for this operation"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated principal's user ID.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetRole returns the authenticated principal's role.
func GetRole(c *gin.Context) (auth.Role, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(auth.Role)
	return role, ok
}

// RequestIDMiddleware attaches a request ID to the context and response,
// reusing the caller's header when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RecoveryMiddleware converts panics into logged 500 responses.
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(500, gin.H{"success": false, "error": gin.H{
			"kind":    "STORAGE",
			"message": "internal server error",
		}})
	})
}

// LoggerMiddleware logs one structured entry per request.
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDHeader)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// CORSMiddleware allows cross-origin calls from the SPA frontend.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// SecurityHeadersMiddleware sets conservative browser security headers.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
