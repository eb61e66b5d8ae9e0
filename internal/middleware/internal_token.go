package middleware

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// GatewayTokenAuth protects the payment gateway callback endpoint using a
// static bearer token plus an optional IP allowlist. Party JWTs never
// reach this surface.
func GatewayTokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !callbackIPAllowed(c) {
			logCallbackAuthFailure(c, http.StatusForbidden, "ip_not_allowed")
			writeCallbackError(c, http.StatusForbidden, "AUTH_INVALID", "IP not allowed")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logCallbackAuthFailure(c, http.StatusUnauthorized, "missing_auth")
			writeCallbackError(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logCallbackAuthFailure(c, http.StatusUnauthorized, "invalid_auth_format")
			writeCallbackError(c, http.StatusUnauthorized, "AUTH_INVALID", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		expected := os.Getenv("GATEWAY_CALLBACK_TOKEN")
		if expected == "" {
			logCallbackAuthFailure(c, http.StatusInternalServerError, "token_not_configured")
			writeCallbackError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Callback token is not configured")
			c.Abort()
			return
		}

		if parts[1] != expected {
			logCallbackAuthFailure(c, http.StatusForbidden, "invalid_token")
			writeCallbackError(c, http.StatusForbidden, "AUTH_INVALID", "Invalid callback token")
			c.Abort()
			return
		}

		c.Next()
	}
}

func writeCallbackError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func callbackIPAllowed(c *gin.Context) bool {
	allowed := strings.TrimSpace(os.Getenv("GATEWAY_CALLBACK_ALLOWED_IPS"))
	if allowed == "" {
		return true
	}
	clientIP := c.ClientIP()
	for _, ip := range strings.Split(allowed, ",") {
		if strings.TrimSpace(ip) == clientIP {
			return true
		}
	}
	return false
}

func logCallbackAuthFailure(c *gin.Context, status int, reason string) {
	log.Printf("gateway_callback_auth status=%d request_id=%s reason=%s", status, requestID(c), reason)
}
