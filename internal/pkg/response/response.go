// Package response defines the JSON envelope every HTTP surface of the
// API uses: {"success": true, "data": ...} on the happy path, and
// {"success": false, "error": {code, message}} otherwise. Error codes
// are stable strings clients switch on (ALREADY_RESPONDED,
// INVARIANT_VIOLATION, ...); messages are for humans and may change.
package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails carries a machine-readable breakdown, typically the
// field->violation map from validation.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
