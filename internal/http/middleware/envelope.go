package middleware

import "github.com/gin-gonic/gin"

// abortJSON stops the chain with the same error envelope the handlers use:
//
//	{"success": false, "error": "...", "code": "...", "request_id": "..."}
//
// Middleware cannot import the handlers package, so the shape is repeated here.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":    false,
		"error":      msg,
		"code":       code,
		"request_id": RequestIDFrom(c),
	})
}

// RequestIDFrom returns the correlation id set by RequestID, falling back to
// the response header when the context value is missing.
func RequestIDFrom(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s := asString(v); s != "" {
			return s
		}
	}
	return c.Writer.Header().Get(requestIDHeader)
}
