package middleware

import "github.com/gin-gonic/gin"

// CallRecorder aggregates request counts per (method, endpoint) pair.
type CallRecorder interface {
	RecordCallAsync(method, endpoint string)
}

// Analytics records every request after its handler completes, success or
// failure alike. Recording is asynchronous and never delays the response.
// When countUnauthenticated is false, requests rejected by the auth
// middleware (401 with no claims) are skipped.
func Analytics(recorder CallRecorder, countUnauthenticated bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !countUnauthenticated && c.Writer.Status() == 401 && CurrentClaims(c) == nil {
			return
		}
		recorder.RecordCallAsync(c.Request.Method, c.Request.URL.Path)
	}
}
