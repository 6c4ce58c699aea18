package middleware

import (
	"net/http"

	"umkm-terminal/pkg/apperror"
	"umkm-terminal/pkg/response"

	"github.com/gin-gonic/gin"
)

// MaxBodySize limits the request body. A declared Content-Length above the
// limit is rejected up front with 413; an undeclared oversize body fails when
// the handler reads past maxBytes.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, apperror.New("REQ_002", "Request body too large", http.StatusRequestEntityTooLarge))
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
