package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplate/internal/domain/dto"
	"github.com/guttosm/nutriplate/internal/i18n"
)

// BodyLimit caps the request body at maxBytes. Requests that declare a larger
// Content-Length are rejected with 413 before the handler runs; others fail
// on read with *http.MaxBytesError, which handlers map with IsBodyTooLarge.
// A non-positive maxBytes disables the limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			AbortBodyTooLarge(c)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// IsBodyTooLarge reports whether err was caused by the BodyLimit reader.
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// AbortBodyTooLarge writes the 413 error envelope.
func AbortBodyTooLarge(c *gin.Context) {
	abortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, i18n.ErrKeyPayloadTooLarge)
}
