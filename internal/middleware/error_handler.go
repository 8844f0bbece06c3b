package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplate/internal/domain/dto"
	"github.com/guttosm/nutriplate/internal/i18n"
	"github.com/guttosm/nutriplate/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into the error envelope
// when the handler did not write a response itself. Bind errors become 400,
// anything else 500. Errors on already written responses are only logged,
// at warn for public (client) errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		status, code, key := http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError
		if last.IsType(gin.ErrorTypeBind) {
			status, code, key = http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequestBody
		}

		log := logger.FromContext(c.Request.Context())
		event := log.Error()
		if last.IsType(gin.ErrorTypeBind | gin.ErrorTypePublic) {
			event = log.Warn()
		}
		event.
			Err(last.Err).
			Int("errors", len(c.Errors)).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Bool("written", c.Writer.Written()).
			Msg("Request error")

		if !c.Writer.Written() {
			abortWithError(c, status, code, key)
		}
	}
}
