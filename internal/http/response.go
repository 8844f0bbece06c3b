package http

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplate/internal/domain/dto"
	"github.com/guttosm/nutriplate/internal/i18n"
	"github.com/guttosm/nutriplate/internal/middleware"
)

// envelopePool recycles response envelopes. Gin serializes synchronously, so
// an envelope can go back to the pool as soon as the write returns.
type envelopePool[T any] struct {
	pool  sync.Pool
	reset func(*T)
}

func newEnvelopePool[T any](reset func(*T)) *envelopePool[T] {
	return &envelopePool[T]{
		pool:  sync.Pool{New: func() interface{} { return new(T) }},
		reset: reset,
	}
}

func (p *envelopePool[T]) get() *T {
	return p.pool.Get().(*T)
}

func (p *envelopePool[T]) put(v *T) {
	p.reset(v)
	p.pool.Put(v)
}

var (
	successPool = newEnvelopePool(func(r *dto.SuccessResponse) {
		*r = dto.SuccessResponse{}
	})
	errorPool = newEnvelopePool(func(r *dto.ErrorResponse) {
		*r = dto.ErrorResponse{}
	})
)

// ResponseBuilder writes the success and error envelopes for one request.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success writes data in the success envelope.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	resp := successPool.get()
	defer successPool.put(resp)

	resp.Data = data
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now().UTC()

	b.c.JSON(statusCode, resp)
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// Error sends an error response whose code is derived from the status.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	b.ErrorWithCode(statusCode, dto.ErrCodeFromStatus(statusCode), messageKey, err)
}

// ErrorWithCode aborts with a translated error envelope. err, when set, is
// attached to the context for ErrorHandler to log; client errors are marked
// public so they are logged at warn. Validation errors also fill Details.
func (b *ResponseBuilder) ErrorWithCode(statusCode int, code, messageKey string, err error) {
	locale := i18n.GetLocale(b.c)

	resp := errorPool.get()
	defer errorPool.put(resp)

	resp.Error = code
	resp.Message = i18n.GetTranslator().Translate(messageKey, locale)
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now().UTC()

	var validationErr *dto.ValidationError
	if errors.As(err, &validationErr) {
		resp.Details = map[string]string{validationErr.Field: validationErr.Message}
	}

	if err != nil {
		ginErr := b.c.Error(err)
		if statusCode < http.StatusInternalServerError {
			ginErr.SetType(gin.ErrorTypePublic)
		}
	}

	b.c.Header("Content-Language", locale)
	b.c.AbortWithStatusJSON(statusCode, resp)
}
