package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/guttosm/nutriplate/internal/middleware"
)

// errEmptyBody is returned by BuildRequest when no JSON document was sent.
var errEmptyBody = errors.New("request body is empty")

// BuildRequest decodes the JSON body of c into a new T. Body size errors from
// the BodyLimit middleware are returned unwrapped so callers can detect them.
func BuildRequest[T any](c *gin.Context) (*T, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil, errEmptyBody
	}

	var req T
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyBody
		}
		if middleware.IsBodyTooLarge(err) {
			return nil, err
		}
		return nil, fmt.Errorf("decode %T: %w", req, err)
	}
	return &req, nil
}
