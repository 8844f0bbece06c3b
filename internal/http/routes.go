package http

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/index.html
var indexHTML []byte

// PublicRouteGroup defines routes that don't require authentication.
type PublicRouteGroup interface {
	// RegisterPublicRoutes registers public routes to the given router group.
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

// MealRoutes handles meal analysis route registration.
type MealRoutes struct {
	handler *Handler
}

// NewMealRoutes creates a new MealRoutes instance.
func NewMealRoutes(handler *Handler) *MealRoutes {
	return &MealRoutes{handler: handler}
}

// RegisterPublicRoutes registers the analysis endpoints.
func (r *MealRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", r.handler.Analyze)
	rg.POST("/analyze/upload", r.handler.AnalyzeUpload)
}

// WebRoutes serves the embedded single-page form.
type WebRoutes struct{}

// RegisterPublicRoutes registers GET / and HEAD /.
func (WebRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/", Index)
	rg.HEAD("/", Index)
}

// Index serves the meal analysis form.
func Index(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}
