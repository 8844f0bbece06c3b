package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplate/internal/mocks"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMealRoutes_RegisterPublicRoutes(t *testing.T) {
	routes := NewMealRoutes(NewHandler(&mocks.MockMealService{}))

	router := gin.New()
	routes.RegisterPublicRoutes(router.Group("/api"))

	registered := make(map[string]bool)
	for _, info := range router.Routes() {
		registered[info.Method+" "+info.Path] = true
	}

	assert.True(t, registered["POST /api/analyze"])
	assert.True(t, registered["POST /api/analyze/upload"])
	assert.Len(t, registered, 2)
}

func TestWebRoutes_Index(t *testing.T) {
	router := gin.New()
	WebRoutes{}.RegisterPublicRoutes(&router.RouterGroup)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "/api/analyze/upload")
	assert.Contains(t, w.Body.String(), `name="adultMales"`)
	assert.Contains(t, w.Body.String(), `name="photo"`)
}

func TestRouteGroups_ImplementInterface(t *testing.T) {
	var _ PublicRouteGroup = (*MealRoutes)(nil)
	var _ PublicRouteGroup = WebRoutes{}
}
