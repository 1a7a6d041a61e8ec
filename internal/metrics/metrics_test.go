package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, "success", Status(nil))
	assert.Equal(t, "failure", Status(errors.New("x")))
}

func TestGinMiddlewareCountsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.String(http.StatusTeapot, "pong") })

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/ping/:id", "418"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping/7", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusTeapot, w.Code)

	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/ping/:id", "418"))
	assert.Equal(t, before+1, after)
}
