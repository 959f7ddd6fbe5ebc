package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSignIn_CountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(signInAttempts.WithLabelValues("federated", "authenticated"))

	RecordSignIn("federated", "authenticated")
	RecordSignIn("federated", "authenticated")

	after := testutil.ToFloat64(signInAttempts.WithLabelValues("federated", "authenticated"))
	assert.Equal(t, before+2, after)
}

func TestRequestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestMetricsMiddleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/items/:id", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/items/:id", "200"))
	assert.Equal(t, before+1, after)
}
