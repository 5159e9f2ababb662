package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordReconciliation(t *testing.T) {
	before := testutil.ToFloat64(paymentReconciliationsTotal.WithLabelValues("success", "error"))
	RecordReconciliation("success", errors.New("upload failed"))
	after := testutil.ToFloat64(paymentReconciliationsTotal.WithLabelValues("success", "error"))
	assert.Equal(t, before+1, after)

	before = testutil.ToFloat64(paymentReconciliationsTotal.WithLabelValues("cancel", "ok"))
	RecordReconciliation("cancel", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(paymentReconciliationsTotal.WithLabelValues("cancel", "ok")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/ping", "200")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
}
