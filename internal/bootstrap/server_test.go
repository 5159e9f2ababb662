package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/tourbooking/api"
	"github.com/Domenick1991/tourbooking/config"
	"github.com/Domenick1991/tourbooking/internal/repository/memory"
	"github.com/Domenick1991/tourbooking/internal/service/payment"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestDeps(t *testing.T, checks map[string]HealthCheck) (*config.Config, Deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Tracing: config.TracingConfig{ServiceName: "tour-payment-test"}}
	logger := zaptest.NewLogger(t)
	service := payment.NewPaymentService(memory.NewStore(), nil, nil, nil, nil, logger)
	return cfg, Deps{
		Payments: api.NewPaymentHandler(service, cfg.Payment),
		Checks:   checks,
		Logger:   logger,
	}
}

func TestRouter_Health(t *testing.T) {
	cfg, deps := newTestDeps(t, map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
	})
	router := NewRouter(cfg, deps)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["postgres"])
}

func TestRouter_HealthDegraded(t *testing.T) {
	cfg, deps := newTestDeps(t, map[string]HealthCheck{
		"kafka": func(context.Context) error { return errors.New("no brokers") },
	})
	router := NewRouter(cfg, deps)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "no brokers")
}

func TestRouter_PaymentRoutesMounted(t *testing.T) {
	cfg, deps := newTestDeps(t, nil)
	router := NewRouter(cfg, deps)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payment/invoice/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Payment not found")
}

func TestRouter_Metrics(t *testing.T) {
	cfg, deps := newTestDeps(t, nil)
	router := NewRouter(cfg, deps)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRouter_APIDocs(t *testing.T) {
	cfg, deps := newTestDeps(t, nil)
	router := NewRouter(cfg, deps)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/api/v1/payment/init-payment/{bookingId}")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/docs/openapi.json")
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	cfg, deps := newTestDeps(t, nil)
	cfg.HTTP.Address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, Run(ctx, cfg, deps))
}

func TestRun_ShutsDownWhileServing(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg, deps := newTestDeps(t, nil)
	cfg.HTTP.Address = "127.0.0.1:0"
	deps.Logger = zap.New(core)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, deps) }()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("http server listening").Len() == 1
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 1, logs.Len())
}

func TestRun_ListenError(t *testing.T) {
	cfg, deps := newTestDeps(t, nil)
	cfg.HTTP.Address = "127.0.0.1:-1"

	err := Run(context.Background(), cfg, deps)

	assert.Error(t, err)
}
