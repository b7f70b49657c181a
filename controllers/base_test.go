package controllers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status string
	decodeResponse(t, w, &status)
	assert.Equal(t, "ok", status)

	sqlDB, err := s.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", decode(t, w).Error)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "counted")

	w := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "chirp_http_requests_total")
	assert.Contains(t, body, `route="/api/v1/register"`)
	assert.Contains(t, body, `chirp_logins_total{result="success"} 1`)
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t)
	s.Router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := s.do(t, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, genericErrorMessage, decode(t, w).Error)
	assert.True(t, hasEntry(s, logrus.ErrorLevel, "panic while serving request"))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRateLimitApplies(t *testing.T) {
	s := newTestServer(t)
	s.Config.RateLimit.LoginBurst = 1
	s.Server = NewServer(s.DB, s.Config, WithLogger(s.Log))

	body := gin.H{"username": "x", "password": "y"}
	first := s.do(t, http.MethodPost, "/api/v1/login", "", body)
	assert.Equal(t, http.StatusUnprocessableEntity, first.Code)

	second := s.do(t, http.MethodPost, "/api/v1/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.True(t, strings.Contains(decode(t, second).Error, "Too many"))
}
