package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            rate.Limit(0.001),
		Burst:           2,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	e := echo.New()
	e.Use(rl.Middleware())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, get("10.0.0.1"))
	require.Equal(t, http.StatusOK, get("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, get("10.0.0.1"))

	// Another client has its own limiter.
	require.Equal(t, http.StatusOK, get("10.0.0.2"))
}
