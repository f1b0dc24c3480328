package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCheckRateLimit(t *testing.T) {
	t.Run("bypassed in test env", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		allowed, err := CheckRateLimit(context.Background(), nil, "filter", "ip:1.2.3.4", 1, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("bypassed in development env", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		allowed, err := CheckRateLimit(context.Background(), nil, "filter", "ip:1.2.3.4", 1, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("nil redis returns error in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		allowed, err := CheckRateLimit(context.Background(), nil, "filter", "ip:1.2.3.4", 1, time.Minute)
		assert.Error(t, err)
		assert.False(t, allowed)
	})

	t.Run("counts within window", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		rdb := newTestRedis(t)

		for i := 0; i < 3; i++ {
			allowed, err := CheckRateLimit(context.Background(), rdb, "register", "ip:1.2.3.4", 3, 10*time.Minute)
			assert.NoError(t, err)
			assert.True(t, allowed, "request %d should be allowed", i+1)
		}

		allowed, err := CheckRateLimit(context.Background(), rdb, "register", "ip:1.2.3.4", 3, 10*time.Minute)
		assert.NoError(t, err)
		assert.False(t, allowed, "fourth request should be rejected")
	})

	t.Run("separate identities tracked separately", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		rdb := newTestRedis(t)

		allowed, err := CheckRateLimit(context.Background(), rdb, "login", "ip:1.1.1.1", 1, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = CheckRateLimit(context.Background(), rdb, "login", "ip:2.2.2.2", 1, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("bypassed in test mode", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		app := fiber.New()
		app.Get("/posts", RateLimit(nil, 1, time.Minute), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("enforces limit with 429", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		rdb := newTestRedis(t)

		app := fiber.New()
		app.Post("/register", RateLimit(rdb, 2, 10*time.Minute, "register"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusCreated)
		})

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/register", nil)
			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
			_ = resp.Body.Close()
		}

		req := httptest.NewRequest(http.MethodPost, "/register", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("fail-open with nil redis in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := fiber.New()
		app.Get("/posts", RateLimit(nil, 1, time.Minute), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("fail-closed with nil redis in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := fiber.New()
		app.Get("/sensitive", RateLimitWithPolicy(nil, 1, time.Minute, FailClosed), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/sensitive", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
