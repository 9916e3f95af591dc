package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	UseRedis(client)
	defer func() {
		UseRedis(nil)
		_ = client.Close()
	}()

	// unique window per run so keys from earlier runs don't interfere
	w := time.Duration(2+time.Now().UnixNano()%1000) * time.Second
	limit := 2

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", RedisRateLimit(limit, w), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	for i := 0; i < limit; i++ {
		res, err := http.Get(srv.URL + "/test")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != 200 {
			t.Fatalf("expected 200 got %d", res.StatusCode)
		}
	}

	res, err := http.Get(srv.URL + "/test")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != 429 {
		t.Fatalf("expected 429 got %d", res.StatusCode)
	}
}

func TestRedisRateLimitFailOpenWithoutClient(t *testing.T) {
	UseRedis(nil)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", RedisRateLimit(1, time.Minute), func(c *gin.Context) { c.Status(204) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		if w.Code != 204 {
			t.Fatalf("request %d: expected 204 got %d", i, w.Code)
		}
	}
}
