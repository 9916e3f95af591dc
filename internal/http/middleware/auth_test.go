package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type stubTokens struct{}

func (stubTokens) Parse(token string) (int64, error) {
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, errors.New("invalid token")
	}
	return id, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := PlayerID(c)
		c.JSON(200, gin.H{"id": id})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r *gin.Engine, auth string) int {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestJWTAndAdmin(t *testing.T) {
	tests := []struct {
		name string
		auth string
		want int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic 1", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"non admin", "Bearer 2", http.StatusForbidden},
		{"admin", "Bearer 1", http.StatusOK},
	}

	r := newRouter(JWT(stubTokens{}), Admin([]int64{1}))
	for _, tt := range tests {
		if got := do(r, tt.auth); got != tt.want {
			t.Fatalf("%s: expected %d got %d", tt.name, tt.want, got)
		}
	}
}

func TestPlayerRateLimit(t *testing.T) {
	r := newRouter(JWT(stubTokens{}), PlayerRateLimit(2, time.Hour))

	for i := 0; i < 2; i++ {
		if got := do(r, "Bearer 5"); got != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, got)
		}
	}
	if got := do(r, "Bearer 5"); got != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", got)
	}
	// other players have their own bucket
	if got := do(r, "Bearer 6"); got != http.StatusOK {
		t.Fatalf("expected 200 for other player got %d", got)
	}
}

func TestActionRateLimitFallsBackToLocal(t *testing.T) {
	UseRedis(nil)
	r := newRouter(JWT(stubTokens{}), ActionRateLimit(1, time.Hour))
	if got := do(r, "Bearer 9"); got != http.StatusOK {
		t.Fatalf("expected 200 got %d", got)
	}
	if got := do(r, "Bearer 9"); got != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", got)
	}
}
