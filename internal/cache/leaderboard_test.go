package cache

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestLeaderboardIntegration(t *testing.T) {
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
	key := fmt.Sprintf("warzone:test:leaderboard:%d", time.Now().UnixNano())
	ctx := context.Background()
	defer func() {
		client.Del(ctx, key)
		_ = client.Close()
	}()

	lb := NewLeaderboardWithClient(client, key)
	for id, coin := range map[int64]int64{1: 500, 2: 3000, 3: 3000, 4: 10} {
		if err := lb.SetCoin(ctx, id, coin); err != nil {
			t.Fatalf("set coin: %v", err)
		}
	}
	// overwrite keeps one entry per player
	if err := lb.SetCoin(ctx, 4, 20); err != nil {
		t.Fatalf("set coin: %v", err)
	}

	top, err := lb.Top(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []int64{2, 3, 1}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), top)
	}
	for i, e := range top {
		if e.PlayerID != want[i] || e.Rank != i+1 {
			t.Fatalf("rank %d: %+v", i+1, e)
		}
	}
	if top[0].Coin != 3000 {
		t.Fatalf("coin: %d", top[0].Coin)
	}

	r, err := lb.Rank(ctx, 4)
	if err != nil || r != 4 {
		t.Fatalf("rank of 4: %d err=%v", r, err)
	}
	if err := lb.Remove(ctx, 4); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if r, _ := lb.Rank(ctx, 4); r != 0 {
		t.Fatalf("removed player still ranked: %d", r)
	}
}

func TestMemberOrdering(t *testing.T) {
	if member(9) >= member(10) {
		t.Fatalf("members must sort numerically: %s %s", member(9), member(10))
	}
	if len(member(1)) != 20 {
		t.Fatalf("unexpected padding: %q", member(1))
	}
}
