package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"warzone/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

const leaderboardKey = "warzone:leaderboard:coin"

// Leaderboard mirrors player coin balances in a Redis sorted set.
type Leaderboard struct {
	client *redis.Client
	key    string
}

// NewLeaderboard connects to addr and pings it. A failed ping returns an error
// so callers can run without the cache.
func NewLeaderboard(addr, password string, db int) (*Leaderboard, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &Leaderboard{client: client, key: leaderboardKey}, nil
}

// NewLeaderboardWithClient uses an existing client and key. Used by tests to
// isolate keys.
func NewLeaderboardWithClient(client *redis.Client, key string) *Leaderboard {
	if key == "" {
		key = leaderboardKey
	}
	return &Leaderboard{client: client, key: key}
}

// The score is the negated coin balance and members are zero padded ids, so an
// ascending range orders by coin desc then id asc.
func member(id int64) string { return fmt.Sprintf("%020d", id) }

// SetCoin stores the player's current coin balance.
func (l *Leaderboard) SetCoin(ctx context.Context, playerID, coin int64) error {
	return l.client.ZAdd(ctx, l.key, redis.Z{
		Score:  -float64(coin),
		Member: member(playerID),
	}).Err()
}

// Top returns the first limit entries. Names and levels are left empty.
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]domain.RankEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	zs, err := l.client.ZRangeWithScores(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.RankEntry, 0, len(zs))
	for i, z := range zs {
		s, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, domain.RankEntry{Rank: i + 1, PlayerID: id, Coin: int64(-z.Score)})
	}
	return out, nil
}

// Rank returns the 1-based position of a player, or 0 when absent.
func (l *Leaderboard) Rank(ctx context.Context, playerID int64) (int64, error) {
	r, err := l.client.ZRank(ctx, l.key, member(playerID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return r + 1, nil
}

// Remove drops a player from the board.
func (l *Leaderboard) Remove(ctx context.Context, playerID int64) error {
	return l.client.ZRem(ctx, l.key, member(playerID)).Err()
}

func (l *Leaderboard) Ping(ctx context.Context) error { return l.client.Ping(ctx).Err() }

func (l *Leaderboard) Close() error { return l.client.Close() }

// Client exposes the underlying connection for other Redis users.
func (l *Leaderboard) Client() *redis.Client { return l.client }
