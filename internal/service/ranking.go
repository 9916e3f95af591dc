package service

import (
	"context"
	"sort"

	"warzone/internal/domain"
)

const defaultLeaderboardSize = 15

// Leaderboard returns the richest players by coin. The cache is used when it
// is configured and populated; otherwise the store answers.
func (s *EconomyService) Leaderboard(ctx context.Context, limit int) ([]domain.RankEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultLeaderboardSize
	}
	if s.ranking != nil {
		// over-fetch so entries whose cached coin lags the store can still rank in
		top, err := s.ranking.Top(ctx, 2*limit)
		if err != nil {
			s.log.Warn("ranking cache read failed, using store", "error", err)
		} else if len(top) > 0 {
			top = s.decorate(ctx, top)
			if len(top) > limit {
				top = top[:limit]
			}
			return top, nil
		}
	}
	return s.store.TopPlayers(ctx, limit)
}

// decorate replaces cached entries with the stored rows, orders them by
// coin desc then id asc, and repairs cache entries that drifted.
func (s *EconomyService) decorate(ctx context.Context, top []domain.RankEntry) []domain.RankEntry {
	out := top[:0]
	for _, e := range top {
		p, err := s.store.GetPlayer(ctx, e.PlayerID)
		if err != nil {
			s.log.Warn("ranking entry without player", "player", e.PlayerID, "error", err)
			continue
		}
		if p.Coin != e.Coin {
			s.syncRanking(ctx, p)
		}
		out = append(out, domain.RankEntry{
			PlayerID: p.ID,
			Username: p.Username,
			FullName: p.FullName,
			Coin:     p.Coin,
			Level:    p.Level,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Coin != out[j].Coin {
			return out[i].Coin > out[j].Coin
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// WarmRanking loads the store's top players into the cache.
func (s *EconomyService) WarmRanking(ctx context.Context, limit int) error {
	if s.ranking == nil {
		return nil
	}
	top, err := s.store.TopPlayers(ctx, limit)
	if err != nil {
		return err
	}
	for _, e := range top {
		if err := s.ranking.SetCoin(ctx, e.PlayerID, e.Coin); err != nil {
			return err
		}
	}
	return nil
}
