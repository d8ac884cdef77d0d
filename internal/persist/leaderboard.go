package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gridsnake/engine/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotRanked is returned by Rank for a player with no entry.
var ErrNotRanked = errors.New("player not ranked")

// Leaderboard keeps every player's best score in a Redis sorted set.
type Leaderboard struct {
	rdb *redis.Client
	key string
	log *zap.Logger
}

// NewLeaderboard connects to Redis and checks the connection.
func NewLeaderboard(ctx context.Context, cfg config.LeaderboardConfig, log *zap.Logger) (*Leaderboard, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return NewLeaderboardClient(rdb, cfg.Key, log), nil
}

// NewLeaderboardClient wraps an existing client.
func NewLeaderboardClient(rdb *redis.Client, key string, log *zap.Logger) *Leaderboard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Leaderboard{rdb: rdb, key: key, log: log}
}

// Record stores score if it beats the player's current entry.
func (l *Leaderboard) Record(ctx context.Context, player string, score int) error {
	err := l.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.ZScore(ctx, l.key, player).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		case cur >= float64(score):
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.ZAdd(ctx, l.key, redis.Z{Score: float64(score), Member: player})
			return nil
		})
		return err
	}, l.key)
	if err != nil {
		return fmt.Errorf("leaderboard record %s: %w", player, err)
	}
	l.log.Debug("leaderboard updated", zap.String("player", player), zap.Int("score", score))
	return nil
}

// Top returns up to n entries, highest score first.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]ScoreEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := l.rdb.ZRevRangeWithScores(ctx, l.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard top: %w", err)
	}
	out := make([]ScoreEntry, 0, len(zs))
	for _, z := range zs {
		name, _ := z.Member.(string)
		out = append(out, ScoreEntry{Player: name, Score: int(z.Score)})
	}
	return out, nil
}

// Rank returns the player's 1-based position.
func (l *Leaderboard) Rank(ctx context.Context, player string) (int, error) {
	r, err := l.rdb.ZRevRank(ctx, l.key, player).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotRanked
	}
	if err != nil {
		return 0, fmt.Errorf("leaderboard rank: %w", err)
	}
	return int(r) + 1, nil
}

func (l *Leaderboard) Close() error {
	return l.rdb.Close()
}
