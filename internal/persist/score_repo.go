package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ScoreEntry is one player's standing.
type ScoreEntry struct {
	Player string
	Score  int
}

// ScoreRepo stores finished games and each player's best score.
type ScoreRepo struct {
	db *DB
}

func NewScoreRepo(db *DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// Record writes one finished game and raises the player's best if beaten,
// in a single transaction.
func (r *ScoreRepo) Record(ctx context.Context, player string, score int) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("score begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO games (player, score) VALUES ($1, $2)`,
		player, score,
	); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO player_best (player, score) VALUES ($1, $2)
		 ON CONFLICT (player) DO UPDATE SET
		     games = player_best.games + 1,
		     score = GREATEST(player_best.score, EXCLUDED.score),
		     updated_at = CASE WHEN EXCLUDED.score > player_best.score
		                       THEN now() ELSE player_best.updated_at END`,
		player, score,
	); err != nil {
		return fmt.Errorf("upsert best: %w", err)
	}
	return tx.Commit(ctx)
}

// Top returns the n best players, highest first. Ties go to whoever got
// there first.
func (r *ScoreRepo) Top(ctx context.Context, n int) ([]ScoreEntry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT player, score FROM player_best
		 ORDER BY score DESC, updated_at ASC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[ScoreEntry])
}

// Best returns the player's best score, or 0 if they never finished a game.
func (r *ScoreRepo) Best(ctx context.Context, player string) (int, error) {
	var best int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT score FROM player_best WHERE player = $1`, player,
	).Scan(&best)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return best, nil
}

// Games returns how many games the player finished.
func (r *ScoreRepo) Games(ctx context.Context, player string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM games WHERE player = $1`, player,
	).Scan(&n)
	return n, err
}
