package persist

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gridsnake/engine/internal/config"
	"go.uber.org/zap"
	"gotest.tools/v3/assert"
)

// SNAKE_TEST_DSN points at a disposable PostgreSQL database.
func testDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("SNAKE_TEST_DSN")
	if dsn == "" {
		t.Skip("SNAKE_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2}, zap.NewNop())
	assert.NilError(t, err)
	t.Cleanup(db.Close)

	_, err = RunMigrations(ctx, db.Pool)
	assert.NilError(t, err)
	_, err = db.Pool.Exec(ctx, `TRUNCATE games, player_best`)
	assert.NilError(t, err)
	return db
}

func TestScoreRepo(t *testing.T) {
	db := testDB(t)
	repo := NewScoreRepo(db)
	ctx := context.Background()

	best, err := repo.Best(ctx, "ann")
	assert.NilError(t, err)
	assert.Equal(t, best, 0)

	assert.NilError(t, repo.Record(ctx, "ann", 30))
	assert.NilError(t, repo.Record(ctx, "ann", 10))
	assert.NilError(t, repo.Record(ctx, "bob", 50))

	best, err = repo.Best(ctx, "ann")
	assert.NilError(t, err)
	assert.Equal(t, best, 30)

	games, err := repo.Games(ctx, "ann")
	assert.NilError(t, err)
	assert.Equal(t, games, 2)

	top, err := repo.Top(ctx, 5)
	assert.NilError(t, err)
	assert.DeepEqual(t, top, []ScoreEntry{{Player: "bob", Score: 50}, {Player: "ann", Score: 30}})
}

func TestCheckSchema(t *testing.T) {
	db := testDB(t)
	h, err := db.Check(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, h.Tables, 2)
	assert.Assert(t, h.TotalConns >= 1)
}
