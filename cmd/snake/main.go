package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gridsnake/engine/internal/app"
	"github.com/gridsnake/engine/internal/config"
	"github.com/gridsnake/engine/internal/data"
	"github.com/gridsnake/engine/internal/engine"
	gonet "github.com/gridsnake/engine/internal/net"
	"github.com/gridsnake/engine/internal/persist"
	"github.com/gridsnake/engine/internal/platform/headless"
	"github.com/gridsnake/engine/internal/scripting"
	"github.com/gridsnake/engine/internal/system"
	"github.com/gridsnake/engine/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(player, level string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             gridsnake  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        ECS snake · headless terminal      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mplayer:\033[0m %s \033[90m(level: %s)\033[0m\n\n", player, level)
}

func printSection(title string) {
	lineLen := max(3, 46-len(title)-1)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(3, 42-len(label)-len(numStr))
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Game ───────────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/snake.toml"
	if p := os.Getenv("SNAKE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Load levels
	levels, err := data.LoadLevelTable(cfg.Game.LevelFile)
	if err != nil {
		return fmt.Errorf("levels: %w", err)
	}
	level := levels.First()
	if cfg.Game.Level != "" {
		level = levels.Get(cfg.Game.Level)
	}
	if level == nil {
		return fmt.Errorf("level %q not found in %s (have %s)",
			cfg.Game.Level, cfg.Game.LevelFile, strings.Join(levels.Names(), ", "))
	}

	printBanner(cfg.Game.Player, level.Name)

	printSection("data")
	printStat("levels", levels.Count())
	printStat("board cells", level.Width*level.Height)
	printStat("wall cells", len(level.WallSet()))

	// 4. Lua rules
	rules, err := scripting.NewEngine(cfg.Game.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer rules.Close()
	printOK(fmt.Sprintf("rules %q loaded", rules.RulesName()))
	fmt.Println()

	// 5. Score storage
	printSection("storage")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		sinks []world.ScoreSink
		repo  *persist.ScoreRepo
		best  int
	)

	if cfg.Database.Enabled {
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(ctx, db.Pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		health, err := db.Check(ctx)
		if err != nil {
			return fmt.Errorf("score schema: %w", err)
		}
		printOK(fmt.Sprintf("schema at version %d (%d tables, %d conns)", version, health.Tables, health.TotalConns))

		repo = persist.NewScoreRepo(db)
		if best, err = repo.Best(ctx, cfg.Game.Player); err != nil {
			return fmt.Errorf("load best score: %w", err)
		}
		sinks = append(sinks, repo)
	}

	var board *persist.Leaderboard
	if cfg.Leaderboard.Enabled {
		board, err = persist.NewLeaderboard(ctx, cfg.Leaderboard, log)
		if err != nil {
			return fmt.Errorf("leaderboard: %w", err)
		}
		defer board.Close()
		printOK(fmt.Sprintf("Redis leaderboard %s", cfg.Leaderboard.Key))
		sinks = append(sinks, board)
	}
	if len(sinks) == 0 {
		printOK("scores kept in memory only")
	}
	printStat("best score", best)
	fmt.Println()
	cancel()

	// 6. Platform
	win := headless.NewWindow(64, log)
	win.Listen(os.Stdin)
	defer win.Close()

	var screen io.Writer = io.Discard
	if cfg.Render.ASCII {
		screen = os.Stdout
	}
	if cfg.Remote.Enabled {
		srv, err := gonet.NewServer(cfg.Remote.Bind, cfg.Remote.OutQueue, cfg.Remote.KeysPerSec, win, log)
		if err != nil {
			return fmt.Errorf("remote server: %w", err)
		}
		go srv.AcceptLoop()
		defer srv.Shutdown()
		screen = io.MultiWriter(screen, srv)
		printReady(fmt.Sprintf("remote play on %s", srv.Addr()))
	}
	renderer := headless.NewRenderer(screen, level.Width, level.Height, cfg.Render.ASCII || cfg.Remote.Enabled)
	audio := headless.NewAudio(screen, log)

	global := world.NewGlobal(cfg.Game.Player, rules, cfg.Game.Locale, sinks...)
	global.HighScore = best
	a := app.New(global, win, renderer, audio, log)

	// 7. Engine
	eng := engine.New(a, func() (*system.World, *world.State, error) {
		return system.NewScene(level, log)
	}, engine.Options{Frame: cfg.Game.FrameRate, MaxFrames: cfg.Game.MaxFrames}, log)
	if err := eng.Activate(); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SIGHUP rebuilds the scene without restarting the process.
	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)
	go func() {
		for {
			select {
			case <-hupCh:
				log.Info("reload requested")
				eng.Reload()
			case <-runCtx.Done():
				return
			}
		}
	}()

	printSection("ready")
	printReady("w/a/s/d to steer, r to restart, q to quit")
	printReady(fmt.Sprintf("game loop (frame: %s)", cfg.Game.FrameRate))
	fmt.Println()

	if err := eng.Run(runCtx); err != nil {
		return err
	}

	_, scene := eng.Scene()
	log.Info("game stopped",
		zap.Uint64("frames", eng.Frames()),
		zap.Int("games", scene.Games),
		zap.Int("high_score", global.HighScore),
		zap.Int64("plays", audio.Plays()),
		zap.Int64("dropped_keys", win.Dropped()),
	)

	printScores(repo, board, cfg.Leaderboard.Top, global, log)
	return nil
}

// printScores shows the top scores and the player's standing. The Redis
// leaderboard wins over the score history when both are enabled.
func printScores(repo *persist.ScoreRepo, board *persist.Leaderboard, n int, g *world.Global, log *zap.Logger) {
	if repo == nil && board == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		top []persist.ScoreEntry
		err error
	)
	if board != nil {
		top, err = board.Top(ctx, n)
	} else {
		top, err = repo.Top(ctx, n)
	}
	if err != nil {
		log.Warn("read top scores failed", zap.Error(err))
		return
	}
	fmt.Println()
	printSection("leaderboard")
	for i, e := range top {
		fmt.Printf("  %2d. %-20s %s\n", i+1, e.Player, g.FormatScore(e.Score))
	}

	if board != nil {
		rank, err := board.Rank(ctx, g.Player)
		switch {
		case errors.Is(err, persist.ErrNotRanked):
			printOK(fmt.Sprintf("%s is not ranked yet", g.Player))
		case err != nil:
			log.Warn("read rank failed", zap.Error(err))
		default:
			printStat("rank", rank)
		}
	}
	if repo != nil {
		games, err := repo.Games(ctx, g.Player)
		if err != nil {
			log.Warn("read game count failed", zap.Error(err))
			return
		}
		printStat("games played", games)
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	// Frames go to stdout; keep logs off it.
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
