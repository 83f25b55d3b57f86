package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/voidfield/voidfield/internal/config"
	coresys "github.com/voidfield/voidfield/internal/core/system"
	"github.com/voidfield/voidfield/internal/data"
	"github.com/voidfield/voidfield/internal/population"
	"github.com/voidfield/voidfield/internal/sim"
	"github.com/voidfield/voidfield/internal/stream"
	"github.com/voidfield/voidfield/internal/zone"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

var printer = message.NewPrinter(language.English)

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              voidfield  v0.1.0            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        zone streaming · headless run      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - utf8.RuneCountInString(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	valStr := printer.Sprint(value)
	dotsLen := 42 - utf8.RuneCountInString(label) - utf8.RuneCountInString(valStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), valStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/voidfield.toml"
	if p := os.Getenv("VOIDFIELD_CONFIG"); p != "" {
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

	printBanner()

	// 3. Load population catalog
	printSection("Data")
	catalog, err := data.LoadCatalog(cfg.Data.RockTable)
	if err != nil {
		return fmt.Errorf("load rock table: %w", err)
	}
	printOK(fmt.Sprintf("rock table %s", cfg.Data.RockTable))
	printStat("world salt", catalog.Salt)
	printStat("rocks per zone", fmt.Sprintf("%d-%d", catalog.Count.Min, catalog.Count.Max-1))
	printStat("spawn points per zone", catalog.Grid*catalog.Grid)
	fmt.Println()

	// 4. Build the world and the streamer
	grid := zone.NewGrid(cfg.Zone.HalfSize)
	gen := population.NewGenerator(grid, catalog)
	host := sim.NewWorld(log)
	host.SpawnPlayer(mgl64.Vec2{})

	streamer := stream.New(grid, cfg.Stream, gen, catalog.MaxSpeed, stream.Deps{
		Factory: host,
		Locator: host,
		Player:  host,
		Log:     log,
	})
	streamer.Bootstrap(cfg.Stream.ClearRadius)

	printSection("Zones")
	printStat("zone size", 2*cfg.Zone.HalfSize)
	printStat("despawn distance", cfg.Stream.DespawnDistance)
	printStat("far distance", cfg.Stream.FarDistance)
	printStat("rocks at origin", streamer.Stats().Live)
	fmt.Println()

	// 5. Register systems. The pilot steers before movement integrates.
	runner := coresys.NewRunner()
	runner.Register(
		sim.NewPilotSystem(host, cfg.Ship.Speed, cfg.Ship.TurnEvery, cfg.Ship.Seed),
		sim.NewMovementSystem(host),
	)
	runner.Register(streamer.Systems()...)
	runner.Register(sim.NewCleanupSystem(host))

	// 6. Start loop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Loop.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Loop.Duration)
		defer cancel()
	}

	printSection("Ready")
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Loop.TickRate))
	fmt.Println()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(cfg.Loop.TickRate)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				runner.Tick(cfg.Loop.TickRate)
				if n := cfg.Loop.StatsEvery; n > 0 && runner.Ticks()%uint64(n) == 0 {
					logStats(log, runner.Ticks(), streamer, host)
				}
			}
		}
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.Info("stopped", zap.Uint64("ticks", runner.Ticks()))
	printSummary(streamer, host)
	return nil
}

func logStats(log *zap.Logger, tick uint64, s *stream.Streamer, host *sim.World) {
	st := s.Stats()
	fields := []zap.Field{
		zap.Uint64("tick", tick),
		zap.Int("live", st.Live),
		zap.Int("materialized", st.Materialized),
		zap.Int("dematerialized", st.Dematerialized),
		zap.Int("owed", st.Owed),
	}
	if pos, ok := host.PlayerPosition(); ok {
		fields = append(fields, zap.Stringer("zone", s.Grid().Of(pos)))
	}
	log.Info("stream", fields...)
}

func printSummary(s *stream.Streamer, host *sim.World) {
	st := s.Stats()
	fmt.Println()
	printSection("Summary")
	printStat("zones known", st.Zones)
	printStat("materialized", st.Materialized)
	printStat("dematerialized", st.Dematerialized)
	printStat("rocks live", st.Live)
	printStat("rocks owed", st.Owed)
	printStat("spawned", st.Spawned)
	printStat("evicted", st.Evicted)
	printStat("vanished", st.Vanished)
	printStat("zone despawns", st.ZoneDespawns)
	if st.Violations > 0 {
		printStat("invariant violations", st.Violations)
	}

	census := host.Census()
	materials := make([]string, 0, len(census))
	counts := make(map[string]int, len(census))
	for m, n := range census {
		materials = append(materials, m.String())
		counts[m.String()] = n
	}
	sort.Strings(materials)
	for _, m := range materials {
		printStat("live "+m, counts[m])
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
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
