// Command parsecdemo drives a Planner over a small seeded World, reading its
// system roster from YAML and its tuning from TOML. It follows the usual
// config-then-logger-then-run startup shape, threading a single zap.Logger
// through setup and the tick loop.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/slide-rs/parsec/internal/config"
	"github.com/slide-rs/parsec/metrics"
	"github.com/slide-rs/parsec/planner"
	"github.com/slide-rs/parsec/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m  parsecdemo · ECS planner demo    \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main demo logic ─────────────────────────────────────────────────

func run() error {
	cfgPath := "config/parsecdemo.toml"
	if p := os.Getenv("PARSEC_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	printSection("systems")
	roster, err := loadRoster(cfg.Planner.Systems)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	w := world.New()
	seedEntities(w, 16)

	var mtr *metrics.Planner
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		mtr = metrics.New(reg)
		w.Entities().Alloc.SetMetrics(mtr)
		go serveMetrics(cfg.Metrics.BindAddress, reg, log)
	}

	pl := planner.NewBuilder[Tick]().
		WithWorld(w).
		WithNumThreads(cfg.Planner.NumThreads).
		WithLogger(log).
		WithMetrics(mtr).
		Build()

	for _, entry := range roster {
		sys, err := buildSystem(entry.Name, log)
		if err != nil {
			return fmt.Errorf("roster: %w", err)
		}
		pl.AddSystem(sys, entry.Name, planner.Priority(entry.Priority))
		printOK(fmt.Sprintf("registered %s (priority %d)", entry.Name, entry.Priority))
	}
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printReady(fmt.Sprintf("dispatch loop running at %s", cfg.Planner.TickRate))

	ticker := time.NewTicker(cfg.Planner.TickRate)
	defer ticker.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			pl.Wait()
			log.Info("shutting down", zap.Uint64("ticks", n))
			return nil
		case <-ticker.C:
			pl.Dispatch(Tick{N: n, DT: cfg.Planner.TickRate})
			n++
		}
	}
}

// buildSystem maps a roster entry's name to a concrete System
// implementation.
func buildSystem(name string, log *zap.Logger) (planner.System[Tick], error) {
	switch name {
	case "movement":
		return MovementSystem{}, nil
	case "regen":
		return RegenSystem{Amount: 2}, nil
	case "spawn":
		return SpawnSystem{Every: 10, Log: log}, nil
	case "reaper":
		return ReaperSystem{}, nil
	default:
		return nil, fmt.Errorf("unknown system %q", name)
	}
}

func seedEntities(w *world.World, n int) {
	for i := 0; i < n; i++ {
		e := w.CreateEntity()
		id := e.ID()
		world.Write[Position](w).Insert(id, &Position{X: rand.Float64() * 100, Y: rand.Float64() * 100})
		world.Write[Velocity](w).Insert(id, &Velocity{X: rand.Float64()*2 - 1, Y: rand.Float64()*2 - 1})
		world.Write[Health](w).Insert(id, &Health{Current: 100, Max: 100})
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Info("metrics listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics server stopped", zap.Error(err))
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
