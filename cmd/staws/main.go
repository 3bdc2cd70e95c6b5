package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/staws/sim/internal/config"
	"github.com/staws/sim/internal/core/ecs"
	"github.com/staws/sim/internal/core/event"
	coresys "github.com/staws/sim/internal/core/system"
	"github.com/staws/sim/internal/data"
	"github.com/staws/sim/internal/marker"
	"github.com/staws/sim/internal/physics"
	"github.com/staws/sim/internal/projection"
	"github.com/staws/sim/internal/scripting"
	"github.com/staws/sim/internal/system"
	"github.com/staws/sim/internal/world"
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

func printBanner(scenario string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              staws  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        gravity · thrust · look-ahead      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mscenario:\033[0m %s\n\n", scenario)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ──────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/staws.toml"
	if p := os.Getenv("STAWS_CONFIG"); p != "" {
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

	// 3. Scenario
	scenario, err := data.LoadScenario(cfg.Scenario.Path)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	printBanner(scenario.Name)

	printSection("data")
	bus := event.NewBus()
	state := world.NewState(ecs.NewWorld(), bus)
	subscribeLogging(bus, log)

	n, err := spawnScenario(state, scenario)
	if err != nil {
		return fmt.Errorf("spawn scenario: %w", err)
	}
	printStat("bodies", n)
	printStat("autopilots", state.Autopilots.Len())

	// 4. Scripts
	var pilot system.Pilot
	if cfg.Scripting.Dir != "" {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		checkAutopilots(state, engine, log)
		pilot = engine
		printOK("lua autopilots loaded")
	}
	fmt.Println()

	// 5. Systems
	runner, pool, err := buildRunner(cfg, state, bus, pilot, log)
	if err != nil {
		return err
	}

	// 6. Start tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("running")
	printReady(fmt.Sprintf("tick %s, time scale %.2f", cfg.Simulation.TickRate, cfg.Simulation.TimeScale))
	if cfg.Projection.Enabled {
		printReady(fmt.Sprintf("look-ahead %.2fs at %d steps/s", cfg.Projection.Horizon, cfg.Projection.Resolution))
	}
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received",
				zap.String("signal", sig.String()),
				zap.Uint64("ticks", runner.Ticks()))
			released := releaseMarkers(state, pool)
			log.Info("simulation stopped", zap.Int("markers_released", released))
			return nil
		}
	}
}

// simulator builds the force model from config.
func simulator(cfg *config.Config) physics.Simulator {
	sim := physics.NewSimulator(physics.Gravity{
		G:           cfg.Simulation.GravConstant,
		MinDistance: cfg.Simulation.MinDistance,
	})
	if cfg.Simulation.Workers > 1 {
		sim.Workers = cfg.Simulation.Workers
	}
	sim.ClampThrottle = cfg.Simulation.ClampThrottle
	return sim
}

// buildRunner registers every tick system. The marker pool is returned so
// shutdown can release it.
func buildRunner(cfg *config.Config, state *world.State, bus *event.Bus, pilot system.Pilot, log *zap.Logger) (*coresys.Runner, *marker.Pool, error) {
	clock := system.NewClock(cfg.Simulation.TimeScale)
	sim := simulator(cfg)
	pool := marker.NewPool(state)

	runner := coresys.NewRunner()
	runner.Register(system.NewControlSystem(state, pilot, clock, log))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewPhysicsSystem(state, bus, sim, clock, log))
	if cfg.Projection.Enabled {
		projector, err := projection.NewProjector(sim, cfg.ProjectionParams())
		if err != nil {
			return nil, nil, fmt.Errorf("projection: %w", err)
		}
		projSys := system.NewProjectionSystem(state, projector)
		runner.Register(projSys)
		runner.Register(system.NewMarkerSystem(pool, projSys, bus, log))
	}
	runner.Register(system.NewReportSystem(state, pool, clock, cfg.Report.Interval, log))
	runner.Register(system.NewCleanupSystem(state.World()))
	return runner, pool, nil
}

// releaseMarkers despawns every pooled marker and flushes the destroy queue.
func releaseMarkers(state *world.State, pool *marker.Pool) int {
	d := pool.Clear()
	state.World().FlushDestroyQueue()
	return d.Destroyed
}

// spawnScenario creates every scenario body in file order.
func spawnScenario(state *world.State, sc *data.Scenario) (int, error) {
	n := 0
	for _, spec := range sc.Specs() {
		if _, err := state.SpawnBody(spec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// checkAutopilots warns about bodies bound to functions no script defines.
func checkAutopilots(state *world.State, engine *scripting.Engine, log *zap.Logger) {
	for _, id := range state.Autopilots.IDs() {
		ap, _ := state.Autopilots.Get(id)
		if !engine.HasFunction(ap.Function) {
			log.Warn("autopilot function not defined",
				zap.String("body", state.Name(id)),
				zap.String("func", ap.Function))
		}
	}
}

func subscribeLogging(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(ev event.BodySpawned) {
		log.Info("body spawned",
			zap.String("name", ev.Name),
			zap.String("kind", ev.Kind),
			zap.Stringer("id", ev.EntityID))
	})
	event.Subscribe(bus, func(ev event.SingularityDetected) {
		log.Debug("singularity", zap.Uint64("tick", ev.Tick), zap.Int("pairs", ev.Pairs))
	})
	event.Subscribe(bus, func(ev event.MarkersReconciled) {
		log.Debug("markers reconciled", zap.Int("total", ev.Total))
	})
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
