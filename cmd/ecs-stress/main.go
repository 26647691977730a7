package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/plus3/ecsloop/ecs"
	"github.com/plus3/ecsloop/internal/config"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ecs-stress:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Optional TOML or YAML config file.")
	duration := flag.Duration("duration", 0, "The total duration the test should run for.")
	entityCount := flag.Int("entities", -1, "The initial number of entities to create.")
	systemCount := flag.Int("systems", -1, "The number of generated systems.")
	componentCount := flag.Int("components", -1, "Maximum components per entity.")
	tickRate := flag.Duration("tick-rate", 0, "Interval between engine ticks.")
	seed := flag.Uint64("seed", 0, "Random seed; 0 picks one.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error).")
	logFormat := flag.String("log-format", "", "Log format (json or console).")
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Stress.Duration = *duration
		case "entities":
			cfg.Stress.Entities = *entityCount
		case "systems":
			cfg.Stress.Systems = *systemCount
		case "components":
			cfg.Stress.Components = *componentCount
		case "tick-rate":
			cfg.Stress.TickRate = *tickRate
		case "seed":
			cfg.Stress.Seed = *seed
		case "gc-pause-metrics":
			cfg.Stress.GCPauseMetrics = *gcPauseMetrics
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-format":
			cfg.Logging.Format = *logFormat
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Stress.Seed == 0 {
		cfg.Stress.Seed = rand.Uint64()
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return eris.Wrap(err, "create logger")
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting ECS stress test",
		zap.Uint64("seed", cfg.Stress.Seed),
		zap.Duration("duration", cfg.Stress.Duration),
	)

	rng := rand.New(rand.NewPCG(cfg.Stress.Seed, cfg.Stress.Seed))

	registry := ecs.NewRegistry(ecs.WithRegistryLogger(logger.Named("registry")))
	timer := &frameTimer{}
	ticker := ecs.NewIntervalTicker(cfg.Stress.TickRate)
	engine := ecs.NewEngine(registry, ticker,
		ecs.WithLogger(logger.Named("engine")),
		ecs.WithSystems(timer.systems()...),
		ecs.WithSystems(generateSystems(rng, cfg.Stress.Systems)...),
	)

	logger.Info("populating registry", zap.Int("entities", cfg.Stress.Entities))
	populate(registry, rng, cfg.Stress.Entities, cfg.Stress.Components)
	logger.Info("population complete")

	report := &Report{
		Duration:       cfg.Stress.Duration,
		TickRate:       cfg.Stress.TickRate,
		Entities:       cfg.Stress.Entities,
		Components:     cfg.Stress.Components,
		Systems:        cfg.Stress.Systems,
		Seed:           cfg.Stress.Seed,
		GCPauseMetrics: cfg.Stress.GCPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Stress.Duration)
	defer cancel()

	startTime := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		engine.Start()
		defer engine.Stop()
		return ignoreDone(ticker.Run(ctx))
	})

	g.Go(func() error {
		progress := time.NewTicker(time.Second)
		defer progress.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-progress.C:
				logger.Info("progress", zap.Uint64("frames", timer.frames.Load()))
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = timer.frames.Load()
	report.FinalEntities = registry.Len()
	report.UpdateTime.Samples = timer.samples
	report.UpdateTime.Finalize()
	report.SlowestSystems = slowestSystems(engine.Stats(), 10)
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished", zap.Uint64("frames", report.TotalUpdates))

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return eris.Wrap(err, "generate report")
	}
	fmt.Println("--- End of Report ---")
	return nil
}

// ignoreDone treats the end of the run window as success.
func ignoreDone(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
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
