package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/heliosworks/orrery-simulator/core"
	"github.com/heliosworks/orrery-simulator/internal/logging"
	"github.com/heliosworks/orrery-simulator/internal/observability"
	"github.com/heliosworks/orrery-simulator/kb"
	"github.com/heliosworks/orrery-simulator/model"
	"github.com/heliosworks/orrery-simulator/procgen"
	"github.com/heliosworks/orrery-simulator/timectrl"
)

func main() {
	catalogPath := flag.String("catalog", "configs/nearby_stars.json", "path to the nearby-stars catalog")
	duration := flag.Duration("duration", 60*time.Second, "total wall-clock run duration (0 runs forever)")
	tick := flag.Duration("tick", 100*time.Millisecond, "wall-clock tick interval")
	timeScale := flag.Float64("time-scale", timectrl.MaxScale, "simulated seconds per wall second (0 starts paused)")
	seed := flag.Uint64("seed", 42, "seed for procedural system generation")
	focus := flag.String("focus", "", "system ID to focus (defaults to the first catalog system)")
	metricsAddr := flag.String("metrics-addr", ":9091", "listen address for the /metrics endpoint (empty disables)")
	epochFlag := flag.String("epoch", "2026-01-01T00:00:00Z", "simulation epoch in RFC 3339")

	flag.Parse()

	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	log := logging.NewFromEnv()
	ctx := context.Background()

	epoch, err := time.Parse(time.RFC3339, *epochFlag)
	if err != nil {
		fail(ctx, log, "invalid -epoch", err)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		fail(ctx, log, "tracing init failed", err)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	reg := prometheus.DefaultRegisterer
	simMetrics, err := observability.NewSimulationCollector(reg)
	if err != nil {
		fail(ctx, log, "metrics init failed", err)
	}
	genMetrics, err := observability.NewGenerationCollector(reg)
	if err != nil {
		fail(ctx, log, "metrics init failed", err)
	}

	if *metricsAddr != "" {
		go serveMetrics(ctx, *metricsAddr, simMetrics, log)
	}

	// ==== Knowledge base: catalog systems plus procedural gap-fill ====

	store := kb.NewKnowledgeBase()

	summary, err := loadUniverse(ctx, store, *catalogPath, epoch, *seed, genMetrics, log)
	if err != nil {
		fail(ctx, log, "universe setup failed", err)
	}

	// ==== Engine + time controller ====

	engine := core.NewSimulationEngine(store, model.DefaultMultiSystemConfig(), epoch, log)
	engine.SetMetrics(simMetrics)

	focusSystem := *focus
	if focusSystem == "" && len(summary.SystemIDs) > 0 {
		focusSystem = summary.SystemIDs[0]
	}
	if store.GetSystem(focusSystem) == nil {
		fail(ctx, log, "unknown focus system", fmt.Errorf("no system %q in catalog", focusSystem))
	}
	engine.SetFocusSystem(ctx, focusSystem)

	unsubscribe := store.Subscribe(func(ev kb.Event) {
		if ev.Type == kb.EventSystemStateChanged {
			simMetrics.RecordTransition(ev.OldState.String(), ev.NewState.String())
		}
	})
	defer unsubscribe()

	tc := timectrl.NewTimeController(epoch, *tick, *timeScale)
	if *timeScale != 0 && tc.Scale() != *timeScale {
		log.Warn(ctx, "time scale clamped",
			logging.Float64("requested", *timeScale),
			logging.Float64("effective", tc.Scale()))
	}
	tc.AddListener(func(simTime time.Time) {
		engine.Tick(ctx, simTime)
	})

	engine.RegisterTickListener(func(frame uint64, simTime time.Time) {
		// Once per wall-clock minute at the default tick, surface where the
		// focused system's bodies are.
		if frame%600 != 0 {
			return
		}
		for _, body := range store.BodiesInSystem(focusSystem) {
			render := engine.Origin().RenderPosition(body.Position)
			fmt.Printf("[%s] %-28s %-10s (%8.2f, %8.2f, %8.2f) ru\n",
				simTime.Format(time.RFC3339), body.Name, body.Type, render.X, render.Y, render.Z)
		}
	})

	log.Info(ctx, "starting simulation",
		logging.String("focus", focusSystem),
		logging.Int("systems", len(summary.SystemIDs)),
		logging.Float64("time_scale", tc.Scale()),
		logging.Any("tick", tick.String()))

	done := tc.Start(*duration)
	<-done

	log.Info(ctx, "simulation complete",
		logging.Any("frames", engine.Frame()),
		logging.Float64("sim_elapsed_s", tc.ElapsedSeconds()))
}

// loadUniverse reads the star catalog, inserts confirmed systems and
// bodies, then fills the gaps in every system with procedurally generated
// planets, belts, and clouds.
func loadUniverse(ctx context.Context, store *kb.KnowledgeBase, catalogPath string, epoch time.Time, seed uint64, genMetrics *observability.GenerationCollector, log logging.Logger) (*core.CatalogSummary, error) {
	tracer := otel.Tracer("orrery-simulator")
	ctx, span := tracer.Start(ctx, "load_universe")
	defer span.End()

	f, err := os.Open(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %q: %w", catalogPath, err)
	}
	defer f.Close()

	records, err := core.LoadStarCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("decoding catalog %q: %w", catalogPath, err)
	}

	summary, err := core.PopulateFromCatalog(ctx, store, records, epoch.Unix(), log)
	if err != nil {
		return nil, fmt.Errorf("populating catalog systems: %w", err)
	}

	// Gap-fill around each system's primary star only; secondary members
	// of binaries keep just their confirmed planets.
	seenSystem := make(map[string]bool)
	for _, star := range summary.Stars {
		if seenSystem[star.SystemID] {
			continue
		}
		seenSystem[star.SystemID] = true

		genStart := time.Now()
		genCtx, genSpan := tracer.Start(ctx, "generate_system")
		genSpan.SetAttributes(attribute.String("system", star.SystemID))

		arch := procgen.GenerateArchitecture(
			star.Name, star.LuminositySol,
			len(star.ExistingOrbitsAU), star.ExistingOrbitsAU, seed)

		added, err := procgen.PopulateSystem(genCtx, store, star.SystemID, star.StarBodyID, star.Name, arch, seed, log)
		genSpan.End()
		if err != nil {
			return nil, fmt.Errorf("populating system %q: %w", star.SystemID, err)
		}

		genMetrics.ArchitecturesTotal.Inc()
		genMetrics.GenerationDuration.Observe(time.Since(genStart).Seconds())
		for _, p := range arch.RockyPlanets {
			genMetrics.PlanetsTotal.WithLabelValues(p.Type.String()).Inc()
		}
		for _, p := range arch.GasGiants {
			genMetrics.PlanetsTotal.WithLabelValues(p.Type.String()).Inc()
		}

		log.Info(ctx, "system generation complete",
			logging.String("system", star.SystemID),
			logging.Int("bodies_added", added))
	}

	span.SetAttributes(attribute.Int("systems", len(summary.SystemIDs)))
	return summary, nil
}

func serveMetrics(ctx context.Context, addr string, collector *observability.SimulationCollector, log logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	log.Info(ctx, "metrics endpoint listening", logging.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error(ctx, "metrics server stopped", logging.Any("error", err))
	}
}

func fail(ctx context.Context, log logging.Logger, msg string, err error) {
	log.Error(ctx, msg, logging.Any("error", err))
	os.Exit(1)
}
