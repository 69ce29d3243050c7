// Package sim wires the environment, agent store, spatial systems, and PRNG into
// one Engine and exposes the two normative entry points: Create and RunHeadless.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/ecosimocean/config"
	"github.com/pthm-cable/ecosimocean/environment"
	"github.com/pthm-cable/ecosimocean/species"
	"github.com/pthm-cable/ecosimocean/store"
	"github.com/pthm-cable/ecosimocean/systems"
)

// Engine owns everything needed to run one simulation instance: environment, agent
// store, systems, and a single PRNG. Nothing here is package-global (§9 "Global
// state... instance-scoped"); two Engines in the same process never interact.
type Engine struct {
	cfg *config.Config
	env *environment.Environment
	st  *store.Store
	rng *rand.Rand

	fauna systems.FaunaParams
	diet  systems.Diet

	threat     *systems.Threat
	population *systems.Population
	feeding    *systems.Feeding
	movement   *systems.Movement

	tick int
	log  *slog.Logger
}

// Create constructs a fully-initialized Engine from configuration and seed (§6).
func Create(cfg *config.Config, seed int64, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Sim.GridWidth <= 0 || cfg.Sim.GridHeight <= 0 || cfg.Sim.GridDepth <= 0 {
		return nil, fmt.Errorf("%w: grid dimensions must be positive", config.ErrMissingKey)
	}

	rng := rand.New(rand.NewSource(seed))

	envParams := environment.Params{
		InitialFoodDensity:       cfg.Sim.InitialFoodDensity,
		PlanktonDiffusionRate:    cfg.Sim.PlanktonDiffusionRate,
		PlanktonMaxGrowthRate:    cfg.Sim.PlanktonMaxGrowthRate,
		MarineSnowDecayRate:      cfg.Sim.MarineSnowDecayRate,
		MarineSnowSinkingFactor:  cfg.Sim.MarineSnowSinkingFactor,
		SnowToPlanktonConversion: cfg.Sim.SnowToPlanktonConversion,
		EventChance:              cfg.Sim.EventChance,
		EventDuration:            cfg.Sim.EventDuration,
		PlanktonBloomModifier:    cfg.Sim.PlanktonBloomModifier,
		DiseaseZoneModifier:      cfg.Sim.DiseaseZoneModifier,
		Generation:               cfg.Sim.BiomeConfig(),
		NumRefuges:               cfg.Sim.EnvironmentGeneration.NumRefuges,
		RefugeSize:               cfg.Sim.EnvironmentGeneration.RefugeSize,
	}
	env := environment.New(cfg.Sim.GridWidth, cfg.Sim.GridHeight, cfg.Sim.GridDepth, envParams, rng)

	st := store.New(cfg.Sim.InitialAgentCapacity, cfg.Sim.AbsoluteMaxAgents)

	fauna := systems.BuildFaunaParams(cfg.Fauna)
	diet := systems.BuildDiet(cfg.Diet)

	eng := &Engine{
		cfg:        cfg,
		env:        env,
		st:         st,
		rng:        rng,
		fauna:      fauna,
		diet:       diet,
		threat:     systems.NewThreat(),
		population: systems.NewPopulation(fauna),
		feeding:    systems.NewFeeding(fauna, diet, cfg.Sim.LowPlanktonThreshold, cfg.Sim.RefugeHuntDebuff),
		movement:   systems.NewMovement(fauna),
		log:        logger,
	}

	eng.spawnInitial()
	return eng, nil
}

func (e *Engine) spawnInitial() {
	for _, id := range species.All {
		name := id.String()
		count := e.cfg.Sim.InitialCounts[name]
		if count <= 0 {
			continue
		}
		entry := e.fauna[id]
		for n := 0; n < count; n++ {
			pos := store.Vec3{
				X: float64(e.rng.Intn(e.env.W)),
				Y: float64(e.rng.Intn(e.env.H)),
				Z: float64(e.rng.Intn(e.env.D)),
			}
			if e.st.Spawn(id, pos, entry.InitialEnergy, e.rng) < 0 {
				e.log.Warn("initial population truncated at capacity ceiling", "species", name)
				break
			}
		}
	}
}

// TickCounts is one entry of the history returned by RunHeadless (§6).
type TickCounts struct {
	Tick        int `csv:"tick"`
	Zooplankton int `csv:"zooplankton"`
	SmallFish   int `csv:"smallfish"`
	Crab        int `csv:"crab"`
	Seal        int `csv:"seal"`
	SeaTurtle   int `csv:"seaturtle"`
}

// step runs the fixed tick-scheduler phase order of §4.8.
func (e *Engine) step() {
	isBootstrap := e.tick < e.cfg.Sim.BootstrapPeriod

	e.env.Update(e.rng)
	if e.cfg.Sim.ThreatUpdateInterval > 0 && e.tick%e.cfg.Sim.ThreatUpdateInterval == 0 {
		e.threat.Update(e.st)
	}

	e.population.MetabolismAndAging(e.st, e.env, e.cfg.Sim.BootstrapMetabolicModifier, isBootstrap)
	e.population.Overcrowding(e.st, e.rng)
	e.population.Disease(e.st, e.env, e.rng)
	e.population.Deaths(e.st)
	e.population.Reproduction(e.st, e.rng)

	e.feeding.Plankton(e.st, e.env)
	e.feeding.Scavenge(e.st, e.env)
	e.feeding.Predation(e.st, e.env, e.rng, isBootstrap)

	e.movement.Update(e.st, e.env, e.rng)

	e.st.Cleanup(e.tick, e.cfg.Sim.CleanupInterval, e.sizeOf, e.env.DepositMarineSnow)

	e.tick++
}

func (e *Engine) sizeOf(id species.ID) float64 {
	return e.fauna[id].Size
}

func (e *Engine) counts() TickCounts {
	return TickCounts{
		Tick:        e.tick,
		Zooplankton: e.st.CountSpecies(species.Zooplankton),
		SmallFish:   e.st.CountSpecies(species.SmallFish),
		Crab:        e.st.CountSpecies(species.Crab),
		Seal:        e.st.CountSpecies(species.Seal),
		SeaTurtle:   e.st.CountSpecies(species.SeaTurtle),
	}
}

// Environment exposes the engine's environment for read-only inspection (tests,
// telemetry); callers must not mutate returned fields outside a tick.
func (e *Engine) Environment() *environment.Environment { return e.env }

// Store exposes the engine's agent store for read-only inspection.
func (e *Engine) Store() *store.Store { return e.st }

// Tick returns the current tick counter.
func (e *Engine) Tick() int { return e.tick }

// RunHeadless runs the engine for up to tickCount ticks, returning the per-tick
// population history. It stops early once the core prey-predator web has
// collapsed (tick > bootstrap_period, zooplankton and smallfish both extinct, §6),
// and also stops early if ctx is cancelled, returning the prefix collected so far
// alongside ctx.Err() (an ambient Go concern; it changes no per-tick numeric
// semantics).
func RunHeadless(ctx context.Context, e *Engine, tickCount int) ([]TickCounts, error) {
	history := make([]TickCounts, 0, tickCount)

	for t := 0; t < tickCount; t++ {
		select {
		case <-ctx.Done():
			return history, ctx.Err()
		default:
		}

		e.step()
		tc := e.counts()
		history = append(history, tc)

		if e.tick > e.cfg.Sim.BootstrapPeriod && tc.Zooplankton == 0 && tc.SmallFish == 0 {
			break
		}
	}

	return history, nil
}
