package systems

import (
	"github.com/pthm-cable/ecosimocean/config"
	"github.com/pthm-cable/ecosimocean/species"
)

// FaunaParams indexes the resolved per-species configuration by species.ID instead
// of by name, for the hot-path lookups every system needs.
type FaunaParams map[species.ID]*config.FaunaEntry

// BuildFaunaParams projects a config.FaunaConfig (name-keyed) onto species.ID keys.
// Every species.All entry is assumed present; config.Load validates this, sim.Create
// does not.
func BuildFaunaParams(fauna config.FaunaConfig) FaunaParams {
	out := make(FaunaParams, len(species.All))
	for _, id := range species.All {
		out[id] = fauna[id.String()]
	}
	return out
}

// Diet indexes config.DietConfig (name-keyed) by species.ID.
type Diet map[species.ID][]species.ID

// BuildDiet projects a config.DietConfig onto species.ID keys. Unknown names are
// assumed already rejected by config.Load's validation.
func BuildDiet(diet config.DietConfig) Diet {
	out := make(Diet, len(diet))
	for predatorName, preyNames := range diet {
		predator, _ := species.Parse(predatorName)
		prey := make([]species.ID, 0, len(preyNames))
		for _, name := range preyNames {
			id, _ := species.Parse(name)
			prey = append(prey, id)
		}
		out[predator] = prey
	}
	return out
}
