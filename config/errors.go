package config

import "errors"

// Sentinel errors for configuration construction failures (§7 "Configuration errors").
// Always wrapped with fmt.Errorf("%w: ...") so callers can errors.Is against these.
var (
	ErrMissingKey          = errors.New("config: missing required key")
	ErrUnknownSpecies      = errors.New("config: unknown species")
	ErrUnresolvedArchetype = errors.New("config: unresolved archetype")
)
