package config

// DietConfig maps a predator species name to the list of prey species names it hunts
// (§6, "Diet:"). Populated directly by yaml.Unmarshal; no inheritance applies here.
type DietConfig map[string][]string
