package config

import "sort"

// Presets adjust the default configuration.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"stiff": func(c *Config) {
		c.Params.SpringConstant = 12
		c.Params.Friction = 0.97
	},
	"slack": func(c *Config) {
		c.Params.SpringConstant = 1.5
		c.Params.RestLength = 40
	},
	"heavy": func(c *Config) {
		c.Chain.Mass = 2
		c.Params.Gravity = 20
	},
	"floaty": func(c *Config) {
		c.Params.Gravity = 1
		c.Params.Friction = 0.995
	},
	"rope": func(c *Config) {
		c.Chain.Nodes = 30
		c.Chain.Gap = 30
		c.Params.RestLength = 25
		c.Params.SpringConstant = 8
	},
}

// GetPreset returns the default configuration with the named preset
// applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply applies the named preset to cfg and reports whether it exists.
func Apply(cfg *Config, name string) bool {
	apply, ok := Presets[name]
	if ok {
		apply(cfg)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
