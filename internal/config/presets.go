package config

import "sort"

var Presets = map[string]ScenarioConfig{
	"cliff": {
		StartX: 0, StartY: 15, TargetX: 104.8, TargetY: 0, Speed: 30, AngleDeg: 45,
	},
	"field": {
		StartX: 0, StartY: 4, TargetX: 90, TargetY: 0, Speed: 30, AngleDeg: 45,
	},
	"flat": {
		StartX: 0, StartY: 0, TargetX: 80, TargetY: 0, Speed: 30, AngleDeg: 30,
	},
	"mortar": {
		StartX: 0, StartY: 10, TargetX: 200, TargetY: 0, Speed: 60, AngleDeg: 60,
	},
}

// GetPreset returns the defaults with the named scenario applied, or nil.
func GetPreset(name string) *Config {
	scenario, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scenario = scenario
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
