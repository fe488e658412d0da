package config

// Presets are teaching scenarios keyed by plant kind then name.
var Presets = map[string]map[string]*Config{
	"first_order": {
		"default": {
			Plant: "first_order", K: 1.0, Tau: 1.0,
			Gains: GainsConfig{Kp: 1.0, Ki: 0.1, Kd: 0.05},
			Dt:    0.01, Duration: 10.0,
		},
		"sluggish": {
			Plant: "first_order", K: 1.0, Tau: 4.0,
			Gains: GainsConfig{Kp: 2.0, Ki: 0.5, Kd: 0.0},
			Dt:    0.01, Duration: 20.0,
		},
		"p_only": {
			Plant: "first_order", K: 1.0, Tau: 1.0,
			Gains: GainsConfig{Kp: 2.0},
			Dt:    0.01, Duration: 10.0,
		},
	},
	"second_order": {
		"underdamped": {
			Plant: "second_order", K: 1.0, Wn: 2.0, Zeta: 0.3,
			Gains: GainsConfig{Kp: 1.0, Ki: 0.1, Kd: 0.2},
			Dt:    0.01, Duration: 15.0,
		},
		"overdamped": {
			Plant: "second_order", K: 1.0, Wn: 1.0, Zeta: 1.5,
			Gains: GainsConfig{Kp: 2.0, Ki: 0.3, Kd: 0.1},
			Dt:    0.01, Duration: 20.0,
		},
		"critical": {
			Plant: "second_order", K: 1.0, Wn: 1.0, Zeta: 1.0,
			Gains: GainsConfig{Kp: 1.5, Ki: 0.2, Kd: 0.1},
			Dt:    0.01, Duration: 15.0,
		},
	},
	"integrator": {
		"p_only": {
			Plant: "integrator", K: 1.0,
			Gains: GainsConfig{Kp: 1.0},
			Dt:    0.01, Duration: 10.0,
		},
		"pi": {
			Plant: "integrator", K: 1.0,
			Gains: GainsConfig{Kp: 1.0, Ki: 0.2},
			Dt:    0.01, Duration: 15.0,
		},
	},
}

func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	return names
}
