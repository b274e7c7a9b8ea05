package photon

import "testing"

func validConfig() Config {
	return Config{
		Emissions:               1000,
		CausticFactor:           1,
		MaxRadius:               0.5,
		MaxCausticRadius:        0.3,
		KNearestPhotons:         50,
		MaxPhotonsPerOctreeLeaf: 8,
		NumThreads:              1,
		MaxRayDepth:             8,
		MinRayDepth:             2,
	}
}

func TestConfigValidateAcceptsValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected a valid config, got error: %v", err)
	}
}

func TestConfigValidateCatchesEachInvariant(t *testing.T) {
	mutations := []func(*Config){
		func(c *Config) { c.Emissions = 0 },
		func(c *Config) { c.CausticFactor = 0.5 },
		func(c *Config) { c.MaxRadius = 0 },
		func(c *Config) { c.MaxCausticRadius = -1 },
		func(c *Config) { c.KNearestPhotons = 0 },
		func(c *Config) { c.MaxPhotonsPerOctreeLeaf = 0 },
		func(c *Config) { c.NumThreads = 0 },
		func(c *Config) { c.MaxRayDepth = 0 },
		func(c *Config) { c.MinRayDepth = -1 },
	}
	for i, mutate := range mutations {
		cfg := validConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("mutation %d: expected a validation error, got none", i)
		}
	}
}
