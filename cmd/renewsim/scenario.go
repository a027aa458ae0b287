package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"renewable_simulator/internal/model"
	"renewable_simulator/internal/simulator"
)

// scenarioFile is the YAML document the CLI reads. Technology selects the
// section report simulates; it defaults to whichever section is present.
type scenarioFile struct {
	Name       string                     `yaml:"name"`
	Technology model.Technology           `yaml:"technology"`
	Wind       *model.WindRequest         `yaml:"wind"`
	Solar      *model.SolarRequest        `yaml:"solar"`
	Grid       *simulator.OrientationGrid `yaml:"grid"`
}

func loadScenario(path string) (scenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scenarioFile{}, fmt.Errorf("reading scenario: %w", err)
	}
	var sc scenarioFile
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return scenarioFile{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if sc.Wind == nil && sc.Solar == nil {
		return scenarioFile{}, fmt.Errorf("%s: scenario needs a wind or solar section", path)
	}
	if sc.Technology == "" {
		if sc.Wind != nil {
			sc.Technology = model.TechnologyWind
		} else {
			sc.Technology = model.TechnologySolar
		}
	}
	if !sc.Technology.Valid() {
		return scenarioFile{}, fmt.Errorf("%s: unknown technology %q", path, sc.Technology)
	}
	return sc, nil
}

func (sc scenarioFile) title() string {
	if sc.Name != "" {
		return sc.Name
	}
	return fmt.Sprintf("%s investment", sc.Technology)
}

func (sc scenarioFile) simulate(ctx context.Context, e *simulator.Engine) (model.Result, error) {
	switch sc.Technology {
	case model.TechnologyWind:
		if sc.Wind == nil {
			return model.Result{}, fmt.Errorf("technology wind needs a wind section")
		}
		return e.SimulateWind(ctx, *sc.Wind)
	default:
		if sc.Solar == nil {
			return model.Result{}, fmt.Errorf("technology solar needs a solar section")
		}
		return e.SimulateSolar(ctx, *sc.Solar)
	}
}
